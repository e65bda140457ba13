package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"goldsaver_api/internal/services"
)

// HTTPErrorHandler maps domain errors onto the HTTP response. Signature
// failures get their own log line since they are security relevant;
// everything unclassified collapses to a generic 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal Server Error"

	var svcErr *services.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &svcErr):
		code = svcErr.HTTPStatus()
		message = svcErr.Message
		if svcErr.Kind == services.KindAuthenticity {
			log.Printf("SECURITY: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		} else if svcErr.Kind == services.KindDependency {
			log.Printf("dependency failure on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	default:
		log.Printf("unhandled error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if err := c.JSON(code, map[string]string{"message": message}); err != nil {
		c.Logger().Error(err)
	}
}
