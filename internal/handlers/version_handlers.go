package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// VersionHandler serves the client app version endpoints
type VersionHandler struct {
	db *gorm.DB
}

// NewVersionHandler wires the version endpoints
func NewVersionHandler(db *gorm.DB) *VersionHandler {
	return &VersionHandler{db: db}
}

// GetVersion returns the published app version row
func (h *VersionHandler) GetVersion(c echo.Context) error {
	var version models.AppVersion
	err := h.db.WithContext(c.Request().Context()).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.NotFoundError("app version not configured")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, version)
}

// SetVersion creates or replaces the published app version row
func (h *VersionHandler) SetVersion(c echo.Context) error {
	var req VersionRequest
	if err := c.Bind(&req); err != nil {
		return services.ValidationError("invalid JSON payload")
	}
	if req.CurrentVersion == "" || req.MandatoryVersion == "" {
		return services.ValidationError("current_version and mandatory_version are required")
	}

	db := h.db.WithContext(c.Request().Context())

	var version models.AppVersion
	err := db.First(&version).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		version = models.AppVersion{
			CurrentVersion:   req.CurrentVersion,
			MandatoryVersion: req.MandatoryVersion,
			UpdateURL:        req.UpdateURL,
		}
		if err := db.Create(&version).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		version.CurrentVersion = req.CurrentVersion
		version.MandatoryVersion = req.MandatoryVersion
		if req.UpdateURL != "" {
			version.UpdateURL = req.UpdateURL
		}
		if err := db.Save(&version).Error; err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "App version saved successfully",
		"data":    version,
	})
}

// CheckUpdate compares a client's version against the published row and
// tells it whether an update is available and whether it is mandatory.
func (h *VersionHandler) CheckUpdate(c echo.Context) error {
	clientVersion := c.QueryParam("version")
	if clientVersion == "" {
		return services.ValidationError("version query parameter is required")
	}

	var version models.AppVersion
	err := h.db.WithContext(c.Request().Context()).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.NotFoundError("app version not configured")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"update_available": compareVersions(clientVersion, version.CurrentVersion) < 0,
		"update_mandatory": compareVersions(clientVersion, version.MandatoryVersion) < 0,
		"current_version":  version.CurrentVersion,
		"update_url":       version.UpdateURL,
	})
}

// compareVersions orders dotted numeric versions. Missing segments count
// as zero, non-numeric segments as zero as well.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
