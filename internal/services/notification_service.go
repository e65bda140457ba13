package services

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
	"golang.org/x/sync/errgroup"
)

// PushSender is the narrow send contract the core needs from the push
// transport. Implementations must not panic into the caller; a failed
// send is just an error result.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMSender sends pushes through Firebase Cloud Messaging
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender wraps a messaging client
func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

// Send delivers a single push message to one device token
func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	return err
}

// Recipient identifies one push target
type Recipient struct {
	UserID uint   `json:"user_id"`
	Token  string `json:"token"`
}

// SendResult is the per-recipient outcome of a fan-out
type SendResult struct {
	UserID uint   `json:"user_id"`
	Token  string `json:"token,omitempty"`
	Status string `json:"status"` // sent | failed | skipped
	Error  string `json:"error,omitempty"`
}

// maxConcurrentSends bounds the notification fan-out
const maxConcurrentSends = 8

// NotificationService fans pushes out to many recipients. Each send is
// independent; the aggregate waits for every outcome and an individual
// failure is reported in its result, never escalated to an overall error.
type NotificationService struct {
	sender PushSender
}

// NewNotificationService wires the dispatcher to a push transport
func NewNotificationService(sender PushSender) *NotificationService {
	return &NotificationService{sender: sender}
}

// Broadcast sends the same message to every recipient concurrently and
// returns one result per recipient, in input order. Recipients without a
// device token are skipped.
func (s *NotificationService) Broadcast(ctx context.Context, recipients []Recipient, title, body string, data map[string]string) []SendResult {
	results := make([]SendResult, len(recipients))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)

	for i, r := range recipients {
		i, r := i, r
		if r.Token == "" {
			results[i] = SendResult{UserID: r.UserID, Status: "skipped", Error: "no device token"}
			continue
		}
		g.Go(func() error {
			if err := s.sender.Send(ctx, r.Token, title, body, data); err != nil {
				log.Printf("push to user %d failed: %v", r.UserID, err)
				results[i] = SendResult{UserID: r.UserID, Token: r.Token, Status: "failed", Error: err.Error()}
				return nil
			}
			results[i] = SendResult{UserID: r.UserID, Token: r.Token, Status: "sent"}
			return nil
		})
	}

	// Goroutines never return errors; Wait only joins them.
	_ = g.Wait()
	return results
}
