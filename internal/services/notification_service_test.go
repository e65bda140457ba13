package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (s *recordingSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[token] {
		return errors.New("device unreachable")
	}
	s.sent = append(s.sent, token)
	return nil
}

func TestBroadcastReportsPerRecipientOutcome(t *testing.T) {
	sender := &recordingSender{failFor: map[string]bool{"token-b": true}}
	svc := NewNotificationService(sender)

	recipients := []Recipient{
		{UserID: 1, Token: "token-a"},
		{UserID: 2, Token: "token-b"},
		{UserID: 3, Token: ""},
		{UserID: 4, Token: "token-d"},
	}

	results := svc.Broadcast(context.Background(), recipients, "Title", "Body", nil)

	require.Len(t, results, len(recipients))
	assert.Equal(t, "sent", results[0].Status)
	assert.Equal(t, "failed", results[1].Status)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, "skipped", results[2].Status)
	assert.Equal(t, "sent", results[3].Status)

	// Results come back in input order regardless of send interleaving.
	for i, r := range results {
		assert.Equal(t, recipients[i].UserID, r.UserID)
	}
}

func TestBroadcastFailureNeverEscalates(t *testing.T) {
	sender := &recordingSender{failFor: map[string]bool{"token-a": true, "token-b": true}}
	svc := NewNotificationService(sender)

	results := svc.Broadcast(context.Background(), []Recipient{
		{UserID: 1, Token: "token-a"},
		{UserID: 2, Token: "token-b"},
	}, "Title", "Body", nil)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "failed", r.Status)
	}
}

func TestBroadcastEmptyRecipients(t *testing.T) {
	svc := NewNotificationService(&recordingSender{})
	results := svc.Broadcast(context.Background(), nil, "Title", "Body", nil)
	assert.Empty(t, results)
}

func TestBroadcastManyRecipients(t *testing.T) {
	sender := &recordingSender{}
	svc := NewNotificationService(sender)

	recipients := make([]Recipient, 100)
	for i := range recipients {
		recipients[i] = Recipient{UserID: uint(i + 1), Token: "token"}
	}

	results := svc.Broadcast(context.Background(), recipients, "Title", "Body", nil)

	require.Len(t, results, 100)
	for _, r := range results {
		assert.Equal(t, "sent", r.Status)
	}
	assert.Len(t, sender.sent, 100)
}
