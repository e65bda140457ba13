package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldsaver_api/internal/models"
)

func completedPayment(amount float64) models.Payment {
	return models.Payment{PaymentAmount: amount, PaymentStatus: models.PaymentStatusCompleted}
}

func TestNextUncoveredDue(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	soon := now.AddDate(0, 0, 2)
	later := now.AddDate(0, 1, 0)

	tests := []struct {
		name      string
		sub       models.Subscription
		wantDue   time.Time
		wantFound bool
	}{
		{
			name: "first uncovered future due",
			sub: models.Subscription{
				InitialAmount: 500,
				DueDates:      []time.Time{past, soon, later},
				Payments:      []models.Payment{completedPayment(500)},
			},
			wantDue:   soon,
			wantFound: true,
		},
		{
			name: "covered dues are skipped",
			sub: models.Subscription{
				InitialAmount: 500,
				DueDates:      []time.Time{past, soon, later},
				Payments:      []models.Payment{completedPayment(1000)},
			},
			wantDue:   later,
			wantFound: true,
		},
		{
			name: "everything covered",
			sub: models.Subscription{
				InitialAmount: 500,
				DueDates:      []time.Time{past, soon},
				Payments:      []models.Payment{completedPayment(1000)},
			},
			wantFound: false,
		},
		{
			name: "only overdue dues left",
			sub: models.Subscription{
				InitialAmount: 500,
				DueDates:      []time.Time{past},
			},
			wantFound: false,
		},
		{
			name:      "no schedule yet",
			sub:       models.Subscription{InitialAmount: 500},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, found := nextUncoveredDue(tt.sub, now)
			require.Equal(t, tt.wantFound, found)
			if found {
				assert.Equal(t, tt.wantDue, due)
			}
		})
	}
}

func TestBuildScheduledTaskRoundTripsArgs(t *testing.T) {
	original := BroadcastArgs{
		Title: "Hello",
		Body:  "World",
		Data:  map[string]string{"k": "v"},
	}
	task, err := BuildScheduledTask("broadcast_notification", original, time.Now(), nil, models.ScheduledTaskTypeOneTime, 3)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduledTaskStatusActive, task.Status)
	assert.Equal(t, 3, task.MaxAttempt)

	var decoded BroadcastArgs
	require.NoError(t, decodeArgs(task.Arguments, &decoded))
	assert.Equal(t, original.Title, decoded.Title)
	assert.Equal(t, original.Body, decoded.Body)
	assert.Equal(t, original.Data, decoded.Data)
}
