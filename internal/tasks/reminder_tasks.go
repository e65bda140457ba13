package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"goldsaver_api/internal/models"
	"goldsaver_api/internal/services"
)

// dueReminderWindow is how far ahead of a due date the reminder fires
const dueReminderWindow = 3 * 24 * time.Hour

// DueReminderTaskDef is the recurring daily sweep that reminds owners of
// active subscriptions about upcoming unpaid due dates.
type DueReminderTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *DueReminderTaskDef) TaskID() string {
	return "send_due_reminders"
}

// EnsureScheduled creates the recurring reminder task if it does not
// exist yet. Called on worker startup; safe to call repeatedly.
func (t *DueReminderTaskDef) EnsureScheduled(db *gorm.DB) error {
	var count int64
	err := db.Model(&models.ScheduledTask{}).
		Where("task_name = ? AND status IN ?", t.TaskID(),
			[]models.ScheduledTaskStatus{models.ScheduledTaskStatusActive}).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	interval := "FREQ=DAILY"
	task, err := BuildScheduledTask(t.TaskID(), map[string]interface{}{}, time.Now(), &interval, models.ScheduledTaskTypeRecurring, 1)
	if err != nil {
		return err
	}
	return db.Create(task).Error
}

// HandleExecution pushes a reminder to every owner of an active
// subscription with an uncovered due date inside the reminder window.
func (t *DueReminderTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	var subs []models.Subscription
	err := deps.DB.
		Preload("User").Preload("Payments").
		Where("subscribe_status = ?", models.SubscribeStatusActive).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active subscriptions: %w", err)
	}

	now := time.Now()
	var recipients []services.Recipient
	for _, sub := range subs {
		due, ok := nextUncoveredDue(sub, now)
		if !ok {
			continue
		}
		if due.Sub(now) > dueReminderWindow {
			continue
		}
		if sub.User.FCMToken == "" {
			log.Printf("user %d has no device token, skipping due reminder", sub.UserID)
			continue
		}
		recipients = append(recipients, services.Recipient{UserID: sub.UserID, Token: sub.User.FCMToken})
	}

	if len(recipients) == 0 {
		return map[string]interface{}{"status": "skipped", "message": "no upcoming dues"}, nil
	}

	results := deps.Notifier.Broadcast(ctx, recipients,
		"Installment due soon",
		"Your next installment is due shortly. Please complete the payment.",
		nil)

	var sent int
	for _, r := range results {
		if r.Status == "sent" {
			sent++
		}
	}
	return map[string]interface{}{
		"candidates": len(recipients),
		"sent":       sent,
	}, nil
}

// nextUncoveredDue returns the earliest due date not yet covered by the
// ledger and still in the future of (or equal to) now minus the window.
func nextUncoveredDue(sub models.Subscription, now time.Time) (time.Time, bool) {
	coverage := services.Coverage(sub)
	for i, due := range sub.DueDates {
		if coverage[i] {
			continue
		}
		if due.Before(now) {
			continue
		}
		return due, true
	}
	return time.Time{}, false
}

// DueReminderTask is the singleton instance of DueReminderTaskDef
var DueReminderTask = &DueReminderTaskDef{}
