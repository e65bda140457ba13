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

// BroadcastArgs defines the arguments for a push fan-out task
type BroadcastArgs struct {
	Recipients   []services.Recipient `json:"recipients"`
	Title        string               `json:"title"`
	Body         string               `json:"body"`
	Data         map[string]string    `json:"data,omitempty"`
	AttemptCount int                  `json:"attempt_count"`
}

// BroadcastTaskDef fans a push message out to many recipients in the
// background. Failed recipients are retried on a fresh task with only
// the failures carried over, up to the task's attempt limit.
type BroadcastTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *BroadcastTaskDef) TaskID() string {
	return "broadcast_notification"
}

// Enqueue creates a queued fan-out task. Failure to enqueue must never
// escalate into the caller's response; callers log and move on.
func (t *BroadcastTaskDef) Enqueue(db *gorm.DB, args BroadcastArgs) error {
	task, err := BuildScheduledTask(t.TaskID(), args, time.Now(), nil, models.ScheduledTaskTypeOneTime, 3)
	if err != nil {
		return err
	}
	return db.Create(task).Error
}

// HandleExecution delivers the broadcast and reschedules any failures
func (t *BroadcastTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	var args BroadcastArgs
	if err := decodeArgs(task.Arguments, &args); err != nil {
		return nil, err
	}

	results := deps.Notifier.Broadcast(ctx, args.Recipients, args.Title, args.Body, args.Data)

	var sent, skipped int
	var failed []services.Recipient
	var errs []string
	for _, r := range results {
		switch r.Status {
		case "sent":
			sent++
		case "skipped":
			skipped++
		default:
			failed = append(failed, services.Recipient{UserID: r.UserID, Token: r.Token})
			errs = append(errs, fmt.Sprintf("user %d: %s", r.UserID, r.Error))
		}
	}

	result := map[string]interface{}{
		"total":   len(args.Recipients),
		"sent":    sent,
		"skipped": skipped,
		"failed":  len(failed),
	}

	if len(failed) > 0 {
		result["errors"] = errs

		if args.AttemptCount < task.MaxAttempt {
			retry := args
			retry.Recipients = failed
			retry.AttemptCount = args.AttemptCount + 1

			newTask, err := BuildScheduledTask(t.TaskID(), retry, time.Now().Add(5*time.Minute), nil, models.ScheduledTaskTypeOneTime, task.MaxAttempt)
			if err == nil {
				if err := deps.DB.Create(newTask).Error; err != nil {
					log.Printf("failed to create retry task: %v", err)
				}
			} else {
				log.Printf("failed to build retry task: %v", err)
			}
		} else {
			return result, fmt.Errorf("max attempts reached, failed to deliver to %d recipients", len(failed))
		}
	}

	return result, nil
}

// BroadcastTask is the singleton instance of BroadcastTaskDef
var BroadcastTask = &BroadcastTaskDef{}

// AdminAlertArgs identifies the subscription that triggered the alert
type AdminAlertArgs struct {
	SubscriptionID uint   `json:"subscription_id"`
	Category       string `json:"category"`
}

// AdminAlertTaskDef notifies every admin with a registered device about a
// new subscription awaiting review. Resolved at execution time so the
// enqueue on the request path stays a single cheap insert.
type AdminAlertTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *AdminAlertTaskDef) TaskID() string {
	return "notify_admins_new_subscription"
}

// Enqueue queues an admin alert for the given subscription
func (t *AdminAlertTaskDef) Enqueue(db *gorm.DB, sub *models.Subscription) error {
	args := AdminAlertArgs{SubscriptionID: sub.ID, Category: string(sub.Category)}
	task, err := BuildScheduledTask(t.TaskID(), args, time.Now(), nil, models.ScheduledTaskTypeOneTime, 3)
	if err != nil {
		return err
	}
	return db.Create(task).Error
}

// HandleExecution pushes the alert to all admins
func (t *AdminAlertTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	var args AdminAlertArgs
	if err := decodeArgs(task.Arguments, &args); err != nil {
		return nil, err
	}

	var admins []models.User
	if err := deps.DB.Where("role = ?", models.UserRoleAdmin).Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch admins: %w", err)
	}

	recipients := make([]services.Recipient, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, services.Recipient{UserID: admin.ID, Token: admin.FCMToken})
	}

	title := "New subscription request"
	body := fmt.Sprintf("A new %s subscription (#%d) is waiting for review.", args.Category, args.SubscriptionID)
	results := deps.Notifier.Broadcast(ctx, recipients, title, body, map[string]string{
		"subscription_id": fmt.Sprintf("%d", args.SubscriptionID),
		"category":        args.Category,
	})

	var sent int
	for _, r := range results {
		if r.Status == "sent" {
			sent++
		}
	}
	return map[string]interface{}{
		"admins": len(recipients),
		"sent":   sent,
	}, nil
}

// AdminAlertTask is the singleton instance of AdminAlertTaskDef
var AdminAlertTask = &AdminAlertTaskDef{}
