package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDueOneTimeKeepsDue(t *testing.T) {
	due := time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC)
	task := ScheduledTask{TaskType: ScheduledTaskTypeOneTime, Due: due}

	assert.Equal(t, due, task.NextDue())
}

func TestNextDueRecurringRollsForward(t *testing.T) {
	interval := "FREQ=DAILY"
	due := time.Now().Add(-48 * time.Hour)
	task := ScheduledTask{
		TaskType:          ScheduledTaskTypeRecurring,
		Due:               due,
		RecurringInterval: &interval,
	}

	next := task.NextDue()
	assert.True(t, next.After(due), "recurring task must roll past its last due")
	assert.True(t, next.After(time.Now().Add(-time.Minute)), "next occurrence is not in the past")
}

func TestNextDueRecurringBadRuleFallsBack(t *testing.T) {
	interval := "not an rrule"
	due := time.Now().Add(-time.Hour)
	task := ScheduledTask{
		TaskType:          ScheduledTaskTypeRecurring,
		Due:               due,
		RecurringInterval: &interval,
	}

	assert.Equal(t, due, task.NextDue())
}

func TestNextDueRecurringMissingRuleFallsBack(t *testing.T) {
	due := time.Now()
	task := ScheduledTask{TaskType: ScheduledTaskTypeRecurring, Due: due}

	assert.Equal(t, due, task.NextDue())
}
