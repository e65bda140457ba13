package services

import "time"

// ScheduleMonths is the number of monthly due dates stamped onto a
// subscription at activation.
const ScheduleMonths = 11

// GenerateSchedule produces the ordered monthly due dates for a
// subscription activated at the given time, plus its end date. The
// activation time is normalized to the start of its day; each due date is
// one calendar month after the previous, starting one month after
// activation, with the day of month preserved and clamped to the last day
// of shorter months (Jan 31 -> Feb 28). The end date is activation plus
// eleven months. Pure and deterministic.
func GenerateSchedule(activation time.Time) ([]time.Time, time.Time) {
	start := startOfDay(activation)

	dues := make([]time.Time, 0, ScheduleMonths)
	for i := 1; i <= ScheduleMonths; i++ {
		dues = append(dues, addMonthsClamped(start, i))
	}

	return dues, addMonthsClamped(start, ScheduleMonths)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// addMonthsClamped adds months keeping the day of month, clamping to the
// target month's last day instead of overflowing the way AddDate does.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}
