package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Reminder finds links pending for too long and nudges their target owners.
type Reminder interface {
	RemindStaleLinks(ctx context.Context, olderThan time.Duration) (int, error)
}

type ReminderTask struct {
	reminder Reminder
	schedule string
	after    time.Duration
}

func NewReminderTask(reminder Reminder, schedule string, after time.Duration) *ReminderTask {
	return &ReminderTask{
		reminder: reminder,
		schedule: schedule,
		after:    after,
	}
}

func (r *ReminderTask) Name() string {
	return "link_reminder"
}

func (r *ReminderTask) Schedule() string {
	return r.schedule
}

func (r *ReminderTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	count, err := r.reminder.RemindStaleLinks(ctx, r.after)
	if err != nil {
		logrus.Errorf("link reminder: reminded %d pending links before failing: %v", count, err)
		return
	}
	if count > 0 {
		logrus.Infof("link reminder: reminded %d pending links", count)
	}
}
