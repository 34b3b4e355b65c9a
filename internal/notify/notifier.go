package notify

import (
	"context"
	"errors"
)

// TypeOkrLink tags notifications produced by the link workflow.
const TypeOkrLink = "okr_link"

// Notification is a message addressed to a single user.
type Notification struct {
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	CycleID string `json:"cycle_id,omitempty"`
	LinkID  string `json:"link_id,omitempty"`
}

// Notifier delivers a notification through one channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Fanout delivers to every notifier and joins the failures.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range f {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) error { return nil }
