package audit

import (
	"context"
	"errors"
	"time"
)

// Entry records that an actor performed an action on an entity.
type Entry struct {
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Sink is an append-only destination for audit entries.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// Sinks records every entry in each sink, skipping nil entries.
type Sinks []Sink

func (s Sinks) Record(ctx context.Context, entry Entry) error {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	var errs []error
	for _, sink := range s {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
