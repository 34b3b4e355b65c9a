package audit

import (
	"context"

	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/store"
)

// DBSink writes entries to the audit_logs table.
type DBSink struct {
	store store.AuditStore
}

func NewDBSink(store store.AuditStore) *DBSink {
	return &DBSink{store: store}
}

func (d *DBSink) Record(ctx context.Context, entry Entry) error {
	return d.store.CreateAuditLog(ctx, &model.AuditLog{
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		CreatedAt: entry.OccurredAt,
	})
}
