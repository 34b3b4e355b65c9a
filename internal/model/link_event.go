package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OkrLinkEvent is an append-only log entry of a link transition.
type OkrLinkEvent struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	LinkID    string `gorm:"type:varchar(36);not null;index"`
	Action    string `gorm:"type:varchar(32);not null"`
	ActorID   string `gorm:"type:varchar(36);not null"`
	Note      string
	CreatedAt time.Time
}

func (OkrLinkEvent) TableName() string {
	return "okr_link_events"
}

func (e *OkrLinkEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
