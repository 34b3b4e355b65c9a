package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app inbox entry.
type Notification struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);not null;index"`
	Type      string `gorm:"type:varchar(32);not null"`
	Message   string `gorm:"not null"`
	CycleID   string `gorm:"type:varchar(36)"`
	LinkID    string `gorm:"type:varchar(36)"`
	ReadAt    *time.Time
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
