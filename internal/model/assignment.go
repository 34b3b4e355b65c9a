package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OkrAssignment delegates ownership of an objective (or one of its key results) to a user.
type OkrAssignment struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)"`
	UserID      string  `gorm:"type:varchar(36);not null;index"`
	ObjectiveID string  `gorm:"type:varchar(36);not null;index"`
	KrID        *string `gorm:"type:varchar(36)"`
	Role        string
	CreatedAt   time.Time
}

func (OkrAssignment) TableName() string {
	return "okr_assignments"
}

func (a *OkrAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
