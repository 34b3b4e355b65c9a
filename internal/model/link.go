package model

import (
	"time"

	"github.com/emrgen/okr/internal/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EntityObjective = "objective"
	EntityKeyResult = "key_result"
)

// OkrLink is a request from a source objective to sit beneath a target objective or key result.
// Links are never deleted, finished requests stay for the audit trail.
type OkrLink struct {
	ID                     string          `gorm:"primaryKey;type:varchar(36)"`
	SourceType             string          `gorm:"type:varchar(20);not null"`
	SourceObjectiveID      string          `gorm:"type:varchar(36);not null;index:idx_okr_links_source"`
	SourceObjective        *Objective      `gorm:"foreignKey:SourceObjectiveID"`
	TargetType             string          `gorm:"type:varchar(20);not null"`
	TargetObjectiveID      string          `gorm:"type:varchar(36);not null;index:idx_okr_links_target"`
	TargetObjective        *Objective      `gorm:"foreignKey:TargetObjectiveID"`
	TargetKrID             *string         `gorm:"type:varchar(36);index:idx_okr_links_target"`
	TargetKr               *KeyResult      `gorm:"foreignKey:TargetKrID"`
	Status                 workflow.Status `gorm:"type:varchar(20);not null;index"`
	RequestedBy            string          `gorm:"type:varchar(36);not null"`
	TargetOwnerID          string          `gorm:"type:varchar(36);not null;index"`
	ApprovedBy             *string         `gorm:"type:varchar(36)"`
	RequestNote            string
	DecisionNote           string
	IsActive               bool `gorm:"not null"`
	OwnershipGranted       bool `gorm:"not null"` // approval created the assignment
	OwnershipTransferredAt *time.Time
	RevokedAt              *time.Time
	LastRemindedAt         *time.Time
	Events                 []*OkrLinkEvent `gorm:"foreignKey:LinkID"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (OkrLink) TableName() string {
	return "okr_links"
}

func (l *OkrLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TargetID returns the id of the entity the link points at.
func (l *OkrLink) TargetID() string {
	if l.TargetType == EntityKeyResult && l.TargetKrID != nil {
		return *l.TargetKrID
	}
	return l.TargetObjectiveID
}
