package model

import "time"

// AuditLog is an append-only record of who did what to which entity.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	ActorID   string `gorm:"type:varchar(36);not null;index"`
	Action    string `gorm:"size:50;not null"`
	Entity    string `gorm:"size:50;not null"`
	EntityID  string `gorm:"type:varchar(36);not null;index"`
	CreatedAt time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
