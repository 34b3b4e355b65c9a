package model

import "time"

// Objective is a top-level goal owned by a user.
type Objective struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Title        string `gorm:"not null"`
	OwnerID      string `gorm:"type:varchar(36);not null;index"`
	DepartmentID string `gorm:"type:varchar(36)"`
	CycleID      string `gorm:"type:varchar(36);index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Objective) TableName() string {
	return "objectives"
}

// KeyResult is a measurable sub-goal belonging to an objective.
type KeyResult struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"`
	ObjectiveID string     `gorm:"type:varchar(36);not null;index"`
	Objective   *Objective `gorm:"foreignKey:ObjectiveID"`
	Title       string     `gorm:"not null"`
	OwnerID     string     `gorm:"type:varchar(36)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (KeyResult) TableName() string {
	return "key_results"
}
