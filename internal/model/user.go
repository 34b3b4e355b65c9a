package model

import "time"

// User is a member of the organisation. The workflow only reads users to resolve names,
// email addresses and roles.
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"not null"`
	Email     string
	Role      string `gorm:"not null;default:member"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
