package model

import "time"

// SecurityUser mirrors the mainframe security directory. Password holds a
// bcrypt hash.
type SecurityUser struct {
	UserId           string     `gorm:"column:user_id;type:varchar(32);primaryKey"`
	Password         string     `gorm:"type:varchar(255);not null"`
	DeactivationDate *time.Time `gorm:"column:deactivation_date"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (SecurityUser) TableName() string {
	return "security_users"
}
