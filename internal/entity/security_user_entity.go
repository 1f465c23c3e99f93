package entity

import "time"

type SecurityUser struct {
	UserId           string
	PasswordHash     string
	DeactivationDate *time.Time
	UpdatedAt        *time.Time
}

func (u *SecurityUser) IsDeactivated() bool {
	return u.DeactivationDate != nil
}
