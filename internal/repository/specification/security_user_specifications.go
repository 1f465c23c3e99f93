package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByUserId matches a security user id regardless of case.
type ByUserId struct {
	UserId string
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("UPPER(user_id) = ?", strings.ToUpper(strings.TrimSpace(s.UserId)))
}
