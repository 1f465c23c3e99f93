package entity

import "time"

type AbendRecord struct {
	Code      string
	Name      string
	Solution  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
