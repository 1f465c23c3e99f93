package model

import "time"

type AbendRecord struct {
	Code      string    `gorm:"type:varchar(16);primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	Solution  string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AbendRecord) TableName() string {
	return "abend_records"
}
