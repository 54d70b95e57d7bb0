package model

import "time"

// 1オーナーにつき店舗は1つ
type Shop struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	City    string `gorm:"type:varchar(100);not null;index" json:"city"`
	OwnerID int64  `gorm:"not null;uniqueIndex" json:"owner_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
