package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`

	// 最小通貨単位（パイサ）で保持する
	Price int64 `gorm:"not null" json:"price"`

	// 在庫数。カート側のチェックはあくまで目安（予約はしない）
	Stock int64 `gorm:"not null;default:0" json:"quantity_in_stock"`

	ImageURL string `gorm:"type:varchar(255)" json:"image_url"`
	Category string `gorm:"type:varchar(100);index" json:"category"`

	// 割引率（%）。未設定と0%を区別するためポインタ
	DiscountPercentage *int64 `gorm:"" json:"discount_percentage,omitempty"`

	Featured bool `gorm:"not null;default:false" json:"featured"`

	ShopID int64 `gorm:"not null;index" json:"shop_id"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
