package model

import "time"

// 配送先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//宛名
	FullName string `gorm:"type:varchar(100);not null" json:"full_name"`

	//番地・通り
	StreetAddress string `gorm:"type:varchar(255);not null" json:"street_address"`

	City  string `gorm:"type:varchar(100);not null" json:"city"`
	State string `gorm:"type:varchar(100);not null" json:"state"`

	//郵便番号（6桁）
	PostalCode string `gorm:"type:varchar(6);not null" json:"postal_code"`

	//電話番号（10桁）
	PhoneNumber string `gorm:"type:varchar(10);not null" json:"phone_number"`

	//このユーザーのデフォルト住所か（ユーザーごとに最大1つ）
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
