package model

import "time"

// 注文の店舗ごとの断片。注文に含まれる店舗の数だけ作られ、
// ステータスは店舗が独立に進める。顧客向けの全体ステータスは
// 断片から導出するだけで、保存はしない。
type OrderFragment struct {
	ID               int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64       `gorm:"not null;index:idx_order_shop,unique" json:"order_id"`
	ShopID           int64       `gorm:"not null;index:idx_order_shop,unique" json:"shop_id"`
	ShopNameSnapshot string      `gorm:"type:varchar(100);not null" json:"shop_name"`
	Status           OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt        time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
