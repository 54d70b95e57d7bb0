package model

import "time"

// 注文明細。商品データは注文時点のスナップショット
// （カタログの価格変更が過去の注文に影響しないように）。
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(100);not null" json:"name"`
	UnitPriceSnapshot   int64     `gorm:"not null" json:"unit_price"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	ShopID              int64     `gorm:"not null;index" json:"shop_id"`
	ShopNameSnapshot    string    `gorm:"type:varchar(100);not null" json:"shop_name"`
	ImageURLSnapshot    string    `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
