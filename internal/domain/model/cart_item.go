package model

import "time"

// カート明細。商品ごとに1行（同一商品は数量加算で吸収する）。
// 商品名・価格・店舗はカート追加時点のスナップショットを必ず保存し、
// その後のカタログ変更がカートへ波及しないようにする。
type CartItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID              int64     `gorm:"not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID           int64     `gorm:"not null;index:idx_cart_product,unique" json:"product_id"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	ProductNameSnapshot string    `gorm:"type:varchar(100);not null" json:"name"`
	UnitPriceSnapshot   int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price"`
	ShopIDSnapshot      int64     `gorm:"not null;column:shop_id_snapshot" json:"shop_id"`
	ShopNameSnapshot    string    `gorm:"type:varchar(100);not null" json:"shop_name"`
	ImageURLSnapshot    string    `gorm:"type:varchar(255)" json:"image_url"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
