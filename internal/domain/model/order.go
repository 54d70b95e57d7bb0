package model

import "time"

// 注文。複数店舗の商品を1注文にまとめる。
// 明細はOrderItemのフラットなリスト（店舗ごとのグルーピングは表示側の仕事）。
// ステータスは注文単位では持たず、店舗ごとのOrderFragmentが持つ。
type Order struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`

	// 確定時に一度だけ計算した合計（全店舗分）
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	// 配送先のスナップショット。住所帳がその後編集されても過去注文は変わらない
	ShipFullName      string `gorm:"type:varchar(100);not null" json:"ship_full_name"`
	ShipStreetAddress string `gorm:"type:varchar(255);not null" json:"ship_street_address"`
	ShipCity          string `gorm:"type:varchar(100);not null" json:"ship_city"`
	ShipState         string `gorm:"type:varchar(100);not null" json:"ship_state"`
	ShipPostalCode    string `gorm:"type:varchar(6);not null" json:"ship_postal_code"`
	ShipPhoneNumber   string `gorm:"type:varchar(10);not null" json:"ship_phone_number"`

	IdempotencyKey string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
