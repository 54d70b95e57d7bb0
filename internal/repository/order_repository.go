package repository

import (
	"context"

	"minimart/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//顧客の注文一覧（新しい順）
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error)

	//店舗ビュー用。idsに含まれる注文を新しい順で返す
	ListByIDs(ctx context.Context, orderIDs []int64) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	//同じキーなら同じ注文を返す（二重送信対策）
	FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error)
}
