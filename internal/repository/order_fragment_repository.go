package repository

import (
	"context"

	"minimart/internal/domain/model"
)

type OrderFragmentRepository interface {
	CreateBulk(ctx context.Context, orderID int64, fragments []model.OrderFragment) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderFragment, error)

	//店舗に関係する断片（その店舗の注文一覧の入口）
	ListByShopID(ctx context.Context, shopID int64) ([]model.OrderFragment, error)

	FindByOrderAndShop(ctx context.Context, orderID int64, shopID int64) (model.OrderFragment, error)
	UpdateStatus(ctx context.Context, fragmentID int64, status model.OrderStatus) error
}
