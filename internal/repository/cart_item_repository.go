package repository

import (
	"context"

	"minimart/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)

	// 同一商品が既にあれば数量を+1、無ければitemをそのまま挿入する。
	// スナップショット列は初回挿入時の値を保持し続ける
	UpsertAddOne(ctx context.Context, item model.CartItem) error

	FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error)
	UpdateQuantityByProduct(ctx context.Context, cartID int64, productID int64, qty int64) error
	DeleteByProduct(ctx context.Context, cartID int64, productID int64) error
}
