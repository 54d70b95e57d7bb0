package repository

import (
	"context"

	"minimart/internal/domain/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product model.Product) (model.Product, error)
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	Update(ctx context.Context, product model.Product) error
	Delete(ctx context.Context, productID int64) error

	ListByShopID(ctx context.Context, shopID int64) ([]model.Product, error)

	//複数店舗の商品をまとめて取る（都市ページ用）。categoryは空なら絞らない
	ListByShopIDs(ctx context.Context, shopIDs []int64, category string) ([]model.Product, error)
}
