package repository

import (
	"context"

	"minimart/internal/domain/model"
)

type ShopRepository interface {
	Create(ctx context.Context, shop model.Shop) (model.Shop, error)
	FindByID(ctx context.Context, shopID int64) (model.Shop, error)

	//オーナーの店舗（1人1店舗）
	FindByOwnerID(ctx context.Context, ownerID int64) (model.Shop, error)

	//都市名の部分一致（大文字小文字は無視）
	ListByCity(ctx context.Context, city string) ([]model.Shop, error)
}
