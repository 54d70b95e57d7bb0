package repository

import (
	"context"
	"errors"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"

	"gorm.io/gorm"
)

type ShopGormRepository struct {
	db *gorm.DB
}

// DI
func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

func (r *ShopGormRepository) Create(ctx context.Context, shop model.Shop) (model.Shop, error) {
	if err := r.db.WithContext(ctx).Create(&shop).Error; err != nil {
		return model.Shop{}, err
	}
	return shop, nil
}

func (r *ShopGormRepository) FindByID(ctx context.Context, shopID int64) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).Where("id = ?", shopID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

func (r *ShopGormRepository) FindByOwnerID(ctx context.Context, ownerID int64) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Shop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

// 都市名の部分一致（大文字小文字は無視）
func (r *ShopGormRepository) ListByCity(ctx context.Context, city string) ([]model.Shop, error) {
	var shops []model.Shop
	err := r.db.WithContext(ctx).
		Where("city ILIKE ?", "%"+city+"%").
		Order("id asc").
		Find(&shops).Error
	if err != nil {
		return []model.Shop{}, err
	}
	return shops, nil
}
