package repository

import (
	"context"
	"errors"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) Create(ctx context.Context, product model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return model.Product{}, err
	}
	return product, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, product model.Product) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":                product.Name,
			"price":               product.Price,
			"stock":               product.Stock,
			"image_url":           product.ImageURL,
			"category":            product.Category,
			"discount_percentage": product.DiscountPercentage,
			"featured":            product.Featured,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) Delete(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, productID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) ListByShopID(ctx context.Context, shopID int64) ([]model.Product, error) {
	var items []model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Product{}, err
	}
	return items, nil
}

// 都市ページ用。categoryは空なら絞らない
func (r *ProductGormRepository) ListByShopIDs(ctx context.Context, shopIDs []int64, category string) ([]model.Product, error) {
	if len(shopIDs) == 0 {
		return []model.Product{}, nil
	}

	q := r.db.WithContext(ctx).Where("shop_id IN ?", shopIDs)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var items []model.Product
	if err := q.Order("id asc").Find(&items).Error; err != nil {
		return []model.Product{}, err
	}
	return items, nil
}
