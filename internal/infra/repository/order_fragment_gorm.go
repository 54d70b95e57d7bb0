package repository

import (
	"context"
	"errors"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"

	"gorm.io/gorm"
)

type OrderFragmentGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderFragmentGormRepository(db *gorm.DB) *OrderFragmentGormRepository {
	return &OrderFragmentGormRepository{db: db}
}

func (r *OrderFragmentGormRepository) CreateBulk(ctx context.Context, orderID int64, fragments []model.OrderFragment) error {
	if len(fragments) == 0 {
		return nil
	}

	for i := range fragments {
		fragments[i].OrderID = orderID
	}

	return r.db.WithContext(ctx).Create(&fragments).Error
}

func (r *OrderFragmentGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderFragment, error) {
	var items []model.OrderFragment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderFragment{}, err
	}
	return items, nil
}

func (r *OrderFragmentGormRepository) ListByShopID(ctx context.Context, shopID int64) ([]model.OrderFragment, error) {
	var items []model.OrderFragment
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("order_id desc").
		Find(&items).Error
	if err != nil {
		return []model.OrderFragment{}, err
	}
	return items, nil
}

func (r *OrderFragmentGormRepository) FindByOrderAndShop(ctx context.Context, orderID int64, shopID int64) (model.OrderFragment, error) {
	var f model.OrderFragment
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND shop_id = ?", orderID, shopID).
		First(&f).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderFragment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderFragment{}, err
	}
	return f, nil
}

func (r *OrderFragmentGormRepository) UpdateStatus(ctx context.Context, fragmentID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.OrderFragment{}).
		Where("id = ?", fragmentID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
