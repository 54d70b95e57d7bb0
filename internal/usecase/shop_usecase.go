package usecase

import (
	"context"
	"net/http"
	"strings"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
)

// ShopUsecase は店舗の作成と一覧。店舗はオーナー1人につき1つ
type ShopUsecase struct {
	shopRepo repo.ShopRepository
}

func NewShopUsecase(shopRepo repo.ShopRepository) *ShopUsecase {
	return &ShopUsecase{shopRepo: shopRepo}
}

type CreateShopInput struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type ShopResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	OwnerID int64  `json:"owner_id"`
}

func (u *ShopUsecase) CreateShop(ctx context.Context, ownerID int64, in CreateShopInput) (ShopResponse, error) {
	if ownerID <= 0 {
		return ShopResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	name := strings.TrimSpace(in.Name)
	city := strings.TrimSpace(in.City)
	if name == "" || city == "" {
		return ShopResponse{}, NewHTTPError(http.StatusBadRequest, "name and city are required")
	}

	//1人1店舗
	if _, err := u.shopRepo.FindByOwnerID(ctx, ownerID); err == nil {
		return ShopResponse{}, NewHTTPError(http.StatusConflict, "shop already exists")
	} else if err != repo.ErrNotFound {
		return ShopResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.shopRepo.Create(ctx, model.Shop{
		Name:    name,
		City:    city,
		OwnerID: ownerID,
	})
	if err != nil {
		return ShopResponse{}, NewHTTPError(http.StatusConflict, "shop already exists")
	}

	return toShopResponse(created), nil
}

// MyShop はオーナー自身の店舗を返す。
func (u *ShopUsecase) MyShop(ctx context.Context, ownerID int64) (ShopResponse, error) {
	if ownerID <= 0 {
		return ShopResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	shop, err := u.shopRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return ShopResponse{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return ShopResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toShopResponse(shop), nil
}

// ListByCity は都市内の店舗一覧（部分一致・大小無視）。
func (u *ShopUsecase) ListByCity(ctx context.Context, city string) ([]ShopResponse, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return []ShopResponse{}, NewHTTPError(http.StatusBadRequest, "city is required")
	}

	shops, err := u.shopRepo.ListByCity(ctx, city)
	if err != nil {
		return []ShopResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]ShopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, toShopResponse(s))
	}
	return out, nil
}

func toShopResponse(s model.Shop) ShopResponse {
	return ShopResponse{
		ID:      s.ID,
		Name:    s.Name,
		City:    s.City,
		OwnerID: s.OwnerID,
	}
}
