package usecase_test

import (
	"context"
	"testing"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
	"minimart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestShopUsecase_Create_OnePerOwner(t *testing.T) {
	shopRepo := new(ShopRepoMock)
	uc := usecase.NewShopUsecase(shopRepo)
	ctx := context.Background()

	shopRepo.On("FindByOwnerID", ctx, int64(2)).Return(model.Shop{ID: 7, OwnerID: 2}, nil)

	_, err := uc.CreateShop(ctx, 2, usecase.CreateShopInput{Name: "City Mart", City: "Pune"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
	shopRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestShopUsecase_Create_Success(t *testing.T) {
	shopRepo := new(ShopRepoMock)
	uc := usecase.NewShopUsecase(shopRepo)
	ctx := context.Background()

	shopRepo.On("FindByOwnerID", ctx, int64(2)).Return(model.Shop{}, repo.ErrNotFound)
	shopRepo.On("Create", ctx, mock.MatchedBy(func(s model.Shop) bool {
		return s.Name == "City Mart" && s.City == "Pune" && s.OwnerID == 2
	})).Return(model.Shop{ID: 7, Name: "City Mart", City: "Pune", OwnerID: 2}, nil)

	out, err := uc.CreateShop(ctx, 2, usecase.CreateShopInput{Name: "City Mart", City: "Pune"})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
}

func TestShopUsecase_MyShop_NotFound(t *testing.T) {
	shopRepo := new(ShopRepoMock)
	uc := usecase.NewShopUsecase(shopRepo)
	ctx := context.Background()

	shopRepo.On("FindByOwnerID", ctx, int64(2)).Return(model.Shop{}, repo.ErrNotFound)

	_, err := uc.MyShop(ctx, 2)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestShopUsecase_ListByCity_RequiresCity(t *testing.T) {
	uc := usecase.NewShopUsecase(new(ShopRepoMock))

	_, err := uc.ListByCity(context.Background(), "  ")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}
