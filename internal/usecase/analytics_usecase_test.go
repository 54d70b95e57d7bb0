package usecase_test

import (
	"context"
	"testing"
	"time"

	"minimart/internal/domain/model"
	"minimart/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestAnalyticsUsecase_ShopAnalytics(t *testing.T) {
	repos := &txReposStub{
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		fragments: new(FragmentRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		products:  new(CartProductRepoMock),
	}
	shopRepo := new(ShopRepoMock)
	uc := usecase.NewAnalyticsUsecase(&txManagerStub{repos: repos}, shopRepo)
	ctx := context.Background()

	day1 := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	shopRepo.On("FindByOwnerID", ctx, int64(2)).Return(model.Shop{ID: 7, OwnerID: 2}, nil)
	repos.fragments.On("ListByShopID", ctx, int64(7)).Return([]model.OrderFragment{
		{ID: 1, OrderID: 41, ShopID: 7, Status: model.OrderStatusDelivered},
		{ID: 2, OrderID: 42, ShopID: 7, Status: model.OrderStatusProcessing},
		{ID: 3, OrderID: 43, ShopID: 7, Status: model.OrderStatusCancelled},
	}, nil)

	repos.orders.On("FindByID", ctx, int64(41)).Return(model.Order{ID: 41, CustomerID: 1, CreatedAt: day1}, nil)
	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, CustomerID: 3, CreatedAt: day2}, nil)
	repos.orders.On("FindByID", ctx, int64(43)).Return(model.Order{ID: 43, CustomerID: 1, CreatedAt: day2}, nil)

	//注文41には他店舗の明細も混ざっている
	repos.items.On("ListByOrderID", ctx, int64(41)).Return([]model.OrderItem{
		{ProductID: 1, ProductNameSnapshot: "Rice 1kg", Quantity: 2, UnitPriceSnapshot: 50, ShopID: 7},
		{ProductID: 9, ProductNameSnapshot: "Soap", Quantity: 1, UnitPriceSnapshot: 30, ShopID: 8},
	}, nil)
	repos.items.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{
		{ProductID: 1, ProductNameSnapshot: "Rice 1kg", Quantity: 1, UnitPriceSnapshot: 50, ShopID: 7},
		{ProductID: 2, ProductNameSnapshot: "Atta 5kg", Quantity: 1, UnitPriceSnapshot: 200, ShopID: 7},
	}, nil)

	out, err := uc.ShopAnalytics(ctx, 2, 0)
	assert.NoError(t, err)

	//他店舗分とキャンセル断片は売上に入らない
	assert.Equal(t, int64(350), out.TotalSales)
	assert.Equal(t, int64(3), out.TotalOrders)
	assert.Equal(t, int64(2), out.ActiveCustomers)
	assert.Equal(t, int64(175), out.AverageOrderValue)

	assert.Equal(t, int64(1), out.StatusBreakdown["Delivered"])
	assert.Equal(t, int64(1), out.StatusBreakdown["Processing"])
	assert.Equal(t, int64(1), out.StatusBreakdown["Cancelled"])

	//日付昇順の売上推移
	assert.Equal(t, []usecase.RevenuePoint{
		{Date: "2026-08-30", Revenue: 100},
		{Date: "2026-08-31", Revenue: 250},
	}, out.RevenueData)

	//数量順の上位商品
	assert.Equal(t, int64(1), out.TopProducts[0].ProductID)
	assert.Equal(t, int64(3), out.TopProducts[0].Quantity)
	assert.Equal(t, int64(150), out.TopProducts[0].Revenue)
}
