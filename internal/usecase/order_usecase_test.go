package usecase_test

import (
	"context"
	"testing"
	"time"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
	"minimart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（注文系）
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error) {
	args := m.Called(ctx, customerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByIDs(ctx context.Context, orderIDs []int64) ([]model.Order, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, customerID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type FragmentRepoMock struct{ mock.Mock }

func (m *FragmentRepoMock) CreateBulk(ctx context.Context, orderID int64, fragments []model.OrderFragment) error {
	args := m.Called(ctx, orderID, fragments)
	return args.Error(0)
}

func (m *FragmentRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderFragment, error) {
	args := m.Called(ctx, orderID)
	fragments, _ := args.Get(0).([]model.OrderFragment)
	return fragments, args.Error(1)
}

func (m *FragmentRepoMock) ListByShopID(ctx context.Context, shopID int64) ([]model.OrderFragment, error) {
	args := m.Called(ctx, shopID)
	fragments, _ := args.Get(0).([]model.OrderFragment)
	return fragments, args.Error(1)
}

func (m *FragmentRepoMock) FindByOrderAndShop(ctx context.Context, orderID int64, shopID int64) (model.OrderFragment, error) {
	args := m.Called(ctx, orderID, shopID)
	f, _ := args.Get(0).(model.OrderFragment)
	return f, args.Error(1)
}

func (m *FragmentRepoMock) UpdateStatus(ctx context.Context, fragmentID int64, status model.OrderStatus) error {
	args := m.Called(ctx, fragmentID, status)
	return args.Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	addresses, _ := args.Get(0).([]model.Address)
	return addresses, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, address model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

// WithinTxを素通しするTransactionManager
type txReposStub struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	fragments *FragmentRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	products  *CartProductRepoMock
}

func (r *txReposStub) Orders() repo.OrderRepository                 { return r.orders }
func (r *txReposStub) OrderItems() repo.OrderItemRepository         { return r.items }
func (r *txReposStub) OrderFragments() repo.OrderFragmentRepository { return r.fragments }
func (r *txReposStub) Carts() repo.CartRepository                   { return r.carts }
func (r *txReposStub) CartItems() repo.CartItemRepository           { return r.cartItems }
func (r *txReposStub) Products() repo.ProductRepository             { return r.products }

type txManagerStub struct{ repos *txReposStub }

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

func newOrderFixture() (*usecase.OrderUsecase, *txReposStub, *AddressRepoMock) {
	repos := &txReposStub{
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		fragments: new(FragmentRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		products:  new(CartProductRepoMock),
	}
	addresses := new(AddressRepoMock)
	uc := usecase.NewOrderUsecase(&txManagerStub{repos: repos}, addresses, nil)
	return uc, repos, addresses
}

func testAddress(userID int64) model.Address {
	return model.Address{
		ID: 5, UserID: userID,
		FullName: "Asha Patel", StreetAddress: "12 MG Road",
		City: "Pune", State: "MH", PostalCode: "411001", PhoneNumber: "9876543210",
	}
}

// 2店舗3明細のカート（小計130）
func twoShopCart() []model.CartItem {
	return []model.CartItem{
		{CartID: 10, ProductID: 1, Quantity: 2, UnitPriceSnapshot: 50, ProductNameSnapshot: "Rice 1kg", ShopIDSnapshot: 7, ShopNameSnapshot: "Sharma General Store"},
		{CartID: 10, ProductID: 2, Quantity: 1, UnitPriceSnapshot: 30, ProductNameSnapshot: "Soap", ShopIDSnapshot: 8, ShopNameSnapshot: "City Mart"},
	}
}

// =====================
// PlaceOrder
// =====================

func TestOrderUsecase_PlaceOrder_SplitsIntoFragments(t *testing.T) {
	uc, repos, addresses := newOrderFixture()
	ctx := context.Background()

	addresses.On("FindByID", ctx, int64(5)).Return(testAddress(1), nil)
	repos.orders.On("FindByIdempotencyKey", ctx, int64(1), "key-1").Return(model.Order{}, false, nil)
	repos.carts.On("FindActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)
	repos.cartItems.On("ListByCartID", ctx, int64(10)).Return(twoShopCart(), nil)

	repos.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 1 && o.TotalAmount == 130 && o.ShipPostalCode == "411001"
	})).Return(int64(42), nil)

	repos.items.On("CreateBulk", ctx, int64(42), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 && items[0].UnitPriceSnapshot == 50 && items[1].ShopID == 8
	})).Return(nil)

	repos.fragments.On("CreateBulk", ctx, int64(42), mock.MatchedBy(func(fs []model.OrderFragment) bool {
		if len(fs) != 2 {
			return false
		}
		//店舗の登場順、全部Pending
		return fs[0].ShopID == 7 && fs[1].ShopID == 8 &&
			fs[0].Status == model.OrderStatusPending && fs[1].Status == model.OrderStatusPending
	})).Return(nil)

	repos.carts.On("UpdateStatus", ctx, int64(10), model.CartStatusCheckedOut).Return(nil)
	repos.carts.On("Clear", ctx, int64(10)).Return(nil)

	out, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{AddressID: 5, IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, int64(130), out.TotalAmount)
	assert.Equal(t, string(model.OrderStatusPending), out.Status)
	assert.Len(t, out.Fragments, 2)
	assert.Equal(t, int64(100), out.Fragments[0].Subtotal)
	assert.Equal(t, int64(30), out.Fragments[1].Subtotal)

	repos.carts.AssertCalled(t, "UpdateStatus", ctx, int64(10), model.CartStatusCheckedOut)
	repos.carts.AssertCalled(t, "Clear", ctx, int64(10))
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	uc, repos, addresses := newOrderFixture()
	ctx := context.Background()

	addresses.On("FindByID", ctx, int64(5)).Return(testAddress(1), nil)
	repos.orders.On("FindByIdempotencyKey", ctx, int64(1), "key-1").Return(model.Order{}, false, nil)
	repos.carts.On("FindActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 10}, nil)
	repos.cartItems.On("ListByCartID", ctx, int64(10)).Return([]model.CartItem{}, nil)

	_, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{AddressID: 5, IdempotencyKey: "key-1"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "cart empty", he.Message)
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_IdempotentReplay(t *testing.T) {
	//同じキーの再送は既存の注文を返し、新しい注文は作らない
	uc, repos, addresses := newOrderFixture()
	ctx := context.Background()

	existing := model.Order{ID: 42, CustomerID: 1, TotalAmount: 130, CreatedAt: time.Now()}

	addresses.On("FindByID", ctx, int64(5)).Return(testAddress(1), nil)
	repos.orders.On("FindByIdempotencyKey", ctx, int64(1), "key-1").Return(existing, true, nil)
	repos.items.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{
		{ProductID: 1, Quantity: 2, UnitPriceSnapshot: 50, ShopID: 7},
	}, nil)
	repos.fragments.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderFragment{
		{ID: 1, OrderID: 42, ShopID: 7, Status: model.OrderStatusPending},
	}, nil)

	out, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{AddressID: 5, IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_ForeignAddress(t *testing.T) {
	uc, _, addresses := newOrderFixture()
	ctx := context.Background()

	addresses.On("FindByID", ctx, int64(5)).Return(testAddress(99), nil)

	_, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{AddressID: 5, IdempotencyKey: "key-1"})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 403, he.Status)
}

// =====================
// Detail / Cancel
// =====================

func TestOrderUsecase_GetMyOrderDetail_ForeignOrderIs404(t *testing.T) {
	uc, repos, _ := newOrderFixture()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, CustomerID: 99}, nil)

	_, err := uc.GetMyOrderDetail(ctx, 1, 42)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestOrderUsecase_CancelOrder_CancelsOpenFragments(t *testing.T) {
	uc, repos, _ := newOrderFixture()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, CustomerID: 1}, nil)
	repos.fragments.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderFragment{
		{ID: 1, OrderID: 42, ShopID: 7, Status: model.OrderStatusProcessing},
		{ID: 2, OrderID: 42, ShopID: 8, Status: model.OrderStatusDelivered},
	}, nil)
	repos.fragments.On("UpdateStatus", ctx, int64(1), model.OrderStatusCancelled).Return(nil)
	repos.items.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{}, nil)

	out, err := uc.CancelOrder(ctx, 1, 42)
	assert.NoError(t, err)

	//Delivered断片はそのまま、Processing断片だけキャンセルされる
	repos.fragments.AssertCalled(t, "UpdateStatus", ctx, int64(1), model.OrderStatusCancelled)
	repos.fragments.AssertNotCalled(t, "UpdateStatus", ctx, int64(2), mock.Anything)
	assert.Equal(t, string(model.OrderStatusDelivered), out.Status)
}

func TestOrderUsecase_CancelOrder_FullyDeliveredFails(t *testing.T) {
	uc, repos, _ := newOrderFixture()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, CustomerID: 1}, nil)
	repos.fragments.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderFragment{
		{ID: 1, Status: model.OrderStatusDelivered},
		{ID: 2, Status: model.OrderStatusDelivered},
	}, nil)

	_, err := uc.CancelOrder(ctx, 1, 42)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "invalid transition", he.Message)
}

func TestOrderUsecase_CancelOrder_AlreadyCancelledIsIdempotent(t *testing.T) {
	uc, repos, _ := newOrderFixture()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, CustomerID: 1}, nil)
	repos.fragments.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderFragment{
		{ID: 1, Status: model.OrderStatusCancelled},
		{ID: 2, Status: model.OrderStatusCancelled},
	}, nil)
	repos.items.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{}, nil)

	out, err := uc.CancelOrder(ctx, 1, 42)
	assert.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusCancelled), out.Status)
	repos.fragments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// List（filter / sort）
// =====================

func TestOrderUsecase_ListMyOrders_FilterAndSort(t *testing.T) {
	uc, repos, _ := newOrderFixture()
	ctx := context.Background()

	older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	repos.orders.On("ListByCustomerID", ctx, int64(1)).Return([]model.Order{
		{ID: 1, CustomerID: 1, TotalAmount: 500, CreatedAt: older},
		{ID: 2, CustomerID: 1, TotalAmount: 100, CreatedAt: newer},
	}, nil)
	repos.items.On("ListByOrderID", ctx, int64(1)).Return([]model.OrderItem{
		{ProductID: 1, ProductNameSnapshot: "Rice 1kg", Quantity: 1, UnitPriceSnapshot: 500, ShopID: 7},
	}, nil)
	repos.items.On("ListByOrderID", ctx, int64(2)).Return([]model.OrderItem{
		{ProductID: 2, ProductNameSnapshot: "Soap", Quantity: 1, UnitPriceSnapshot: 100, ShopID: 8},
	}, nil)
	repos.fragments.On("ListByOrderID", ctx, int64(1)).Return([]model.OrderFragment{
		{ID: 1, ShopID: 7, Status: model.OrderStatusDelivered},
	}, nil)
	repos.fragments.On("ListByOrderID", ctx, int64(2)).Return([]model.OrderFragment{
		{ID: 2, ShopID: 8, Status: model.OrderStatusPending},
	}, nil)

	//デフォルトは日付の新しい順
	out, err := uc.ListMyOrders(ctx, 1, usecase.OrderListQuery{})
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)

	//ステータス絞り込みは導出した全体ステータスに対して効く
	out, err = uc.ListMyOrders(ctx, 1, usecase.OrderListQuery{Status: "Delivered"})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)

	//同じフィルタをもう一度かけても結果は変わらない
	out2, err := uc.ListMyOrders(ctx, 1, usecase.OrderListQuery{Status: "Delivered"})
	assert.NoError(t, err)
	assert.Equal(t, out, out2)

	//金額昇順
	out, err = uc.ListMyOrders(ctx, 1, usecase.OrderListQuery{Sort: "amount", Dir: "asc"})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out[0].TotalAmount)

	//フリーテキストは商品名にもマッチする
	out, err = uc.ListMyOrders(ctx, 1, usecase.OrderListQuery{Q: "rice"})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)

	//日付（YYYY-MM-DD）でもマッチする
	out, err = uc.ListMyOrders(ctx, 1, usecase.OrderListQuery{Q: "2026-08-15"})
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].ID)
}
