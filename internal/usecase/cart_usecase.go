package usecase

import (
	"context"
	"net/http"
	"time"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// カートは顧客ごとの永続ストアで、商品IDにつき明細は1行。
// 変更は毎回DBへ同期し、リロードしても同じカートが復元される。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	shopRepo     repo.ShopRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	shopRepo repo.ShopRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		shopRepo:     shopRepo,
	}
}

type CartLineResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	ShopID    int64  `json:"shop_id"`
	ShopName  string `json:"shop_name"`
	ImageURL  string `json:"image_url"`
}

// Totalsはカートの集計。副作用なしの純粋な読み取り
type CartTotals struct {
	LineCount     int   `json:"line_count"`
	TotalQuantity int64 `json:"total_quantity"`
	Subtotal      int64 `json:"subtotal"`
}

type CartResponse struct {
	Items  []CartLineResponse `json:"items"`
	Totals CartTotals         `json:"totals"`
}

type SetQuantityInput struct {
	Quantity int64
}

// GetCart はカート取得（無ければACTIVEを作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// AddItem はカートに商品を1つ追加する。
// 同一商品は数量+1、新規なら商品の現在値をスナップショットして明細を作る。
// スナップショット（価格・店舗名など）は初回追加時のまま動かない
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//在庫は目安としてだけ見る（在庫いっぱいならこれ以上は足さない）
	existing, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, productID)
	if err != nil && err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err == nil && p.Stock > 0 && existing.Quantity >= p.Stock {
		return u.buildCartResponse(ctx, cart.ID)
	}

	shop, err := u.shopRepo.FindByID(ctx, p.ShopID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	item := model.CartItem{
		CartID:              cart.ID,
		ProductID:           p.ID,
		Quantity:            1,
		ProductNameSnapshot: p.Name,
		UnitPriceSnapshot:   p.Price,
		ShopIDSnapshot:      p.ShopID,
		ShopNameSnapshot:    shop.Name,
		ImageURLSnapshot:    p.ImageURL,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := u.cartItemRepo.UpsertAddOne(ctx, item); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// SetQuantity は数量の置き換え。n<=0 は削除と同じ。
// 在庫がわかる場合は在庫数まででクランプする（エラーにはしない）
func (u *CartUsecase) SetQuantity(ctx context.Context, userID int64, productID int64, in SetQuantityInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if in.Quantity <= 0 {
		return u.RemoveItem(ctx, userID, productID)
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, err := u.cartItemRepo.FindByCartAndProduct(ctx, cart.ID, productID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	qty := in.Quantity
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == nil && p.Stock > 0 && qty > p.Stock {
		qty = p.Stock
	}
	if err != nil && err != repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.UpdateQuantityByProduct(ctx, cart.ID, productID, qty); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// RemoveItem は明細を無条件に削除する
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByProduct(ctx, cart.ID, productID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// Clear はカートを空にする（ログアウト時・注文確定時）
func (u *CartUsecase) Clear(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		//無ければ空として扱う
		return CartResponse{Items: []CartLineResponse{}}, nil
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// cartIDの明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartLineResponse, 0, len(items))
	totals := CartTotals{}

	for _, it := range items {
		respItems = append(respItems, CartLineResponse{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			ShopID:    it.ShopIDSnapshot,
			ShopName:  it.ShopNameSnapshot,
			ImageURL:  it.ImageURLSnapshot,
		})

		totals.LineCount++
		totals.TotalQuantity += it.Quantity
		totals.Subtotal += it.UnitPriceSnapshot * it.Quantity
	}

	return CartResponse{Items: respItems, Totals: totals}, nil
}
