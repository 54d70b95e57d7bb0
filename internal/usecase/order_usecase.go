package usecase

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"minimart/internal/domain/model"
	"minimart/internal/metrics"
	repo "minimart/internal/repository"
)

// OrderUsecase は注文の確定と顧客側ビュー。
// 複数店舗の商品を含むカートを1つの注文にまとめ、
// 店舗ごとの断片（OrderFragment）を同時に作る。
type OrderUsecase struct {
	tx        repo.TransactionManager
	addresses repo.AddressRepository
	metrics   *metrics.OrderMetrics
}

func NewOrderUsecase(tx repo.TransactionManager, addresses repo.AddressRepository, m *metrics.OrderMetrics) *OrderUsecase {
	return &OrderUsecase{tx: tx, addresses: addresses, metrics: m}
}

type PlaceOrderInput struct {
	AddressID      int64
	IdempotencyKey string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	ShopID    int64  `json:"shop_id"`
	ShopName  string `json:"shop_name"`
	ImageURL  string `json:"image_url"`
}

// 店舗ごとの断片。小計は明細から導出する（保存しない）
type FragmentOutput struct {
	ShopID   int64  `json:"shop_id"`
	ShopName string `json:"shop_name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Subtotal int64  `json:"subtotal"`
}

type ShippingOutput struct {
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	PhoneNumber   string `json:"phone_number"`
}

type OrderOutput struct {
	ID          int64            `json:"id"`
	CustomerID  int64            `json:"customer_id"`
	CreatedAt   time.Time        `json:"created_at"`
	TotalAmount int64            `json:"total_amount"`
	Status      string           `json:"status"`
	Progress    int              `json:"progress"`
	ShipTo      ShippingOutput   `json:"ship_to"`
	Items       []OrderItemOutput `json:"items"`
	Fragments   []FragmentOutput  `json:"fragments"`
}

// PlaceOrder はカート＋住所から複数店舗にまたがる注文を1つ作る。
// 全店舗分がまとめて作られるか、何も作られないかのどちらか。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, customerID int64, in PlaceOrderInput) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	//住所の存在確認＋所有チェック。スナップショットは確定時点の値
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if addr.UserID != customerID {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out OrderOutput
	placed := false

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			o, err := loadOrderOutput(ctx, r, existing)
			if err != nil {
				return err
			}
			out = o
			return nil
		}

		//ACTIVEカート取得
		cart, err := r.Carts().FindActiveByUserID(ctx, customerID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//明細はカートのスナップショットをそのまま写す
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var total int64 = 0

		for _, ci := range cartItems {
			if ci.Quantity <= 0 {
				return NewHTTPError(http.StatusBadRequest, "invalid quantity")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: ci.ProductNameSnapshot,
				UnitPriceSnapshot:   ci.UnitPriceSnapshot,
				Quantity:            ci.Quantity,
				ShopID:              ci.ShopIDSnapshot,
				ShopNameSnapshot:    ci.ShopNameSnapshot,
				ImageURLSnapshot:    ci.ImageURLSnapshot,
				CreatedAt:           now,
			})

			total += ci.UnitPriceSnapshot * ci.Quantity
		}

		// 注文作成（配送先は確定時点のスナップショット）
		order := model.Order{
			CustomerID:        customerID,
			TotalAmount:       total,
			ShipFullName:      addr.FullName,
			ShipStreetAddress: addr.StreetAddress,
			ShipCity:          addr.City,
			ShipState:         addr.State,
			ShipPostalCode:    addr.PostalCode,
			ShipPhoneNumber:   addr.PhoneNumber,
			IdempotencyKey:    key,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			//競合（同時に同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
			if err2 == nil && found2 {
				o, err3 := loadOrderOutput(ctx, r, ex2)
				if err3 != nil {
					return err3
				}
				out = o
				return nil
			}
			return NewHTTPError(http.StatusBadRequest, "idempotency conflict")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//店舗ごとに断片を作る（登場順、全部Pendingから始まる）
		fragments := buildFragments(orderItems, now)
		if err := r.OrderFragments().CreateBulk(ctx, orderID, fragments); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをCHECKED_OUTにして明細をクリア（再注文防止）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems, fragments)
		placed = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	if placed {
		u.metrics.OrderPlaced()
	}
	return out, nil
}

// 顧客の注文一覧の絞り込み・並び替え条件。
// フィルタは取得済みの一覧に対する純粋な変換で、何度適用しても同じ結果
type OrderListQuery struct {
	Status string // 全体ステータスの完全一致（空なら絞らない）
	Q      string // ID・商品名・店舗名・ステータス・日付の部分一致
	Sort   string // date / amount（デフォルトdate）
	Dir    string // asc / desc（デフォルトdesc）
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, customerID int64, q OrderListQuery) ([]OrderOutput, error) {
	if customerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByCustomerID(ctx, customerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			out, err := loadOrderOutput(ctx, r, o)
			if err != nil {
				return err
			}
			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}

	outs = filterOrders(outs, q)
	sortOrders(outs, q)
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		out, err = loadOrderOutput(ctx, r, o)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// CancelOrder は注文全体のキャンセル要求。まだ開いている断片を
// すべてCancelledにする。全断片がキャンセル済みなら何もせず現状を返す
// （冪等）。全断片がDeliveredなら遷移エラー
func (u *OrderUsecase) CancelOrder(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	var cancelled []model.OrderStatus

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		fragments, err := r.OrderFragments().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		statuses := make([]model.OrderStatus, 0, len(fragments))
		for _, f := range fragments {
			statuses = append(statuses, f.Status)
		}

		switch model.OverallStatus(statuses) {
		case model.OrderStatusCancelled:
			//すでに全部キャンセル済み。冪等に現状を返す
			out, err = loadOrderOutput(ctx, r, o)
			return err
		case model.OrderStatusDelivered:
			return NewHTTPError(http.StatusBadRequest, "invalid transition")
		}

		for i := range fragments {
			if fragments[i].Status.Terminal() {
				//Delivered済みの断片はそのまま残す
				continue
			}
			if err := r.OrderFragments().UpdateStatus(ctx, fragments[i].ID, model.OrderStatusCancelled); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			fragments[i].Status = model.OrderStatusCancelled
			cancelled = append(cancelled, model.OrderStatusCancelled)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toOrderOutput(o, items, fragments)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	for range cancelled {
		u.metrics.StatusTransition(string(model.OrderStatusCancelled))
	}
	return out, nil
}

// 明細の登場順で店舗ごとの断片を起こす
func buildFragments(items []model.OrderItem, now time.Time) []model.OrderFragment {
	seen := map[int64]bool{}
	fragments := make([]model.OrderFragment, 0)

	for _, it := range items {
		if seen[it.ShopID] {
			continue
		}
		seen[it.ShopID] = true
		fragments = append(fragments, model.OrderFragment{
			ShopID:           it.ShopID,
			ShopNameSnapshot: it.ShopNameSnapshot,
			Status:           model.OrderStatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	return fragments
}

func loadOrderOutput(ctx context.Context, r repo.TxRepos, o model.Order) (OrderOutput, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	fragments, err := r.OrderFragments().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(o, items, fragments), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, fragments []model.OrderFragment) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	subtotals := map[int64]int64{}
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			ShopID:    it.ShopID,
			ShopName:  it.ShopNameSnapshot,
			ImageURL:  it.ImageURLSnapshot,
		})
		subtotals[it.ShopID] += it.UnitPriceSnapshot * it.Quantity
	}

	outFragments := make([]FragmentOutput, 0, len(fragments))
	statuses := make([]model.OrderStatus, 0, len(fragments))
	for _, f := range fragments {
		outFragments = append(outFragments, FragmentOutput{
			ShopID:   f.ShopID,
			ShopName: f.ShopNameSnapshot,
			Status:   string(f.Status),
			Progress: f.Status.Progress(),
			Subtotal: subtotals[f.ShopID],
		})
		statuses = append(statuses, f.Status)
	}

	overall := model.OverallStatus(statuses)

	return OrderOutput{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		CreatedAt:   o.CreatedAt,
		TotalAmount: o.TotalAmount,
		Status:      string(overall),
		Progress:    overall.Progress(),
		ShipTo: ShippingOutput{
			FullName:      o.ShipFullName,
			StreetAddress: o.ShipStreetAddress,
			City:          o.ShipCity,
			State:         o.ShipState,
			PostalCode:    o.ShipPostalCode,
			PhoneNumber:   o.ShipPhoneNumber,
		},
		Items:     outItems,
		Fragments: outFragments,
	}
}

// 絞り込み。状態を持たない純粋な変換なので、2回かけても結果は同じ
func filterOrders(orders []OrderOutput, q OrderListQuery) []OrderOutput {
	status := strings.TrimSpace(q.Status)
	text := strings.ToLower(strings.TrimSpace(q.Q))
	if status == "" && text == "" {
		return orders
	}

	out := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if text != "" && !orderMatches(o, text) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func orderMatches(o OrderOutput, text string) bool {
	if strings.Contains(strconv.FormatInt(o.ID, 10), text) {
		return true
	}
	if strings.Contains(strings.ToLower(o.Status), text) {
		return true
	}
	if strings.Contains(o.CreatedAt.Format("2006-01-02"), text) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), text) {
			return true
		}
		if strings.Contains(strings.ToLower(it.ShopName), text) {
			return true
		}
	}
	return false
}

// 並び替え（date / amount、デフォルトはdateの新しい順）
func sortOrders(orders []OrderOutput, q OrderListQuery) {
	asc := q.Dir == "asc"

	switch q.Sort {
	case "amount":
		sort.SliceStable(orders, func(i, j int) bool {
			if asc {
				return orders[i].TotalAmount < orders[j].TotalAmount
			}
			return orders[i].TotalAmount > orders[j].TotalAmount
		})
	default:
		sort.SliceStable(orders, func(i, j int) bool {
			if asc {
				return orders[i].CreatedAt.Before(orders[j].CreatedAt)
			}
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		})
	}
}
