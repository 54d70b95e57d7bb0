package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"minimart/internal/domain/model"
	"minimart/internal/metrics"
	repo "minimart/internal/repository"
)

// ShopOrderUsecase は店舗オーナー側の注文ビューとステータス更新。
// 店舗から見えるのは自店舗の断片だけで、他店舗の明細は返さない
type ShopOrderUsecase struct {
	tx       repo.TransactionManager
	shopRepo repo.ShopRepository
	userRepo repo.UserRepository
	audit    repo.AuditLogRepository
	metrics  *metrics.OrderMetrics
}

func NewShopOrderUsecase(
	tx repo.TransactionManager,
	shopRepo repo.ShopRepository,
	userRepo repo.UserRepository,
	audit repo.AuditLogRepository,
	m *metrics.OrderMetrics,
) *ShopOrderUsecase {
	return &ShopOrderUsecase{
		tx:       tx,
		shopRepo: shopRepo,
		userRepo: userRepo,
		audit:    audit,
		metrics:  m,
	}
}

// 店舗側から見た1注文。明細と小計は自店舗分のみ、
// 注文全体の合計は参考値としてだけ載せる
type ShopOrderOutput struct {
	OrderID           int64             `json:"order_id"`
	CreatedAt         time.Time         `json:"created_at"`
	Status            string            `json:"status"`
	Progress          int               `json:"progress"`
	CustomerName      string            `json:"customer_name"`
	CustomerCity      string            `json:"customer_city"`
	ShipTo            ShippingOutput    `json:"ship_to"`
	Items             []OrderItemOutput `json:"items"`
	ShopSpecificTotal int64             `json:"shop_specific_total"`
	OrderTotal        int64             `json:"order_total"`
}

type UpdateStatusInput struct {
	Status string
}

// ListShopOrders は自店舗宛ての断片を新しい順に返す。
func (u *ShopOrderUsecase) ListShopOrders(ctx context.Context, ownerID int64) ([]ShopOrderOutput, error) {
	if ownerID <= 0 {
		return []ShopOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	shop, err := u.shopRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return []ShopOrderOutput{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return []ShopOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var outs []ShopOrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		fragments, err := r.OrderFragments().ListByShopID(ctx, shop.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]ShopOrderOutput, 0, len(fragments))
		for _, f := range fragments {
			o, err := r.Orders().FindByID(ctx, f.OrderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			items, err := r.OrderItems().ListByOrderID(ctx, f.OrderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			out := toShopOrderOutput(o, f, items, shop.ID)

			//顧客名・都市は表示用
			if customer, err := u.userRepo.FindByID(ctx, o.CustomerID); err == nil {
				out.CustomerName = customer.Name
				out.CustomerCity = customer.City
			}

			outs = append(outs, out)
		}
		return nil
	})

	if err != nil {
		return []ShopOrderOutput{}, err
	}
	return outs, nil
}

// UpdateStatus は自店舗断片のステータス更新。
// 同じ値への更新は何もしない（監査ログも増えない）。
// 後戻りと終端からの遷移は拒否する
func (u *ShopOrderUsecase) UpdateStatus(ctx context.Context, ownerID int64, orderID int64, in UpdateStatusInput) (ShopOrderOutput, error) {
	if ownerID <= 0 {
		return ShopOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return ShopOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next := model.OrderStatus(in.Status)
	if !next.Valid() {
		return ShopOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	shop, err := u.shopRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return ShopOrderOutput{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return ShopOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out ShopOrderOutput
	changed := false
	var before model.OrderStatus

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		f, err := r.OrderFragments().FindByOrderAndShop(ctx, orderID, shop.ID)
		if err == repo.ErrNotFound {
			//自店舗宛てでない注文は存在しない扱い
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, f.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, f.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//同じ値なら成功として現状を返す（冪等）
		if f.Status == next {
			out = toShopOrderOutput(o, f, items, shop.ID)
			return nil
		}

		if !model.CanTransition(f.Status, next) {
			return NewHTTPError(http.StatusBadRequest, "invalid transition")
		}

		before = f.Status
		if err := r.OrderFragments().UpdateStatus(ctx, f.ID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		f.Status = next
		changed = true

		out = toShopOrderOutput(o, f, items, shop.ID)
		return nil
	})

	if err != nil {
		return ShopOrderOutput{}, err
	}

	if changed {
		u.metrics.StatusTransition(string(next))
		u.writeAudit(ctx, ownerID, orderID, shop.ID, before, next)
	}
	return out, nil
}

// 監査ログ。失敗しても更新自体は成立させる
func (u *ShopOrderUsecase) writeAudit(ctx context.Context, actorID, orderID, shopID int64, before, after model.OrderStatus) {
	if u.audit == nil {
		return
	}

	beforeJSON, _ := json.Marshal(map[string]interface{}{"order_id": orderID, "shop_id": shopID, "status": string(before)})
	afterJSON, _ := json.Marshal(map[string]interface{}{"order_id": orderID, "shop_id": shopID, "status": string(after)})

	_ = u.audit.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrderFragment,
		ResourceID:   orderID,
		BeforeJSON:   string(beforeJSON),
		AfterJSON:    string(afterJSON),
		CreatedAt:    time.Now(),
	})
}

func toShopOrderOutput(o model.Order, f model.OrderFragment, items []model.OrderItem, shopID int64) ShopOrderOutput {
	shopItems := make([]OrderItemOutput, 0, len(items))
	var subtotal int64 = 0

	for _, it := range items {
		if it.ShopID != shopID {
			continue
		}
		shopItems = append(shopItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			ShopID:    it.ShopID,
			ShopName:  it.ShopNameSnapshot,
			ImageURL:  it.ImageURLSnapshot,
		})
		subtotal += it.UnitPriceSnapshot * it.Quantity
	}

	return ShopOrderOutput{
		OrderID:   o.ID,
		CreatedAt: o.CreatedAt,
		Status:    string(f.Status),
		Progress:  f.Status.Progress(),
		ShipTo: ShippingOutput{
			FullName:      o.ShipFullName,
			StreetAddress: o.ShipStreetAddress,
			City:          o.ShipCity,
			State:         o.ShipState,
			PostalCode:    o.ShipPostalCode,
			PhoneNumber:   o.ShipPhoneNumber,
		},
		Items:             shopItems,
		ShopSpecificTotal: subtotal,
		OrderTotal:        o.TotalAmount,
	}
}
