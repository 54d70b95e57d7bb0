package usecase

import (
	"context"
	"net/http"
	"sort"
	"time"

	"minimart/internal/domain/model"
	repo "minimart/internal/repository"
)

// AnalyticsUsecase は店舗オーナー向けの売上集計。
// 集計対象は自店舗の断片・明細のみ（キャンセル断片は売上に含めない）
type AnalyticsUsecase struct {
	tx       repo.TransactionManager
	shopRepo repo.ShopRepository
}

func NewAnalyticsUsecase(tx repo.TransactionManager, shopRepo repo.ShopRepository) *AnalyticsUsecase {
	return &AnalyticsUsecase{tx: tx, shopRepo: shopRepo}
}

type RevenuePoint struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Revenue int64  `json:"revenue"`
}

type TopProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

type AnalyticsResponse struct {
	TotalSales        int64            `json:"total_sales"`
	TotalOrders       int64            `json:"total_orders"`
	ActiveCustomers   int64            `json:"active_customers"`
	AverageOrderValue int64            `json:"average_order_value"`
	RevenueData       []RevenuePoint   `json:"revenue_data"`
	StatusBreakdown   map[string]int64 `json:"status_breakdown"`
	TopProducts       []TopProduct     `json:"top_products"`
}

// days>0 なら直近days日だけ集計する（0は全期間）
func (u *AnalyticsUsecase) ShopAnalytics(ctx context.Context, ownerID int64, days int) (AnalyticsResponse, error) {
	if ownerID <= 0 {
		return AnalyticsResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if days < 0 {
		return AnalyticsResponse{}, NewHTTPError(http.StatusBadRequest, "invalid days")
	}

	var cutoff time.Time
	if days > 0 {
		cutoff = time.Now().AddDate(0, 0, -days)
	}

	shop, err := u.shopRepo.FindByOwnerID(ctx, ownerID)
	if err == repo.ErrNotFound {
		return AnalyticsResponse{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return AnalyticsResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := AnalyticsResponse{
		RevenueData:     []RevenuePoint{},
		StatusBreakdown: map[string]int64{},
		TopProducts:     []TopProduct{},
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		fragments, err := r.OrderFragments().ListByShopID(ctx, shop.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		revenueByDate := map[string]int64{}
		customers := map[int64]bool{}
		byProduct := map[int64]*TopProduct{}

		for _, f := range fragments {
			o, err := r.Orders().FindByID(ctx, f.OrderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !cutoff.IsZero() && o.CreatedAt.Before(cutoff) {
				continue
			}

			resp.StatusBreakdown[string(f.Status)]++
			resp.TotalOrders++

			if f.Status == model.OrderStatusCancelled {
				continue
			}
			customers[o.CustomerID] = true

			items, err := r.OrderItems().ListByOrderID(ctx, f.OrderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			var subtotal int64 = 0
			for _, it := range items {
				if it.ShopID != shop.ID {
					continue
				}
				line := it.UnitPriceSnapshot * it.Quantity
				subtotal += line

				tp, ok := byProduct[it.ProductID]
				if !ok {
					tp = &TopProduct{ProductID: it.ProductID, Name: it.ProductNameSnapshot}
					byProduct[it.ProductID] = tp
				}
				tp.Quantity += it.Quantity
				tp.Revenue += line
			}

			resp.TotalSales += subtotal
			revenueByDate[o.CreatedAt.Format("2006-01-02")] += subtotal
		}

		resp.ActiveCustomers = int64(len(customers))

		//日付昇順の売上推移
		dates := make([]string, 0, len(revenueByDate))
		for d := range revenueByDate {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		for _, d := range dates {
			resp.RevenueData = append(resp.RevenueData, RevenuePoint{Date: d, Revenue: revenueByDate[d]})
		}

		//数量順の上位5商品
		tops := make([]TopProduct, 0, len(byProduct))
		for _, tp := range byProduct {
			tops = append(tops, *tp)
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Quantity != tops[j].Quantity {
				return tops[i].Quantity > tops[j].Quantity
			}
			return tops[i].Revenue > tops[j].Revenue
		})
		if len(tops) > 5 {
			tops = tops[:5]
		}
		resp.TopProducts = tops

		return nil
	})

	if err != nil {
		return AnalyticsResponse{}, err
	}

	//平均注文額（キャンセルを除いた断片数で割る）
	nonCancelled := resp.TotalOrders - resp.StatusBreakdown[string(model.OrderStatusCancelled)]
	if nonCancelled > 0 {
		resp.AverageOrderValue = resp.TotalSales / nonCancelled
	}

	return resp, nil
}
