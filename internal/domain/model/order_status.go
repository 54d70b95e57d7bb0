package model

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// 配送の進み具合の順序。Cancelledはこの列に乗らない
var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusProcessing:     1,
	OrderStatusShipped:        2,
	OrderStatusOutForDelivery: 3,
	OrderStatusDelivered:      4,
}

func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// DeliveredとCancelledは終端。以降の遷移は受け付けない
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition は from→to が許される遷移かを返す。
//   - 終端からはどこへも行けない
//   - Cancelledへは終端以外のどこからでも行ける
//   - それ以外は前進のみ（飛ばすのは可、戻るのは不可）
//
// from==to はここではfalse（呼び出し側が冪等な no-op として扱う）。
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from.Terminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return statusRank[to] > statusRank[from]
}

// Progress は表示用の進捗（%）。遷移判定には使わない
func (s OrderStatus) Progress() int {
	switch s {
	case OrderStatusPending:
		return 10
	case OrderStatusProcessing:
		return 25
	case OrderStatusShipped:
		return 50
	case OrderStatusOutForDelivery:
		return 75
	case OrderStatusDelivered:
		return 100
	default:
		// Cancelled
		return 0
	}
}

// OverallStatus は顧客に見せる注文全体のステータスを断片から導出する。
//   - 全断片がCancelledのときだけCancelled
//   - それ以外はCancelledを除いた中で最も遅れている断片のステータス
//
// 一部だけキャンセルされた注文は「進行中」として扱い、
// 店舗ごとの状態は断片側でそのまま見せる。
func OverallStatus(fragments []OrderStatus) OrderStatus {
	if len(fragments) == 0 {
		return OrderStatusPending
	}

	allCancelled := true
	overall := OrderStatus("")
	for _, s := range fragments {
		if s == OrderStatusCancelled {
			continue
		}
		allCancelled = false
		if overall == "" || statusRank[s] < statusRank[overall] {
			overall = s
		}
	}

	if allCancelled {
		return OrderStatusCancelled
	}
	return overall
}
