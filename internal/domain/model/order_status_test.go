package model_test

import (
	"testing"

	"minimart/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}

	assert.False(t, model.OrderStatus("").Valid())
	assert.False(t, model.OrderStatus("pending").Valid()) // 表示形のみ受け付ける
	assert.False(t, model.OrderStatus("Unknown").Valid())
}

func TestCanTransition_Forward(t *testing.T) {
	cases := []struct {
		from model.OrderStatus
		to   model.OrderStatus
		want bool
	}{
		{model.OrderStatusPending, model.OrderStatusProcessing, true},
		{model.OrderStatusProcessing, model.OrderStatusShipped, true},
		{model.OrderStatusShipped, model.OrderStatusOutForDelivery, true},
		{model.OrderStatusOutForDelivery, model.OrderStatusDelivered, true},

		//飛び級はOK
		{model.OrderStatusPending, model.OrderStatusDelivered, true},
		{model.OrderStatusProcessing, model.OrderStatusOutForDelivery, true},

		//後戻りはNG
		{model.OrderStatusShipped, model.OrderStatusProcessing, false},
		{model.OrderStatusDelivered, model.OrderStatusPending, false},

		//同じ値への遷移はCanTransitionとしてはfalse（呼び出し側で冪等処理）
		{model.OrderStatusProcessing, model.OrderStatusProcessing, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, model.CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestCanTransition_Terminal(t *testing.T) {
	//終端からはどこにも行けない
	for _, to := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusOutForDelivery,
		model.OrderStatusCancelled,
	} {
		assert.False(t, model.CanTransition(model.OrderStatusDelivered, to))
		assert.False(t, model.CanTransition(model.OrderStatusCancelled, to))
	}

	//キャンセルは終端以外からならいつでも可能
	for _, from := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusOutForDelivery,
	} {
		assert.True(t, model.CanTransition(from, model.OrderStatusCancelled))
	}
}

func TestOrderStatus_Progress(t *testing.T) {
	assert.Equal(t, 10, model.OrderStatusPending.Progress())
	assert.Equal(t, 25, model.OrderStatusProcessing.Progress())
	assert.Equal(t, 50, model.OrderStatusShipped.Progress())
	assert.Equal(t, 75, model.OrderStatusOutForDelivery.Progress())
	assert.Equal(t, 100, model.OrderStatusDelivered.Progress())
	assert.Equal(t, 0, model.OrderStatusCancelled.Progress())
}

func TestOverallStatus(t *testing.T) {
	//全体ステータスは「一番進んでいない」非キャンセル断片に合わせる
	assert.Equal(t, model.OrderStatusPending, model.OverallStatus([]model.OrderStatus{
		model.OrderStatusPending, model.OrderStatusDelivered,
	}))
	assert.Equal(t, model.OrderStatusProcessing, model.OverallStatus([]model.OrderStatus{
		model.OrderStatusShipped, model.OrderStatusProcessing,
	}))

	//キャンセル断片は無視される
	assert.Equal(t, model.OrderStatusDelivered, model.OverallStatus([]model.OrderStatus{
		model.OrderStatusCancelled, model.OrderStatusDelivered,
	}))

	//全部キャンセルならCancelled
	assert.Equal(t, model.OrderStatusCancelled, model.OverallStatus([]model.OrderStatus{
		model.OrderStatusCancelled, model.OrderStatusCancelled,
	}))

	//断片なしはPending扱い
	assert.Equal(t, model.OrderStatusPending, model.OverallStatus(nil))
}
