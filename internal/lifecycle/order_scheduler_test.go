package lifecycle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderScheduler(mem *storetest.Memory, settings fakeSettings) (*OrderScheduler, *fakeNotifier) {
	n := &fakeNotifier{}
	s := NewOrderScheduler(mem.OrderRepo(), n, settings, nil)
	return s, n
}

func TestOrderAdvancesToElapsedStage(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    string
	}{
		{30 * time.Minute, domain.OrderStatusPending},
		{time.Hour, domain.OrderStatusConfirmed},
		{5 * time.Hour, domain.OrderStatusConfirmed},
		{24 * time.Hour, domain.OrderStatusShipped},
		{49 * time.Hour, domain.OrderStatusOutForDelivery},
		{72 * time.Hour, domain.OrderStatusDelivered},
		{500 * time.Hour, domain.OrderStatusDelivered},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s after %s", tc.want, tc.elapsed), func(t *testing.T) {
			mem := storetest.NewMemory()
			mem.AddOrder(&domain.Order{
				ID:        1,
				UserID:    100,
				Status:    domain.OrderStatusPending,
				OrderDate: time.Now().Add(-tc.elapsed),
			})
			sched, _ := newOrderScheduler(mem, fakeSettings{})

			sched.Tick(context.Background())

			assert.Equal(t, tc.want, mem.Orders[1].Status)
		})
	}
}

func TestOrderSkipsIntermediateStages(t *testing.T) {
	// an order that sat through a long downtime jumps straight to the
	// highest elapsed stage, not one step per tick
	mem := storetest.NewMemory()
	mem.AddOrder(&domain.Order{
		ID:        1,
		UserID:    100,
		Status:    domain.OrderStatusPending,
		OrderDate: time.Now().Add(-80 * time.Hour),
	})
	sched, notifier := newOrderScheduler(mem, fakeSettings{})

	sched.Tick(context.Background())

	assert.Equal(t, domain.OrderStatusDelivered, mem.Orders[1].Status)
	// one notification for the single transition applied
	require.Len(t, notifier.sent(), 1)
	assert.Equal(t, int64(100), notifier.sent()[0].UserID)
	assert.Contains(t, notifier.sent()[0].Message, domain.OrderStatusDelivered)
}

func TestOrderStatusNeverRegresses(t *testing.T) {
	// status already ahead of what elapsed time implies stays put
	mem := storetest.NewMemory()
	mem.AddOrder(&domain.Order{
		ID:        1,
		UserID:    100,
		Status:    domain.OrderStatusShipped,
		OrderDate: time.Now().Add(-2 * time.Hour),
	})
	sched, notifier := newOrderScheduler(mem, fakeSettings{})

	sched.Tick(context.Background())

	assert.Equal(t, domain.OrderStatusShipped, mem.Orders[1].Status)
	assert.Empty(t, notifier.sent())
}

func TestCancelledOrderUntouched(t *testing.T) {
	mem := storetest.NewMemory()
	mem.AddOrder(&domain.Order{
		ID:        1,
		UserID:    100,
		Status:    domain.OrderStatusCancelled,
		OrderDate: time.Now().Add(-100 * time.Hour),
	})
	sched, notifier := newOrderScheduler(mem, fakeSettings{})

	sched.Tick(context.Background())

	assert.Equal(t, domain.OrderStatusCancelled, mem.Orders[1].Status)
	assert.Empty(t, notifier.sent())
}

func TestOrderThresholdsFromSettings(t *testing.T) {
	settings := fakeSettings{
		"order.confirm_hours":          2,
		"order.ship_hours":             4,
		"order.out_for_delivery_hours": 6,
		"order.delivered_hours":        8,
	}
	mem := storetest.NewMemory()
	mem.AddOrder(&domain.Order{
		ID:        1,
		UserID:    100,
		Status:    domain.OrderStatusPending,
		OrderDate: time.Now().Add(-5 * time.Hour),
	})
	sched, _ := newOrderScheduler(mem, settings)

	sched.Tick(context.Background())

	assert.Equal(t, domain.OrderStatusShipped, mem.Orders[1].Status)
}

func TestOrderTickIsolatesOrders(t *testing.T) {
	// a second order still advances when the first is unknown-status
	mem := storetest.NewMemory()
	mem.AddOrder(&domain.Order{
		ID:        1,
		UserID:    100,
		Status:    "GARBAGE",
		OrderDate: time.Now().Add(-90 * time.Hour),
	})
	mem.AddOrder(&domain.Order{
		ID:        2,
		UserID:    100,
		Status:    domain.OrderStatusPending,
		OrderDate: time.Now().Add(-90 * time.Hour),
	})
	sched, _ := newOrderScheduler(mem, fakeSettings{})

	sched.Tick(context.Background())

	assert.Equal(t, "GARBAGE", mem.Orders[1].Status)
	assert.Equal(t, domain.OrderStatusDelivered, mem.Orders[2].Status)
}

func TestOrderSchedulerStartStopIdempotent(t *testing.T) {
	mem := storetest.NewMemory()
	sched, _ := newOrderScheduler(mem, fakeSettings{})

	sched.Stop()
	sched.Start(time.Hour)
	sched.Start(time.Hour)
	sched.Stop()
	sched.Stop()
}
