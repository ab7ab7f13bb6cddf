package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store"
	"go.uber.org/zap"
)

const defaultOrderTickInterval = time.Minute

// Default cumulative hours since order placement for each stage beyond
// PENDING, overridable through settings.
const (
	defaultConfirmHours        = 1
	defaultShipHours           = 24
	defaultOutForDeliveryHours = 48
	defaultDeliveredHours      = 72
)

// OrderScheduler advances non-terminal orders through the fixed status
// progression based purely on elapsed time since the order date. It never
// regresses an order and never assigns CANCELLED.
type OrderScheduler struct {
	orders     store.OrderRepository
	dispatcher Notifier
	settings   Settings
	bus        Publisher

	mu       sync.Mutex
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
}

func NewOrderScheduler(orders store.OrderRepository, dispatcher Notifier, settings Settings, bus Publisher) *OrderScheduler {
	return &OrderScheduler{
		orders:     orders,
		dispatcher: dispatcher,
		settings:   settings,
		bus:        bus,
	}
}

func (s *OrderScheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	if interval <= 0 {
		interval = defaultOrderTickInterval
	}
	s.ticker = time.NewTicker(interval)
	s.stopChan = make(chan struct{})
	s.running = true
	go s.loop(s.ticker, s.stopChan)
	zap.L().Info("order status scheduler started", zap.Duration("interval", interval))
}

func (s *OrderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.ticker.Stop()
	close(s.stopChan)
	s.running = false
	zap.L().Info("order status scheduler stopped")
}

func (s *OrderScheduler) loop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			s.Tick(context.Background())
		case <-stop:
			return
		}
	}
}

// stageThresholds returns the cumulative elapsed-hour thresholds indexed by
// stage rank; index 0 (PENDING) is always zero.
func (s *OrderScheduler) stageThresholds() [5]int {
	read := func(name string, fallback int) int {
		v := s.settings.GetInt("order", name)
		if v <= 0 {
			return fallback
		}
		return v
	}
	return [5]int{
		0,
		read("confirm_hours", defaultConfirmHours),
		read("ship_hours", defaultShipHours),
		read("out_for_delivery_hours", defaultOutForDeliveryHours),
		read("delivered_hours", defaultDeliveredHours),
	}
}

// Tick scans in-progress orders and advances each to the highest stage
// whose elapsed-time threshold has been met. Per-order errors are isolated.
func (s *OrderScheduler) Tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Error("order scheduler tick panic: ", r)
		}
	}()

	orders, err := s.orders.ListInProgress(ctx)
	if err != nil {
		zap.L().Error("order scheduler: listing failed", zap.Error(err))
		return
	}

	now := time.Now()
	thresholds := s.stageThresholds()
	for _, order := range orders {
		s.advance(ctx, order, now, thresholds)
	}
}

func (s *OrderScheduler) advance(ctx context.Context, order *domain.Order, now time.Time, thresholds [5]int) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Error("order advance panic: ", r)
		}
	}()

	current := domain.StageRank(order.Status)
	if current < 0 {
		// CANCELLED or unknown: not ours to touch.
		return
	}

	elapsed := now.Sub(order.OrderDate)
	target := current
	for rank := current + 1; rank < len(domain.OrderStages); rank++ {
		if elapsed >= time.Duration(thresholds[rank])*time.Hour {
			target = rank
		}
	}
	if target == current {
		return
	}

	status := domain.OrderStages[target]
	if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
		zap.L().Error("order status update failed",
			zap.Int64("order_id", order.ID),
			zap.String("to", status),
			zap.Error(err),
		)
		return
	}
	zap.L().Info("order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("from", order.Status),
		zap.String("to", status),
	)
	if s.bus != nil {
		s.bus.Publish(domain.EventOrderStatusChanged, domain.OrderStatusEvent{
			OrderID: order.ID,
			From:    order.Status,
			To:      status,
		})
	}
	s.dispatcher.Notify(ctx, order.UserID,
		fmt.Sprintf("Order #%d is now %s", order.ID, status))
}
