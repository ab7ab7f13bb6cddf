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

const (
	defaultSaleTickInterval = time.Minute
	defaultEndingSoonHours  = 24
	saleActiveSubject       = "Sale is live"
	saleEndingSoonSubject   = "Sale ending soon"
)

func saleStatusRank(status string) int {
	switch status {
	case domain.SaleStatusScheduled:
		return 0
	case domain.SaleStatusActive:
		return 1
	case domain.SaleStatusCompleted:
		return 2
	}
	return -1
}

// SaleScheduler transitions sales SCHEDULED -> ACTIVE -> COMPLETED against
// wall clock, broadcasting on activation and once per sale when the end is
// near. The ending-soon dedup is in-memory only: a restart re-notifies
// sales already inside the warning window.
type SaleScheduler struct {
	sales       store.SaleRepository
	broadcaster Broadcaster
	settings    Settings
	bus         Publisher

	mu       sync.Mutex
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	warned   map[int64]bool
}

func NewSaleScheduler(sales store.SaleRepository, broadcaster Broadcaster, settings Settings, bus Publisher) *SaleScheduler {
	return &SaleScheduler{
		sales:       sales,
		broadcaster: broadcaster,
		settings:    settings,
		bus:         bus,
		warned:      make(map[int64]bool),
	}
}

// Start begins periodic ticks. Calling Start on a running scheduler is a
// no-op.
func (s *SaleScheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	if interval <= 0 {
		interval = defaultSaleTickInterval
	}
	s.ticker = time.NewTicker(interval)
	s.stopChan = make(chan struct{})
	s.running = true
	go s.loop(s.ticker, s.stopChan)
	zap.L().Info("sale lifecycle scheduler started", zap.Duration("interval", interval))
}

// Stop prevents further ticks; an in-flight tick completes. Stop before
// Start or after Stop is a no-op.
func (s *SaleScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.ticker.Stop()
	close(s.stopChan)
	s.running = false
	zap.L().Info("sale lifecycle scheduler stopped")
}

func (s *SaleScheduler) loop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			s.Tick(context.Background())
		case <-stop:
			return
		}
	}
}

// Tick runs one scan-and-transition pass over all non-completed sales.
func (s *SaleScheduler) Tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Error("sale scheduler tick panic: ", r)
		}
	}()

	sales, err := s.sales.ListNotCompleted(ctx)
	if err != nil {
		zap.L().Error("sale scheduler: listing failed", zap.Error(err))
		return
	}

	now := time.Now()
	warnWindow := time.Duration(s.endingSoonHours()) * time.Hour
	for _, sale := range sales {
		s.transition(ctx, sale, now, warnWindow)
	}
}

func (s *SaleScheduler) endingSoonHours() int {
	hours := s.settings.GetInt("sale", "ending_soon_hours")
	if hours <= 0 {
		hours = defaultEndingSoonHours
	}
	return hours
}

// transition applies the highest-applicable status to one sale. Errors are
// isolated per sale.
func (s *SaleScheduler) transition(ctx context.Context, sale *domain.Sale, now time.Time, warnWindow time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Error("sale transition panic: ", r)
		}
	}()

	target := sale.Status
	switch {
	case !now.Before(sale.EndDate):
		target = domain.SaleStatusCompleted
	case !now.Before(sale.StartDate):
		target = domain.SaleStatusActive
	}

	// Persist only on forward change; a sale never regresses.
	if saleStatusRank(target) > saleStatusRank(sale.Status) {
		if err := s.sales.UpdateStatus(ctx, sale.ID, target); err != nil {
			zap.L().Error("sale status update failed",
				zap.Int64("sale_id", sale.ID),
				zap.String("to", target),
				zap.Error(err),
			)
			return
		}
		zap.L().Info("sale status changed",
			zap.Int64("sale_id", sale.ID),
			zap.String("from", sale.Status),
			zap.String("to", target),
		)
		if s.bus != nil {
			s.bus.Publish(domain.EventSaleStatusChanged, domain.SaleStatusEvent{
				SaleID: sale.ID,
				From:   sale.Status,
				To:     target,
			})
		}
		if sale.Status == domain.SaleStatusScheduled && target == domain.SaleStatusActive {
			msg := fmt.Sprintf("%s is active now: %.0f%% off until %s",
				sale.Name, sale.DiscountPercent, sale.EndDate.Format("Jan 2 15:04"))
			s.broadcaster.Broadcast(ctx, saleActiveSubject, msg)
		}
		sale.Status = target
	}

	// Ending-soon warning, at most once per sale per process lifetime.
	if sale.Status == domain.SaleStatusActive && sale.EndDate.Sub(now) < warnWindow {
		s.mu.Lock()
		already := s.warned[sale.ID]
		if !already {
			s.warned[sale.ID] = true
		}
		s.mu.Unlock()
		if !already {
			msg := fmt.Sprintf("%s ends %s - last chance for %.0f%% off",
				sale.Name, sale.EndDate.Format("Jan 2 15:04"), sale.DiscountPercent)
			s.broadcaster.Broadcast(ctx, saleEndingSoonSubject, msg)
		}
	}
}
