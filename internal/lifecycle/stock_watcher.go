package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store"
	"github.com/shoplite/shoplite/pkg/metrics"
	"go.uber.org/zap"
)

const (
	defaultStockTickInterval = 5 * time.Minute
	defaultLowStockThreshold = 5
)

// StockWatcher scans for products at or under the configured threshold and
// alerts every administrator. It is invoked both from its own timer and
// synchronously after each order placement; CheckOnce holds no mutable
// state, so concurrent callers are safe. Alerts are deliberately not
// deduplicated across runs.
type StockWatcher struct {
	products   store.ProductRepository
	users      store.UserRepository
	dispatcher Notifier
	settings   Settings
	bus        Publisher

	mu       sync.Mutex
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
}

func NewStockWatcher(products store.ProductRepository, users store.UserRepository, dispatcher Notifier, settings Settings, bus Publisher) *StockWatcher {
	return &StockWatcher{
		products:   products,
		users:      users,
		dispatcher: dispatcher,
		settings:   settings,
		bus:        bus,
	}
}

func (w *StockWatcher) Start(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	if interval <= 0 {
		interval = defaultStockTickInterval
	}
	w.ticker = time.NewTicker(interval)
	w.stopChan = make(chan struct{})
	w.running = true
	go w.loop(w.ticker, w.stopChan)
	zap.L().Info("stock watcher started", zap.Duration("interval", interval))
}

func (w *StockWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.ticker.Stop()
	close(w.stopChan)
	w.running = false
	zap.L().Info("stock watcher stopped")
}

func (w *StockWatcher) loop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			w.tick()
		case <-stop:
			return
		}
	}
}

func (w *StockWatcher) tick() {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Error("stock watcher tick panic: ", r)
		}
	}()
	w.CheckOnce(context.Background())
}

// CheckOnce scans products below the threshold and notifies each
// administrator per product, returning the number of notifications sent.
func (w *StockWatcher) CheckOnce(ctx context.Context) int {
	threshold := w.settings.GetInt("stock", "low_threshold")
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}

	products, err := w.products.ListAtOrBelow(ctx, threshold)
	if err != nil {
		zap.L().Error("stock watcher: product scan failed", zap.Error(err))
		return 0
	}
	if len(products) == 0 {
		return 0
	}

	admins, err := w.users.ListAdmins(ctx)
	if err != nil {
		zap.L().Error("stock watcher: admin listing failed", zap.Error(err))
		return 0
	}

	sent := 0
	for _, product := range products {
		msg := fmt.Sprintf("Low stock: %s has %d left (threshold %d)",
			product.Name, product.Stock, threshold)
		for _, admin := range admins {
			if w.dispatcher.Notify(ctx, admin.ID, msg) {
				sent++
			}
		}
		if w.bus != nil {
			w.bus.Publish(domain.EventStockLow, domain.StockLowEvent{
				ProductID: product.ID,
				Stock:     product.Stock,
				Threshold: threshold,
			})
		}
		metrics.IncrCounter(metrics.LowStockAlerts, 1)
	}
	if sent > 0 {
		zap.L().Info("low-stock notifications sent",
			zap.Int("count", sent),
			zap.Int("products", len(products)),
		)
	}
	return sent
}
