// Package metrics keeps process-local time series in an embedded tstorage
// database under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

const (
	OrdersPlaced      = "orders_placed"
	NotificationsSent = "notifications_sent"
	LowStockAlerts    = "lowstock_alerts"
	SystemCPUUse      = "system_cpuuse"
	SystemMemUse      = "system_memuse"
)

var (
	mu       sync.Mutex
	storage  tstorage.Storage
	counters = map[string]int64{}
)

// InitMetrics opens the metrics storage under workdir/metrics.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// SetGauge records an instantaneous value for a metric.
func SetGauge(name string, value int64) {
	insert(name, value)
}

// IncrCounter adds delta to a monotonic counter and records the new total.
func IncrCounter(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	total := counters[name]
	mu.Unlock()
	insert(name, total)
}

func insert(name string, value int64) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
		},
	})
}

// CounterValue returns the in-process total for a counter.
func CounterValue(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// Close flushes and closes the metrics storage.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
