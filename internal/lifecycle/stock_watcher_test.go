package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store/storetest"
	"github.com/shoplite/shoplite/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockWatcher(mem *storetest.Memory, settings fakeSettings) (*StockWatcher, *fakeNotifier) {
	n := &fakeNotifier{}
	w := NewStockWatcher(mem.ProductRepo(), mem.UserRepo(), n, settings, nil)
	return w, n
}

func addAdmin(mem *storetest.Memory, id int64) {
	mem.AddUser(&domain.User{
		ID:     id,
		Level:  domain.UserLevelAdmin,
		Status: common.ENABLED,
	})
}

func TestCheckOnceNotifiesEveryAdminPerProduct(t *testing.T) {
	mem := storetest.NewMemory()
	addAdmin(mem, 1)
	addAdmin(mem, 2)
	mem.AddProduct(&domain.Product{ID: 10, Name: "widget", Stock: 3})
	mem.AddProduct(&domain.Product{ID: 11, Name: "gadget", Stock: 0})
	mem.AddProduct(&domain.Product{ID: 12, Name: "plenty", Stock: 50})
	watcher, notifier := newStockWatcher(mem, fakeSettings{})

	sent := watcher.CheckOnce(context.Background())

	// 2 low products x 2 admins
	assert.Equal(t, 4, sent)
	require.Len(t, notifier.sent(), 4)
	assert.Contains(t, notifier.sent()[0].Message, "widget")
}

func TestCheckOnceNoDedupAcrossRuns(t *testing.T) {
	mem := storetest.NewMemory()
	addAdmin(mem, 1)
	mem.AddProduct(&domain.Product{ID: 10, Name: "widget", Stock: 2})
	watcher, notifier := newStockWatcher(mem, fakeSettings{})

	first := watcher.CheckOnce(context.Background())
	second := watcher.CheckOnce(context.Background())

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Len(t, notifier.sent(), 2)
}

func TestCheckOnceThresholdFromSettings(t *testing.T) {
	mem := storetest.NewMemory()
	addAdmin(mem, 1)
	mem.AddProduct(&domain.Product{ID: 10, Name: "widget", Stock: 8})
	watcher, notifier := newStockWatcher(mem, fakeSettings{"stock.low_threshold": 10})

	sent := watcher.CheckOnce(context.Background())

	assert.Equal(t, 1, sent)
	assert.Contains(t, notifier.sent()[0].Message, "threshold 10")
}

func TestCheckOnceBoundaryInclusive(t *testing.T) {
	mem := storetest.NewMemory()
	addAdmin(mem, 1)
	mem.AddProduct(&domain.Product{ID: 10, Name: "edge", Stock: 5})
	mem.AddProduct(&domain.Product{ID: 11, Name: "above", Stock: 6})
	watcher, notifier := newStockWatcher(mem, fakeSettings{})

	sent := watcher.CheckOnce(context.Background())

	assert.Equal(t, 1, sent)
	assert.Contains(t, notifier.sent()[0].Message, "edge")
}

func TestCheckOnceNoAdminsSendsNothing(t *testing.T) {
	mem := storetest.NewMemory()
	mem.AddProduct(&domain.Product{ID: 10, Name: "widget", Stock: 1})
	watcher, notifier := newStockWatcher(mem, fakeSettings{})

	assert.Equal(t, 0, watcher.CheckOnce(context.Background()))
	assert.Empty(t, notifier.sent())
}

func TestCheckOnceCountsOnlySuccessfulNotifications(t *testing.T) {
	mem := storetest.NewMemory()
	addAdmin(mem, 1)
	mem.AddProduct(&domain.Product{ID: 10, Name: "widget", Stock: 1})
	watcher, notifier := newStockWatcher(mem, fakeSettings{})
	notifier.fail = true

	assert.Equal(t, 0, watcher.CheckOnce(context.Background()))
	// the attempt still happened
	assert.Len(t, notifier.sent(), 1)
}

func TestStockWatcherStartStopIdempotent(t *testing.T) {
	mem := storetest.NewMemory()
	watcher, _ := newStockWatcher(mem, fakeSettings{})

	watcher.Stop()
	watcher.Start(time.Hour)
	watcher.Start(time.Hour)
	watcher.Stop()
	watcher.Stop()
}
