package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSaleScheduler(mem *storetest.Memory) (*SaleScheduler, *fakeBroadcaster) {
	b := &fakeBroadcaster{}
	s := NewSaleScheduler(mem.SaleRepo(), b, fakeSettings{}, nil)
	return s, b
}

func TestSaleTickActivatesScheduledSale(t *testing.T) {
	mem := storetest.NewMemory()
	now := time.Now()
	sale := &domain.Sale{
		ID:        1,
		Name:      "spring",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(48 * time.Hour),
		Status:    domain.SaleStatusScheduled,
	}
	mem.AddSale(sale)
	sched, broadcaster := newSaleScheduler(mem)

	sched.Tick(context.Background())

	assert.Equal(t, domain.SaleStatusActive, mem.Sales[1].Status)
	require.Len(t, broadcaster.broadcasts(), 1)
	assert.Equal(t, saleActiveSubject, broadcaster.broadcasts()[0])
}

func TestSaleTickCompletesEndedSale(t *testing.T) {
	mem := storetest.NewMemory()
	now := time.Now()
	mem.AddSale(&domain.Sale{
		ID:        1,
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   now.Add(-time.Hour),
		Status:    domain.SaleStatusActive,
	})
	sched, broadcaster := newSaleScheduler(mem)

	sched.Tick(context.Background())

	assert.Equal(t, domain.SaleStatusCompleted, mem.Sales[1].Status)
	// completion is silent
	assert.Empty(t, broadcaster.broadcasts())
}

func TestSaleTickSkipsActivationBroadcastWhenAlreadyEnded(t *testing.T) {
	mem := storetest.NewMemory()
	now := time.Now()
	// missed both boundaries while the process was down
	mem.AddSale(&domain.Sale{
		ID:        1,
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   now.Add(-24 * time.Hour),
		Status:    domain.SaleStatusScheduled,
	})
	sched, broadcaster := newSaleScheduler(mem)

	sched.Tick(context.Background())

	assert.Equal(t, domain.SaleStatusCompleted, mem.Sales[1].Status)
	assert.Empty(t, broadcaster.broadcasts())
}

func TestSaleStatusNeverRegresses(t *testing.T) {
	mem := storetest.NewMemory()
	now := time.Now()
	// active sale whose start date is still in the future (clock skew);
	// highest-applicable keeps it ACTIVE rather than back to SCHEDULED
	mem.AddSale(&domain.Sale{
		ID:        1,
		StartDate: now.Add(time.Hour),
		EndDate:   now.Add(48 * time.Hour),
		Status:    domain.SaleStatusActive,
	})
	sched, _ := newSaleScheduler(mem)

	sched.Tick(context.Background())

	assert.Equal(t, domain.SaleStatusActive, mem.Sales[1].Status)
}

func TestSaleEndingSoonBroadcastOncePerProcess(t *testing.T) {
	mem := storetest.NewMemory()
	now := time.Now()
	mem.AddSale(&domain.Sale{
		ID:        1,
		Name:      "flash",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(2 * time.Hour),
		Status:    domain.SaleStatusActive,
	})
	sched, broadcaster := newSaleScheduler(mem)

	sched.Tick(context.Background())
	sched.Tick(context.Background())
	sched.Tick(context.Background())

	subjects := broadcaster.broadcasts()
	require.Len(t, subjects, 1)
	assert.Equal(t, saleEndingSoonSubject, subjects[0])
}

func TestSaleActivationAndEndingSoonInOneTick(t *testing.T) {
	mem := storetest.NewMemory()
	now := time.Now()
	// activates now and already ends within the warning window
	mem.AddSale(&domain.Sale{
		ID:        1,
		StartDate: now.Add(-time.Minute),
		EndDate:   now.Add(3 * time.Hour),
		Status:    domain.SaleStatusScheduled,
	})
	sched, broadcaster := newSaleScheduler(mem)

	sched.Tick(context.Background())

	assert.Equal(t, []string{saleActiveSubject, saleEndingSoonSubject}, broadcaster.broadcasts())
}

func TestSaleSchedulerStartStopIdempotent(t *testing.T) {
	mem := storetest.NewMemory()
	sched, _ := newSaleScheduler(mem)

	// stop before start is a no-op
	sched.Stop()

	sched.Start(time.Hour)
	sched.Start(time.Hour)
	sched.Stop()
	sched.Stop()
}
