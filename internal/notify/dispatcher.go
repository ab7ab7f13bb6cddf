package notify

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store"
	"github.com/shoplite/shoplite/pkg/common"
	"github.com/shoplite/shoplite/pkg/metrics"
	"go.uber.org/zap"
)

const defaultBroadcastWorkers = 10

// Dispatcher persists in-app notifications and best-effort delivers them by
// email. Email failures never fail the notification.
type Dispatcher struct {
	users         store.UserRepository
	notifications store.NotificationRepository
	email         EmailSender
	workers       int
}

func NewDispatcher(users store.UserRepository, notifications store.NotificationRepository, email EmailSender) *Dispatcher {
	return &Dispatcher{
		users:         users,
		notifications: notifications,
		email:         email,
		workers:       defaultBroadcastWorkers,
	}
}

// Notify stores a notification row for the user and emails it when the user
// has an address. The result reflects persistence only.
func (d *Dispatcher) Notify(ctx context.Context, userID int64, message string) bool {
	n := &domain.Notification{
		ID:        common.UUIDint64(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := d.notifications.Create(ctx, n); err != nil {
		zap.L().Error("failed to persist notification",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false
	}
	metrics.IncrCounter(metrics.NotificationsSent, 1)

	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		zap.L().Warn("notification user lookup failed, skipping email",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return true
	}
	if user.Email != "" {
		d.email.Send(user.Email, "ShopLite notification", message, "")
	}
	return true
}

// Broadcast delivers a message to every enabled user with an email address,
// bounded by a worker pool, and returns the number of persisted
// notifications.
func (d *Dispatcher) Broadcast(ctx context.Context, subject, message string) int {
	users, err := d.users.ListWithEmail(ctx)
	if err != nil {
		zap.L().Error("broadcast user listing failed", zap.Error(err))
		return 0
	}
	if len(users) == 0 {
		return 0
	}

	pool, err := ants.NewPool(d.workers)
	if err != nil {
		zap.L().Error("broadcast pool init failed", zap.Error(err))
		return 0
	}
	defer pool.Release()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		count int
	)
	for _, user := range users {
		u := user
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			n := &domain.Notification{
				ID:        common.UUIDint64(),
				UserID:    u.ID,
				Message:   message,
				CreatedAt: time.Now(),
			}
			if err := d.notifications.Create(ctx, n); err != nil {
				zap.L().Error("broadcast notification persist failed",
					zap.Int64("user_id", u.ID),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			count++
			mu.Unlock()
			metrics.IncrCounter(metrics.NotificationsSent, 1)
			d.email.Send(u.Email, subject, message, "")
		})
		if submitErr != nil {
			wg.Done()
			zap.L().Error("broadcast task submit failed", zap.Error(submitErr))
		}
	}
	wg.Wait()
	return count
}
