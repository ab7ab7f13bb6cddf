package store

import (
	"context"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
)

// UserRepository handles user account lookups for notification targeting.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// ListAdmins returns enabled administrator accounts.
	ListAdmins(ctx context.Context) ([]*domain.User, error)

	// ListWithEmail returns enabled users that have an email address.
	ListWithEmail(ctx context.Context) ([]*domain.User, error)
}

// CartRepository handles ephemeral cart lines.
type CartRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error)

	// DeleteByUser removes the whole cart as a batch.
	DeleteByUser(ctx context.Context, userID int64) error
}

// ProductRepository handles catalog access and the saga's stock writes.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// UpdateStock sets the absolute stock value for a product.
	UpdateStock(ctx context.Context, id int64, stock int) error

	// ListAtOrBelow returns products with stock at or under the threshold.
	ListAtOrBelow(ctx context.Context, threshold int) ([]*domain.Product, error)
}

// SaleRepository handles sale lookup and status transitions.
type SaleRepository interface {
	// Active returns the single currently-active sale, or a not-found error.
	Active(ctx context.Context, now time.Time) (*domain.Sale, error)

	// ListNotCompleted returns sales still subject to lifecycle transitions.
	ListNotCompleted(ctx context.Context) ([]*domain.Sale, error)

	UpdateStatus(ctx context.Context, id int64, status string) error
}

// OrderRepository handles order persistence and the status scheduler's
// bounded in-progress scan.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error

	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListInProgress returns orders that are neither DELIVERED nor CANCELLED.
	ListInProgress(ctx context.Context) ([]*domain.Order, error)

	UpdateStatus(ctx context.Context, id int64, status string) error

	// AttachPlacementLog stores the saga step log JSON on the order row.
	AttachPlacementLog(ctx context.Context, id int64, log string) error
}

// OrderItemRepository handles immutable order line snapshots.
type OrderItemRepository interface {
	Create(ctx context.Context, item *domain.OrderItem) error

	ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderItem, error)
}

// TransactionRepository handles payment transaction rows.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error

	GetByOrder(ctx context.Context, orderID int64) (*domain.Transaction, error)
}

// NotificationRepository handles the append-only notification feed.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error

	// DeleteReadOlderThan purges read notifications created before the cutoff.
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) error
}
