package store

import (
	"context"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/pkg/common"
	"gorm.io/gorm"
)

// GormUserRepository is the GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("level = ? AND status = ?", domain.UserLevelAdmin, common.ENABLED).
		Find(&users).Error
	return users, err
}

func (r *GormUserRepository) ListWithEmail(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("email <> '' AND status = ?", common.ENABLED).
		Find(&users).Error
	return users, err
}

// GormCartRepository is the GORM implementation of CartRepository
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error) {
	var items []*domain.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItem{}).Error
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) UpdateStock(ctx context.Context, id int64, stock int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *GormProductRepository) ListAtOrBelow(ctx context.Context, threshold int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

// GormSaleRepository is the GORM implementation of SaleRepository
type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) Active(ctx context.Context, now time.Time) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_date <= ? AND end_date > ?", domain.SaleStatusActive, now, now).
		Order("start_date DESC").
		First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *GormSaleRepository) ListNotCompleted(ctx context.Context) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	err := r.db.WithContext(ctx).
		Where("status <> ?", domain.SaleStatusCompleted).
		Order("start_date ASC").
		Find(&sales).Error
	return sales, err
}

func (r *GormSaleRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Sale{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) ListInProgress(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", []string{domain.OrderStatusDelivered, domain.OrderStatusCancelled}).
		Order("order_date ASC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormOrderRepository) AttachPlacementLog(ctx context.Context, id int64, log string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("placement_log", log).Error
}

// GormOrderItemRepository is the GORM implementation of OrderItemRepository
type GormOrderItemRepository struct {
	db *gorm.DB
}

func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

func (r *GormOrderItemRepository) Create(ctx context.Context, item *domain.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormOrderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	var items []*domain.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// GormTransactionRepository is the GORM implementation of TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *GormTransactionRepository) GetByOrder(ctx context.Context, orderID int64) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GormNotificationRepository is the GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *GormNotificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) error {
	return r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&domain.Notification{}).Error
}
