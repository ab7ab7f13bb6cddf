// Package storetest provides in-memory repository implementations used as
// test doubles across the ordering and lifecycle test suites.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store"
	"github.com/shoplite/shoplite/pkg/common"
	"gorm.io/gorm"
)

var errInjected = errors.New("storetest: injected failure")

// Memory holds all entity state behind one mutex. Repository views are
// obtained through the *Repo accessors.
type Memory struct {
	mu sync.Mutex

	Users         map[int64]*domain.User
	Products      map[int64]*domain.Product
	CartItems     []*domain.CartItem
	Sales         map[int64]*domain.Sale
	Orders        map[int64]*domain.Order
	OrderItems    []*domain.OrderItem
	Transactions  []*domain.Transaction
	Notifications []*domain.Notification

	// Failure injection switches.
	FailOrderCreate       bool
	FailOrderItemCreate   bool
	FailStockUpdate       bool
	FailCartDelete        bool
	FailTransactionCreate bool
	FailNotificationSave  bool
}

func NewMemory() *Memory {
	return &Memory{
		Users:    make(map[int64]*domain.User),
		Products: make(map[int64]*domain.Product),
		Sales:    make(map[int64]*domain.Sale),
		Orders:   make(map[int64]*domain.Order),
	}
}

func (m *Memory) AddUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = common.UUIDint64()
	}
	if u.Status == "" {
		u.Status = common.ENABLED
	}
	m.Users[u.ID] = u
}

func (m *Memory) AddProduct(p *domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	m.Products[p.ID] = p
}

func (m *Memory) AddCartItem(c *domain.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = common.UUIDint64()
	}
	m.CartItems = append(m.CartItems, c)
}

func (m *Memory) AddSale(s *domain.Sale) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == 0 {
		s.ID = common.UUIDint64()
	}
	m.Sales[s.ID] = s
}

func (m *Memory) AddOrder(o *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = common.UUIDint64()
	}
	m.Orders[o.ID] = o
}

// Repository accessors

func (m *Memory) UserRepo() store.UserRepository                 { return userRepo{m} }
func (m *Memory) CartRepo() store.CartRepository                 { return cartRepo{m} }
func (m *Memory) ProductRepo() store.ProductRepository           { return productRepo{m} }
func (m *Memory) SaleRepo() store.SaleRepository                 { return saleRepo{m} }
func (m *Memory) OrderRepo() store.OrderRepository               { return orderRepo{m} }
func (m *Memory) OrderItemRepo() store.OrderItemRepository       { return orderItemRepo{m} }
func (m *Memory) TransactionRepo() store.TransactionRepository   { return txnRepo{m} }
func (m *Memory) NotificationRepo() store.NotificationRepository { return notificationRepo{m} }

type userRepo struct{ m *Memory }

func (r userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.Users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r userRepo) ListAdmins(ctx context.Context) ([]*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.User
	for _, u := range r.m.Users {
		if u.Level == domain.UserLevelAdmin && u.Status == common.ENABLED {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func (r userRepo) ListWithEmail(ctx context.Context) ([]*domain.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.User
	for _, u := range r.m.Users {
		if u.Email != "" && u.Status == common.ENABLED {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func sortUsers(users []*domain.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}

type cartRepo struct{ m *Memory }

func (r cartRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.CartItem
	for _, c := range r.m.CartItems {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r cartRepo) DeleteByUser(ctx context.Context, userID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailCartDelete {
		return errInjected
	}
	kept := r.m.CartItems[:0]
	for _, c := range r.m.CartItems {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	r.m.CartItems = kept
	return nil
}

type productRepo struct{ m *Memory }

func (r productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.Products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r productRepo) UpdateStock(ctx context.Context, id int64, stock int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailStockUpdate {
		return errInjected
	}
	p, ok := r.m.Products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = stock
	return nil
}

func (r productRepo) ListAtOrBelow(ctx context.Context, threshold int) ([]*domain.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Product
	for _, p := range r.m.Products {
		if p.Stock <= threshold {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type saleRepo struct{ m *Memory }

func (r saleRepo) Active(ctx context.Context, now time.Time) (*domain.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var best *domain.Sale
	for _, s := range r.m.Sales {
		if s.Status != domain.SaleStatusActive {
			continue
		}
		if s.StartDate.After(now) || !s.EndDate.After(now) {
			continue
		}
		if best == nil || s.StartDate.After(best.StartDate) {
			best = s
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *best
	return &cp, nil
}

func (r saleRepo) ListNotCompleted(ctx context.Context) ([]*domain.Sale, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Sale
	for _, s := range r.m.Sales {
		if s.Status != domain.SaleStatusCompleted {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r saleRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.Sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

type orderRepo struct{ m *Memory }

func (r orderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailOrderCreate {
		return errInjected
	}
	if order.ID == 0 {
		order.ID = common.UUIDint64()
	}
	cp := *order
	r.m.Orders[order.ID] = &cp
	return nil
}

func (r orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.Orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r orderRepo) ListInProgress(ctx context.Context) ([]*domain.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.m.Orders {
		if o.Status == domain.OrderStatusDelivered || o.Status == domain.OrderStatusCancelled {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.Before(out[j].OrderDate) })
	return out, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.Orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r orderRepo) AttachPlacementLog(ctx context.Context, id int64, log string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.Orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PlacementLog = log
	return nil
}

type orderItemRepo struct{ m *Memory }

func (r orderItemRepo) Create(ctx context.Context, item *domain.OrderItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailOrderItemCreate {
		return errInjected
	}
	if item.ID == 0 {
		item.ID = common.UUIDint64()
	}
	cp := *item
	r.m.OrderItems = append(r.m.OrderItems, &cp)
	return nil
}

func (r orderItemRepo) ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*domain.OrderItem
	for _, it := range r.m.OrderItems {
		if it.OrderID == orderID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

type txnRepo struct{ m *Memory }

func (r txnRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailTransactionCreate {
		return errInjected
	}
	if txn.ID == 0 {
		txn.ID = common.UUIDint64()
	}
	cp := *txn
	r.m.Transactions = append(r.m.Transactions, &cp)
	return nil
}

func (r txnRepo) GetByOrder(ctx context.Context, orderID int64) (*domain.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.Transactions {
		if t.OrderID == orderID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type notificationRepo struct{ m *Memory }

func (r notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.FailNotificationSave {
		return errInjected
	}
	if n.ID == 0 {
		n.ID = common.UUIDint64()
	}
	cp := *n
	r.m.Notifications = append(r.m.Notifications, &cp)
	return nil
}

func (r notificationRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	kept := r.m.Notifications[:0]
	for _, n := range r.m.Notifications {
		if !n.IsRead || !n.CreatedAt.Before(cutoff) {
			kept = append(kept, n)
		}
	}
	r.m.Notifications = kept
	return nil
}

// NotificationsFor returns the stored notifications for one user.
func (m *Memory) NotificationsFor(userID int64) []*domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Notification
	for _, n := range m.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
