// Package ordering implements the order placement saga: a fixed multi-step
// checkout flow with one hard checkpoint (the order row) and an ordered list
// of soft steps whose failures are logged but never undo committed work.
package ordering

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/store"
	"github.com/shoplite/shoplite/pkg/common"
	"github.com/shoplite/shoplite/pkg/metrics"
	"go.uber.org/zap"
)

// Notifier persists an in-app notification and best-effort emails it.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) bool
}

// ReceiptGenerator renders a receipt artifact and returns its path.
type ReceiptGenerator interface {
	Generate(order *domain.Order, items []*domain.OrderItem, txn *domain.Transaction, buyer *domain.User) (string, error)
}

// EmailSender delivers one message with optional attachment.
type EmailSender interface {
	Send(to, subject, body, attachmentPath string) bool
}

// StockChecker is the stock watcher's on-demand entry point.
type StockChecker interface {
	CheckOnce(ctx context.Context) int
}

// Settings reads runtime configuration values.
type Settings interface {
	GetInt(category, name string) int
}

// Publisher is the event bus publish surface.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

const (
	defaultLowStockThreshold     = 5
	defaultDeliveryEstimateHours = 72
)

// Saga orchestrates order placement. All collaborators are injected.
type Saga struct {
	users        store.UserRepository
	carts        store.CartRepository
	products     store.ProductRepository
	sales        store.SaleRepository
	orders       store.OrderRepository
	orderItems   store.OrderItemRepository
	transactions store.TransactionRepository
	dispatcher   Notifier
	receipts     ReceiptGenerator
	email        EmailSender
	stock        StockChecker
	settings     Settings
	bus          Publisher
}

// SagaParams bundles the saga's injected collaborators.
type SagaParams struct {
	Users        store.UserRepository
	Carts        store.CartRepository
	Products     store.ProductRepository
	Sales        store.SaleRepository
	Orders       store.OrderRepository
	OrderItems   store.OrderItemRepository
	Transactions store.TransactionRepository
	Dispatcher   Notifier
	Receipts     ReceiptGenerator
	Email        EmailSender
	Stock        StockChecker
	Settings     Settings
	Bus          Publisher
}

func NewSaga(p SagaParams) *Saga {
	return &Saga{
		users:        p.Users,
		carts:        p.Carts,
		products:     p.Products,
		sales:        p.Sales,
		orders:       p.Orders,
		orderItems:   p.OrderItems,
		transactions: p.Transactions,
		dispatcher:   p.Dispatcher,
		receipts:     p.Receipts,
		email:        p.Email,
		stock:        p.Stock,
		settings:     p.Settings,
		bus:          p.Bus,
	}
}

type cartLine struct {
	item    *domain.CartItem
	product *domain.Product
}

// PlaceOrder runs the checkout saga. It returns false only when the cart is
// empty or the order row itself cannot be persisted; every downstream step
// is soft and cannot change the result once the order exists.
func (s *Saga) PlaceOrder(ctx context.Context, userID, addressID int64, paymentMethod, contactEmail string) bool {
	now := time.Now()
	log := &stepLog{}

	// Step 1: load the cart; empty cart aborts with no side effects.
	cartItems, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to load cart", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	if len(cartItems) == 0 {
		zap.L().Info("order placement aborted: empty cart", zap.Int64("user_id", userID))
		return false
	}

	// Step 2: resolve the single active sale; no sale means no discount.
	discount := 0.0
	if sale, err := s.sales.Active(ctx, now); err == nil {
		discount = sale.DiscountPercent
		zap.L().Debug("applying active sale discount",
			zap.Int64("sale_id", sale.ID),
			zap.Float64("discount_percent", discount),
		)
	}

	// Step 3: price the cart. Lines whose product no longer resolves are
	// dropped from the order and contribute zero.
	var (
		lines []cartLine
		total float64
	)
	for _, item := range cartItems {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			zap.L().Warn("skipping unresolvable cart line",
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)
			log.add("price_line", false, fmt.Sprintf("product %d not found", item.ProductID))
			continue
		}
		lines = append(lines, cartLine{item: item, product: product})
		total += product.Price * (1 - discount/100) * float64(item.Quantity)
	}
	total = math.Round(total*100) / 100

	// Step 4: persist the order row. Hard failure boundary.
	estimateHours := s.settings.GetInt("order", "delivery_estimate_hours")
	if estimateHours <= 0 {
		estimateHours = defaultDeliveryEstimateHours
	}
	order := &domain.Order{
		ID:               common.UUIDint64(),
		UserID:           userID,
		AddressID:        addressID,
		OrderDate:        now,
		TotalAmount:      total,
		Status:           domain.OrderStatusPending,
		DeliveryEstimate: now.Add(time.Duration(estimateHours) * time.Hour),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		zap.L().Error("order persistence failed, aborting saga",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false
	}
	log.add("create_order", true, "")

	// Step 5: per-line item snapshot, stock decrement, low-stock alert.
	// Failures are isolated per line.
	threshold := s.settings.GetInt("stock", "low_threshold")
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	var createdItems []*domain.OrderItem
	for _, line := range lines {
		item := &domain.OrderItem{
			ID:          common.UUIDint64(),
			OrderID:     order.ID,
			ProductID:   line.product.ID,
			ProductName: line.product.Name,
			Quantity:    line.item.Quantity,
			Price:       line.product.Price,
			CreatedAt:   now,
		}
		if err := s.orderItems.Create(ctx, item); err != nil {
			zap.L().Error("order item persistence failed",
				zap.Int64("order_id", order.ID),
				zap.Int64("product_id", line.product.ID),
				zap.Error(err),
			)
			log.add("create_item", false, fmt.Sprintf("product %d: %v", line.product.ID, err))
			continue
		}
		createdItems = append(createdItems, item)

		newStock := line.product.Stock - line.item.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if err := s.products.UpdateStock(ctx, line.product.ID, newStock); err != nil {
			zap.L().Error("stock update failed",
				zap.Int64("product_id", line.product.ID),
				zap.Error(err),
			)
			log.add("update_stock", false, fmt.Sprintf("product %d: %v", line.product.ID, err))
			continue
		}
		if newStock <= threshold {
			s.lowStockAlert(ctx, line.product, newStock, threshold)
		}
	}
	log.add("process_lines", true, fmt.Sprintf("%d of %d lines committed", len(createdItems), len(cartItems)))

	// Step 6: clear the cart.
	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		zap.L().Error("cart clear failed", zap.Int64("user_id", userID), zap.Error(err))
		log.add("clear_cart", false, err.Error())
	} else {
		log.add("clear_cart", true, "")
	}

	// Step 7: record the payment transaction.
	var txn *domain.Transaction
	if method, ok := NormalizePaymentMethod(paymentMethod); !ok {
		zap.L().Warn("unrecognized payment method, transaction not recorded",
			zap.Int64("order_id", order.ID),
			zap.String("method", paymentMethod),
		)
		log.add("create_transaction", false, "unrecognized payment method: "+paymentMethod)
	} else {
		t := &domain.Transaction{
			ID:              common.UUIDint64(),
			OrderID:         order.ID,
			Method:          method,
			Status:          domain.TransactionStatusPending,
			TransactionDate: now,
		}
		if err := s.transactions.Create(ctx, t); err != nil {
			zap.L().Error("transaction persistence failed",
				zap.Int64("order_id", order.ID),
				zap.Error(err),
			)
			log.add("create_transaction", false, err.Error())
		} else {
			txn = t
			log.add("create_transaction", true, method)
		}
	}

	// Step 8: order confirmation notification.
	confirmMsg := fmt.Sprintf("Your order #%d has been placed. Total: %.2f", order.ID, order.TotalAmount)
	if ok := s.dispatcher.Notify(ctx, userID, confirmMsg); !ok {
		log.add("notify_buyer", false, "notification not persisted")
	} else {
		log.add("notify_buyer", true, "")
	}

	// Step 9: receipt generation and email.
	s.sendReceipt(ctx, order, createdItems, txn, userID, contactEmail, log)

	// Attach the step log to the order, best effort.
	if encoded := log.JSON(); encoded != "" {
		if err := s.orders.AttachPlacementLog(ctx, order.ID, encoded); err != nil {
			zap.L().Warn("failed to attach placement log", zap.Int64("order_id", order.ID), zap.Error(err))
		}
	}

	if s.bus != nil {
		s.bus.Publish(domain.EventOrderPlaced, domain.OrderPlacedEvent{
			OrderID:     order.ID,
			UserID:      userID,
			TotalAmount: order.TotalAmount,
			ItemCount:   len(createdItems),
		})
	}
	metrics.IncrCounter(metrics.OrdersPlaced, 1)

	// Step 10: immediate cross-order stock re-check.
	if s.stock != nil {
		s.stock.CheckOnce(ctx)
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Float64("total", order.TotalAmount),
		zap.Int("items", len(createdItems)),
	)
	return true
}

// lowStockAlert notifies every administrator about one product. Failures
// are logged only.
func (s *Saga) lowStockAlert(ctx context.Context, product *domain.Product, stock, threshold int) {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		zap.L().Error("low-stock alert: admin listing failed", zap.Error(err))
		return
	}
	msg := fmt.Sprintf("Low stock: %s has %d left (threshold %d)", product.Name, stock, threshold)
	for _, admin := range admins {
		s.dispatcher.Notify(ctx, admin.ID, msg)
	}
	if s.bus != nil {
		s.bus.Publish(domain.EventStockLow, domain.StockLowEvent{
			ProductID: product.ID,
			Stock:     stock,
			Threshold: threshold,
		})
	}
	metrics.IncrCounter(metrics.LowStockAlerts, 1)
}

// sendReceipt renders the receipt and emails it; on attachment failure the
// email is retried without the attachment. Everything here is soft.
func (s *Saga) sendReceipt(ctx context.Context, order *domain.Order, items []*domain.OrderItem, txn *domain.Transaction, userID int64, contactEmail string, log *stepLog) {
	var buyer *domain.User
	if u, err := s.users.GetByID(ctx, userID); err == nil {
		buyer = u
	}

	target := contactEmail
	if target == "" && buyer != nil {
		target = buyer.Email
	}
	if target == "" {
		log.add("email_receipt", false, "no recipient address")
		return
	}

	subject := fmt.Sprintf("Receipt for order #%d", order.ID)
	body := fmt.Sprintf("Thank you for your order. Order #%d, total %.2f.", order.ID, order.TotalAmount)

	attachment := ""
	path, err := s.receipts.Generate(order, items, txn, buyer)
	if err != nil {
		zap.L().Warn("receipt generation failed, emailing without attachment",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
		log.add("generate_receipt", false, err.Error())
	} else {
		attachment = path
		log.add("generate_receipt", true, path)
	}

	if s.email.Send(target, subject, body, attachment) {
		log.add("email_receipt", true, "")
		return
	}
	if attachment != "" {
		// Attachment may be the reason delivery failed; retry bare.
		if s.email.Send(target, subject, body, "") {
			log.add("email_receipt", true, "delivered without attachment")
			return
		}
	}
	log.add("email_receipt", false, "delivery failed")
}
