package domain

import "time"

const (
	OrderStatusPending        = "PENDING"
	OrderStatusConfirmed      = "CONFIRMED"
	OrderStatusShipped        = "SHIPPED"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
)

// OrderStages is the forward progression driven by the order status
// scheduler. CANCELLED is terminal and only ever set by an external actor.
var OrderStages = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// StageRank returns the index of a status in the forward progression, or -1
// for CANCELLED/unknown.
func StageRank(status string) int {
	for i, s := range OrderStages {
		if s == status {
			return i
		}
	}
	return -1
}

// Order is created once by the placement saga with status PENDING; only the
// status scheduler mutates it afterwards, and only forward.
type Order struct {
	ID               int64     `gorm:"primaryKey" json:"id,string"`
	UserID           int64     `gorm:"index" json:"user_id,string"`
	AddressID        int64     `json:"address_id,string"`
	OrderDate        time.Time `gorm:"index" json:"order_date"`
	TotalAmount      float64   `json:"total_amount"`
	Status           string    `gorm:"index" json:"status"`
	DeliveryEstimate time.Time `json:"delivery_estimate"`
	// PlacementLog holds the saga step outcomes as a JSON array, written
	// best-effort after placement.
	PlacementLog string    `gorm:"type:text" json:"placement_log"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "shop_order"
}

// OrderItem is an immutable snapshot of one order line; name and unit price
// are frozen at purchase time, independent of later catalog changes.
type OrderItem struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	OrderID     int64     `gorm:"index" json:"order_id,string"`
	ProductID   int64     `gorm:"index" json:"product_id,string"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"` // unit price at time of purchase
	CreatedAt   time.Time `json:"created_at"`
}

func (OrderItem) TableName() string {
	return "shop_order_item"
}
