package domain

import "time"

const (
	TransactionStatusPending = "PENDING"
	TransactionStatusPaid    = "PAID"
)

// Transaction records the payment for an order; exactly one per order,
// created by the placement saga with PENDING status.
type Transaction struct {
	ID              int64     `gorm:"primaryKey" json:"id,string"`
	OrderID         int64     `gorm:"uniqueIndex" json:"order_id,string"`
	Method          string    `json:"method"`
	Status          string    `json:"status"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "shop_transaction"
}
