package domain

// Event bus topics. Payloads are the structs below; the audit subscriber
// persists them as JSON in sys_event_log.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status.changed"
	EventSaleStatusChanged  = "sale.status.changed"
	EventStockLow           = "stock.low"
)

type OrderPlacedEvent struct {
	OrderID     int64   `json:"order_id"`
	UserID      int64   `json:"user_id"`
	TotalAmount float64 `json:"total_amount"`
	ItemCount   int     `json:"item_count"`
}

type OrderStatusEvent struct {
	OrderID int64  `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type SaleStatusEvent struct {
	SaleID int64  `json:"sale_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type StockLowEvent struct {
	ProductID int64 `json:"product_id"`
	Stock     int   `json:"stock"`
	Threshold int   `json:"threshold"`
}
