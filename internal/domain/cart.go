package domain

import "time"

// CartItem is an ephemeral cart line, owned by the user until the order
// placement saga consumes the cart and deletes the batch.
type CartItem struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	UserID    int64     `gorm:"index" json:"user_id,string"`
	ProductID int64     `gorm:"index" json:"product_id,string"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartItem) TableName() string {
	return "shop_cart_item"
}
