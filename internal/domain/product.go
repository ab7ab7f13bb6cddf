package domain

import "time"

// Product is a catalog item. Stock is decremented only by the order
// placement saga and is clamped at zero; the low-stock threshold lives in
// the sys_config settings table, not on the row.
type Product struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"index" json:"name"`
	Price     float64   `json:"price"` // unit price in main currency units
	Stock     int       `json:"stock"`
	Image     string    `gorm:"size:1024" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "shop_product"
}
