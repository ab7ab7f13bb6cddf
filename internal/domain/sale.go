package domain

import "time"

const (
	SaleStatusScheduled = "SCHEDULED"
	SaleStatusActive    = "ACTIVE"
	SaleStatusCompleted = "COMPLETED"
)

// Sale is a store-wide discount window. Status is the single canonical
// state field; the legacy is_active boolean is exposed only as the derived
// IsActive accessor. At most one sale is ACTIVE at a time.
type Sale struct {
	ID              int64     `gorm:"primaryKey" json:"id,string"`
	Name            string    `gorm:"index" json:"name"`
	DiscountPercent float64   `json:"discount_percent"`
	StartDate       time.Time `gorm:"index" json:"start_date"`
	EndDate         time.Time `gorm:"index" json:"end_date"`
	Status          string    `gorm:"index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Sale) TableName() string {
	return "shop_sale"
}

// IsActive reports the legacy boolean view of the status field.
func (s *Sale) IsActive() bool {
	return s.Status == SaleStatusActive
}
