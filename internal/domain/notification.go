package domain

import "time"

// Notification is an append-only in-app message for one user.
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	UserID    int64     `gorm:"index" json:"user_id,string"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "shop_notification"
}
