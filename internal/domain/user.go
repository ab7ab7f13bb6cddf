package domain

import "time"

const (
	UserLevelAdmin    = "admin"
	UserLevelCustomer = "customer"
)

// User is a shop account. Administrators (level=admin) receive low-stock
// alerts; any user with an email address receives sale broadcasts.
type User struct {
	ID        int64     `json:"id,string" form:"id"`
	Username  string    `gorm:"index" json:"username" form:"username"`
	Realname  string    `json:"realname" form:"realname"`
	Mobile    string    `json:"mobile" form:"mobile"`
	Email     string    `gorm:"index" json:"email" form:"email"`
	Password  string    `json:"password" form:"password"`
	Level     string    `json:"level" form:"level"`
	Status    string    `json:"status" form:"status"`
	LastLogin time.Time `json:"last_login" form:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "sys_user"
}
