package domain

import "time"

// SysConfig is a runtime settings row, keyed by (type, name).
type SysConfig struct {
	ID        int64     `json:"id,string" form:"id"`
	Sort      int       `json:"sort" form:"sort"`
	Type      string    `gorm:"index" json:"type" form:"type"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Value     string    `json:"value" form:"value"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SysConfig) TableName() string {
	return "sys_config"
}

// SysEventLog is the audit trail written by the event bus subscriber; one
// row per published domain event.
type SysEventLog struct {
	ID        int64     `json:"id,string"`
	Topic     string    `gorm:"index" json:"topic"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (SysEventLog) TableName() string {
	return "sys_event_log"
}
