package app

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/pkg/common"
	"go.uber.org/zap"
)

var eventJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// initEventAudit subscribes an audit writer to every domain topic; each
// published event becomes one sys_event_log row.
func (a *Application) initEventAudit() {
	topics := []string{
		domain.EventOrderPlaced,
		domain.EventOrderStatusChanged,
		domain.EventSaleStatusChanged,
		domain.EventStockLow,
	}
	for _, topic := range topics {
		t := topic
		if err := a.bus.Subscribe(t, func(payload interface{}) {
			a.auditEvent(t, payload)
		}); err != nil {
			zap.L().Error("event audit subscribe failed", zap.String("topic", t), zap.Error(err))
		}
	}
}

func (a *Application) auditEvent(topic string, payload interface{}) {
	encoded, err := eventJSON.MarshalToString(payload)
	if err != nil {
		zap.L().Warn("event payload marshal failed", zap.String("topic", topic), zap.Error(err))
		encoded = ""
	}
	if err := a.gormDB.Create(&domain.SysEventLog{
		ID:        common.UUIDint64(),
		Topic:     topic,
		Payload:   encoded,
		CreatedAt: time.Now(),
	}).Error; err != nil {
		zap.L().Warn("event audit write failed", zap.String("topic", topic), zap.Error(err))
	}
}
