package app

import (
	"github.com/shoplite/shoplite/config"
	"github.com/shoplite/shoplite/internal/lifecycle"
	"github.com/shoplite/shoplite/internal/ordering"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// AppContext combines the provider interfaces for full application context.
// Callers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()

	// Saga returns the order placement saga
	Saga() *ordering.Saga
	// StockWatcher returns the stock watcher for on-demand checks
	StockWatcher() *lifecycle.StockWatcher
	// StartSchedulers starts the background watchers as a unit
	StartSchedulers()
	// StopSchedulers stops the background watchers
	StopSchedulers()
}
