package app

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/shoplite/shoplite/config"
	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/internal/lifecycle"
	"github.com/shoplite/shoplite/internal/notify"
	"github.com/shoplite/shoplite/internal/ordering"
	"github.com/shoplite/shoplite/internal/receipt"
	"github.com/shoplite/shoplite/internal/store"
	"github.com/shoplite/shoplite/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Application struct {
	appConfig     *config.AppConfig
	gormDB        *gorm.DB
	sched         *cron.Cron
	configManager *ConfigManager
	bus           EventBus.Bus

	dispatcher   *notify.Dispatcher
	saga         *ordering.Saga
	saleSched    *lifecycle.SaleScheduler
	orderSched   *lifecycle.OrderScheduler
	stockWatcher *lifecycle.StockWatcher
}

// Ensure Application implements all interfaces
var (
	_ DBProvider       = (*Application)(nil)
	_ ConfigProvider   = (*Application)(nil)
	_ SettingsProvider = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}
	if cfg.Logger.FileEnable {
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, cfg.Logger.Filename)
	}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	if err = metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	// Initialize database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	// Ensure database schema is migrated before loading configs
	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	// wait for database initialization to complete
	go func() {
		time.Sleep(3 * time.Second)
		a.checkSuper()
		a.checkSettings()
		a.checkProducts()
	}()

	a.configManager = NewConfigManager(a.gormDB)
	a.bus = EventBus.New()
	a.initEventAudit()
	a.initServices()
	a.initJob()
}

// initServices wires the repositories, collaborators, saga and schedulers.
func (a *Application) initServices() {
	users := store.NewGormUserRepository(a.gormDB)
	carts := store.NewGormCartRepository(a.gormDB)
	products := store.NewGormProductRepository(a.gormDB)
	sales := store.NewGormSaleRepository(a.gormDB)
	orders := store.NewGormOrderRepository(a.gormDB)
	orderItems := store.NewGormOrderItemRepository(a.gormDB)
	transactions := store.NewGormTransactionRepository(a.gormDB)
	notifications := store.NewGormNotificationRepository(a.gormDB)

	email := notify.NewSMTPSender(a.appConfig.Smtp)
	a.dispatcher = notify.NewDispatcher(users, notifications, email)
	receipts := receipt.NewService(a.appConfig.ReceiptDir())

	a.stockWatcher = lifecycle.NewStockWatcher(products, users, a.dispatcher, a.configManager, a.bus)
	a.saleSched = lifecycle.NewSaleScheduler(sales, a.dispatcher, a.configManager, a.bus)
	a.orderSched = lifecycle.NewOrderScheduler(orders, a.dispatcher, a.configManager, a.bus)

	a.saga = ordering.NewSaga(ordering.SagaParams{
		Users:        users,
		Carts:        carts,
		Products:     products,
		Sales:        sales,
		Orders:       orders,
		OrderItems:   orderItems,
		Transactions: transactions,
		Dispatcher:   a.dispatcher,
		Receipts:     receipts,
		Email:        email,
		Stock:        a.stockWatcher,
		Settings:     a.configManager,
		Bus:          a.bus,
	})
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// ConfigMgr returns the settings manager
func (a *Application) ConfigMgr() *ConfigManager {
	return a.configManager
}

// Saga returns the order placement saga
func (a *Application) Saga() *ordering.Saga {
	return a.saga
}

// StockWatcher returns the stock watcher for on-demand checks
func (a *Application) StockWatcher() *lifecycle.StockWatcher {
	return a.stockWatcher
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// StartSchedulers starts the three background watchers as a unit.
func (a *Application) StartSchedulers() {
	sc := a.appConfig.Scheduler
	a.saleSched.Start(time.Duration(sc.SaleInterval) * time.Second)
	a.orderSched.Start(time.Duration(sc.OrderInterval) * time.Second)
	a.stockWatcher.Start(time.Duration(sc.StockInterval) * time.Second)
}

// StopSchedulers stops the three background watchers; in-flight ticks run
// to completion.
func (a *Application) StopSchedulers() {
	if a.saleSched != nil {
		a.saleSched.Stop()
	}
	if a.orderSched != nil {
		a.orderSched.Stop()
	}
	if a.stockWatcher != nil {
		a.stockWatcher.Stop()
	}
}

// Release releases application resources
func (a *Application) Release() {
	a.StopSchedulers()

	if a.sched != nil {
		a.sched.Stop()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, time.Local.String())

	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		panic(fmt.Errorf("open database: %w", err))
	}

	sqlDB, err := db.DB()
	if err == nil {
		if cfg.MaxConn > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxConn)
		}
		if cfg.IdleConn > 0 {
			sqlDB.SetMaxIdleConns(cfg.IdleConn)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}
