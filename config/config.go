package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appname  string `yaml:"appname" json:"appname"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

// SchedulerConfig holds the tick intervals for the background watchers,
// in seconds. Zero values fall back to defaults at start time.
type SchedulerConfig struct {
	SaleInterval  int `yaml:"sale_interval" json:"sale_interval"`
	OrderInterval int `yaml:"order_interval" json:"order_interval"`
	StockInterval int `yaml:"stock_interval" json:"stock_interval"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system" json:"system"`
	Logger    LogConfig       `yaml:"logger" json:"logger"`
	Database  DBConfig        `yaml:"database" json:"database"`
	Smtp      SmtpConfig      `yaml:"smtp" json:"smtp"`
	Scheduler SchedulerConfig `yaml:"scheduler" json:"scheduler"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appname:  "ShopLite",
		Location: "Asia/Shanghai",
		Workdir:  "/var/shoplite",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/shoplite/shoplite.log",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "shoplite",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
	},
	Smtp: SmtpConfig{
		Host: "127.0.0.1",
		Port: 25,
		From: "noreply@shoplite.local",
	},
	Scheduler: SchedulerConfig{
		SaleInterval:  60,
		OrderInterval: 60,
		StockInterval: 300,
	},
}

// LoadConfig reads the yaml config file, falling back to defaults when the
// file is absent.
func LoadConfig(cfile string) *AppConfig {
	cfg := *DefaultAppConfig
	if cfile == "" {
		return &cfg
	}
	data, err := os.ReadFile(cfile)
	if err != nil {
		return &cfg
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultAppConfig
	}
	return &cfg
}

// InitDirs ensures the working directories exist.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "receipts"), 0o755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0o755)
}

// ReceiptDir returns the directory receipt artifacts are written to.
func (c *AppConfig) ReceiptDir() string {
	return filepath.Join(c.System.Workdir, "receipts")
}
