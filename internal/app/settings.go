package app

import (
	"sync"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const settingsCacheTTL = 30 * time.Second

// ConfigManager reads runtime settings from the sys_config table with a
// short read-through cache. Values are coerced with spf13/cast, so a bad
// row degrades to the zero value instead of an error. The row load sits
// behind the load field so the cache behavior can be tested without a
// database.
type ConfigManager struct {
	load func() ([]domain.SysConfig, error)

	mu       sync.Mutex
	cache    map[string]string
	cachedAt time.Time
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{
		load: func() ([]domain.SysConfig, error) {
			var rows []domain.SysConfig
			err := db.Find(&rows).Error
			return rows, err
		},
	}
}

func (c *ConfigManager) value(category, name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache == nil || time.Since(c.cachedAt) > settingsCacheTTL {
		rows, err := c.load()
		if err != nil {
			zap.L().Error("settings load failed", zap.Error(err))
			if c.cache == nil {
				return ""
			}
			return c.cache[category+"."+name]
		}
		c.cache = make(map[string]string, len(rows))
		for _, row := range rows {
			c.cache[row.Type+"."+row.Name] = row.Value
		}
		c.cachedAt = time.Now()
	}
	return c.cache[category+"."+name]
}

// Invalidate clears the cache so the next read hits the database.
func (c *ConfigManager) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = nil
}

func (c *ConfigManager) GetString(category, name string) string {
	return c.value(category, name)
}

func (c *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(c.value(category, name))
}

func (c *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(c.value(category, name))
}

func (c *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(c.value(category, name))
}
