package app

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/shoplite/shoplite/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed settings_schema.json
var configSchemasData []byte

type ConfigSchema struct {
	Key         string `json:"key"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type ConfigSchemasJSON struct {
	Schemas []ConfigSchema `json:"schemas"`
}

func hashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "shoplite"

	var user domain.User
	err := a.gormDB.Where("username = ?", superUsername).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "",
			Username:  superUsername,
			Password:  hashPassword(defaultPassword),
			Level:     domain.UserLevelAdmin,
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query admin account", zap.Error(err))
		return
	}

	resetLevel := !strings.EqualFold(user.Level, domain.UserLevelAdmin)
	resetStatus := !strings.EqualFold(user.Status, common.ENABLED)
	if !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetLevel {
		updates["level"] = domain.UserLevelAdmin
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}
	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default admin account",
		zap.String("username", superUsername),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

func (a *Application) checkSettings() {
	var schemasData ConfigSchemasJSON
	if err := json.Unmarshal(configSchemasData, &schemasData); err != nil {
		zap.L().Error("failed to load config schemas from JSON", zap.Error(err))
		return
	}

	// Initialize missing settings rows only; existing values are kept.
	for sortid, schema := range schemasData.Schemas {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkProducts initializes demo catalog rows on an empty database.
func (a *Application) checkProducts() {
	defaultProducts := []domain.Product{
		{Name: "demo-widget-basic", Price: 9.99, Stock: 100},
		{Name: "demo-widget-pro", Price: 24.5, Stock: 50},
		{Name: "demo-addon-support", Price: 49.95, Stock: 200},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			p.ID = common.UUIDint64()
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("name", p.Name))
			}
		}
	}
}
