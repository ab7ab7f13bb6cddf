package app

import (
	"errors"
	"testing"

	"github.com/shoplite/shoplite/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newTestConfigManager(rows *[]domain.SysConfig, loadErr *error, loads *int) *ConfigManager {
	return &ConfigManager{
		load: func() ([]domain.SysConfig, error) {
			if loads != nil {
				*loads++
			}
			if loadErr != nil && *loadErr != nil {
				return nil, *loadErr
			}
			return *rows, nil
		},
	}
}

func TestSettingsValueCoercion(t *testing.T) {
	rows := []domain.SysConfig{
		{Type: "stock", Name: "low_threshold", Value: "5"},
		{Type: "order", Name: "confirm_hours", Value: "not-a-number"},
		{Type: "notification", Name: "enabled", Value: "true"},
	}
	cm := newTestConfigManager(&rows, nil, nil)

	assert.Equal(t, 5, cm.GetInt("stock", "low_threshold"))
	assert.Equal(t, int64(5), cm.GetInt64("stock", "low_threshold"))
	assert.Equal(t, "5", cm.GetString("stock", "low_threshold"))
	assert.True(t, cm.GetBool("notification", "enabled"))

	// a bad row degrades to the zero value, which callers treat as unset
	assert.Equal(t, 0, cm.GetInt("order", "confirm_hours"))
}

func TestSettingsMissingKeyIsZero(t *testing.T) {
	rows := []domain.SysConfig{}
	cm := newTestConfigManager(&rows, nil, nil)

	assert.Equal(t, 0, cm.GetInt("sale", "ending_soon_hours"))
	assert.Equal(t, "", cm.GetString("sale", "ending_soon_hours"))
	assert.False(t, cm.GetBool("sale", "ending_soon_hours"))
}

func TestSettingsCacheServesWithoutReload(t *testing.T) {
	rows := []domain.SysConfig{{Type: "stock", Name: "low_threshold", Value: "5"}}
	loads := 0
	cm := newTestConfigManager(&rows, nil, &loads)

	cm.GetInt("stock", "low_threshold")
	cm.GetInt("stock", "low_threshold")
	cm.GetString("stock", "low_threshold")

	assert.Equal(t, 1, loads)
}

func TestSettingsInvalidateForcesReload(t *testing.T) {
	rows := []domain.SysConfig{{Type: "stock", Name: "low_threshold", Value: "5"}}
	loads := 0
	cm := newTestConfigManager(&rows, nil, &loads)

	assert.Equal(t, 5, cm.GetInt("stock", "low_threshold"))

	rows = []domain.SysConfig{{Type: "stock", Name: "low_threshold", Value: "9"}}
	cm.Invalidate()

	assert.Equal(t, 9, cm.GetInt("stock", "low_threshold"))
	assert.Equal(t, 2, loads)
}

func TestSettingsStaleCacheOnLoadError(t *testing.T) {
	rows := []domain.SysConfig{{Type: "stock", Name: "low_threshold", Value: "5"}}
	var loadErr error
	cm := newTestConfigManager(&rows, &loadErr, nil)

	// warm the cache, then break the source and expire the cache
	assert.Equal(t, 5, cm.GetInt("stock", "low_threshold"))
	loadErr = errors.New("connection lost")
	cm.cachedAt = cm.cachedAt.Add(-2 * settingsCacheTTL)

	// stale values are served rather than zero
	assert.Equal(t, 5, cm.GetInt("stock", "low_threshold"))
}

func TestSettingsColdCacheLoadErrorIsZero(t *testing.T) {
	rows := []domain.SysConfig{}
	loadErr := errors.New("connection refused")
	cm := newTestConfigManager(&rows, &loadErr, nil)

	assert.Equal(t, "", cm.GetString("stock", "low_threshold"))
	assert.Equal(t, 0, cm.GetInt("stock", "low_threshold"))
}
