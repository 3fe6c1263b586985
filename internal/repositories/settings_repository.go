package repositories

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	intconfig "github.com/lipa-nganya/test-two-sub001/internal/config"
	intdb "github.com/lipa-nganya/test-two-sub001/internal/db"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

// SettingsRepository reads key/value configuration rows. Deployments without
// the settings table fall back to the env defaults.
type SettingsRepository struct {
	DB *sql.DB

	// Defaults used when a key has no row (or the table is absent).
	DefaultEnabled bool
	DefaultAmount  float64
}

func (r SettingsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Get returns the raw value for a key, or empty string when unset.
func (r SettingsRepository) Get(key string) (string, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "settings") {
		return "", nil
	}
	var value sql.NullString
	err := db.QueryRow(`SELECT value FROM settings WHERE `+"`key`"+`=? LIMIT 1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(value.String), nil
}

// DriverPaySettings resolves the typed driver-pay configuration.
func (r SettingsRepository) DriverPaySettings() (models.DriverPaySettings, error) {
	out := models.DriverPaySettings{Enabled: r.DefaultEnabled, Amount: r.DefaultAmount}

	if raw, err := r.Get(models.SettingDriverPayEnabledKey); err != nil {
		return out, err
	} else if raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			out.Enabled = b
		}
	}

	if raw, err := r.Get(models.SettingDriverPayAmountKey); err != nil {
		return out, err
	} else if raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 {
			out.Amount = f
		}
	}

	return out, nil
}
