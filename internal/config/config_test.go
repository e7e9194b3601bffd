// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/platform?sslmode=disable")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpire)
	assert.Equal(t, 12, cfg.Password.BcryptCost)
	assert.Equal(t, "lax", cfg.Cookie.SameSite)
	assert.True(t, cfg.Database.Migrate)
	assert.False(t, cfg.Otel.Enabled)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRE", "5m")
	t.Setenv("BCRYPT_COST", "14")
	t.Setenv("COOKIE_SAME_SITE", "strict")

	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, 14, cfg.Password.BcryptCost)
	assert.Equal(t, "strict", cfg.Cookie.SameSite)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/platform")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "")

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "too-short")

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoadConfigRejectsUnknownAlgorithm(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ALGORITHM", "none")

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported JWT algorithm")
}

func TestLoadConfigRejectsWeakBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "10")

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bcrypt_cost")
}

func TestLoadConfigProductionRequiresSecureCookies(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("COOKIE_SECURE", "false")

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COOKIE_SECURE")
}
