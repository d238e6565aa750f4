package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8081")
	t.Setenv("APP_DATABASE_DRIVER", "sqlite")
	t.Setenv("APP_DATABASE_DSN", "file::memory:")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.Expire)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, ":8081", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN)
	assert.Contains(t, cfg.Auth.AdminEmails, "admin@blog.com")
	assert.False(t, cfg.Bootstrap.Admin.Enabled())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:   ServerConfig{Port: 8080, Mode: "release"},
		Database: DatabaseConfig{Driver: "postgres"},
		JWT:      JWTConfig{Secret: "s", Expire: time.Hour},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Database.Driver = "mongo"
	assert.Error(t, bad.Validate())

	bad = base
	bad.JWT.Expire = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.Server.Port = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.Server.Mode = "prod"
	assert.Error(t, bad.Validate())
}

func TestAuthConfig_IsAdminEmail(t *testing.T) {
	a := AuthConfig{AdminEmails: []string{"Admin@Blog.com", "ops@example.com"}}

	assert.True(t, a.IsAdminEmail("admin@blog.com"))
	assert.True(t, a.IsAdminEmail("  OPS@example.com "))
	assert.False(t, a.IsAdminEmail("reader@blog.com"))
	assert.False(t, AuthConfig{}.IsAdminEmail("admin@blog.com"))
}
