package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "APP_ENV", "UPLOAD_DIR", "SHUTDOWN_TIMEOUT_SECONDS", "ORDERS_DB_DSN", "REQUIRE_CUSTOMER_EMAIL",
		"CORS_ALLOWED_ORIGINS", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "ORDER_EMAIL_RECIPIENT",
		"ORDER_EMAIL_SUBJECT_PREFIX",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())
	assert.True(t, cfg.RequireCustomerEmail)
	assert.False(t, cfg.RepositoryConfigured())
	assert.False(t, cfg.Development())
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "[Sticker Shop]", cfg.Mail.SubjectPrefix)
	assert.False(t, cfg.Mail.Configured())
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "Development")
	t.Setenv("ORDERS_DB_DSN", "postgres://u:p@db:5432/orders")
	t.Setenv("SMTP_USER", "shop@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("ORDER_EMAIL_RECIPIENT", "ops@example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("REQUIRE_CUSTOMER_EMAIL", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com,https://admin.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.True(t, cfg.RepositoryConfigured())
	assert.True(t, cfg.Mail.Configured())
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.False(t, cfg.RequireCustomerEmail)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	os.Unsetenv("UPLOAD_DIR")
	t.Cleanup(func() { os.Unsetenv("UPLOAD_DIR") })
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("UPLOAD_DIR=/var/lib/stickers\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/stickers", cfg.UploadDir)
}
