package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, BackendJSON, cfg.CatalogBackend)
	assert.Equal(t, "3", cfg.CatalogVersion)
	assert.Equal(t, "56941600915", cfg.WhatsAppPhone)
	assert.Equal(t, 2*time.Second, cfg.PetTick)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.Development())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COFFEBLESS_UNUSED=1\nWHATSAPP_PHONE=56900000000\nCART_TTL=2h\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("COFFEBLESS_UNUSED")
		os.Unsetenv("WHATSAPP_PHONE")
		os.Unsetenv("CART_TTL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "56900000000", cfg.WhatsAppPhone)
	assert.Equal(t, 2*time.Hour, cfg.CartTTL)
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9000\n"), 0o644))
	t.Setenv("PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PET_TICK", "often")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	base := Config{CatalogBackend: BackendJSON, AdminPassword: "x", PetTick: 2 * time.Second}
	assert.NoError(t, base.Validate())

	pg := base
	pg.CatalogBackend = BackendPostgres
	assert.Error(t, pg.Validate())
	pg.DatabaseURL = "postgres://localhost/cafe"
	assert.NoError(t, pg.Validate())

	bad := base
	bad.CatalogBackend = "mongo"
	assert.Error(t, bad.Validate())

	noPass := base
	noPass.AdminPassword = ""
	assert.Error(t, noPass.Validate())

	for _, tick := range []time.Duration{0, -time.Second} {
		stopped := base
		stopped.PetTick = tick
		assert.ErrorContains(t, stopped.Validate(), "PET_TICK")
	}
}

func TestLoadRejectsZeroPetTick(t *testing.T) {
	t.Setenv("PET_TICK", "0s")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "PET_TICK")
}

func TestSMTPPrefix(t *testing.T) {
	t.Setenv("SMTP_USER", "cafe@example.com")
	t.Setenv("SMTP_TO", "pedidos@example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "cafe@example.com", cfg.SMTP.User)
	assert.Equal(t, "pedidos@example.com", cfg.SMTP.To)
}
