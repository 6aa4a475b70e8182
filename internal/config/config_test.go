package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMasterKey() string {
	return base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestLoadRequiresMasterKey(t *testing.T) {
	t.Setenv("MASTER_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MASTER_KEY")
}

func TestLoadRejectsMalformedMasterKey(t *testing.T) {
	t.Setenv("MASTER_KEY", "not base64!!!")
	_, err := Load()
	assert.Error(t, err)

	// Valid base64 of the wrong length is still rejected.
	t.Setenv("MASTER_KEY", base64.StdEncoding.EncodeToString([]byte("short")))
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MASTER_KEY", validMasterKey())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "DB/users.db", cfg.Database.UsersPath)
	assert.Equal(t, "DB/chat.db", cfg.Database.ChatPath)
	assert.Len(t, cfg.Security.MasterKey, 32)
	assert.Equal(t, 24*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, "ms", cfg.Providers.PrimaryDomain)
	assert.Equal(t, "https://api.personal.ai/v1", cfg.Providers.Primary.BaseURL)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Providers.Secondary.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MASTER_KEY", validMasterKey())
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("USERS_DB_PATH", "/tmp/pilotpro/users.db")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Security.SessionTTL)
	assert.Equal(t, "/tmp/pilotpro/users.db", cfg.Database.UsersPath)
	assert.Equal(t, "gpt-4o-mini", cfg.Providers.SecondaryModel)
}
