package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), ".env"), envMap(map[string]string{
		"WHATSAPP_PHONE": "15551234567",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "users.yaml", cfg.UsersFile)
	assert.Equal(t, []string{"John Doe", "Jane Smith", "Peter Jones"}, cfg.Buyers)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.False(t, cfg.ImportStrictPrice)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.EqualValues(t, 32<<20, cfg.MaxUploadBytes)
}

func TestLoadFromEnvironmentWinsOverDotEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(
		"PORT=9000\n"+
			"WHATSAPP_PHONE=\"+1 555 000 0000\"\n"+
			"BUYERS=Alice, Bob ,,\n"+
			"IMPORT_STRICT_PRICE=true\n"+
			"SESSION_TTL=30m\n"+
			"MAX_UPLOAD_MB=4\n",
	), 0o600))

	cfg, err := LoadFrom(envPath, envMap(map[string]string{"PORT": "7000"}))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "+1 555 000 0000", cfg.WhatsAppPhone)
	assert.Equal(t, []string{"Alice", "Bob"}, cfg.Buyers)
	assert.True(t, cfg.ImportStrictPrice)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.EqualValues(t, 4<<20, cfg.MaxUploadBytes)
}

func TestLoadFromRejectsBadValues(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")

	_, err := LoadFrom(envPath, envMap(nil))
	assert.ErrorContains(t, err, "WHATSAPP_PHONE")

	bad := map[string]string{
		"PORT":                "abc",
		"IMPORT_STRICT_PRICE": "maybe",
		"SESSION_TTL":         "-1h",
		"MAX_UPLOAD_MB":       "0",
	}
	for key, value := range bad {
		t.Run(key, func(t *testing.T) {
			_, err := LoadFrom(envPath, envMap(map[string]string{"WHATSAPP_PHONE": "1", key: value}))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestDatabaseURLFromIgnoresServerSettings(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DATABASE_URL=postgres://pos@localhost/pos\n"), 0o600))

	url, err := DatabaseURLFrom(envPath, envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "postgres://pos@localhost/pos", url)

	_, err = DatabaseURLFrom(filepath.Join(t.TempDir(), ".env"), envMap(nil))
	assert.ErrorContains(t, err, "DATABASE_URL")
}
