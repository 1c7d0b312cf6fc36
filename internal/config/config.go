package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var defaultBuyers = []string{"John Doe", "Jane Smith", "Peter Jones"}

type Config struct {
	Port              int
	DatabaseURL       string
	UsersFile         string
	WhatsAppPhone     string
	Buyers            []string
	PublicBaseURL     string
	GeminiAPIKey      string
	GeminiModel       string
	ImportStrictPrice bool
	SessionTTL        time.Duration
	MaxUploadBytes    int64
}

// Load reads the process environment first and falls back to ./.env.
func Load() (Config, error) {
	return LoadFrom(filepath.Join(".", ".env"), os.Getenv)
}

func LoadFrom(envPath string, getenv func(string) string) (Config, error) {
	lookup, err := newLookup(envPath, getenv)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:           8080,
		DatabaseURL:    lookup("DATABASE_URL"),
		UsersFile:      firstNonEmpty(lookup("USERS_FILE"), "users.yaml"),
		WhatsAppPhone:  lookup("WHATSAPP_PHONE"),
		Buyers:         defaultBuyers,
		PublicBaseURL:  lookup("PUBLIC_BASE_URL"),
		GeminiAPIKey:   lookup("GEMINI_API_KEY"),
		GeminiModel:    firstNonEmpty(lookup("GEMINI_MODEL"), "gemini-2.5-flash"),
		SessionTTL:     12 * time.Hour,
		MaxUploadBytes: 32 << 20,
	}

	if portRaw := lookup("PORT"); portRaw != "" {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT: %q", portRaw)
		}
		cfg.Port = port
	}

	if cfg.WhatsAppPhone == "" {
		return Config{}, fmt.Errorf("WHATSAPP_PHONE is required (environment variable or .env)")
	}

	if buyersRaw := lookup("BUYERS"); buyersRaw != "" {
		cfg.Buyers = splitList(buyersRaw)
	}

	if strictRaw := lookup("IMPORT_STRICT_PRICE"); strictRaw != "" {
		strict, err := strconv.ParseBool(strictRaw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid IMPORT_STRICT_PRICE: %q", strictRaw)
		}
		cfg.ImportStrictPrice = strict
	}

	if ttlRaw := lookup("SESSION_TTL"); ttlRaw != "" {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_TTL: %q", ttlRaw)
		}
		cfg.SessionTTL = ttl
	}

	if uploadRaw := lookup("MAX_UPLOAD_MB"); uploadRaw != "" {
		mb, err := strconv.Atoi(uploadRaw)
		if err != nil || mb <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", uploadRaw)
		}
		cfg.MaxUploadBytes = int64(mb) << 20
	}

	return cfg, nil
}

// LoadDatabaseURL reads only DATABASE_URL, for tools that never serve HTTP.
func LoadDatabaseURL() (string, error) {
	return DatabaseURLFrom(filepath.Join(".", ".env"), os.Getenv)
}

func DatabaseURLFrom(envPath string, getenv func(string) string) (string, error) {
	lookup, err := newLookup(envPath, getenv)
	if err != nil {
		return "", err
	}
	databaseURL := lookup("DATABASE_URL")
	if databaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required (environment variable or .env)")
	}
	return databaseURL, nil
}

func newLookup(envPath string, getenv func(string) string) (func(string) string, error) {
	values := map[string]string{}
	if _, err := os.Stat(envPath); err == nil {
		fileValues, err := godotenv.Read(envPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", envPath, err)
		}
		values = fileValues
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", envPath, err)
	}
	return func(key string) string {
		return firstNonEmpty(getenv(key), values[key])
	}, nil
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if value := strings.TrimSpace(candidate); value != "" {
			return value
		}
	}
	return ""
}

func splitList(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if value := strings.TrimSpace(part); value != "" {
			items = append(items, value)
		}
	}
	return items
}
