package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DateLayout is the format of START_DATE and of every date sent to the Fitbit API.
const DateLayout = "2006-01-02"

// ErrConfiguration marks a missing or invalid setting.
var ErrConfiguration = errors.New("configuration error")

const (
	TokenStoreFile     = "file"
	TokenStorePostgres = "postgres"
)

type Config struct {
	ClientID      string
	ClientSecret  string
	APIVersion    string
	APIBaseURL    string
	ServerURL     string
	StartDate     string
	ListenAddr    string
	DataDir       string
	TLSEnabled    bool
	TLSCertFile   string
	TLSKeyFile    string
	TokenStore    string
	DatabaseURL   string
	SessionSecret string
	HTTPTimeout   time.Duration
	LogLevel      string
	CORSOrigins   []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrConfiguration, err)
	}

	cfg := &Config{
		ClientID:      os.Getenv("FITBIT_CLIENT_ID"),
		ClientSecret:  os.Getenv("FITBIT_CLIENT_SECRET"),
		APIVersion:    getEnv("FITBIT_API_VERSION", "1.2"),
		APIBaseURL:    strings.TrimRight(getEnv("FITBIT_API_BASE_URL", "https://api.fitbit.com"), "/"),
		ServerURL:     strings.TrimRight(os.Getenv("OUR_SERVER_URL"), "/"),
		StartDate:     strings.TrimSpace(os.Getenv("START_DATE")),
		ListenAddr:    getEnv("LISTEN_ADDR", ":3001"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		TLSCertFile:   os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:    os.Getenv("TLS_KEY_FILE"),
		TokenStore:    strings.ToLower(getEnv("TOKEN_STORE", TokenStoreFile)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var err error
	if cfg.TLSEnabled, err = parseBool("USE_TLS"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("HTTP_TIMEOUT", "60s")); err != nil {
		return nil, fmt.Errorf("%w: HTTP_TIMEOUT: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.ServerURL == "" {
		return fmt.Errorf("%w: FITBIT_CLIENT_ID, FITBIT_CLIENT_SECRET and OUR_SERVER_URL are required", ErrConfiguration)
	}
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("%w: TLS_CERT_FILE and TLS_KEY_FILE are required when USE_TLS is set", ErrConfiguration)
	}
	switch c.TokenStore {
	case TokenStoreFile:
	case TokenStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required when TOKEN_STORE=postgres", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: TOKEN_STORE must be %q or %q", ErrConfiguration, TokenStoreFile, TokenStorePostgres)
	}
	if c.StartDate != "" {
		if _, err := time.Parse(DateLayout, c.StartDate); err != nil {
			return fmt.Errorf("%w: START_DATE must be YYYY-MM-DD", ErrConfiguration)
		}
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: HTTP_TIMEOUT must be positive", ErrConfiguration)
	}
	return nil
}

// TokenDir is where the file token store keeps one file per user.
func (c *Config) TokenDir() string {
	return filepath.Join(c.DataDir, "refresh-tokens")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseBool(key string) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrConfiguration, key)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
