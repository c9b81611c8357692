package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func setRequired(t *testing.T) {
	t.Setenv("FITBIT_CLIENT_ID", "client-id")
	t.Setenv("FITBIT_CLIENT_SECRET", "client-secret")
	t.Setenv("OUR_SERVER_URL", "https://relay.example.com/")
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "client-id", cfg.ClientID)
		assert.Equal(t, "https://relay.example.com", cfg.ServerURL)
		assert.Equal(t, "1.2", cfg.APIVersion)
		assert.Equal(t, "https://api.fitbit.com", cfg.APIBaseURL)
		assert.Equal(t, ":3001", cfg.ListenAddr)
		assert.Equal(t, "./data", cfg.DataDir)
		assert.Equal(t, "data/refresh-tokens", cfg.TokenDir())
		assert.Equal(t, TokenStoreFile, cfg.TokenStore)
		assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
		assert.False(t, cfg.TLSEnabled)
		assert.Empty(t, cfg.StartDate)
		assert.Nil(t, cfg.CORSOrigins)
	})

	t.Run("Overrides", func(t *testing.T) {
		chdir(t, t.TempDir())
		setRequired(t)
		t.Setenv("START_DATE", "2023-10-30")
		t.Setenv("USE_TLS", "true")
		t.Setenv("TLS_CERT_FILE", "cert.pem")
		t.Setenv("TLS_KEY_FILE", "key.pem")
		t.Setenv("HTTP_TIMEOUT", "5s")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "2023-10-30", cfg.StartDate)
		assert.True(t, cfg.TLSEnabled)
		assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	})

	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "Missing client id", env: map[string]string{"FITBIT_CLIENT_ID": ""}},
		{name: "Missing server url", env: map[string]string{"OUR_SERVER_URL": ""}},
		{name: "Bad start date", env: map[string]string{"START_DATE": "30/10/2023"}},
		{name: "Bad tls flag", env: map[string]string{"USE_TLS": "maybe"}},
		{name: "TLS without cert", env: map[string]string{"USE_TLS": "1"}},
		{name: "Postgres without url", env: map[string]string{"TOKEN_STORE": "postgres"}},
		{name: "Unknown token store", env: map[string]string{"TOKEN_STORE": "redis"}},
		{name: "Bad timeout", env: map[string]string{"HTTP_TIMEOUT": "soon"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
