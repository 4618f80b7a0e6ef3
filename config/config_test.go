package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "missing database url",
			env:     map[string]string{"JWT_SECRET_KEY": "secret"},
			wantErr: "DATABASE_URL environment variable is not set",
		},
		{
			name:    "missing jwt secret",
			env:     map[string]string{"DATABASE_URL": "postgres://localhost/league"},
			wantErr: "JWT_SECRET_KEY environment variable is not set",
		},
		{
			name: "port out of range",
			env: map[string]string{
				"DATABASE_URL":   "postgres://localhost/league",
				"JWT_SECRET_KEY": "secret",
				"SERVER_PORT":    "70000",
			},
			wantErr: "SERVER_PORT must be between 1 and 65535, got 70000",
		},
		{
			name: "bad timezone",
			env: map[string]string{
				"DATABASE_URL":     "postgres://localhost/league",
				"JWT_SECRET_KEY":   "secret",
				"DEFAULT_TIMEZONE": "Mars/Olympus",
			},
			wantErr: "invalid DEFAULT_TIMEZONE",
		},
		{
			name: "defaults",
			env: map[string]string{
				"DATABASE_URL":   "postgres://localhost/league",
				"JWT_SECRET_KEY": "secret",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
				assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
				assert.Equal(t, "en", cfg.DefaultLanguage)
				assert.False(t, cfg.StorageEnabled())
			},
		},
		{
			name: "pool settings",
			env: map[string]string{
				"DATABASE_URL":         "postgres://localhost/league",
				"JWT_SECRET_KEY":       "secret",
				"DB_MAX_OPEN_CONNS":    "10",
				"DB_CONN_MAX_LIFETIME": "1m",
			},
			check: func(t *testing.T, cfg *Config) {
				pool := cfg.Pool()
				assert.Equal(t, 10, pool.MaxOpenConns)
				assert.Equal(t, 25, pool.MaxIdleConns)
				assert.Equal(t, time.Minute, pool.ConnMaxLifetime)
				assert.Equal(t, 5*time.Second, pool.ConnectTimeout)
			},
		},
		{
			name: "zero open connections",
			env: map[string]string{
				"DATABASE_URL":      "postgres://localhost/league",
				"JWT_SECRET_KEY":    "secret",
				"DB_MAX_OPEN_CONNS": "0",
			},
			wantErr: "DB_MAX_OPEN_CONNS must be positive",
		},
		{
			name: "storage and origins",
			env: map[string]string{
				"DATABASE_URL":         "postgres://localhost/league",
				"JWT_SECRET_KEY":       "secret",
				"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
				"R2_ACCOUNT_ID":        "acc",
				"R2_ACCESS_KEY_ID":     "key",
				"R2_SECRET_ACCESS_KEY": "secret",
				"R2_BUCKET_NAME":       "logos",
				"R2_PUBLIC_BASE_URL":   "https://cdn.example",
				"SEASON_COPY_WINDOW":   "48h",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
				assert.True(t, cfg.StorageEnabled())
				assert.Equal(t, 48*time.Hour, cfg.SeasonCopyWindow)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DATABASE_URL", "JWT_SECRET_KEY", "SERVER_PORT", "DEFAULT_TIMEZONE"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Parse()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
