package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{"CACHE_BACKEND": "memory"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "http://localhost:3000", c.BaseURL)
				assert.Equal(t, DefaultEndpoints(), c.Endpoints)
				assert.Equal(t, 10, c.PageLimit)
				assert.Equal(t, 30*time.Second, c.RequestTimeout)
				assert.Equal(t, 3*time.Second, c.BannerTTL)
				assert.Equal(t, "development", c.Environment)
				assert.Equal(t, "info", c.LogLevel)
				assert.Equal(t, "text", c.LogFormat)
			},
		},
		{
			name: "all env vars set",
			envVars: map[string]string{
				"STOREFRONT_BASE_URL":       "https://shop.example.com/",
				"STOREFRONT_PRODUCTS_PATH":  "/api/products",
				"STOREFRONT_MY_CAKES_PATH":  "/api/cakes/mine",
				"STOREFRONT_PROFILE_PATH":   "/api/me",
				"STOREFRONT_LOGIN_PATH":     "/api/auth/login",
				"STOREFRONT_PAGE_PARAM":     "page",
				"STOREFRONT_LIMIT_PARAM":    "limit",
				"STOREFRONT_CATEGORY_PARAM": "category",
				"PAGE_LIMIT":                "20",
				"REQUEST_TIMEOUT":           "5s",
				"BANNER_TTL":                "2",
				"CACHE_BACKEND":             "redis",
				"REDIS_URL":                 "redis://cache:6380/1",
				"CACHE_PREFIX":              "shop:",
				"ENVIRONMENT":               "production",
				"LOG_LEVEL":                 "warn",
				"LOG_FORMAT":                "json",
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://shop.example.com", c.BaseURL)
				assert.Equal(t, Endpoints{
					ProductsPath:  "/api/products",
					MyCakesPath:   "/api/cakes/mine",
					ProfilePath:   "/api/me",
					LoginPath:     "/api/auth/login",
					PageParam:     "page",
					LimitParam:    "limit",
					CategoryParam: "category",
				}, c.Endpoints)
				assert.Equal(t, 20, c.PageLimit)
				assert.Equal(t, 5*time.Second, c.RequestTimeout)
				assert.Equal(t, 2*time.Second, c.BannerTTL)
				assert.Equal(t, CacheBackendRedis, c.CacheBackend)
				assert.Equal(t, "redis://cache:6380/1", c.RedisURL)
				assert.Equal(t, "shop:", c.CachePrefix)
				assert.Equal(t, "json", c.LogFormat)
				assert.True(t, c.IsProduction())
			},
		},
		{
			name:    "invalid base url",
			envVars: map[string]string{"STOREFRONT_BASE_URL": "localhost"},
			wantErr: true,
		},
		{
			name:    "unknown cache backend",
			envVars: map[string]string{"CACHE_BACKEND": "sqlite"},
			wantErr: true,
		},
		{
			name:    "page limit out of range",
			envVars: map[string]string{"PAGE_LIMIT": "0"},
			wantErr: true,
		},
		{
			name:    "path without leading slash",
			envVars: map[string]string{"STOREFRONT_LOGIN_PATH": "api/login"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			config, err := LoadFiles()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestLoadFiles_DotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STOREFRONT_BASE_URL=http://cakes.test:8080\nPAGE_LIMIT=12\nCACHE_BACKEND=memory\n"), 0o600))

	// godotenv never overrides a variable that exists, even when empty.
	keys := []string{"STOREFRONT_BASE_URL", "PAGE_LIMIT", "CACHE_BACKEND"}
	for _, key := range keys {
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range keys {
			os.Unsetenv(key)
		}
	})

	config, err := LoadFiles(envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "http://cakes.test:8080", config.BaseURL)
	assert.Equal(t, 12, config.PageLimit)
}

func TestLoadFiles_EnvironmentWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAGE_LIMIT", "7")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PAGE_LIMIT=12\n"), 0o600))

	config, err := LoadFiles(envFile)
	require.NoError(t, err)
	assert.Equal(t, 7, config.PageLimit)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:        "http://localhost:3000",
			Endpoints:      DefaultEndpoints(),
			PageLimit:      10,
			RequestTimeout: 30 * time.Second,
			BannerTTL:      3 * time.Second,
			CacheBackend:   CacheBackendFile,
			CacheFile:      "/tmp/cache.json",
			Environment:    "development",
			LogLevel:       "info",
			LogFormat:      "text",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid configuration", func(c *Config) {}, false},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://shop" }, true},
		{"limit too high", func(c *Config) { c.PageLimit = 101 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"zero banner ttl", func(c *Config) { c.BannerTTL = 0 }, true},
		{"file backend without file", func(c *Config) { c.CacheFile = "" }, true},
		{"redis backend without url", func(c *Config) { c.CacheBackend = CacheBackendRedis; c.RedisURL = "" }, true},
		{"invalid environment", func(c *Config) { c.Environment = "invalid" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	c := &Config{BaseURL: "nope", Endpoints: DefaultEndpoints(), CacheBackend: "x", Environment: "x", LogLevel: "x"}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STOREFRONT_BASE_URL")
	assert.Contains(t, err.Error(), "PAGE_LIMIT")
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestConfig_IsDevelopment(t *testing.T) {
	assert.True(t, (&Config{Environment: "development"}).IsDevelopment())
	assert.False(t, (&Config{Environment: "staging"}).IsDevelopment())
	assert.False(t, (&Config{Environment: "staging"}).IsProduction())
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     int
	}{
		{"valid integer", "9090", 9090},
		{"invalid integer", "invalid", 8080},
		{"unset", "", 8080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.envValue)
			assert.Equal(t, tt.want, getEnvAsInt("TEST_INT", 8080))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     time.Duration
	}{
		{"go duration", "1500ms", 1500 * time.Millisecond},
		{"plain seconds", "4", 4 * time.Second},
		{"garbage", "soon", time.Minute},
		{"unset", "", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", time.Minute))
		})
	}
}

// clearEnv blanks every variable Load reads; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"STOREFRONT_BASE_URL", "STOREFRONT_PRODUCTS_PATH", "STOREFRONT_MY_CAKES_PATH",
		"STOREFRONT_PROFILE_PATH", "STOREFRONT_LOGIN_PATH", "STOREFRONT_PAGE_PARAM",
		"STOREFRONT_LIMIT_PARAM", "STOREFRONT_CATEGORY_PARAM", "PAGE_LIMIT",
		"REQUEST_TIMEOUT", "BANNER_TTL", "CACHE_BACKEND", "CACHE_FILE", "CACHE_PREFIX",
		"REDIS_URL", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(env, "")
	}
}
