package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends understood by CACHE_BACKEND.
const (
	CacheBackendMemory = "memory"
	CacheBackendFile   = "file"
	CacheBackendRedis  = "redis"
)

// Endpoints holds the backend paths and query keys. The defaults are the
// strings the storefront backend has always served, including the
// Vietnamese path segments and query keys.
type Endpoints struct {
	ProductsPath  string `json:"products_path"`
	MyCakesPath   string `json:"my_cakes_path"`
	ProfilePath   string `json:"profile_path"`
	LoginPath     string `json:"login_path"`
	PageParam     string `json:"page_param"`
	LimitParam    string `json:"limit_param"`
	CategoryParam string `json:"category_param"`
}

// DefaultEndpoints returns the backend's stock paths and query keys.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		ProductsPath:  "/api/bánh",
		MyCakesPath:   "/api/cakes/của tôi",
		ProfilePath:   "/api/profile",
		LoginPath:     "/api/login",
		PageParam:     "trang",
		LimitParam:    "giới hạn",
		CategoryParam: "loại",
	}
}

// Config holds all application configuration
type Config struct {
	BaseURL        string        `json:"base_url"`
	Endpoints      Endpoints     `json:"endpoints"`
	PageLimit      int           `json:"page_limit"`
	RequestTimeout time.Duration `json:"request_timeout"`
	BannerTTL      time.Duration `json:"banner_ttl"`
	CacheBackend   string        `json:"cache_backend"`
	CacheFile      string        `json:"cache_file"`
	CachePrefix    string        `json:"cache_prefix"`
	RedisURL       string        `json:"redis_url"`
	Environment    string        `json:"environment"`
	LogLevel       string        `json:"log_level"`
	LogFormat      string        `json:"log_format"`
}

// Load reads configuration from an optional .env file and environment
// variables with defaults. Variables already set in the environment win
// over the file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are skipped.
func LoadFiles(files ...string) (*Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	defaults := DefaultEndpoints()
	config := &Config{
		BaseURL: strings.TrimRight(getEnv("STOREFRONT_BASE_URL", "http://localhost:3000"), "/"),
		Endpoints: Endpoints{
			ProductsPath:  getEnv("STOREFRONT_PRODUCTS_PATH", defaults.ProductsPath),
			MyCakesPath:   getEnv("STOREFRONT_MY_CAKES_PATH", defaults.MyCakesPath),
			ProfilePath:   getEnv("STOREFRONT_PROFILE_PATH", defaults.ProfilePath),
			LoginPath:     getEnv("STOREFRONT_LOGIN_PATH", defaults.LoginPath),
			PageParam:     getEnv("STOREFRONT_PAGE_PARAM", defaults.PageParam),
			LimitParam:    getEnv("STOREFRONT_LIMIT_PARAM", defaults.LimitParam),
			CategoryParam: getEnv("STOREFRONT_CATEGORY_PARAM", defaults.CategoryParam),
		},
		PageLimit:      getEnvAsInt("PAGE_LIMIT", 10),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		BannerTTL:      getEnvAsDuration("BANNER_TTL", 3*time.Second),
		CacheBackend:   getEnv("CACHE_BACKEND", CacheBackendFile),
		CacheFile:      getEnv("CACHE_FILE", defaultCacheFile()),
		CachePrefix:    getEnv("CACHE_PREFIX", "storefront:"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, "STOREFRONT_BASE_URL must be an absolute http(s) URL")
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, "STOREFRONT_BASE_URL must use http or https")
	}

	for key, path := range map[string]string{
		"STOREFRONT_PRODUCTS_PATH": c.Endpoints.ProductsPath,
		"STOREFRONT_MY_CAKES_PATH": c.Endpoints.MyCakesPath,
		"STOREFRONT_PROFILE_PATH":  c.Endpoints.ProfilePath,
		"STOREFRONT_LOGIN_PATH":    c.Endpoints.LoginPath,
	} {
		if !strings.HasPrefix(path, "/") {
			errors = append(errors, fmt.Sprintf("%s must start with /", key))
		}
	}

	if c.PageLimit < 1 || c.PageLimit > 100 {
		errors = append(errors, "PAGE_LIMIT must be between 1 and 100")
	}

	if c.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}

	if c.BannerTTL <= 0 {
		errors = append(errors, "BANNER_TTL must be positive")
	}

	validBackends := []string{CacheBackendMemory, CacheBackendFile, CacheBackendRedis}
	if !isOneOf(c.CacheBackend, validBackends) {
		errors = append(errors, fmt.Sprintf("CACHE_BACKEND must be one of: %s", strings.Join(validBackends, ", ")))
	}

	if c.CacheBackend == CacheBackendFile && c.CacheFile == "" {
		errors = append(errors, "CACHE_FILE is required for the file cache backend")
	}

	if c.CacheBackend == CacheBackendRedis && c.RedisURL == "" {
		errors = append(errors, "REDIS_URL is required for the redis cache backend")
	}

	validEnvs := []string{"development", "staging", "production"}
	if !isOneOf(c.Environment, validEnvs) {
		errors = append(errors, fmt.Sprintf("ENVIRONMENT must be one of: %s", strings.Join(validEnvs, ", ")))
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !isOneOf(c.LogLevel, validLogLevels) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"json", "text"}
	if !isOneOf(c.LogFormat, validLogFormats) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("5s") or plain seconds ("5").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".storefront-cache.json"
	}
	return dir + string(os.PathSeparator) + "tiembanhngot" + string(os.PathSeparator) + "cache.json"
}

func isOneOf(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
