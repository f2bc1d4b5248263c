package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/config"
	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// Persisted keys. Token and remembered username are stored as plain
// strings, everything else as JSON.
const (
	KeyAuthToken          = "authToken"
	KeyUserProfile        = "userProfile"
	KeyProductsList       = "productsList"
	KeyProductData        = "productData"
	KeyRememberedUsername = "rememberedUsername"
)

// Cache is the typed view over a Store. Readers tolerate missing or
// unparsable values; only the component that fetched fresh data writes.
type Cache struct {
	store  Store
	logger *logging.Logger
}

// New wraps store.
func New(store Store) *Cache {
	return &Cache{
		store:  store,
		logger: logging.GetDefault(),
	}
}

// Open builds the store selected by CACHE_BACKEND.
func Open(ctx context.Context, cfg *config.Config) (*Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		return New(NewMemoryStore()), nil
	case config.CacheBackendFile:
		return New(NewFileStore(cfg.CacheFile)), nil
	case config.CacheBackendRedis:
		store, err := NewRedisStoreFromURL(ctx, cfg.RedisURL, cfg.CachePrefix)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to open Redis cache")
		}
		return New(store), nil
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeStorage, "unknown cache backend %q", cfg.CacheBackend)
	}
}

// Store returns the underlying store.
func (c *Cache) Store() Store {
	return c.store
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Token implements the HTTP client's token source. An absent token is "".
func (c *Cache) Token(ctx context.Context) (string, error) {
	token, _, err := c.store.Get(ctx, KeyAuthToken)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorage, "Failed to read auth token")
	}
	return token, nil
}

// SetToken persists the bearer token. An empty token clears it.
func (c *Cache) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return c.ClearToken(ctx)
	}
	return c.set(ctx, KeyAuthToken, token)
}

// ClearToken removes the bearer token.
func (c *Cache) ClearToken(ctx context.Context) error {
	return c.delete(ctx, KeyAuthToken)
}

// Profile returns the cached profile if present and parsable.
func (c *Cache) Profile(ctx context.Context) (*models.Profile, bool) {
	var stored models.StoredProfile
	if !c.getJSON(ctx, KeyUserProfile, &stored) || stored.Data == nil {
		return nil, false
	}
	return stored.Data, true
}

// SetProfile persists the profile wrapped as {success:true, data}.
func (c *Cache) SetProfile(ctx context.Context, profile models.Profile) error {
	return c.setJSON(ctx, KeyUserProfile, models.StoredProfile{Success: true, Data: &profile})
}

// ClearProfile removes the cached profile.
func (c *Cache) ClearProfile(ctx context.Context) error {
	return c.delete(ctx, KeyUserProfile)
}

// ProductsList returns the last persisted list, or an empty list when the
// key is absent or unparsable. Order is preserved.
func (c *Cache) ProductsList(ctx context.Context) []models.Product {
	raw, ok, err := c.store.Get(ctx, KeyProductsList)
	if err != nil {
		c.logger.WithField("key", KeyProductsList).Warn(ctx, "Failed to read cached products: "+err.Error())
		return []models.Product{}
	}
	if !ok {
		return []models.Product{}
	}

	products, err := models.DecodeProductList([]byte(raw))
	if err != nil {
		c.logger.WithField("key", KeyProductsList).Warn(ctx, "Ignoring unparsable cached products")
		return []models.Product{}
	}
	return products
}

// SetProductsList persists products.
func (c *Cache) SetProductsList(ctx context.Context, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return c.setJSON(ctx, KeyProductsList, products)
}

// ProductData returns the last product shown on the product card.
func (c *Cache) ProductData(ctx context.Context) (*models.Product, bool) {
	var product models.Product
	if !c.getJSON(ctx, KeyProductData, &product) {
		return nil, false
	}
	return &product, true
}

// SetProductData persists the product shown on the product card.
func (c *Cache) SetProductData(ctx context.Context, product models.Product) error {
	return c.setJSON(ctx, KeyProductData, product)
}

// RememberedUsername returns the username saved by "remember me".
func (c *Cache) RememberedUsername(ctx context.Context) string {
	username, _, err := c.store.Get(ctx, KeyRememberedUsername)
	if err != nil {
		return ""
	}
	return username
}

// SetRememberedUsername saves the username for the next login.
func (c *Cache) SetRememberedUsername(ctx context.Context, username string) error {
	return c.set(ctx, KeyRememberedUsername, username)
}

// ClearRememberedUsername forgets the saved username.
func (c *Cache) ClearRememberedUsername(ctx context.Context) error {
	return c.delete(ctx, KeyRememberedUsername)
}

func (c *Cache) getJSON(ctx context.Context, key string, target interface{}) bool {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WithField("key", key).Warn(ctx, "Failed to read cache key: "+err.Error())
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		c.logger.WithField("key", key).Warn(ctx, "Ignoring unparsable cache value")
		return false
	}
	return true
}

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, fmt.Sprintf("Failed to encode %s", key))
	}
	return c.set(ctx, key, string(data))
}

func (c *Cache) set(ctx context.Context, key, value string) error {
	if err := c.store.Set(ctx, key, value); err != nil {
		if appErr, ok := apperrors.IsAppError(err); ok {
			return appErr
		}
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, fmt.Sprintf("Failed to save %s", key))
	}
	return nil
}

func (c *Cache) delete(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, key); err != nil {
		if appErr, ok := apperrors.IsAppError(err); ok {
			return appErr
		}
		return apperrors.Wrap(err, apperrors.ErrCodeStorage, fmt.Sprintf("Failed to delete %s", key))
	}
	return nil
}
