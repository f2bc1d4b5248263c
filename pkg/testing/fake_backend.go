package testing

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/auth"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/config"
	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FailureMode makes every backend route answer with a canned failure.
type FailureMode int

const (
	FailNone FailureMode = iota
	// FailNotFound answers 404 with a plain text body.
	FailNotFound
	// FailServerError answers 500.
	FailServerError
	// FailBadGateway answers 502 with an HTML page.
	FailBadGateway
	// FailMalformed answers 200 with a body that is not JSON.
	FailMalformed
	// FailRejected answers 200 with success:false.
	FailRejected
	// FailUnauthorized answers 401 regardless of the token.
	FailUnauthorized
)

// Fake backend messages.
const (
	MsgBadCredentials = "wrong username or password"
	MsgMaintenance    = "the shop is under maintenance"
	MsgMissingFields  = "please fill in all required fields"
)

// FakeSecret signs the tokens the fake backend issues.
const FakeSecret = "fake-backend-secret"

// RecordedRequest is what the fake backend saw of one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         map[string]string
	Authorization string
	RequestID     string
}

type fakeUser struct {
	profile      models.Profile
	passwordHash string
}

// FakeBackend is an in-process storefront backend for tests.
type FakeBackend struct {
	Server    *httptest.Server
	router    *gin.Engine
	endpoints config.Endpoints
	logger    *logging.Logger

	mu         sync.Mutex
	products   []models.Product
	users      map[string]*fakeUser
	nextID     int64
	nextUserID int64
	failure    FailureMode
	bare       bool
	requests   []RecordedRequest
}

// NewFakeBackend starts a fake backend serving endpoints. It is closed when
// the test ends.
func NewFakeBackend(t *testing.T, endpoints config.Endpoints) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &FakeBackend{
		router:     gin.New(),
		endpoints:  endpoints,
		logger:     logging.GetDefault(),
		users:      make(map[string]*fakeUser),
		nextID:     1,
		nextUserID: 1,
	}
	b.routes()
	b.Server = httptest.NewServer(b.router)
	t.Cleanup(b.Close)
	return b
}

// URL is the backend's base URL.
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// Router exposes the gin engine for handler-level tests.
func (b *FakeBackend) Router() *gin.Engine {
	return b.router
}

// Close stops the server.
func (b *FakeBackend) Close() {
	b.Server.Close()
}

// AddUser registers a user with a bcrypt-hashed password and returns the
// stored profile.
func (b *FakeBackend) AddUser(username, password, fullName string) models.Profile {
	hash, err := auth.FastHasher.Hash(password)
	if err != nil {
		panic(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	profile := models.Profile{
		ID:        b.nextUserID,
		Username:  username,
		Email:     username + "@example.com",
		FullName:  fullName,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b.nextUserID++
	b.users[username] = &fakeUser{profile: profile, passwordHash: hash}
	return profile
}

// IssueToken returns a valid token for a registered user.
func (b *FakeBackend) IssueToken(username string) string {
	b.mu.Lock()
	user, ok := b.users[username]
	b.mu.Unlock()
	if !ok {
		panic("fake backend: unknown user " + username)
	}

	token, _, err := auth.GenerateToken(&user.profile, FakeSecret, time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

// AddProducts stores products, assigning ids to those without one. The
// returned products carry their ids.
func (b *FakeBackend) AddProducts(products ...models.Product) []models.Product {
	b.mu.Lock()
	defer b.mu.Unlock()

	added := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.ID == 0 {
			p.ID = b.nextID
		}
		if p.ID >= b.nextID {
			b.nextID = p.ID + 1
		}
		b.products = append(b.products, p)
		added = append(added, p)
	}
	return added
}

// Products returns a copy of the stored products.
func (b *FakeBackend) Products() []models.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Product(nil), b.products...)
}

// SetFailure switches every route to a canned failure. FailNone restores
// normal behaviour.
func (b *FakeBackend) SetFailure(mode FailureMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failure = mode
}

// SetBareRecords makes single-record routes answer without the envelope.
func (b *FakeBackend) SetBareRecords(bare bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bare = bare
}

// Requests returns the requests seen so far.
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// LastRequest returns the most recent request.
func (b *FakeBackend) LastRequest() (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}, false
	}
	return b.requests[len(b.requests)-1], true
}

func (b *FakeBackend) routes() {
	b.router.Use(b.requestID(), b.record(), b.failures())

	products := strings.TrimSuffix(b.endpoints.ProductsPath, "/")
	b.router.GET(products, b.listProducts)
	b.router.GET(products+"/:id", b.getProduct)
	b.router.POST(products, auth.IdentifyUser(FakeSecret), b.createProduct)
	b.router.GET(b.endpoints.MyCakesPath, auth.RequireLogin(FakeSecret), b.listMyCakes)
	b.router.GET(b.endpoints.ProfilePath, auth.RequireLogin(FakeSecret), b.getProfile)
	b.router.POST(b.endpoints.LoginPath, b.login)
}

// requestID echoes X-Request-ID, generating one when the client sent none.
func (b *FakeBackend) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (b *FakeBackend) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := make(map[string]string)
		for key, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Query:         query,
			Authorization: c.GetHeader("Authorization"),
			RequestID:     c.GetHeader("X-Request-ID"),
		})
		b.mu.Unlock()

		b.logger.WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Debug(c.Request.Context(), "fake backend request")
		c.Next()
	}
}

func (b *FakeBackend) failures() gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		mode := b.failure
		b.mu.Unlock()

		switch mode {
		case FailNotFound:
			c.String(http.StatusNotFound, "Not Found")
		case FailServerError:
			c.JSON(http.StatusInternalServerError, models.APIResponse{Success: false, Message: "boom"})
		case FailBadGateway:
			c.Data(http.StatusBadGateway, "text/html", []byte("<html><body>502 Bad Gateway</body></html>"))
		case FailMalformed:
			c.Data(http.StatusOK, "application/json", []byte("{not json"))
		case FailRejected:
			c.JSON(http.StatusOK, models.APIResponse{Success: false, Message: MsgMaintenance, Error: "Maintenance"})
		case FailUnauthorized:
			c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: auth.MsgNotLoggedIn, Error: auth.ErrUnauthorized})
		default:
			c.Next()
			return
		}
		c.Abort()
	}
}

func (b *FakeBackend) listProducts(c *gin.Context) {
	category := strings.TrimSpace(c.Query(b.endpoints.CategoryParam))

	b.mu.Lock()
	matched := make([]models.Product, 0, len(b.products))
	for _, p := range b.products {
		if category == "" || p.Category == category {
			matched = append(matched, p)
		}
	}
	b.mu.Unlock()

	b.respondPage(c, matched)
}

func (b *FakeBackend) listMyCakes(c *gin.Context) {
	username := currentUsername(c)

	b.mu.Lock()
	matched := make([]models.Product, 0)
	for _, p := range b.products {
		if p.CreatorUsername == username {
			matched = append(matched, p)
		}
	}
	b.mu.Unlock()

	b.respondPage(c, matched)
}

func (b *FakeBackend) respondPage(c *gin.Context, products []models.Product) {
	page := queryInt(c, b.endpoints.PageParam, models.DefaultPage)
	limit := queryInt(c, b.endpoints.LimitParam, models.DefaultLimit)
	if limit > models.MaxLimit {
		limit = models.MaxLimit
	}

	pagination := models.Pagination{Page: page, Limit: limit}
	models.SetTotalCount(&pagination, len(products))

	start := (page - 1) * limit
	if start > len(products) {
		start = len(products)
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success:    true,
		Data:       products[start:end],
		Pagination: &pagination,
	})
}

func (b *FakeBackend) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.HandleError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid product id"))
		return
	}

	b.mu.Lock()
	var found *models.Product
	for i := range b.products {
		if b.products[i].ID == id {
			p := b.products[i]
			found = &p
			break
		}
	}
	bare := b.bare
	b.mu.Unlock()

	if found == nil {
		apperrors.RespondWithError(c, apperrors.New(apperrors.ErrCodeNotFound, "product not found"))
		return
	}
	b.respondRecord(c, http.StatusOK, *found, bare)
}

func (b *FakeBackend) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		apperrors.HandleError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid JSON"))
		return
	}
	for field, value := range map[string]interface{}{
		"name":     strings.TrimSpace(product.Name),
		"category": strings.TrimSpace(product.Category),
		"price":    product.Price,
	} {
		if appErr := apperrors.ValidateRequired(value, field); appErr != nil {
			apperrors.RespondWithError(c, apperrors.New(apperrors.ErrCodeValidation, MsgMissingFields))
			return
		}
	}

	if username := currentUsername(c); username != "" {
		product.CreatorUsername = username
		b.mu.Lock()
		if user, ok := b.users[username]; ok {
			product.CreatorName = user.profile.FullName
		}
		b.mu.Unlock()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	product.CreatedAt = now
	product.UpdatedAt = now

	b.mu.Lock()
	product.ID = b.nextID
	b.nextID++
	b.products = append([]models.Product{product}, b.products...)
	bare := b.bare
	b.mu.Unlock()

	b.logger.WithField("product_id", product.ID).Info(c.Request.Context(), "fake backend created product")
	b.respondRecord(c, http.StatusCreated, product, bare)
}

func (b *FakeBackend) respondRecord(c *gin.Context, status int, product models.Product, bare bool) {
	if bare {
		c.JSON(status, product)
		return
	}
	c.JSON(status, models.APIResponse{Success: true, Data: product})
}

func (b *FakeBackend) getProfile(c *gin.Context) {
	username := currentUsername(c)

	b.mu.Lock()
	user, ok := b.users[username]
	b.mu.Unlock()

	if !ok {
		apperrors.RespondWithError(c, apperrors.New(apperrors.ErrCodeNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: user.profile})
}

func (b *FakeBackend) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, models.APIResponse{Success: false, Message: MsgMissingFields, Error: "username and password are required"})
		return
	}

	b.mu.Lock()
	user, ok := b.users[req.Username]
	b.mu.Unlock()

	if !ok || !auth.FastHasher.Matches(req.Password, user.passwordHash) {
		c.JSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: MsgBadCredentials, Error: auth.ErrUnauthorized})
		return
	}

	token, _, err := auth.GenerateToken(&user.profile, FakeSecret, time.Hour)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: "logged in", Data: user.profile, Token: token})
}

func currentUsername(c *gin.Context) string {
	if claims, ok := auth.Account(c); ok {
		return claims.Username
	}
	return ""
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
