package testing

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/api"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of the product API
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, page, limit int, category string) api.Result[[]models.Product] {
	args := m.Called(ctx, page, limit, category)
	return args.Get(0).(api.Result[[]models.Product])
}

func (m *MockProductService) ListMyCakes(ctx context.Context, page, limit int) api.Result[[]models.Product] {
	args := m.Called(ctx, page, limit)
	return args.Get(0).(api.Result[[]models.Product])
}

func (m *MockProductService) CreateProduct(ctx context.Context, product models.Product) api.Result[models.Product] {
	args := m.Called(ctx, product)
	return args.Get(0).(api.Result[models.Product])
}

func (m *MockProductService) GetProductByID(ctx context.Context, id int64) api.Result[models.Product] {
	args := m.Called(ctx, id)
	return args.Get(0).(api.Result[models.Product])
}

func (m *MockProductService) GetProduct(ctx context.Context, id int64) api.Result[models.Product] {
	args := m.Called(ctx, id)
	return args.Get(0).(api.Result[models.Product])
}

// MockProfileService is a mock implementation of the profile API
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context) api.Result[models.Profile] {
	args := m.Called(ctx)
	return args.Get(0).(api.Result[models.Profile])
}

// MockAuthenticator is a mock implementation of the login API
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, req models.LoginRequest) api.Result[models.Profile] {
	args := m.Called(ctx, req)
	return args.Get(0).(api.Result[models.Profile])
}

// MockConfirmer answers confirmation prompts
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) bool {
	args := m.Called(ctx, prompt)
	return args.Bool(0)
}

// Test Data Builders

// ProductBuilder helps build test products with fluent interface
type ProductBuilder struct {
	product models.Product
}

// NewProductBuilder creates a product builder with sensible defaults
func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		product: models.Product{
			ID:       1,
			Name:     "Bánh bông lan",
			Category: "Bánh ngọt",
			Price:    45000,
		},
	}
}

func (b *ProductBuilder) WithID(id int64) *ProductBuilder {
	b.product.ID = id
	return b
}

func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.product.Name = name
	return b
}

func (b *ProductBuilder) WithCategory(category string) *ProductBuilder {
	b.product.Category = category
	return b
}

func (b *ProductBuilder) WithPrice(price int64) *ProductBuilder {
	b.product.Price = price
	return b
}

func (b *ProductBuilder) WithCreator(username, name string) *ProductBuilder {
	b.product.CreatorUsername = username
	b.product.CreatorName = name
	return b
}

func (b *ProductBuilder) WithCreatedAt(createdAt string) *ProductBuilder {
	b.product.CreatedAt = createdAt
	return b
}

func (b *ProductBuilder) Build() models.Product {
	return b.product
}

// Products builds count products with ids 1..count.
func Products(count int) []models.Product {
	products := make([]models.Product, 0, count)
	for i := 1; i <= count; i++ {
		products = append(products, NewProductBuilder().
			WithID(int64(i)).
			WithName("Bánh số " + strconv.Itoa(i)).
			Build())
	}
	return products
}

// ProfileBuilder helps build test profiles with fluent interface
type ProfileBuilder struct {
	profile models.Profile
}

// NewProfileBuilder creates a profile builder with sensible defaults
func NewProfileBuilder() *ProfileBuilder {
	return &ProfileBuilder{
		profile: models.Profile{
			ID:        1,
			Username:  "testuser",
			Email:     "testuser@example.com",
			FullName:  "Test User",
			CreatedAt: "2024-01-15T08:30:00Z",
		},
	}
}

func (b *ProfileBuilder) WithUsername(username string) *ProfileBuilder {
	b.profile.Username = username
	return b
}

func (b *ProfileBuilder) WithFullName(fullName string) *ProfileBuilder {
	b.profile.FullName = fullName
	return b
}

func (b *ProfileBuilder) WithAvatar(avatar string) *ProfileBuilder {
	b.profile.Avatar = avatar
	return b
}

func (b *ProfileBuilder) Build() models.Profile {
	return b.profile
}

// Error Builders for testing failure results

// ErrorBuilder helps create consistent failures for testing
type ErrorBuilder struct {
	err *errors.AppError
}

// NewErrorBuilder creates an error builder for a generic server error
func NewErrorBuilder() *ErrorBuilder {
	return &ErrorBuilder{
		err: errors.New(errors.ErrCodeServerError, "server error").WithStatusCode(http.StatusInternalServerError),
	}
}

func (b *ErrorBuilder) WithNetworkError() *ErrorBuilder {
	b.err = errors.New(errors.ErrCodeNetwork, "cannot reach server").
		WithDetails("connection refused").
		WithStatusCode(0)
	return b
}

func (b *ErrorBuilder) WithUnauthorized() *ErrorBuilder {
	b.err = errors.New(errors.ErrCodeUnauthorized, "not logged in").
		WithDetails("Unauthorized").
		WithStatusCode(http.StatusUnauthorized)
	return b
}

func (b *ErrorBuilder) WithNotFound() *ErrorBuilder {
	b.err = errors.New(errors.ErrCodeNotFound, "resource not found").WithStatusCode(http.StatusNotFound)
	return b
}

func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.err.Message = message
	return b
}

func (b *ErrorBuilder) Build() *errors.AppError {
	return b.err
}

// Result helpers

// ListResult is a successful list result with optional pagination.
func ListResult(products []models.Product, pagination *models.Pagination) api.Result[[]models.Product] {
	r := api.Succeed(products)
	r.Pagination = pagination
	return r
}

// ListFailure is a failed list result.
func ListFailure(err *errors.AppError) api.Result[[]models.Product] {
	return api.Fail[[]models.Product](err)
}

// ProductResult is a successful single-product result.
func ProductResult(product models.Product) api.Result[models.Product] {
	return api.Succeed(product)
}

// ProductFailure is a failed single-product result.
func ProductFailure(err *errors.AppError) api.Result[models.Product] {
	return api.Fail[models.Product](err)
}

// ProfileResult is a successful profile result carrying token.
func ProfileResult(profile models.Profile, token string) api.Result[models.Profile] {
	r := api.Succeed(profile)
	r.Token = token
	return r
}

// ProfileFailure is a failed profile result.
func ProfileFailure(err *errors.AppError) api.Result[models.Profile] {
	return api.Fail[models.Profile](err)
}
