package catalog

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/cache"
	apperrors "github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
	testutil "github.com/DRKxR4VEN/tiembanhngot/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type managerFixture struct {
	products *testutil.MockProductService
	confirm  *testutil.MockConfirmer
	cache    *cache.Cache
	manager  *Manager
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	f := &managerFixture{
		products: &testutil.MockProductService{},
		confirm:  &testutil.MockConfirmer{},
		cache:    cache.New(cache.NewMemoryStore()),
	}
	banners := NewBanners(time.Hour)
	t.Cleanup(banners.Close)

	f.manager = NewManager(ManagerConfig{
		Products: f.products,
		Cache:    f.cache,
		Banners:  banners,
		Confirm:  f.confirm,
		Limit:    10,
		Now:      func() time.Time { return fixedNow },
		Logger:   logging.NewLogger(&logging.Config{Level: logging.LevelError, Output: io.Discard}),
	})
	return f
}

func (f *managerFixture) banner(t *testing.T) Banner {
	t.Helper()
	b, ok := f.manager.Banners().Current()
	require.True(t, ok, "expected a banner")
	return b
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(ManagerConfig{})

	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, QueryState{CurrentPage: 1, Limit: models.DefaultLimit, CurrentTab: TabAll}, m.Query())
	assert.Equal(t, []models.Product{}, m.Products())
	assert.Equal(t, DefaultBannerTTL, m.Banners().TTL())
}

func TestManager_LoadProducts_Success(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	list := testutil.Products(3)
	pagination := &models.Pagination{Page: 2, TotalPages: 4, Total: 31}

	f.products.On("ListProducts", mock.Anything, 2, 10, "Bánh kem").
		Return(testutil.ListResult(list, pagination)).Once()

	state := f.manager.LoadProducts(ctx, 2, "Bánh kem")

	assert.Equal(t, StateLoaded, state)
	assert.Equal(t, list, f.manager.Products())
	assert.Equal(t, pagination, f.manager.Snapshot().Pagination)
	assert.Equal(t, QueryState{CurrentPage: 2, Limit: 10, CurrentFilter: "Bánh kem", CurrentTab: TabAll}, f.manager.Query())
	assert.Equal(t, list, f.cache.ProductsList(ctx), "a fresh list is saved")
	f.products.AssertExpectations(t)
}

func TestManager_LoadProducts_KeepsPaginationWhenAbsent(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	pagination := &models.Pagination{Page: 1, TotalPages: 3, Total: 25}

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(testutil.Products(2), pagination)).Once()
	f.products.On("ListProducts", mock.Anything, 2, 10, "").
		Return(testutil.ListResult(testutil.Products(1), nil)).Once()

	f.manager.LoadProducts(ctx, 1, "")
	f.manager.LoadProducts(ctx, 2, "")

	assert.Equal(t, pagination, f.manager.Snapshot().Pagination)
}

func TestManager_LoadProducts_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	list := testutil.Products(4)

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(list, &models.Pagination{Page: 1, TotalPages: 1, Total: 4}))

	f.manager.LoadProducts(ctx, 1, "")
	first := f.manager.View()
	f.manager.LoadProducts(ctx, 1, "")
	second := f.manager.View()

	assert.Equal(t, first.Items, second.Items)
	f.products.AssertNumberOfCalls(t, "ListProducts", 2)
}

func TestManager_LoadProducts_FallsBackToCache(t *testing.T) {
	failures := map[string]*apperrors.AppError{
		"network": testutil.NewErrorBuilder().WithNetworkError().Build(),
		"server":  testutil.NewErrorBuilder().Build(),
		"format":  apperrors.New(apperrors.ErrCodeFormat, "could not load products"),
		"401_all": testutil.NewErrorBuilder().WithUnauthorized().Build(),
	}

	for name, failure := range failures {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newManagerFixture(t)
			saved := []models.Product{
				testutil.NewProductBuilder().WithID(9).WithName("C").Build(),
				testutil.NewProductBuilder().WithID(2).WithName("A").Build(),
				testutil.NewProductBuilder().WithID(5).WithName("B").Build(),
			}
			require.NoError(t, f.cache.SetProductsList(ctx, saved))

			f.products.On("ListProducts", mock.Anything, 1, 10, "").
				Return(testutil.ListFailure(failure)).Once()

			state := f.manager.LoadProducts(ctx, 1, "")

			assert.Equal(t, StateLoadedFromCache, state)
			assert.Equal(t, saved, f.manager.Products(), "saved order is preserved")
			assert.Nil(t, f.manager.View().Pagination)
			banner := f.banner(t)
			assert.Equal(t, BannerError, banner.Kind)
			assert.Contains(t, banner.Message, MsgShowingSaved)
		})
	}
}

func TestManager_LoadProducts_EmptyCacheFallback(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListFailure(testutil.NewErrorBuilder().WithNetworkError().Build()))

	assert.Equal(t, StateLoadedFromCache, f.manager.LoadProducts(ctx, 1, ""))
	assert.Empty(t, f.manager.Products())
	assert.NotNil(t, f.manager.View().Empty)
}

func TestManager_LoadProducts_UnauthorizedOnMine(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	require.NoError(t, f.cache.SetProductsList(ctx, testutil.Products(5)))

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(testutil.Products(2), &models.Pagination{Page: 1, TotalPages: 2, Total: 12})).Once()
	f.products.On("ListMyCakes", mock.Anything, 1, 10).
		Return(testutil.ListFailure(testutil.NewErrorBuilder().WithUnauthorized().Build())).Once()

	f.manager.LoadProducts(ctx, 1, "")
	state, err := f.manager.SwitchTab(ctx, TabMine)
	require.NoError(t, err)

	assert.Equal(t, StateUnauthorized, state)
	assert.Empty(t, f.manager.Products(), "no saved data is shown without login")
	assert.Nil(t, f.manager.Snapshot().Pagination)

	view := f.manager.View()
	assert.True(t, view.AuthPrompt)
	assert.Empty(t, view.Items)
	assert.Equal(t, MsgLoginForMyCakes, f.banner(t).Message)
	f.products.AssertExpectations(t)
}

func TestManager_SwitchTab(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)

	f.products.On("ListProducts", mock.Anything, 3, 10, "Bánh mì").
		Return(testutil.ListResult(testutil.Products(1), nil)).Once()
	f.products.On("ListMyCakes", mock.Anything, 1, 10).
		Return(testutil.ListResult(testutil.Products(2), nil)).Once()
	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(testutil.Products(3), nil)).Once()

	f.manager.LoadProducts(ctx, 3, "Bánh mì")

	state, err := f.manager.SwitchTab(ctx, TabMine)
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, state)
	assert.Equal(t, QueryState{CurrentPage: 1, Limit: 10, CurrentFilter: "", CurrentTab: TabMine}, f.manager.Query())

	_, err = f.manager.SwitchTab(ctx, TabAll)
	require.NoError(t, err)
	assert.Len(t, f.manager.Products(), 3)

	_, err = f.manager.SwitchTab(ctx, Tab("favourites"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	f.products.AssertExpectations(t)
}

func TestManager_SwitchTabAt_FailureKeepsSavedList(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	saved := testutil.Products(4)
	require.NoError(t, f.cache.SetProductsList(ctx, saved))

	f.products.On("ListMyCakes", mock.Anything, 3, 10).
		Return(testutil.ListFailure(testutil.NewErrorBuilder().WithNetworkError().Build())).Once()

	state, err := f.manager.SwitchTabAt(ctx, TabMine, 3)
	require.NoError(t, err)

	assert.Equal(t, StateLoadedFromCache, state)
	assert.Equal(t, saved, f.manager.Products())
	assert.Equal(t, TabMine, f.manager.Query().CurrentTab)
	f.products.AssertExpectations(t)
	f.products.AssertNotCalled(t, "ListMyCakes", mock.Anything, 1, 10)
}

func TestManager_FilterByType(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)

	f.products.On("ListProducts", mock.Anything, 1, 10, "Bánh kem").
		Return(testutil.ListResult(testutil.Products(1), nil)).Once()
	f.products.On("ListMyCakes", mock.Anything, 1, 10).
		Return(testutil.ListResult(testutil.Products(2), nil)).Once()

	assert.Equal(t, StateLoaded, f.manager.FilterByType(ctx, "Bánh kem"))
	assert.Equal(t, "Bánh kem", f.manager.Query().CurrentFilter)

	_, err := f.manager.SwitchTab(ctx, TabMine)
	require.NoError(t, err)

	// Filtering is ignored on the mine tab.
	f.manager.FilterByType(ctx, "Bánh mì")
	assert.Equal(t, "", f.manager.Query().CurrentFilter)
	f.products.AssertExpectations(t)
}

func TestManager_Refresh(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)

	f.products.On("ListProducts", mock.Anything, 2, 10, "Bánh kem").
		Return(testutil.ListResult(testutil.Products(1), nil)).Twice()

	f.manager.LoadProducts(ctx, 2, "Bánh kem")
	f.manager.Refresh(ctx)

	f.products.AssertExpectations(t)
}

func TestManager_LoadProducts_PageBelowOne(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(testutil.Products(1), nil)).Once()

	f.manager.LoadProducts(ctx, 0, "")
	assert.Equal(t, 1, f.manager.Query().CurrentPage)
	f.products.AssertExpectations(t)
}

func TestManager_AddProduct_ServerRecord(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	previous := testutil.Products(2)
	require.NoError(t, f.cache.SetProductsList(ctx, previous))

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(previous, nil)).Once()
	f.manager.LoadProducts(ctx, 1, "")

	stored := testutil.NewProductBuilder().WithID(77).WithName("Bánh flan").WithPrice(20000).
		WithCreator("lan", "Nguyễn Lan").Build()
	f.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.ID == fixedNow.UnixMilli() && p.Name == "Bánh flan"
	})).Return(testutil.ProductResult(stored)).Once()

	record, err := f.manager.AddProduct(ctx, models.ProductInput{Name: " Bánh flan ", Category: "Bánh ngọt", Price: 20000})
	require.NoError(t, err)

	assert.Equal(t, stored, record)
	assert.Equal(t, append([]models.Product{stored}, previous...), f.manager.Products())
	assert.Equal(t, f.manager.Products(), f.cache.ProductsList(ctx))
	assert.Equal(t, BannerSuccess, f.banner(t).Kind)
	f.products.AssertExpectations(t)
}

func TestManager_AddProduct_Optimistic(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	previous := testutil.Products(3)

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(previous, nil)).Once()
	f.products.On("CreateProduct", mock.Anything, mock.Anything).
		Return(testutil.ProductFailure(testutil.NewErrorBuilder().WithNetworkError().Build())).Once()

	f.manager.LoadProducts(ctx, 1, "")
	input := models.ProductInput{Name: "Bánh su kem", Category: "Bánh ngọt", Price: 15000, Description: "Nhân kem"}
	record, err := f.manager.AddProduct(ctx, input)
	require.NoError(t, err)

	candidate := input.ToProduct(fixedNow.UnixMilli())
	assert.Equal(t, candidate, record)
	assert.Equal(t, fixedNow.UnixMilli(), record.ID, "placeholder id is the creation timestamp")
	assert.Equal(t, append([]models.Product{candidate}, previous...), f.manager.Products())
	assert.Equal(t, f.manager.Products(), f.cache.ProductsList(ctx))
}

func TestManager_AddProduct_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input models.ProductInput
	}{
		{"missing_name", models.ProductInput{Category: "Bánh ngọt", Price: 1000}},
		{"blank_name", models.ProductInput{Name: "   ", Category: "Bánh ngọt", Price: 1000}},
		{"missing_category", models.ProductInput{Name: "Bánh", Price: 1000}},
		{"missing_price", models.ProductInput{Name: "Bánh", Category: "Bánh ngọt"}},
		{"bad_image", models.ProductInput{Name: "Bánh", Category: "Bánh ngọt", Price: 1000, Image: "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newManagerFixture(t)

			_, err := f.manager.AddProduct(context.Background(), tt.input)

			assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
			assert.Empty(t, f.manager.Products())
			assert.Equal(t, BannerError, f.banner(t).Kind)
			f.products.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		})
	}
}

func TestManager_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	list := testutil.Products(3)

	f.products.On("ListMyCakes", mock.Anything, 1, 10).
		Return(testutil.ListResult(list, nil)).Once()
	f.confirm.On("Confirm", mock.Anything, MsgConfirmDelete).Return(true)

	_, err := f.manager.SwitchTab(ctx, TabMine)
	require.NoError(t, err)

	deleted, err := f.manager.DeleteProduct(ctx, 2)
	require.NoError(t, err)
	assert.True(t, deleted)

	want := []models.Product{list[0], list[2]}
	assert.Equal(t, want, f.manager.Products())
	assert.Equal(t, want, f.cache.ProductsList(ctx))
	assert.Equal(t, MsgProductDeleted, f.banner(t).Message)

	f.products.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
}

func TestManager_DeleteProduct_Declined(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	list := testutil.Products(2)

	f.products.On("ListProducts", mock.Anything, 1, 10, "").
		Return(testutil.ListResult(list, nil)).Once()
	f.confirm.On("Confirm", mock.Anything, MsgConfirmDelete).Return(false)

	f.manager.LoadProducts(ctx, 1, "")
	deleted, err := f.manager.DeleteProduct(ctx, 1)

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, list, f.manager.Products())
}

func TestManager_DeleteProduct_NoConfirmer(t *testing.T) {
	m := NewManager(ManagerConfig{Products: &testutil.MockProductService{}, Cache: cache.New(cache.NewMemoryStore())})
	deleted, err := m.DeleteProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestManager_DeleteProduct_Unknown(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	f.confirm.On("Confirm", mock.Anything, MsgConfirmDelete).Return(true)

	deleted, err := f.manager.DeleteProduct(ctx, 404)

	assert.False(t, deleted)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestManager_ViewProductDetail(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)
	product := testutil.NewProductBuilder().WithID(4).Build()

	f.products.On("GetProductByID", mock.Anything, int64(4)).Return(testutil.ProductResult(product)).Once()
	f.products.On("GetProductByID", mock.Anything, int64(5)).
		Return(testutil.ProductFailure(testutil.NewErrorBuilder().WithNotFound().Build())).Once()
	f.products.On("GetProductByID", mock.Anything, int64(6)).
		Return(testutil.ProductFailure(testutil.NewErrorBuilder().WithMessage("").Build())).Once()

	got, ok := f.manager.ViewProductDetail(ctx, 4)
	require.True(t, ok)
	assert.Equal(t, product, got)

	_, ok = f.manager.ViewProductDetail(ctx, 5)
	assert.False(t, ok)
	assert.Equal(t, "resource not found", f.banner(t).Message)

	_, ok = f.manager.ViewProductDetail(ctx, 6)
	assert.False(t, ok)
	assert.Equal(t, MsgDetailFailed, f.banner(t).Message)
}

func TestManager_ConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	f := newManagerFixture(t)

	f.products.On("ListProducts", mock.Anything, mock.Anything, 10, "").
		Return(testutil.ListResult(testutil.Products(2), nil))

	done := make(chan struct{})
	for i := 1; i <= 8; i++ {
		go func(page int) {
			f.manager.LoadProducts(ctx, page, "")
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Equal(t, StateLoaded, f.manager.State())
	assert.Len(t, f.manager.Products(), 2)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loaded_from_cache", StateLoadedFromCache.String())
	assert.Equal(t, "unauthorized", StateUnauthorized.String())
	assert.Equal(t, "state(42)", State(42).String())
}
