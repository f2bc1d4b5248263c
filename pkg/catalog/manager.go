// Package catalog holds the product list state machine and the pure view
// model built from it.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/api"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// User-visible notices raised by the manager.
const (
	MsgLoginForMyCakes  = "please log in to see your cakes"
	MsgShowingSaved     = "showing saved products"
	MsgProductCreated   = "product created 🎉"
	MsgProductDeleted   = "product deleted"
	MsgDetailFailed     = "could not load product details"
	MsgConfirmDelete    = "Are you sure you want to delete this product?"
	MsgProductNotInList = "product is not in the list"
)

// Tab selects which list is shown.
type Tab string

const (
	TabAll  Tab = "all"
	TabMine Tab = "mine"
)

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	return t == TabAll || t == TabMine
}

// State is the list manager state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadedFromCache
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadedFromCache:
		return "loaded_from_cache"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// QueryState is what the current list was asked for.
type QueryState struct {
	CurrentPage   int
	Limit         int
	CurrentFilter string
	CurrentTab    Tab
}

// ProductService is the subset of the product API the manager uses.
type ProductService interface {
	ListProducts(ctx context.Context, page, limit int, category string) api.Result[[]models.Product]
	ListMyCakes(ctx context.Context, page, limit int) api.Result[[]models.Product]
	CreateProduct(ctx context.Context, product models.Product) api.Result[models.Product]
	GetProductByID(ctx context.Context, id int64) api.Result[models.Product]
}

// ListCache persists the last loaded list.
type ListCache interface {
	ProductsList(ctx context.Context) []models.Product
	SetProductsList(ctx context.Context, products []models.Product) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// ManagerConfig holds the manager's collaborators.
type ManagerConfig struct {
	Products ProductService
	Cache    ListCache
	Banners  *Banners
	Confirm  Confirmer
	Limit    int
	Now      func() time.Time
	Logger   *logging.Logger
}

// Manager owns the product list, its pagination and the query that produced
// them. The mutex is never held across a backend call, so the response that
// completes last wins.
type Manager struct {
	products ProductService
	cache    ListCache
	banners  *Banners
	confirm  Confirmer
	now      func() time.Time
	logger   *logging.Logger

	mu         sync.Mutex
	list       []models.Product
	pagination *models.Pagination
	query      QueryState
	state      State
}

// NewManager creates a manager on the all tab, page 1.
func NewManager(cfg ManagerConfig) *Manager {
	limit := cfg.Limit
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	banners := cfg.Banners
	if banners == nil {
		banners = NewBanners(DefaultBannerTTL)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.GetDefault()
	}

	return &Manager{
		products: cfg.Products,
		cache:    cfg.Cache,
		banners:  banners,
		confirm:  cfg.Confirm,
		now:      now,
		logger:   logger,
		list:     []models.Product{},
		query: QueryState{
			CurrentPage: 1,
			Limit:       limit,
			CurrentTab:  TabAll,
		},
		state: StateIdle,
	}
}

// SwitchTab changes the active tab and loads its first page. Entering the
// mine tab clears the filter.
func (m *Manager) SwitchTab(ctx context.Context, tab Tab) (State, error) {
	return m.SwitchTabAt(ctx, tab, 1)
}

// SwitchTabAt is SwitchTab landing on page instead of the first page, with a
// single fetch.
func (m *Manager) SwitchTabAt(ctx context.Context, tab Tab, page int) (State, error) {
	if !tab.Valid() {
		return m.State(), errors.Newf(errors.ErrCodeValidation, "unknown tab %q", tab)
	}

	m.mu.Lock()
	m.query.CurrentTab = tab
	if tab == TabMine {
		m.query.CurrentFilter = ""
	}
	filter := m.query.CurrentFilter
	m.mu.Unlock()

	return m.LoadProducts(ctx, page, filter), nil
}

// FilterByType reloads the first page for category. It does nothing outside
// the all tab.
func (m *Manager) FilterByType(ctx context.Context, category string) State {
	m.mu.Lock()
	tab := m.query.CurrentTab
	m.mu.Unlock()

	if tab != TabAll {
		return m.State()
	}
	return m.LoadProducts(ctx, 1, category)
}

// Refresh reloads the current page with the current filter.
func (m *Manager) Refresh(ctx context.Context) State {
	q := m.Query()
	return m.LoadProducts(ctx, q.CurrentPage, q.CurrentFilter)
}

// LoadProducts fetches page for the active tab. Failures fall back to the
// saved list, except a 401 on the mine tab which clears the list.
func (m *Manager) LoadProducts(ctx context.Context, page int, filter string) State {
	if page < 1 {
		page = 1
	}

	m.mu.Lock()
	m.query.CurrentPage = page
	m.query.CurrentFilter = filter
	m.state = StateLoading
	q := m.query
	m.mu.Unlock()

	var result api.Result[[]models.Product]
	if q.CurrentTab == TabMine {
		result = m.products.ListMyCakes(ctx, page, q.Limit)
	} else {
		result = m.products.ListProducts(ctx, page, q.Limit, filter)
	}

	log := m.logger.WithFields(map[string]interface{}{
		"tab":    string(q.CurrentTab),
		"page":   page,
		"filter": filter,
	})

	switch {
	case result.OK():
		list := result.Data
		if list == nil {
			list = []models.Product{}
		}
		m.mu.Lock()
		m.list = list
		if result.Pagination != nil {
			p := *result.Pagination
			m.pagination = &p
		}
		m.state = StateLoaded
		m.mu.Unlock()

		if err := m.cache.SetProductsList(ctx, list); err != nil {
			log.Error(ctx, "failed to save product list", err)
		}
		log.WithField("count", len(list)).Info(ctx, "products loaded")
		return StateLoaded

	case q.CurrentTab == TabMine && result.Status() == http.StatusUnauthorized:
		m.mu.Lock()
		m.list = []models.Product{}
		m.pagination = nil
		m.state = StateUnauthorized
		m.mu.Unlock()

		m.banners.Error(MsgLoginForMyCakes)
		log.Warn(ctx, "my cakes requires login")
		return StateUnauthorized

	default:
		saved := m.cache.ProductsList(ctx)
		m.mu.Lock()
		m.list = saved
		m.state = StateLoadedFromCache
		m.mu.Unlock()

		m.banners.Error(fmt.Sprintf("%s, %s", result.Err.DisplayMessage(), MsgShowingSaved))
		log.WithFields(map[string]interface{}{
			"count": len(saved),
			"code":  string(result.Err.Code),
		}).Warn(ctx, "products loaded from cache")
		return StateLoadedFromCache
	}
}

// AddProduct validates input, sends it to the backend and prepends the
// stored record. When the backend fails the local candidate, identified by a
// millisecond timestamp, is prepended instead.
func (m *Manager) AddProduct(ctx context.Context, input models.ProductInput) (models.Product, error) {
	input.Name = httpclient.SanitizeString(input.Name)
	input.Category = httpclient.SanitizeString(input.Category)
	input.Image = httpclient.SanitizeString(input.Image)
	input.Description = httpclient.SanitizeString(input.Description)

	if verrs := httpclient.ValidateStruct(input); verrs.HasErrors() {
		appErr := verrs.AppError()
		m.banners.Error(appErr.DisplayMessage())
		return models.Product{}, appErr
	}

	candidate := input.ToProduct(m.now().UnixMilli())
	record := candidate
	result := m.products.CreateProduct(ctx, candidate)
	if result.OK() {
		record = result.Data
	} else {
		m.logger.WithFields(map[string]interface{}{
			"placeholder_id": candidate.ID,
			"code":           string(result.Err.Code),
		}).Warn(ctx, "create failed, keeping local product")
	}

	m.mu.Lock()
	list := make([]models.Product, 0, len(m.list)+1)
	list = append(list, record)
	list = append(list, m.list...)
	m.list = list
	m.mu.Unlock()

	if err := m.cache.SetProductsList(ctx, list); err != nil {
		m.banners.Error(err.Error())
		return record, err
	}

	m.banners.Success(MsgProductCreated)
	return record, nil
}

// DeleteProduct removes id from the local list after confirmation. Nothing is
// sent to the backend. It reports false when the user declined.
func (m *Manager) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	if m.confirm == nil || !m.confirm.Confirm(ctx, MsgConfirmDelete) {
		return false, nil
	}

	m.mu.Lock()
	list := make([]models.Product, 0, len(m.list))
	for _, p := range m.list {
		if p.ID != id {
			list = append(list, p)
		}
	}
	found := len(list) != len(m.list)
	if found {
		m.list = list
	}
	m.mu.Unlock()

	if !found {
		err := errors.New(errors.ErrCodeNotFound, MsgProductNotInList).WithDetails(fmt.Sprintf("id %d", id))
		m.banners.Error(err.DisplayMessage())
		return false, err
	}

	if err := m.cache.SetProductsList(ctx, list); err != nil {
		m.banners.Error(err.Error())
		return true, err
	}

	m.banners.Success(MsgProductDeleted)
	m.logger.WithField("product_id", id).Info(ctx, "product deleted locally")
	return true, nil
}

// ViewProductDetail fetches one product. A failure raises an error banner.
func (m *Manager) ViewProductDetail(ctx context.Context, id int64) (models.Product, bool) {
	result := m.products.GetProductByID(ctx, id)
	if !result.OK() {
		message := result.Err.Message
		if message == "" {
			message = MsgDetailFailed
		}
		m.banners.Error(message)
		return models.Product{}, false
	}
	return result.Data, true
}

// Snapshot is a copy of the manager state for rendering.
type Snapshot struct {
	Products   []models.Product
	Pagination *models.Pagination
	Query      QueryState
	State      State
	Banner     *Banner
}

// Snapshot copies the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	s := Snapshot{
		Products: append([]models.Product(nil), m.list...),
		Query:    m.query,
		State:    m.state,
	}
	if m.pagination != nil {
		p := *m.pagination
		s.Pagination = &p
	}
	m.mu.Unlock()

	if s.Products == nil {
		s.Products = []models.Product{}
	}
	if b, ok := m.banners.Current(); ok {
		s.Banner = &b
	}
	return s
}

// View builds the view model for the current state.
func (m *Manager) View() ViewModel {
	return BuildView(m.Snapshot())
}

// Products returns a copy of the current list.
func (m *Manager) Products() []models.Product {
	return m.Snapshot().Products
}

// Query returns the current query.
func (m *Manager) Query() QueryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Banners returns the manager's banner holder.
func (m *Manager) Banners() *Banners {
	return m.banners
}
