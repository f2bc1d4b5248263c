package catalog

import (
	"context"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/api"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// CardSource tells where a product card's data came from.
type CardSource string

const (
	CardLive   CardSource = "live"
	CardCached CardSource = "cached"
	CardSample CardSource = "sample"
)

// Card placeholders for empty fields.
const (
	DefaultCardName     = "Product"
	DefaultCardCategory = "Category"
)

// ProductFetcher loads a single product.
type ProductFetcher interface {
	GetProduct(ctx context.Context, id int64) api.Result[models.Product]
}

// CardCache keeps the last product shown on a card.
type CardCache interface {
	ProductData(ctx context.Context) (*models.Product, bool)
	SetProductData(ctx context.Context, product models.Product) error
}

// CardLoader fills the product card: backend first, then the saved product,
// then the built-in sample.
type CardLoader struct {
	products ProductFetcher
	cache    CardCache
	logger   *logging.Logger
}

// NewCardLoader creates a CardLoader.
func NewCardLoader(products ProductFetcher, cache CardCache) *CardLoader {
	return &CardLoader{
		products: products,
		cache:    cache,
		logger:   logging.GetDefault(),
	}
}

// Load returns the product for id and where it came from. It never fails.
func (l *CardLoader) Load(ctx context.Context, id int64) (models.Product, CardSource) {
	result := l.products.GetProduct(ctx, id)
	if result.OK() {
		if err := l.cache.SetProductData(ctx, result.Data); err != nil {
			l.logger.Error(ctx, "failed to save product data", err)
		}
		return result.Data, CardLive
	}

	if saved, ok := l.cache.ProductData(ctx); ok {
		return *saved, CardCached
	}

	l.logger.WithField("product_id", id).Warn(ctx, "no product available, showing sample")
	return models.SampleProduct(), CardSample
}

// CardView is the product card as displayed.
type CardView struct {
	Name        string
	Category    string
	Price       string
	Image       string
	Description string
	Source      CardSource
}

// BuildCardView formats a product for the card.
func BuildCardView(p models.Product, source CardSource) CardView {
	view := CardView{
		Name:        p.Name,
		Category:    p.Category,
		Price:       FormatPrice(p.Price),
		Image:       p.Image,
		Description: p.Description,
		Source:      source,
	}
	if view.Name == "" {
		view.Name = DefaultCardName
	}
	if view.Category == "" {
		view.Category = DefaultCardCategory
	}
	return view
}

// DetailView is the product detail panel.
type DetailView struct {
	ID          int64
	Name        string
	Category    string
	Price       string
	Image       string
	Description string
	Creator     string
	CreatedAt   string
	UpdatedAt   string
}

// BuildDetailView formats a product for the detail panel.
func BuildDetailView(p models.Product) DetailView {
	view := DetailView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       FormatPrice(p.Price),
		Image:       p.Image,
		Description: p.Description,
		Creator:     p.CreatorName,
		CreatedAt:   FormatDate(p.CreatedAt),
		UpdatedAt:   FormatDate(p.UpdatedAt),
	}
	if view.Creator == "" {
		view.Creator = p.CreatorUsername
	}
	return view
}
