package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/DRKxR4VEN/tiembanhngot/pkg/config"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/errors"
	httpclient "github.com/DRKxR4VEN/tiembanhngot/pkg/http"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/logging"
	"github.com/DRKxR4VEN/tiembanhngot/pkg/models"
)

// Default failure messages, used when the server sends none.
const (
	MsgLoadProduct   = "could not load product"
	MsgLoadProducts  = "could not load products"
	MsgLoadMyCakes   = "could not load your cakes"
	MsgCreateProduct = "could not create product"
	MsgMissingID     = "please provide a product id"
)

// ProductAPI talks to the product endpoints.
type ProductAPI struct {
	client    *httpclient.Client
	endpoints config.Endpoints
	logger    *logging.Logger
}

// NewProductAPI creates a ProductAPI.
func NewProductAPI(client *httpclient.Client, endpoints config.Endpoints) *ProductAPI {
	return &ProductAPI{
		client:    client,
		endpoints: endpoints,
		logger:    logging.GetDefault(),
	}
}

// GetProductByID fetches one product. The bearer token is sent when present.
func (a *ProductAPI) GetProductByID(ctx context.Context, id int64) Result[models.Product] {
	path := strings.TrimSuffix(a.endpoints.ProductsPath, "/") + "/" + strconv.FormatInt(id, 10)
	resp, err := a.client.Get(ctx, path)
	return complete(ctx, a.logger, "get_product", resp, err, MsgLoadProduct, decodeJSON[models.Product])
}

// GetProduct is GetProductByID with a local check for a missing id.
func (a *ProductAPI) GetProduct(ctx context.Context, id int64) Result[models.Product] {
	if id == 0 {
		return Fail[models.Product](errors.New(errors.ErrCodeValidation, MsgMissingID))
	}
	return a.GetProductByID(ctx, id)
}

// ListProducts fetches one page of the public list. A blank category is
// not sent.
func (a *ProductAPI) ListProducts(ctx context.Context, page, limit int, category string) Result[[]models.Product] {
	query := a.pageQuery(page, limit)
	if strings.TrimSpace(category) != "" {
		query = append(query, httpclient.QueryParam{Key: a.endpoints.CategoryParam, Value: category})
	}

	resp, err := a.client.GetWithQuery(ctx, a.endpoints.ProductsPath, query)
	return complete(ctx, a.logger, "list_products", resp, err, MsgLoadProducts, decodeProducts)
}

// ListMyCakes fetches one page of the logged-in user's products. Without a
// token it fails locally with Unauthorized and sends nothing.
func (a *ProductAPI) ListMyCakes(ctx context.Context, page, limit int) Result[[]models.Product] {
	if !a.client.HasToken(ctx) {
		return Fail[[]models.Product](notLoggedIn())
	}

	resp, err := a.client.GetWithQuery(ctx, a.endpoints.MyCakesPath, a.pageQuery(page, limit))
	return complete(ctx, a.logger, "list_my_cakes", resp, err, MsgLoadMyCakes, decodeProducts)
}

// CreateProduct posts a new product and returns the record the server stored.
func (a *ProductAPI) CreateProduct(ctx context.Context, product models.Product) Result[models.Product] {
	resp, err := a.client.Post(ctx, a.endpoints.ProductsPath, product)
	return complete(ctx, a.logger, "create_product", resp, err, MsgCreateProduct, decodeJSON[models.Product])
}

func (a *ProductAPI) pageQuery(page, limit int) []httpclient.QueryParam {
	return []httpclient.QueryParam{
		{Key: a.endpoints.PageParam, Value: strconv.Itoa(page)},
		{Key: a.endpoints.LimitParam, Value: strconv.Itoa(limit)},
	}
}
