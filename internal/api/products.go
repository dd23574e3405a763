package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

type ProductFilter struct {
	Search string
	Page   int
	Limit  int
}

func (f ProductFilter) query() url.Values {
	query := url.Values{}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	return query
}

// ListProducts browses the catalog, typically to pick a product id before
// creating a stock item.
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", filter.query(), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+productID, nil, nil, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}
