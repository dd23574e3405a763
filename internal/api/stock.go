package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

type StockFilter struct {
	Search string
	Page   int
	Limit  int
}

type StockInput struct {
	ProductID   string     `json:"productId,omitempty"`
	BatchNumber string     `json:"batchNumber,omitempty"`
	Quantity    int        `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
}

func (c *Client) ListStock(ctx context.Context, filter StockFilter) ([]models.StockItem, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var items []models.StockItem
	if err := c.do(ctx, http.MethodGet, "/api/stock", query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetStockItem(ctx context.Context, stockID string) (models.StockItem, error) {
	var item models.StockItem
	if err := c.do(ctx, http.MethodGet, "/api/stock/"+stockID, nil, nil, &item); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

func (c *Client) CreateStockItem(ctx context.Context, input StockInput) (models.StockItem, error) {
	var item models.StockItem
	if err := c.do(ctx, http.MethodPost, "/api/stock", nil, input, &item); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

func (c *Client) UpdateStockItem(ctx context.Context, stockID string, input StockInput) (models.StockItem, error) {
	var item models.StockItem
	if err := c.do(ctx, http.MethodPatch, "/api/stock/"+stockID, nil, input, &item); err != nil {
		return models.StockItem{}, err
	}
	return item, nil
}

func (c *Client) DeleteStockItem(ctx context.Context, stockID string) error {
	return c.do(ctx, http.MethodDelete, "/api/stock/"+stockID, nil, nil, nil)
}

// StockAlerts returns items close to or past their expiry date; the item
// status distinguishes "warning" from "expired".
func (c *Client) StockAlerts(ctx context.Context) ([]models.StockItem, error) {
	var items []models.StockItem
	if err := c.do(ctx, http.MethodGet, "/api/stock/alerts", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) StockStats(ctx context.Context) (models.StockStats, error) {
	var stats models.StockStats
	if err := c.do(ctx, http.MethodGet, "/api/stock/stats", nil, nil, &stats); err != nil {
		return models.StockStats{}, err
	}
	return stats, nil
}
