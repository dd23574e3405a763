package api

import (
	"context"
	"net/http"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

func (c *Client) MyPartners(ctx context.Context) ([]models.Partner, error) {
	var partners []models.Partner
	if err := c.do(ctx, http.MethodGet, "/api/partners", nil, nil, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

func (c *Client) AvailablePartners(ctx context.Context) ([]models.Partner, error) {
	var partners []models.Partner
	if err := c.do(ctx, http.MethodGet, "/api/partners/available", nil, nil, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

func (c *Client) AddPartner(ctx context.Context, partnerID string) error {
	return c.do(ctx, http.MethodPost, "/api/partners/"+partnerID, nil, nil, nil)
}

func (c *Client) RemovePartner(ctx context.Context, partnerID string) error {
	return c.do(ctx, http.MethodDelete, "/api/partners/"+partnerID, nil, nil, nil)
}
