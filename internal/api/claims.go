package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

type ClaimFilter struct {
	Status    string
	ClaimType string
	Priority  string
	Page      int
	Limit     int
}

func (f ClaimFilter) query() url.Values {
	query := url.Values{}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.ClaimType != "" {
		query.Set("claimType", f.ClaimType)
	}
	if f.Priority != "" {
		query.Set("priority", f.Priority)
	}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	return query
}

type ClaimInput struct {
	ClaimType    string     `json:"claimType,omitempty"`
	Priority     string     `json:"priority,omitempty"`
	Description  string     `json:"description,omitempty"`
	BatchNumber  string     `json:"batchNumber,omitempty"`
	Quantity     int        `json:"quantity,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	DepotID      string     `json:"depotId,omitempty"`
	LaboratoryID string     `json:"laboratoryId,omitempty"`
}

func (c *Client) ListClaims(ctx context.Context, filter ClaimFilter) ([]models.Claim, error) {
	var claims []models.Claim
	if err := c.do(ctx, http.MethodGet, "/api/claims", filter.query(), nil, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *Client) GetClaim(ctx context.Context, claimID string) (models.Claim, error) {
	var claim models.Claim
	if err := c.do(ctx, http.MethodGet, "/api/claims/"+claimID, nil, nil, &claim); err != nil {
		return models.Claim{}, err
	}
	return claim, nil
}

func (c *Client) CreateClaim(ctx context.Context, input ClaimInput) (models.Claim, error) {
	var claim models.Claim
	if err := c.do(ctx, http.MethodPost, "/api/claims", nil, input, &claim); err != nil {
		return models.Claim{}, err
	}
	return claim, nil
}

func (c *Client) UpdateClaim(ctx context.Context, claimID string, input ClaimInput) (models.Claim, error) {
	var claim models.Claim
	if err := c.do(ctx, http.MethodPatch, "/api/claims/"+claimID, nil, input, &claim); err != nil {
		return models.Claim{}, err
	}
	return claim, nil
}

// UpdateClaimStatus persists a status transition. Callers pre-validate with
// the claims package so illegal requests never reach the network; the claim
// returned by the backend is authoritative and replaces the local copy.
func (c *Client) UpdateClaimStatus(ctx context.Context, claimID, status, notes string) (models.Claim, error) {
	payload := map[string]string{
		"status": status,
		"notes":  notes,
	}
	var claim models.Claim
	if err := c.do(ctx, http.MethodPatch, "/api/claims/"+claimID+"/status", nil, payload, &claim); err != nil {
		return models.Claim{}, err
	}
	return claim, nil
}

// DeleteClaim is a destructive operation the backend only permits while the
// claim is still in its initial status.
func (c *Client) DeleteClaim(ctx context.Context, claimID string) error {
	return c.do(ctx, http.MethodDelete, "/api/claims/"+claimID, nil, nil, nil)
}

func (c *Client) ClaimStats(ctx context.Context) (models.ClaimStats, error) {
	var stats models.ClaimStats
	if err := c.do(ctx, http.MethodGet, "/api/claims/stats", nil, nil, &stats); err != nil {
		return models.ClaimStats{}, err
	}
	return stats, nil
}
