package api

import (
	"context"
	"net/http"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

// ClaimMessages backfills the chat history for a claim. Live delivery and the
// primary send path happen on the realtime channel, not here.
func (c *Client) ClaimMessages(ctx context.Context, claimID string) ([]models.Message, error) {
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages/claim/"+claimID, nil, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage is the REST fallback used when no realtime connection exists.
func (c *Client) SendMessage(ctx context.Context, claimID, text string) (models.Message, error) {
	payload := map[string]string{
		"claimId": claimID,
		"message": text,
	}
	var message models.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", nil, payload, &message); err != nil {
		return models.Message{}, err
	}
	return message, nil
}
