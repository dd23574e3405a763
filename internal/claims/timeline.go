package claims

import (
	"sort"
	"time"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

const (
	EntryStatus  = "status"
	EntryMessage = "message"
)

type TimelineEntry struct {
	Kind       string
	Status     string
	Notes      string
	Sender     models.Sender
	SenderRole string
	Message    string
	OccurredAt time.Time
}

// CurrentStatus derives the claim status from its history: the last entry
// wins, an empty history means the claim is still in its initial state.
func CurrentStatus(claim models.Claim) string {
	if len(claim.StatusHistory) == 0 {
		return models.StatusCreated
	}
	return claim.StatusHistory[len(claim.StatusHistory)-1].Status
}

// Timeline merges a claim's status history with its chat messages into one
// chronological sequence. History entries keep their server-assigned order
// when timestamps collide.
func Timeline(claim models.Claim, messages []models.Message) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(claim.StatusHistory)+len(messages)+1)

	if len(claim.StatusHistory) == 0 {
		entries = append(entries, TimelineEntry{
			Kind:       EntryStatus,
			Status:     models.StatusCreated,
			OccurredAt: claim.CreatedAt,
		})
	}
	for _, entry := range claim.StatusHistory {
		entries = append(entries, TimelineEntry{
			Kind:       EntryStatus,
			Status:     entry.Status,
			Notes:      entry.Notes,
			OccurredAt: entry.ChangedAt,
		})
	}
	for _, message := range messages {
		entries = append(entries, TimelineEntry{
			Kind:       EntryMessage,
			Sender:     message.Sender,
			SenderRole: message.SenderRole,
			Message:    message.Message,
			OccurredAt: message.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.Before(entries[j].OccurredAt)
	})
	return entries
}
