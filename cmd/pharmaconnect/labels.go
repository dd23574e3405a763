package main

import (
	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

func roleLabel(role string) string {
	switch role {
	case models.RolePharmacy:
		return "pharmacy"
	case models.RoleDepotManager:
		return "depot"
	case models.RoleLaboratory:
		return "laboratory"
	}
	return role
}

func statusLabel(status string) string {
	switch status {
	case models.StatusCreated:
		return "created"
	case models.StatusInProgress:
		return "in progress"
	case models.StatusPending:
		return "pending"
	case models.StatusResolved:
		return "resolved"
	case models.StatusRejected:
		return "rejected"
	case models.StatusClosed:
		return "closed"
	}
	return status
}

func claimTypeLabel(claimType string) string {
	switch claimType {
	case models.ClaimTypeExpiredProduct:
		return "expired product"
	case models.ClaimTypeDefectiveProduct:
		return "defective product"
	case models.ClaimTypeDeliveryError:
		return "delivery error"
	case models.ClaimTypeIncorrectQuantity:
		return "incorrect quantity"
	}
	return claimType
}

func priorityLabel(priority string) string {
	switch priority {
	case models.PriorityLow:
		return "low"
	case models.PriorityMedium:
		return "medium"
	case models.PriorityHigh:
		return "high"
	case models.PriorityUrgent:
		return "urgent"
	}
	return priority
}
