package claims

import (
	"errors"
	"fmt"
	"time"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

var transitionMap = map[string][]string{
	models.StatusCreated:    {models.StatusInProgress, models.StatusRejected},
	models.StatusInProgress: {models.StatusPending, models.StatusResolved, models.StatusRejected},
	models.StatusPending:    {models.StatusInProgress, models.StatusResolved, models.StatusRejected},
	models.StatusResolved:   {models.StatusClosed},
	models.StatusRejected:   {models.StatusClosed},
	models.StatusClosed:     {},
}

var (
	ErrRoleNotPermitted     = errors.New("role not permitted")
	ErrTerminalState        = errors.New("terminal state")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
)

// InvalidTransitionError is returned when a status change fails the local
// pre-check. Rule is one of the sentinel errors above and never leaves the
// process; requests that fail here are not sent to the backend.
type InvalidTransitionError struct {
	From   string
	Target string
	Role   string
	Rule   error
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s for role %s: %v", e.From, e.Target, e.Role, e.Rule)
}

func (e *InvalidTransitionError) Unwrap() error { return e.Rule }

func ValidTransition(from, target string) bool {
	allowed, ok := transitionMap[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// AvailableStatuses lists the targets reachable from status. An empty result
// means no status-change control should be offered at all.
func AvailableStatuses(status string) []string {
	allowed, ok := transitionMap[status]
	if !ok {
		return nil
	}
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}

func CanChangeStatus(status, role string) bool {
	return role != models.RolePharmacy && status != models.StatusClosed
}

// RequestTransition validates and applies a status change on the local copy of
// the claim. On success it appends exactly one history entry and sets the
// status; on failure the claim is left untouched. The applied result is
// provisional: the backend's response to the matching PATCH is authoritative
// and replaces the local claim.
func RequestTransition(claim *models.Claim, target, notes, actorRole string) error {
	if actorRole == models.RolePharmacy {
		return &InvalidTransitionError{From: claim.Status, Target: target, Role: actorRole, Rule: ErrRoleNotPermitted}
	}
	if claim.Status == models.StatusClosed {
		return &InvalidTransitionError{From: claim.Status, Target: target, Role: actorRole, Rule: ErrTerminalState}
	}
	if !ValidTransition(claim.Status, target) {
		return &InvalidTransitionError{From: claim.Status, Target: target, Role: actorRole, Rule: ErrTransitionNotAllowed}
	}

	claim.StatusHistory = append(claim.StatusHistory, models.StatusEntry{
		Status:    target,
		Notes:     notes,
		ChangedAt: time.Now().UTC(),
	})
	claim.Status = target
	return nil
}
