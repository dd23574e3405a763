package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/api"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/claims"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

func (a *app) claims(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: claims list|show|create|update|set-status|delete|stats")
	}

	switch args[0] {
	case "list":
		return a.claimsList(ctx, args[1:])
	case "show":
		return a.claimsShow(ctx, args[1:])
	case "create":
		return a.claimsCreate(ctx, args[1:])
	case "update":
		return a.claimsUpdate(ctx, args[1:])
	case "set-status":
		return a.claimsSetStatus(ctx, args[1:])
	case "delete":
		return a.claimsDelete(ctx, args[1:])
	case "stats":
		return a.claimsStats(ctx)
	default:
		return fmt.Errorf("unknown claims action %q", args[0])
	}
}

func (a *app) claimsList(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("claims list", flag.ExitOnError)
	status := flags.String("status", "", "filter by status")
	claimType := flags.String("type", "", "filter by claim type")
	priority := flags.String("priority", "", "filter by priority")
	page := flags.Int("page", 0, "result page")
	limit := flags.Int("limit", 0, "page size")
	if err := flags.Parse(args); err != nil {
		return err
	}

	list, err := a.client.ListClaims(ctx, api.ClaimFilter{
		Status:    *status,
		ClaimType: *claimType,
		Priority:  *priority,
		Page:      *page,
		Limit:     *limit,
	})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no claims")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "REFERENCE\tID\tTYPE\tPRIORITY\tSTATUS\tCREATED")
	for _, claim := range list {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			claim.Reference,
			claim.ClaimID,
			claimTypeLabel(claim.ClaimType),
			priorityLabel(claim.Priority),
			statusLabel(claim.Status),
			claim.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return writer.Flush()
}

func (a *app) claimsShow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: claims show <claim-id>")
	}
	claimID := args[0]

	claim, err := a.client.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}

	fmt.Printf("claim %s (%s)\n", claim.Reference, claim.ClaimID)
	fmt.Printf("type:        %s\n", claimTypeLabel(claim.ClaimType))
	fmt.Printf("priority:    %s\n", priorityLabel(claim.Priority))
	fmt.Printf("status:      %s\n", statusLabel(claim.Status))
	fmt.Printf("description: %s\n", claim.Description)
	if claim.BatchNumber != "" {
		fmt.Printf("batch:       %s\n", claim.BatchNumber)
	}
	if claim.Quantity > 0 {
		fmt.Printf("quantity:    %d\n", claim.Quantity)
	}
	if claim.ExpiryDate != nil {
		fmt.Printf("expiry:      %s\n", claim.ExpiryDate.Format("2006-01-02"))
	}
	if claim.DepotID != "" {
		fmt.Printf("depot:       %s\n", claim.DepotID)
	}
	if claim.LaboratoryID != "" {
		fmt.Printf("laboratory:  %s\n", claim.LaboratoryID)
	}
	if claim.ResolutionNotes != "" {
		fmt.Printf("resolution:  %s\n", claim.ResolutionNotes)
	}

	if user, ok := a.gate.User(); ok && claims.CanChangeStatus(claim.Status, user.Role) {
		if available := claims.AvailableStatuses(claim.Status); len(available) > 0 {
			fmt.Printf("next:        %s\n", strings.Join(available, ", "))
		}
	}

	// Messages may fail independently of the claim; the timeline then shows
	// status history only.
	messages, err := a.client.ClaimMessages(ctx, claimID)
	if err != nil {
		fmt.Printf("chat history unavailable: %s\n", api.UserMessage(err))
	}

	fmt.Println("\ntimeline:")
	for _, entry := range claims.Timeline(claim, messages) {
		when := entry.OccurredAt.Local().Format("2006-01-02 15:04")
		switch entry.Kind {
		case claims.EntryStatus:
			line := fmt.Sprintf("  %s  status -> %s", when, statusLabel(entry.Status))
			if entry.Notes != "" {
				line += " (" + entry.Notes + ")"
			}
			fmt.Println(line)
		case claims.EntryMessage:
			fmt.Printf("  %s  %s [%s]: %s\n", when, senderName(entry.Sender), roleLabel(entry.SenderRole), entry.Message)
		}
	}
	return nil
}

func (a *app) claimsCreate(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("claims create", flag.ExitOnError)
	claimType := flags.String("type", "", "expired_product, defective_product, delivery_error or incorrect_quantity")
	priority := flags.String("priority", models.PriorityMedium, "low, medium, high or urgent")
	description := flags.String("description", "", "what went wrong")
	batch := flags.String("batch", "", "batch number")
	quantity := flags.Int("quantity", 0, "affected quantity")
	expiry := flags.String("expiry", "", "expiry date, YYYY-MM-DD")
	depot := flags.String("depot", "", "assigned depot id")
	laboratory := flags.String("laboratory", "", "assigned laboratory id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *claimType == "" || *description == "" {
		return fmt.Errorf("type and description are required")
	}

	input := api.ClaimInput{
		ClaimType:    *claimType,
		Priority:     *priority,
		Description:  *description,
		BatchNumber:  *batch,
		Quantity:     *quantity,
		DepotID:      *depot,
		LaboratoryID: *laboratory,
	}
	if *expiry != "" {
		parsed, err := time.Parse("2006-01-02", *expiry)
		if err != nil {
			return fmt.Errorf("expiry must be YYYY-MM-DD")
		}
		input.ExpiryDate = &parsed
	}

	claim, err := a.client.CreateClaim(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("claim %s created (%s)\n", claim.Reference, claim.ClaimID)
	return nil
}

func (a *app) claimsUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: claims update <claim-id> [flags]")
	}
	claimID := args[0]

	flags := flag.NewFlagSet("claims update", flag.ExitOnError)
	priority := flags.String("priority", "", "low, medium, high or urgent")
	description := flags.String("description", "", "what went wrong")
	batch := flags.String("batch", "", "batch number")
	quantity := flags.Int("quantity", 0, "affected quantity")
	depot := flags.String("depot", "", "assigned depot id")
	laboratory := flags.String("laboratory", "", "assigned laboratory id")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	claim, err := a.client.UpdateClaim(ctx, claimID, api.ClaimInput{
		Priority:     *priority,
		Description:  *description,
		BatchNumber:  *batch,
		Quantity:     *quantity,
		DepotID:      *depot,
		LaboratoryID: *laboratory,
	})
	if err != nil {
		return err
	}
	fmt.Printf("claim %s updated\n", claim.Reference)
	return nil
}

func (a *app) claimsSetStatus(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: claims set-status <claim-id> -status <target> [-notes ...]")
	}
	claimID := args[0]

	flags := flag.NewFlagSet("claims set-status", flag.ExitOnError)
	status := flags.String("status", "", "target status")
	notes := flags.String("notes", "", "transition notes")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}
	if *status == "" {
		return fmt.Errorf("status is required")
	}

	user, ok := a.gate.User()
	if !ok {
		return fmt.Errorf("not logged in")
	}

	claim, err := a.client.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}

	// Local pre-validation keeps illegal transitions off the network.
	local := claim
	if err := claims.RequestTransition(&local, *status, *notes, user.Role); err != nil {
		var invalid *claims.InvalidTransitionError
		if errors.As(err, &invalid) {
			switch {
			case errors.Is(err, claims.ErrRoleNotPermitted):
				return fmt.Errorf("your role cannot change claim statuses")
			case errors.Is(err, claims.ErrTerminalState):
				return fmt.Errorf("claim %s is closed", claim.Reference)
			default:
				available := claims.AvailableStatuses(claim.Status)
				return fmt.Errorf("cannot go from %s to %s, allowed: %s",
					statusLabel(claim.Status), statusLabel(*status), strings.Join(available, ", "))
			}
		}
		return err
	}

	// The backend stays authoritative: its response replaces the local copy.
	updated, err := a.client.UpdateClaimStatus(ctx, claimID, *status, *notes)
	if err != nil {
		return err
	}
	fmt.Printf("claim %s is now %s\n", updated.Reference, statusLabel(updated.Status))
	return nil
}

func (a *app) claimsDelete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: claims delete <claim-id>")
	}
	claimID := args[0]

	claim, err := a.client.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}
	if claim.Status != models.StatusCreated {
		return fmt.Errorf("only claims still in %s status can be deleted", statusLabel(models.StatusCreated))
	}
	if err := a.client.DeleteClaim(ctx, claimID); err != nil {
		return err
	}
	fmt.Printf("claim %s deleted\n", claim.Reference)
	return nil
}

func (a *app) claimsStats(ctx context.Context) error {
	stats, err := a.client.ClaimStats(ctx)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "total\t%d\n", stats.Total)
	fmt.Fprintf(writer, "created\t%d\n", stats.Created)
	fmt.Fprintf(writer, "in progress\t%d\n", stats.InProgress)
	fmt.Fprintf(writer, "pending\t%d\n", stats.Pending)
	fmt.Fprintf(writer, "resolved\t%d\n", stats.Resolved)
	fmt.Fprintf(writer, "rejected\t%d\n", stats.Rejected)
	fmt.Fprintf(writer, "closed\t%d\n", stats.Closed)
	return writer.Flush()
}

func senderName(sender models.Sender) string {
	if sender.CompanyName != "" {
		return sender.CompanyName
	}
	name := strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	if name != "" {
		return name
	}
	return sender.Email
}
