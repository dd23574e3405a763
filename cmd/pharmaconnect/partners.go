package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

func (a *app) partners(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: partners list|available|add|remove")
	}

	switch args[0] {
	case "list":
		partners, err := a.client.MyPartners(ctx)
		if err != nil {
			return err
		}
		if len(partners) == 0 {
			fmt.Println("no partners yet")
			return nil
		}
		return printPartnerTable(partners)
	case "available":
		partners, err := a.client.AvailablePartners(ctx)
		if err != nil {
			return err
		}
		if len(partners) == 0 {
			fmt.Println("no partners available")
			return nil
		}
		return printPartnerTable(partners)
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: partners add <partner-id>")
		}
		if err := a.client.AddPartner(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("partner %s added\n", args[1])
		return nil
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: partners remove <partner-id>")
		}
		if err := a.client.RemovePartner(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("partner %s removed\n", args[1])
		return nil
	default:
		return fmt.Errorf("unknown partners action %q", args[0])
	}
}

func printPartnerTable(partners []models.Partner) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tCOMPANY\tROLE\tEMAIL\tLOCATION")
	for _, partner := range partners {
		location := "-"
		// Coordinates are [longitude, latitude]; a zero pair means none.
		if len(partner.Location.Coordinates) == 2 && partner.Location.Coordinates[0] != 0 {
			location = fmt.Sprintf("%.5f,%.5f", partner.Location.Coordinates[1], partner.Location.Coordinates[0])
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			partner.PartnerID, partner.CompanyName, roleLabel(partner.Role), partner.Email, location)
	}
	return writer.Flush()
}
