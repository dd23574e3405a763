package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/api"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/models"
)

func (a *app) stock(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: stock list|alerts|stats|create|update|delete")
	}

	switch args[0] {
	case "list":
		return a.stockList(ctx, args[1:])
	case "alerts":
		return a.stockAlerts(ctx)
	case "stats":
		return a.stockStats(ctx)
	case "create":
		return a.stockCreate(ctx, args[1:])
	case "update":
		return a.stockUpdate(ctx, args[1:])
	case "delete":
		return a.stockDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown stock action %q", args[0])
	}
}

func (a *app) stockList(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("stock list", flag.ExitOnError)
	search := flags.String("search", "", "filter by product name")
	page := flags.Int("page", 0, "result page")
	limit := flags.Int("limit", 0, "page size")
	if err := flags.Parse(args); err != nil {
		return err
	}

	items, err := a.client.ListStock(ctx, api.StockFilter{Search: *search, Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no stock items")
		return nil
	}
	return printStockTable(items)
}

func (a *app) stockAlerts(ctx context.Context) error {
	items, err := a.client.StockAlerts(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no expiry alerts")
		return nil
	}

	expired := 0
	for _, item := range items {
		if item.Status == "expired" {
			expired++
		}
	}
	fmt.Printf("%d alerts (%d expired, %d expiring soon)\n", len(items), expired, len(items)-expired)
	return printStockTable(items)
}

func (a *app) stockStats(ctx context.Context) error {
	stats, err := a.client.StockStats(ctx)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "items\t%d\n", stats.TotalItems)
	fmt.Fprintf(writer, "quantity\t%d\n", stats.TotalQuantity)
	fmt.Fprintf(writer, "expiring soon\t%d\n", stats.Warning)
	fmt.Fprintf(writer, "expired\t%d\n", stats.Expired)
	return writer.Flush()
}

func (a *app) stockCreate(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("stock create", flag.ExitOnError)
	product := flags.String("product", "", "product id")
	batch := flags.String("batch", "", "batch number")
	quantity := flags.Int("quantity", 0, "quantity on hand")
	expiry := flags.String("expiry", "", "expiry date, YYYY-MM-DD")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *product == "" || *quantity <= 0 {
		return fmt.Errorf("product and a positive quantity are required")
	}

	input := api.StockInput{ProductID: *product, BatchNumber: *batch, Quantity: *quantity}
	if *expiry != "" {
		parsed, err := time.Parse("2006-01-02", *expiry)
		if err != nil {
			return fmt.Errorf("expiry must be YYYY-MM-DD")
		}
		input.ExpiryDate = &parsed
	}

	item, err := a.client.CreateStockItem(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("stock item %s created\n", item.StockID)
	return nil
}

func (a *app) stockUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: stock update <stock-id> [flags]")
	}
	stockID := args[0]

	flags := flag.NewFlagSet("stock update", flag.ExitOnError)
	batch := flags.String("batch", "", "batch number")
	quantity := flags.Int("quantity", 0, "quantity on hand")
	expiry := flags.String("expiry", "", "expiry date, YYYY-MM-DD")
	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	input := api.StockInput{BatchNumber: *batch, Quantity: *quantity}
	if *expiry != "" {
		parsed, err := time.Parse("2006-01-02", *expiry)
		if err != nil {
			return fmt.Errorf("expiry must be YYYY-MM-DD")
		}
		input.ExpiryDate = &parsed
	}

	item, err := a.client.UpdateStockItem(ctx, stockID, input)
	if err != nil {
		return err
	}
	fmt.Printf("stock item %s updated\n", item.StockID)
	return nil
}

func (a *app) stockDelete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: stock delete <stock-id>")
	}
	if err := a.client.DeleteStockItem(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("stock item %s deleted\n", args[0])
	return nil
}

func printStockTable(items []models.StockItem) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tPRODUCT\tBATCH\tQUANTITY\tEXPIRY\tSTATUS")
	for _, item := range items {
		expiry := "-"
		if item.ExpiryDate != nil {
			expiry = item.ExpiryDate.Format("2006-01-02")
		}
		status := item.Status
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\t%s\n",
			item.StockID, item.ProductName, item.BatchNumber, item.Quantity, expiry, status)
	}
	return writer.Flush()
}
