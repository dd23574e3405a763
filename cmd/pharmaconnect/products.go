package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/api"
)

func (a *app) products(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: products list|show")
	}

	switch args[0] {
	case "list":
		flags := flag.NewFlagSet("products list", flag.ExitOnError)
		search := flags.String("search", "", "filter by product name")
		page := flags.Int("page", 0, "result page")
		limit := flags.Int("limit", 0, "page size")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		products, err := a.client.ListProducts(ctx, api.ProductFilter{Search: *search, Page: *page, Limit: *limit})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			fmt.Println("no products")
			return nil
		}
		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "ID\tNAME\tSKU")
		for _, product := range products {
			sku := product.SKU
			if sku == "" {
				sku = "-"
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\n", product.ProductID, product.Name, sku)
		}
		return writer.Flush()
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: products show <product-id>")
		}
		product, err := a.client.GetProduct(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("id:   %s\n", product.ProductID)
		fmt.Printf("name: %s\n", product.Name)
		if product.SKU != "" {
			fmt.Printf("sku:  %s\n", product.SKU)
		}
		return nil
	default:
		return fmt.Errorf("unknown products action %q", args[0])
	}
}
