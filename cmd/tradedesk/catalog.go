package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"tradedesk/internal/config"
	"tradedesk/internal/logging"
	"tradedesk/internal/model"
	"tradedesk/internal/service"
	"tradedesk/internal/store"
)

const longCatalog = `Print the product catalog persisted by a sqlite, postgres or minio store.
The memory driver keeps nothing between processes and is rejected.`

func newCatalogCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the persisted product catalog",
		Long:  longCatalog,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			if err := requirePersistentStore(cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := openBackend(ctx, cfg, logging.New("database"))
			if err != nil {
				return err
			}
			defer b.close()

			products := loadCatalog(ctx, store.New(b.repo, logging.New("store")))
			return printProducts(cmd.OutOrStdout(), output, products)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: empty for a table, or json")
	return cmd
}

// errVolatileStore is returned by commands that read state another process wrote.
var errVolatileStore = errors.New("the memory store driver holds no persisted catalog; set STORE_DRIVER to sqlite, postgres or minio")

func requirePersistentStore(cfg *config.AppConfig) error {
	if cfg.Store.Driver == config.DriverMemory {
		return errVolatileStore
	}
	return nil
}

func loadCatalog(ctx context.Context, st *store.Store) []model.Product {
	return store.Load[model.Product](ctx, st, service.ProductsKey)
}

func printProducts(w io.Writer, output string, products []model.Product) error {
	switch output {
	case "":
		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false
		tw.AppendHeader(table.Row{"ID", "NAME", "SKU", "QTY", "PRICE", "ADDED AT"})
		for _, p := range products {
			tw.AppendRow(table.Row{
				p.ID,
				p.Name,
				p.SKU,
				p.Qty,
				"$" + strconv.FormatFloat(p.Price, 'f', 2, 64),
				p.AddedAt,
			})
		}
		_, err := fmt.Fprintln(w, tw.Render())
		return err
	case "json":
		if products == nil {
			products = []model.Product{}
		}
		out, err := json.MarshalIndent(products, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}
