package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/catalog"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/01moynul/valuefurniture-golang/internal/report"
	"github.com/spf13/cobra"
)

var (
	// Export flags
	exportFormat string
	exportOut    string
)

// exportCmd writes an order or product report
var exportCmd = &cobra.Command{
	Use:   "export orders|products",
	Short: "Write the order or product report as xlsx or pdf",
	Long: `Write the same reports the admin API serves.

Examples:
  vfctl export orders                        # OrdersReport-<timestamp>.xlsx
  vfctl export products --format pdf         # ProductReport-<timestamp>.pdf
  vfctl export orders --out orders.xlsx`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"orders", "products"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		db, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		var table *report.Table
		switch args[0] {
		case "orders":
			var orders []models.Order
			if err := db.Order("id").Find(&orders).Error; err != nil {
				return fmt.Errorf("load orders: %w", err)
			}
			table = report.Orders(orders)
		default:
			var products []models.Product
			if err := db.Order("id").Find(&products).Error; err != nil {
				return fmt.Errorf("load products: %w", err)
			}
			table = report.Products(products)
		}

		out := exportOut
		if out == "" {
			out = table.FileName(format, time.Now())
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := table.Write(f, format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(table.Rows), out)
		return nil
	},
}

// importCmd applies a product workbook
var importCmd = &cobra.Command{
	Use:   "import FILE.xlsx",
	Short: "Update products from a workbook in the product report layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		rows, err := report.ReadProducts(data)
		if err != nil {
			return err
		}

		db, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		res, err := catalog.New(db).Import(context.Background(), rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %d products.\n", res.Updated)
		if len(res.Unknown) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped unknown ids: %v\n", res.Unknown)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "Report format: xlsx or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default <report>-<timestamp>.<format>)")
}
