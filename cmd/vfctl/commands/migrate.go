package commands

import (
	"context"
	"fmt"

	"github.com/01moynul/valuefurniture-golang/internal/database"
	"github.com/spf13/cobra"
)

var withSeed bool

// migrateCmd brings the schema up to date
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the store tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")

		if withSeed {
			return runSeed(cmd)
		}
		return nil
	},
}

// seedCmd loads the demo accounts and catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo accounts and catalog into an empty store",
	Long: `Load the demo data into a store with no users: an administrator
(admin@admin.com), a customer (test@test.com), four categories and their
products. Each account's password is its email address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	migrateCmd.Flags().BoolVar(&withSeed, "seed", false, "Seed demo data after migrating")
}

func runSeed(cmd *cobra.Command) error {
	db, closeDB, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	seeded, err := database.Seed(context.Background(), db)
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Fprintln(cmd.OutOrStdout(), "Store already has users, nothing seeded.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Demo data loaded.")
	return nil
}
