package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/01moynul/valuefurniture-golang/internal/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dsn     string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vfctl",
	Short: "Value Furniture store administration",
	Long: `vfctl runs store maintenance against the storefront database:
schema migration, demo data, and the order and product reports.

The database defaults to DB_DSN_PRIMARY (a .env file is honoured).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("DB_DSN_PRIMARY"), "MySQL DSN of the store database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// openStore connects to the database named by --dsn.
func openStore() (*gorm.DB, func(), error) {
	if dsn == "" {
		return nil, nil, fmt.Errorf("--dsn flag or DB_DSN_PRIMARY is required")
	}
	sqlDB, err := database.OpenDB(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db, err := database.OpenGorm(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return db, func() { sqlDB.Close() }, nil
}
