// Command amload bulk-loads the AlphaMissense distribution file into the
// PostgreSQL score table used by the variant context server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/variant-context-server/internal/config"
	"github.com/variant-context-server/internal/database"
	"github.com/variant-context-server/internal/repository"
	"github.com/variant-context-server/internal/setup"
)

var (
	clean       bool
	sourceFile  string
	skipIndexes bool
)

var rootCmd = &cobra.Command{
	Use:   "amload",
	Short: "Load AlphaMissense pathogenicity data into PostgreSQL",
	Long: `amload streams a gzipped AlphaMissense distribution file into the
score table queried by the variant context server. Comment lines and
malformed rows are skipped. Indexes are created after loading.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&sourceFile, "file", "f", "", "path to the AlphaMissense .tsv.gz file (required)")
	rootCmd.Flags().BoolVar(&clean, "clean", false, "drop the existing table before loading for a clean import")
	rootCmd.Flags().BoolVar(&skipIndexes, "skip-indexes", false, "skip index creation after loading")
	rootCmd.MarkFlagRequired("file")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	manager, err := config.NewManager()
	if err != nil {
		return err
	}
	cfg := manager.GetConfig()
	log := setup.NewLogger(cfg.Logging)

	db, err := database.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	loader, err := repository.NewAlphaMissenseLoader(db.Pool, cfg.Scores.Table, log)
	if err != nil {
		return err
	}

	if clean {
		if err := loader.DropTable(ctx); err != nil {
			return err
		}
	}

	if err := loader.CreateTable(ctx); err != nil {
		return err
	}

	rows, err := loader.LoadFile(ctx, sourceFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", sourceFile, err)
	}
	log.WithField("rows", rows).Info("Load complete")

	if !skipIndexes {
		if err := loader.CreateIndexes(ctx); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
