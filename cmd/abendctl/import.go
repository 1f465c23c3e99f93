package main

import (
	"fmt"
	"os"

	"abend-assist-be/internal/config"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/internal/repository/unitofwork"
	"abend-assist-be/internal/service"
	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// importCmd replaces the abend_records table with a CSV export.
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Replace the abend reference table with a CSV export",
	Long: `Reads a CSV with AbendCode, AbendName and Solution columns and replaces
the abend_records table in one transaction. Nothing is written when a row
is invalid. Running servers pick the data up on POST /api/abends/refresh.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := abend.ReadCSV(f)
	if err != nil {
		return err
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Import only touches the table, so no engine or event bus is needed.
	svc := service.NewAbendService(unitofwork.NewRepositoryFactory(db), nil, nil, logger.NewNopLogger(), nil)
	n, err := svc.Import(cmd.Context(), records)
	if err != nil {
		return err
	}

	color.Green("Imported %d abend records from %s", n, args[0])
	return nil
}
