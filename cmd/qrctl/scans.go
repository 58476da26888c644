package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	infraPostgres "github.com/beijingsoftware/QR-Code-Database/internal/infra/postgres"
	"github.com/spf13/cobra"
)

var (
	scansIDFlag    int64
	scansLimitFlag int
)

var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "Show the scan audit trail for a code",
	Long: `Prints the recorded resolution attempts for one code id, newest
first, with success totals.

Example:
  qrctl scans --id=1`,
	Run: func(cmd *cobra.Command, args []string) {
		if scansIDFlag <= 0 {
			log.Fatal("Error: --id must be a positive integer")
		}

		db, err := infraPostgres.NewGorm(cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to access underlying SQL DB: %v", err)
		}
		defer sqlDB.Close()

		ctx := context.Background()
		scanRepo := repository.NewScanRepository(db)

		total, succeeded, err := scanRepo.CountByCodeID(ctx, scansIDFlag)
		if err != nil {
			log.Fatalf("Failed to count scans: %v", err)
		}

		scans, err := scanRepo.ListByCodeID(ctx, scansIDFlag, scansLimitFlag, 0)
		if err != nil {
			log.Fatalf("Failed to list scans: %v", err)
		}

		fmt.Printf("Code %d: %d scans, %d succeeded\n", scansIDFlag, total, succeeded)
		for _, s := range scans {
			outcome := "FAILURE"
			if s.Success {
				outcome = "SUCCESS"
			}
			fmt.Printf("  %s  %s\n", s.Date, outcome)
		}
	},
}

func init() {
	scansCmd.Flags().Int64Var(&scansIDFlag, "id", 0, "The code id to inspect")
	scansCmd.Flags().IntVar(&scansLimitFlag, "limit", 50, "Maximum number of scans to print")
	scansCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(scansCmd)
}
