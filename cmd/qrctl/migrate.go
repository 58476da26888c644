package main

import (
	"context"
	"fmt"
	"log"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	infraPostgres "github.com/beijingsoftware/QR-Code-Database/internal/infra/postgres"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the Links and Scans tables",
	Long: `Runs idempotent schema setup for the Links and Scans tables.
Safe to run repeatedly; existing data is untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		db, err := infraPostgres.NewGorm(cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to access underlying SQL DB: %v", err)
		}
		defer sqlDB.Close()

		if err := infraPostgres.AutoMigrate(context.Background(), db, &model.Link{}, &model.Scan{}); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}

		fmt.Println("Database initialized successfully")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
