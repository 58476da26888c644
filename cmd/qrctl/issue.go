package main

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/repository"
	"github.com/beijingsoftware/QR-Code-Database/internal/app/service"
	infraPostgres "github.com/beijingsoftware/QR-Code-Database/internal/infra/postgres"
	"github.com/spf13/cobra"
)

var (
	issueLinkFlag  string
	issueEmailFlag string
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a new secret-gated link",
	Long: `Issues a new link record with a fresh secret and prints the
resolve URL to embed in a QR code.

Example:
  qrctl issue --link="www.example.org"`,
	Run: func(cmd *cobra.Command, args []string) {
		if issueLinkFlag == "" {
			log.Fatal("Error: --link flag is required")
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

		linkRepo := repository.NewLinkRepository(db)
		issuer := service.NewIssueService(linkRepo, nil, nil)

		link, err := issuer.Issue(context.Background(), issueLinkFlag, issueEmailFlag)
		if err != nil {
			log.Fatalf("Failed to issue link: %v", err)
		}

		resolveURL := service.ResolveURL(cfg.App.BaseURL, int64(link.ID), link.Secret)

		fmt.Println("Link issued successfully:")
		fmt.Printf("ID:          %d\n", link.ID)
		fmt.Printf("Secret:      %s\n", link.Secret)
		fmt.Printf("Resolve URL: %s\n", resolveURL)
		fmt.Printf("QR URL:      %s%s\n", cfg.App.QRAPIURL, url.QueryEscape(resolveURL))
	},
}

func init() {
	issueCmd.Flags().StringVar(&issueLinkFlag, "link", "", "The destination link to gate")
	issueCmd.Flags().StringVar(&issueEmailFlag, "email", "", "Optional notification address recorded with the issue event")
	issueCmd.MarkFlagRequired("link")

	rootCmd.AddCommand(issueCmd)
}
