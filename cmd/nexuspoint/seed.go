package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/tendant/nexuspoint/internal/seed"
	"github.com/tendant/nexuspoint/server"
)

var seedOwner = seed.DefaultOwner

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the Golden Pad Thai demo tenant",
	Long: `Create a demo owner and the "Golden Pad Thai" organization with branches,
menu items, delivery platform mappings, orders, inventory and payment settings.

Running it again after a successful seed is a no-op.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedOwner.Email, "email", seed.DefaultOwner.Email, "owner email")
	seedCmd.Flags().StringVar(&seedOwner.Password, "password", seed.DefaultOwner.Password, "owner password")
	seedCmd.Flags().StringVar(&seedOwner.Name, "name", seed.DefaultOwner.Name, "owner display name")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := server.New(server.Config{
		DB:             db,
		JWTSecret:      cfg.JWTSecret,
		AppBaseURL:     cfg.AppBaseURL,
		PasswordPolicy: cfg.PasswordPolicy,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	summary, err := seed.Run(cmd.Context(), srv.SeedDeps(), seedOwner)
	if errors.Is(err, seed.ErrAlreadySeeded) {
		logger.Info("demo data already present, nothing to do")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("demo tenant ready",
		"owner", seedOwner.Email,
		"organization_id", summary.OrganizationID,
	)
	return nil
}
