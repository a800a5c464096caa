package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talentflow/auth-service/internal/infrastructure/db/mongo"
	"github.com/talentflow/auth-service/internal/pkg/config"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the user store indexes",
		Long: `Create the unique email index on the Mongo users collection.
Redis and the in-memory store need no migration.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.StoreBackend != config.StoreMongo {
		cmd.Printf("Store backend %q needs no migration\n", cfg.StoreBackend)
		return nil
	}

	cmd.Println("Connecting to database...")
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	cmd.Println("Creating indexes...")
	if err := mongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
