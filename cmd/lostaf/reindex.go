package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lostaf-io/lostaf/internal/db"
	matchrepo "github.com/lostaf-io/lostaf/internal/repository/match"
	reportrepo "github.com/lostaf-io/lostaf/internal/repository/report"
)

// indexAdmin is the subset of the store needed to rebuild search indexes.
type indexAdmin interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	DropIndex(ctx context.Context, name string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

func NewReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Drop and recreate the report and match search indexes",
		Long: `Rebuild the search indexes after a schema change. Documents are kept;
Redis re-indexes them in the background once the index is recreated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			for _, def := range []*db.IndexDefinition{reportrepo.IndexDefinition(), matchrepo.IndexDefinition()} {
				if err := rebuildIndex(cmd.Context(), a.store, def); err != nil {
					return err
				}
				a.logger.Info("Index rebuilt", zap.String("index", def.Name))
				fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %s\n", def.Name)
			}
			return nil
		},
	}
}

func rebuildIndex(ctx context.Context, s indexAdmin, def *db.IndexDefinition) error {
	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("probe index %s: %w", def.Name, err)
	}
	if exists {
		if err := s.DropIndex(ctx, def.Name); err != nil {
			return fmt.Errorf("drop index %s: %w", def.Name, err)
		}
	}
	if err := s.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}
