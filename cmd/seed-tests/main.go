package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/config"
	"github.com/siriuscareer/career-admin/internal/database"
	"github.com/siriuscareer/career-admin/internal/logger"
	"github.com/siriuscareer/career-admin/internal/model"
	"github.com/siriuscareer/career-admin/internal/repository"
	"github.com/siriuscareer/career-admin/internal/repository/memrepo"
	"github.com/siriuscareer/career-admin/internal/seed"
	"github.com/siriuscareer/career-admin/internal/service"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:          "seed-tests [flags] <file.yaml>...",
		Short:        "Create psychological tests from YAML definitions",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "seed-tests")

			var tests []*model.Test
			for _, path := range args {
				loaded, err := seed.LoadFile(path)
				if err != nil {
					return err
				}
				tests = append(tests, loaded...)
			}

			ctx := cmd.Context()
			var (
				report seed.Report
				err    error
			)
			if dryRun {
				report, err = runDry(ctx, tests, log)
			} else {
				report, err = runLive(ctx, cfg, tests, log)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created: %d, skipped: %d\n", len(report.Created), len(report.Skipped))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and create against an in-memory store only")
	return cmd
}

func runDry(ctx context.Context, tests []*model.Test, log zerolog.Logger) (seed.Report, error) {
	store := memrepo.NewStore()
	questionRepo := memrepo.NewQuestionRepository(store)
	testRepo := memrepo.NewTestRepository(store)
	svc := service.NewTestService(store, testRepo, questionRepo, log)

	return seed.NewSeeder(svc, log).Run(ctx, tests)
}

func runLive(ctx context.Context, cfg *config.Config, tests []*model.Test, log zerolog.Logger) (seed.Report, error) {
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return seed.Report{}, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository()
	testRepo := repository.NewTestRepository(questionRepo)
	svc := service.NewTestService(pool, testRepo, questionRepo, log)

	return seed.NewSeeder(svc, log).Run(ctx, tests)
}
