package cli

import (
	"context"
	"time"

	"vocab-quiz-service/internal/config"
	pgstore "vocab-quiz-service/internal/infra/postgres"
	"vocab-quiz-service/internal/infra/remote"
	"vocab-quiz-service/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewImportCmd copies a remote question-set document into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch a question source and store it in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, source)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "question source id (defaults to quiz.default_source)")
	return cmd
}

func runImport(ctx context.Context, configPath, source string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if source == "" {
		source = cfg.Quiz.DefaultSource
	}
	logger := logging.New(cfg.Log)
	defer logger.Sync()

	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}

	loader := remote.NewLoader(cfg.SourceURLs(), config.TTLDuration(cfg.HTTP.Timeout, 15*time.Second))
	set, err := loader.LoadQuestionSet(ctx, source)
	if err != nil {
		return err
	}

	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := pgstore.NewImporter(db).Upsert(ctx, source, set); err != nil {
		return err
	}
	logger.Info("question set imported",
		zap.String("source", source),
		zap.String("set", set.ID),
		zap.Int("questions", len(set.Questions)),
	)
	return nil
}
