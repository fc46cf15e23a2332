package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/logging"
	"vocab-quiz-service/internal/ui/play"

	"github.com/spf13/cobra"
)

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		source  string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, source, noColor)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "question source id (defaults to quiz.default_source)")
	cmd.Flags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colors")
	return cmd
}

func runPlay(ctx context.Context, configPath, source string, noColor bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if source == "" {
		source = cfg.Quiz.DefaultSource
	}

	logger := logging.NewFileOnly(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := buildStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return play.Run(ctx, st.service, source, os.Stdout, play.Options{NoColor: noColor})
}
