package play

import (
	"context"
	"io"
	"os"

	"vocab-quiz-service/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

// Run plays one quiz over source in the terminal and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, service *app.QuizService, source string, stdout io.Writer, opts Options) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	model := NewModel(ctx, service, source, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if m, ok := final.(Model); ok {
		m.shutdown()
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
