package play

import (
	"context"
	"errors"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the play UI model.
type Options struct {
	NoColor bool
}

type phase int

const (
	phaseLoading phase = iota
	phaseLoadFailed
	phaseReady
)

// Model drives one quiz session in the terminal.
type Model struct {
	ctx      context.Context
	service  *app.QuizService
	source   string
	phase    phase
	loadErr  error
	snap     domain.SessionSnapshot
	updates  <-chan domain.SessionSnapshot
	cancel   func()
	cursor   int
	notice   string
	keys     keyMap
	progress progress.Model
	noColor  bool
}

// NewModel builds a model that opens a session over source once started.
func NewModel(ctx context.Context, service *app.QuizService, source string, opts Options) Model {
	return Model{
		ctx:      ctx,
		service:  service,
		source:   source,
		phase:    phaseLoading,
		keys:     defaultKeys(),
		progress: progress.New(progress.WithSolidFill("63"), progress.WithoutPercentage(), progress.WithWidth(40)),
		noColor:  opts.NoColor,
	}
}

// Init opens the session.
func (m Model) Init() tea.Cmd {
	return openSession(m.ctx, m.service, m.source)
}

// Update consumes key presses and session snapshots.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(typed.Width-10, 10), 60)
		return m, nil
	case openedMsg:
		m.phase = phaseReady
		m.loadErr = nil
		m.snap = typed.snap
		m.updates = typed.updates
		m.cancel = typed.cancel
		return m, waitForSnapshot(m.updates)
	case loadFailedMsg:
		m.phase = phaseLoadFailed
		m.loadErr = typed.err
		return m, nil
	case snapshotMsg:
		m = m.apply(typed.snap)
		return m, waitForSnapshot(m.updates)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	switch m.phase {
	case phaseLoading:
		return renderLoading(m.source, m.noColor)
	case phaseLoadFailed:
		return renderLoadError(m.loadErr, m.noColor)
	}

	var body string
	switch m.snap.Mode {
	case domain.ModeNotStarted:
		body = renderStart(m.snap, m.noColor)
	case domain.ModePresenting:
		bar := ""
		if m.snap.Current != nil {
			bar = m.progress.ViewAs(float64(m.snap.Current.Progress) / 100)
		}
		body = renderQuestion(m.snap, m.cursor, bar, m.noColor)
	case domain.ModeFinished:
		body = renderSummary(m.snap, m.noColor)
	}
	if m.notice != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", stylize(m.notice, m.noColor, lipgloss.Color("214")))
	}
	return body
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.shutdown()
		return m, tea.Quit
	}

	switch m.phase {
	case phaseLoading:
		return m, nil
	case phaseLoadFailed:
		if key.Matches(msg, m.keys.Retry) {
			m.phase = phaseLoading
			return m, openSession(m.ctx, m.service, m.source)
		}
		return m, nil
	}

	m.notice = ""
	switch m.snap.Mode {
	case domain.ModeNotStarted:
		if key.Matches(msg, m.keys.Confirm) {
			m.do(m.service.Start(m.ctx, m.snap.SessionID))
		}
	case domain.ModePresenting:
		m = m.handleQuestionKey(msg)
	case domain.ModeFinished:
		if key.Matches(msg, m.keys.Retry) {
			m.do(m.service.Restart(m.ctx, m.snap.SessionID))
		}
	}
	return m, nil
}

func (m Model) handleQuestionKey(msg tea.KeyMsg) Model {
	view := m.snap.Current
	if view == nil {
		return m
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.do(m.service.Submit(m.ctx, m.snap.SessionID))
	case key.Matches(msg, m.keys.NextBlank):
		if len(view.Slots) > 0 {
			m.cursor = (m.cursor + 1) % len(view.Slots)
		}
	case key.Matches(msg, m.keys.Remove):
		m.do(m.service.Remove(m.ctx, m.snap.SessionID, m.cursor))
	case key.Matches(msg, m.keys.RemoveLast):
		if last := lastFilled(view.Slots); last >= 0 {
			m.do(m.service.Remove(m.ctx, m.snap.SessionID, last))
		}
	case key.Matches(msg, m.keys.Place):
		n := int(msg.Runes[0] - '1')
		if n < len(view.Options) {
			m.do(m.service.Place(m.ctx, m.snap.SessionID, view.Options[n].Text))
		}
	}
	return m
}

// do applies the result of a session call. Rejected placements are ignored.
func (m *Model) do(snap domain.SessionSnapshot, err error) {
	if err != nil {
		switch {
		case domain.IsRecoverableInput(err):
		case errors.Is(err, domain.ErrIncompleteAnswer):
			m.notice = "Fill every blank before submitting."
		default:
			m.notice = err.Error()
		}
		return
	}
	*m = m.apply(snap)
}

func (m Model) apply(snap domain.SessionSnapshot) Model {
	if snap.UpdatedAt.Before(m.snap.UpdatedAt) {
		return m
	}
	if m.snap.Current == nil || snap.Current == nil || m.snap.Current.Index != snap.Current.Index || m.snap.Mode != snap.Mode {
		m.cursor = 0
	}
	m.snap = snap
	return m
}

func (m *Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.snap.SessionID != "" {
		m.service.Close(m.ctx, m.snap.SessionID)
	}
}

func lastFilled(slots []string) int {
	for i := len(slots) - 1; i >= 0; i-- {
		if slots[i] != "" {
			return i
		}
	}
	return -1
}

type openedMsg struct {
	snap    domain.SessionSnapshot
	updates <-chan domain.SessionSnapshot
	cancel  func()
}

type loadFailedMsg struct {
	err error
}

type snapshotMsg struct {
	snap domain.SessionSnapshot
}

// openSession loads the question set and subscribes to the new session.
func openSession(ctx context.Context, service *app.QuizService, source string) tea.Cmd {
	return func() tea.Msg {
		snap, err := service.Open(ctx, source)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		updates, cancel, err := service.Subscribe(ctx, snap.SessionID)
		if err != nil {
			service.Close(ctx, snap.SessionID)
			return loadFailedMsg{err: err}
		}
		return openedMsg{snap: snap, updates: updates, cancel: cancel}
	}
}

// waitForSnapshot blocks until the session publishes a snapshot.
func waitForSnapshot(updates <-chan domain.SessionSnapshot) tea.Cmd {
	return func() tea.Msg {
		if updates == nil {
			return nil
		}
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}
