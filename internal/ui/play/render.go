package play

import (
	"fmt"
	"strings"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/sentence"

	"github.com/charmbracelet/lipgloss"
)

const emptySlot = "_____"

var bandColors = map[domain.TimerBand]lipgloss.Color{
	domain.BandCalm:     lipgloss.Color("42"),
	domain.BandWarning:  lipgloss.Color("214"),
	domain.BandCritical: lipgloss.Color("196"),
}

func renderLoading(source string, noColor bool) string {
	return stylize("Loading questions from "+source+"...", noColor, lipgloss.Color("244"))
}

func renderLoadError(err error, noColor bool) string {
	msg := "Could not load questions."
	if err != nil {
		msg += " " + err.Error()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		stylize(msg, noColor, lipgloss.Color("196")),
		"",
		stylize("r retry  q quit", noColor, lipgloss.Color("240")),
	)
}

// renderStart renders the start screen.
func renderStart(snap domain.SessionSnapshot, noColor bool) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		bold("Sentence Construction", noColor),
		"",
		"Select the missing words in the correct order.",
		fmt.Sprintf("Questions: %d", snap.Total),
		fmt.Sprintf("Coins: %d", snap.Coins),
		"",
		stylize("enter start  q quit", noColor, lipgloss.Color("240")),
	)
}

// renderQuestion renders the current question with its blanks, options and
// countdown. bar is the pre-rendered progress bar.
func renderQuestion(snap domain.SessionSnapshot, cursor int, bar string, noColor bool) string {
	view := snap.Current
	if view == nil {
		return ""
	}

	header := fmt.Sprintf("Question %d/%d", view.Number, snap.Total)
	clock := stylize(formatClock(view.Remaining), noColor, bandColors[view.Band])

	var line strings.Builder
	for i, segment := range view.Segments {
		line.WriteString(segment)
		if i >= len(view.Slots) {
			continue
		}
		slot := view.Slots[i]
		if slot == "" {
			slot = emptySlot
		}
		slot = "[" + slot + "]"
		if i == cursor {
			slot = highlight(slot, noColor)
		}
		line.WriteString(slot)
	}

	options := make([]string, 0, len(view.Options))
	for i, opt := range view.Options {
		label := fmt.Sprintf("%d) %s", i+1, opt.Text)
		if opt.Used {
			label = stylize(label+" (used)", noColor, lipgloss.Color("240"))
		}
		options = append(options, label)
	}

	hint := "1-9 place  tab next blank  x clear  ⌫ clear last  q quit"
	if view.Complete {
		hint = "enter submit  " + hint
	}

	parts := []string{header + "   " + clock}
	if bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, "", line.String(), "", strings.Join(options, "   "), "", stylize(hint, noColor, lipgloss.Color("240")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderSummary renders the score, feedback and per-question review.
func renderSummary(snap domain.SessionSnapshot, noColor bool) string {
	summary := snap.Summary
	if summary == nil {
		return ""
	}
	tally := summary.Tally
	parts := []string{
		bold(fmt.Sprintf("Score: %d%%  (%d/%d)", tally.Percentage, tally.CorrectCount, tally.TotalCount), noColor),
		summary.Feedback,
		"",
	}
	for _, item := range summary.Review {
		parts = append(parts, renderReviewItem(item, noColor))
	}
	parts = append(parts, "", stylize("r restart  q quit", noColor, lipgloss.Color("240")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderReviewItem(item domain.ReviewItem, noColor bool) string {
	user := make([]string, len(item.Blanks))
	correct := make([]string, len(item.Blanks))
	for i, blank := range item.Blanks {
		user[i] = blank.User
		correct[i] = blank.Correct
	}

	mark, color := "✗", lipgloss.Color("196")
	if item.Correct {
		mark, color = "✓", lipgloss.Color("42")
	}
	head := fmt.Sprintf("%s %d. %s", mark, item.Number, sentence.Fill(item.Segments, user, emptySlot))
	if item.TimedOut {
		head += " (time up)"
	}
	lines := []string{stylize(head, noColor, color)}
	if !item.Correct {
		lines = append(lines, "   answer: "+sentence.Fill(item.Segments, correct, emptySlot))
	}
	return strings.Join(lines, "\n")
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func bold(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}

func highlight(text string, noColor bool) string {
	if noColor {
		return ">" + text
	}
	return lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("63")).Render(text)
}
