package play

import (
	"errors"
	"strings"
	"testing"

	"vocab-quiz-service/internal/domain"
)

func TestRenderQuestionShowsSlotsOptionsAndClock(t *testing.T) {
	snap := domain.SessionSnapshot{
		Mode:  domain.ModePresenting,
		Total: 3,
		Current: &domain.QuestionView{
			Number:    2,
			Segments:  []string{"The ", " ", " fox."},
			Slots:     []string{"quick", ""},
			Options:   []domain.OptionView{{Text: "quick", Used: true}, {Text: "brown"}},
			Remaining: 9,
			Band:      domain.BandCritical,
		},
	}

	out := renderQuestion(snap, 1, "", true)
	for _, want := range []string{"Question 2/3", "00:09", "The [quick] >[_____] fox.", "1) quick (used)", "2) brown"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "enter submit") {
		t.Fatalf("submit hint shown for incomplete answer:\n%s", out)
	}
}

func TestRenderSummaryShowsTallyAndCorrections(t *testing.T) {
	snap := domain.SessionSnapshot{
		Mode: domain.ModeFinished,
		Summary: &domain.Summary{
			Tally:    domain.Tally{CorrectCount: 1, TotalCount: 2, Percentage: 50},
			Feedback: "Nice try!",
			Review: []domain.ReviewItem{
				{Number: 1, Segments: []string{"A ", " day."}, Blanks: []domain.BlankReview{{User: "sunny", Correct: "sunny", Match: true}}, Correct: true},
				{Number: 2, Segments: []string{"A ", " night."}, Blanks: []domain.BlankReview{{User: "", Correct: "dark"}}, TimedOut: true},
			},
		},
	}

	out := renderSummary(snap, true)
	for _, want := range []string{"Score: 50%  (1/2)", "Nice try!", "✓ 1. A sunny day.", "✗ 2. A _____ night. (time up)", "answer: A dark night."} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderStartAndLoadError(t *testing.T) {
	start := renderStart(domain.SessionSnapshot{Total: 10, Coins: 20}, true)
	if !strings.Contains(start, "Questions: 10") || !strings.Contains(start, "Coins: 20") {
		t.Fatalf("unexpected start screen:\n%s", start)
	}
	failed := renderLoadError(errors.New("status 500"), true)
	if !strings.Contains(failed, "status 500") || !strings.Contains(failed, "r retry") {
		t.Fatalf("unexpected load error screen:\n%s", failed)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{30: "00:30", 0: "00:00", -2: "00:00", 75: "01:15"}
	for seconds, want := range cases {
		if got := formatClock(seconds); got != want {
			t.Fatalf("formatClock(%d) = %s, want %s", seconds, got, want)
		}
	}
}
