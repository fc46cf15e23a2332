// Package scoring evaluates answers and aggregates a session's results.
package scoring

import (
	"fmt"
	"math"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/sentence"
)

// Evaluate returns true iff user and correct are equal position by position.
func Evaluate(user, correct []string) (bool, error) {
	if len(user) != len(correct) {
		return false, fmt.Errorf("%w: %d answers for %d blanks", domain.ErrShapeMismatch, len(user), len(correct))
	}
	for i := range correct {
		if user[i] != correct[i] {
			return false, nil
		}
	}
	return true, nil
}

// Tally counts correct records. An empty log yields 0%.
func Tally(log []domain.AnswerRecord) domain.Tally {
	tally := domain.Tally{TotalCount: len(log)}
	for _, record := range log {
		if record.Correct {
			tally.CorrectCount++
		}
	}
	tally.Percentage = Percentage(tally.CorrectCount, tally.TotalCount)
	return tally
}

// Percentage is round(100*part/total), 0 when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// Feedback picks the summary headline for a percentage.
func Feedback(percentage int) string {
	switch {
	case percentage >= 90:
		return "Outstanding!"
	case percentage >= 75:
		return "Great job!"
	case percentage >= 60:
		return "Good effort!"
	case percentage >= 40:
		return "Nice try!"
	default:
		return "Keep practicing!"
	}
}

// Band classifies remaining seconds for display.
func Band(remaining int) domain.TimerBand {
	switch {
	case remaining > 20:
		return domain.BandCalm
	case remaining > 10:
		return domain.BandWarning
	default:
		return domain.BandCritical
	}
}

// Review lays out one answered question blank by blank.
func Review(number int, question domain.Question, record domain.AnswerRecord) domain.ReviewItem {
	item := domain.ReviewItem{
		Number:     number,
		QuestionID: record.QuestionID,
		Segments:   sentence.Split(question.Template),
		Correct:    record.Correct,
		TimedOut:   record.TimedOut,
		Blanks:     make([]domain.BlankReview, len(record.CorrectAnswers)),
	}
	for i, want := range record.CorrectAnswers {
		got := ""
		if i < len(record.UserAnswers) {
			got = record.UserAnswers[i]
		}
		item.Blanks[i] = domain.BlankReview{User: got, Correct: want, Match: got == want}
	}
	return item
}

// Summarize builds the finished-session view. questions and log are index aligned.
func Summarize(questions []domain.Question, log []domain.AnswerRecord) domain.Summary {
	tally := Tally(log)
	summary := domain.Summary{
		Tally:    tally,
		Feedback: Feedback(tally.Percentage),
		Review:   make([]domain.ReviewItem, 0, len(log)),
	}
	for i, record := range log {
		var question domain.Question
		if i < len(questions) {
			question = questions[i]
		}
		summary.Review = append(summary.Review, Review(i+1, question, record))
	}
	return summary
}
