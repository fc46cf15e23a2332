// Package document decodes the remote question-set document.
package document

import (
	"encoding/json"
	"fmt"

	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/sentence"

	"github.com/go-playground/validator/v10"
)

// StatusSuccess is the only status value accepted from the document.
const StatusSuccess = "SUCCESS"

var validate = validator.New()

// Envelope is the top-level document as served.
type Envelope struct {
	Status   string   `json:"status" validate:"required"`
	Data     Data     `json:"data"`
	Message  string   `json:"message"`
	Activity Activity `json:"activity"`
}

// Data holds the question set proper.
type Data struct {
	TestID    string     `json:"testId" validate:"required"`
	Questions []Question `json:"questions" validate:"min=1,dive"`
}

// Question mirrors one entry of data.questions.
type Question struct {
	QuestionID    string   `json:"questionId" validate:"required"`
	Question      string   `json:"question"`
	QuestionType  string   `json:"questionType"`
	AnswerType    string   `json:"answerType"`
	Options       []string `json:"options" validate:"min=1,dive,required"`
	CorrectAnswer []string `json:"correctAnswer" validate:"dive,required"`
}

// Activity mirrors the activity block.
type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	CoinType    string    `json:"coinType"`
	Coins       int       `json:"coins"`
	Description string    `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// Decode parses raw, rejects non-SUCCESS documents and structurally malformed
// ones, and converts the result. Blank/answer count agreement is not checked
// here; see CheckShape.
func Decode(raw []byte) (domain.QuestionSet, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("decode document: %w", err)
	}
	if env.Status != StatusSuccess {
		return domain.QuestionSet{}, fmt.Errorf("%w: %q", domain.ErrUnsuccessfulStatus, env.Status)
	}
	if err := validate.Struct(env); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("validate document: %w", err)
	}
	return env.QuestionSet(), nil
}

// QuestionSet converts the envelope into the domain model.
func (e Envelope) QuestionSet() domain.QuestionSet {
	set := domain.QuestionSet{
		ID:        e.Data.TestID,
		Questions: make([]domain.Question, 0, len(e.Data.Questions)),
		Activity: domain.Activity{
			ID:          e.Activity.ID,
			UserID:      e.Activity.UserID,
			Type:        e.Activity.Type,
			CoinType:    e.Activity.CoinType,
			Coins:       e.Activity.Coins,
			Description: e.Activity.Description,
			CreatedAt:   e.Activity.CreatedAt,
		},
	}
	for _, q := range e.Data.Questions {
		set.Questions = append(set.Questions, domain.Question{
			ID:            q.QuestionID,
			Template:      q.Question,
			QuestionType:  q.QuestionType,
			AnswerType:    q.AnswerType,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: append([]string(nil), q.CorrectAnswer...),
		})
	}
	return set
}

// Encode wraps a question set back into a SUCCESS envelope.
func Encode(set domain.QuestionSet) ([]byte, error) {
	env := Envelope{
		Status: StatusSuccess,
		Data:   Data{TestID: set.ID, Questions: make([]Question, 0, len(set.Questions))},
		Activity: Activity{
			ID:          set.Activity.ID,
			UserID:      set.Activity.UserID,
			Type:        set.Activity.Type,
			CoinType:    set.Activity.CoinType,
			Coins:       set.Activity.Coins,
			Description: set.Activity.Description,
			CreatedAt:   set.Activity.CreatedAt,
		},
	}
	for _, q := range set.Questions {
		env.Data.Questions = append(env.Data.Questions, Question{
			QuestionID:    q.ID,
			Question:      q.Template,
			QuestionType:  q.QuestionType,
			AnswerType:    q.AnswerType,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return json.Marshal(env)
}

// CheckShape verifies that every question has as many correct answers as blanks.
func CheckShape(set domain.QuestionSet) error {
	for _, q := range set.Questions {
		if blanks := sentence.CountBlanks(q.Template); blanks != len(q.CorrectAnswer) {
			return fmt.Errorf("question %s: %w: %d blanks, %d answers", q.ID, domain.ErrShapeMismatch, blanks, len(q.CorrectAnswer))
		}
	}
	return nil
}
