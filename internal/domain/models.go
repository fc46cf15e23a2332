package domain

import "time"

// Question is a fill-in-the-blank sentence. Template holds one blank marker per
// entry in CorrectAnswer; Options is a superset of the correct answers.
type Question struct {
	ID            string   `json:"questionId"`
	Template      string   `json:"question"`
	QuestionType  string   `json:"questionType,omitempty"`
	AnswerType    string   `json:"answerType,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer []string `json:"correctAnswer"`
}

// Activity carries the coin economics attached to a question set.
type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	CoinType    string    `json:"coinType"`
	Coins       int       `json:"coins"`
	Description string    `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// QuestionSet is an ordered, immutable collection of questions.
type QuestionSet struct {
	ID        string     `json:"testId"`
	Questions []Question `json:"questions"`
	Activity  Activity   `json:"activity"`
}

// AnswerRecord is the result for one question. It is created once, at submission
// or timeout, and never mutated afterwards.
type AnswerRecord struct {
	QuestionID     string   `json:"questionId"`
	UserAnswers    []string `json:"userAnswers"`
	CorrectAnswers []string `json:"correctAnswers"`
	Correct        bool     `json:"isCorrect"`
	TimedOut       bool     `json:"timedOut"`
}

// Tally aggregates verdicts over an answer log.
type Tally struct {
	CorrectCount int `json:"correctCount"`
	TotalCount   int `json:"totalCount"`
	Percentage   int `json:"percentage"`
}

// SessionMode is the top-level state of a quiz session.
type SessionMode string

const (
	ModeNotStarted SessionMode = "not_started"
	ModePresenting SessionMode = "presenting"
	ModeFinished   SessionMode = "finished"
)

// TimerBand classifies the remaining time for display.
type TimerBand string

const (
	BandCalm     TimerBand = "calm"
	BandWarning  TimerBand = "warning"
	BandCritical TimerBand = "critical"
)

// Overview is what the start screen shows before a session begins.
type Overview struct {
	SourceID       string `json:"sourceId"`
	SetID          string `json:"setId"`
	TotalQuestions int    `json:"totalQuestions"`
	Coins          int    `json:"coins"`
	BudgetSeconds  int    `json:"budgetSeconds"`
}

// OptionView is an option button: its text and whether it is currently placed.
type OptionView struct {
	Text string `json:"text"`
	Used bool   `json:"used"`
}

// QuestionView is a read-only snapshot of the question being presented.
type QuestionView struct {
	Index      int          `json:"index"`
	Number     int          `json:"number"`
	QuestionID string       `json:"questionId"`
	Segments   []string     `json:"segments"`
	Slots      []string     `json:"slots"`
	Options    []OptionView `json:"options"`
	Complete   bool         `json:"complete"`
	Remaining  int          `json:"remaining"`
	Budget     int          `json:"budget"`
	Band       TimerBand    `json:"band"`
	Progress   int          `json:"progress"`
}

// BlankReview compares a single blank of a reviewed question.
type BlankReview struct {
	User    string `json:"user"`
	Correct string `json:"correct"`
	Match   bool   `json:"match"`
}

// ReviewItem is one row of the summary screen.
type ReviewItem struct {
	Number     int           `json:"number"`
	QuestionID string        `json:"questionId"`
	Segments   []string      `json:"segments"`
	Blanks     []BlankReview `json:"blanks"`
	Correct    bool          `json:"correct"`
	TimedOut   bool          `json:"timedOut"`
}

// Summary is the finished-session view.
type Summary struct {
	Tally    Tally        `json:"tally"`
	Feedback string       `json:"feedback"`
	Review   []ReviewItem `json:"review"`
}

// SessionSnapshot is a copy of a session's observable state.
type SessionSnapshot struct {
	SessionID string        `json:"sessionId"`
	SetID     string        `json:"setId"`
	Mode      SessionMode   `json:"mode"`
	Total     int           `json:"total"`
	Coins     int           `json:"coins"`
	Current   *QuestionView `json:"current,omitempty"`
	Summary   *Summary      `json:"summary,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
