package document

import (
	"errors"
	"strings"
	"testing"

	"vocab-quiz-service/internal/domain"
)

const sampleDoc = `{
  "status": "SUCCESS",
  "data": {
    "testId": "t-1",
    "questions": [
      {
        "questionId": "q1",
        "question": "The _____________ barked at the _____________.",
        "questionType": "text",
        "answerType": "options",
        "options": ["dog", "cat", "mailman", "moon"],
        "correctAnswer": ["dog", "mailman"]
      }
    ]
  },
  "message": "Questions fetched successfully",
  "activity": {"id": "a1", "userId": "u1", "type": "debit", "coinType": "gold", "coins": 2, "description": "quiz", "createdAt": "2025-01-01T00:00:00Z"}
}`

func TestDecodeConvertsDocument(t *testing.T) {
	set, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if set.ID != "t-1" || len(set.Questions) != 1 || set.Activity.Coins != 2 {
		t.Fatalf("unexpected set %+v", set)
	}
	q := set.Questions[0]
	if q.ID != "q1" || len(q.Options) != 4 || len(q.CorrectAnswer) != 2 {
		t.Fatalf("unexpected question %+v", q)
	}
	if err := CheckShape(set); err != nil {
		t.Fatalf("expected well-formed set, got %v", err)
	}
}

func TestDecodeRejectsUnsuccessfulStatus(t *testing.T) {
	raw := strings.Replace(sampleDoc, `"SUCCESS"`, `"FAILED"`, 1)
	if _, err := Decode([]byte(raw)); !errors.Is(err, domain.ErrUnsuccessfulStatus) {
		t.Fatalf("expected ErrUnsuccessfulStatus, got %v", err)
	}
}

func TestDecodeRejectsEmptyQuestionList(t *testing.T) {
	raw := `{"status":"SUCCESS","data":{"testId":"t","questions":[]}}`
	if _, err := Decode([]byte(raw)); err == nil {
		t.Fatalf("expected structural validation error")
	}
}

func TestDecodeRejectsMalformedOptions(t *testing.T) {
	raw := `{"status":"SUCCESS","data":{"testId":"t","questions":[{"questionId":"q","question":"x","options":["a",""],"correctAnswer":[]}]}}`
	if _, err := Decode([]byte(raw)); err == nil {
		t.Fatalf("expected empty option to be rejected")
	}
}

func TestDecodeKeepsBlankCountMismatch(t *testing.T) {
	raw := strings.Replace(sampleDoc, `["dog", "mailman"]`, `["dog"]`, 1)
	set, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode should not patch or reject mismatches: %v", err)
	}
	if err := CheckShape(set); !errors.Is(err, domain.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestDecodeAcceptsFreeFormCreatedAt(t *testing.T) {
	for _, createdAt := range []string{"", "2025-04-11 10:00:00", "yesterday"} {
		raw := strings.Replace(sampleDoc, `"2025-01-01T00:00:00Z"`, `"`+createdAt+`"`, 1)
		set, err := Decode([]byte(raw))
		if err != nil {
			t.Fatalf("createdAt %q: decode: %v", createdAt, err)
		}
		if set.Activity.CreatedAt != createdAt {
			t.Fatalf("expected createdAt %q kept, got %q", createdAt, set.Activity.CreatedAt)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	set, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, err := Encode(set)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode encoded: %v", err)
	}
	if again.ID != set.ID || again.Questions[0].Template != set.Questions[0].Template || again.Activity.Coins != 2 {
		t.Fatalf("round trip mismatch: %+v", again)
	}
}
