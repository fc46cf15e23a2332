package collector

import (
	"errors"
	"reflect"
	"testing"

	"vocab-quiz-service/internal/domain"
)

func TestPlaceFillsLeftmostEmptyBlank(t *testing.T) {
	c := New(2, []string{"cat", "dog", "fox"})

	if idx, err := c.Place("dog"); err != nil || idx != 0 {
		t.Fatalf("expected blank 0, got %d err=%v", idx, err)
	}
	if idx, err := c.Place("cat"); err != nil || idx != 1 {
		t.Fatalf("expected blank 1, got %d err=%v", idx, err)
	}
	if !c.IsComplete() {
		t.Fatalf("expected complete after filling both blanks")
	}

	if err := c.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if idx, err := c.Place("fox"); err != nil || idx != 0 {
		t.Fatalf("expected refilled blank 0, got %d err=%v", idx, err)
	}
	if got := c.Answers(); !reflect.DeepEqual(got, []string{"fox", "cat"}) {
		t.Fatalf("unexpected answers %v", got)
	}
}

func TestPlaceSameOptionTwiceIsRejected(t *testing.T) {
	c := New(2, []string{"cat", "dog"})
	if _, err := c.Place("cat"); err != nil {
		t.Fatalf("place: %v", err)
	}
	before := c.Answers()

	if _, err := c.Place("cat"); !errors.Is(err, domain.ErrAlreadyUsed) {
		t.Fatalf("expected ErrAlreadyUsed, got %v", err)
	}
	if !reflect.DeepEqual(before, c.Answers()) {
		t.Fatalf("expected assignment unchanged, got %v", c.Answers())
	}
}

func TestPlaceWithoutEmptySlot(t *testing.T) {
	c := New(1, []string{"cat", "dog"})
	_, _ = c.Place("cat")
	if _, err := c.Place("dog"); !errors.Is(err, domain.ErrNoEmptySlot) {
		t.Fatalf("expected ErrNoEmptySlot, got %v", err)
	}
	if c.Used("dog") {
		t.Fatalf("rejected option must not be marked used")
	}
}

func TestRemoveEmptyBlankIsNoop(t *testing.T) {
	c := New(2, []string{"cat"})
	if err := c.Remove(1); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if got := c.Answers(); !reflect.DeepEqual(got, []string{"", ""}) {
		t.Fatalf("unexpected answers %v", got)
	}
	if err := c.Remove(2); !errors.Is(err, domain.ErrBlankOutOfRange) {
		t.Fatalf("expected ErrBlankOutOfRange, got %v", err)
	}
}

func TestRemoveFreesOptionForReuse(t *testing.T) {
	c := New(2, []string{"cat", "dog"})
	_, _ = c.Place("cat")
	_ = c.Remove(0)
	if c.Used("cat") {
		t.Fatalf("expected cat freed")
	}
	if _, err := c.Place("cat"); err != nil {
		t.Fatalf("expected cat placeable again, got %v", err)
	}
}

func TestUnknownOptionRejected(t *testing.T) {
	c := New(1, []string{"cat"})
	if _, err := c.Place("zebra"); !errors.Is(err, domain.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestZeroBlanksIsComplete(t *testing.T) {
	c := New(0, []string{"cat"})
	if !c.IsComplete() {
		t.Fatalf("expected sentence without blanks to be complete")
	}
	if _, err := c.Place("cat"); !errors.Is(err, domain.ErrNoEmptySlot) {
		t.Fatalf("expected ErrNoEmptySlot, got %v", err)
	}
}
