// Package collector tracks which options fill which blanks of the current question.
package collector

import "vocab-quiz-service/internal/domain"

// Collector maps blank index to option. An option occupies at most one blank;
// the used set is exactly the set of non-empty slots.
type Collector struct {
	slots   []string
	options map[string]struct{}
	used    map[string]int
}

// New returns a collector with blanks empty slots accepting the given options.
func New(blanks int, options []string) *Collector {
	if blanks < 0 {
		blanks = 0
	}
	c := &Collector{
		slots:   make([]string, blanks),
		options: make(map[string]struct{}, len(options)),
		used:    make(map[string]int, blanks),
	}
	for _, opt := range options {
		c.options[opt] = struct{}{}
	}
	return c
}

// Place puts option into the leftmost empty blank and returns its index.
func (c *Collector) Place(option string) (int, error) {
	if _, ok := c.options[option]; !ok || option == "" {
		return -1, domain.ErrUnknownOption
	}
	if _, ok := c.used[option]; ok {
		return -1, domain.ErrAlreadyUsed
	}
	for i, slot := range c.slots {
		if slot == "" {
			c.slots[i] = option
			c.used[option] = i
			return i, nil
		}
	}
	return -1, domain.ErrNoEmptySlot
}

// Remove clears the blank at index and frees its option. Clearing an empty
// blank is a no-op.
func (c *Collector) Remove(index int) error {
	if index < 0 || index >= len(c.slots) {
		return domain.ErrBlankOutOfRange
	}
	option := c.slots[index]
	if option == "" {
		return nil
	}
	c.slots[index] = ""
	delete(c.used, option)
	return nil
}

// IsComplete reports whether every blank holds an option.
func (c *Collector) IsComplete() bool {
	for _, slot := range c.slots {
		if slot == "" {
			return false
		}
	}
	return true
}

// Used reports whether option currently occupies a blank.
func (c *Collector) Used(option string) bool {
	_, ok := c.used[option]
	return ok
}

// Answers returns a copy of the slots; unfilled blanks are empty strings.
func (c *Collector) Answers() []string {
	out := make([]string, len(c.slots))
	copy(out, c.slots)
	return out
}

// Blanks returns the number of slots.
func (c *Collector) Blanks() int {
	return len(c.slots)
}
