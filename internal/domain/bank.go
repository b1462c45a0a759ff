package domain

import (
	"fmt"
	"strings"
)

// ValidateBank checks every question against the bank schema.
func ValidateBank(bank Bank) error {
	seen := make(map[int]struct{}, len(bank.Questions))
	for i, q := range bank.Questions {
		if q.ID <= 0 {
			return fmt.Errorf("%w: question at position %d has non-positive id %d", ErrInvalidBank, i, q.ID)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidBank, q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := ValidateQuestion(q); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuestion checks a single question record.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question %d has empty prompt", ErrInvalidBank, q.ID)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w: question %d has %d options, want %d", ErrInvalidBank, q.ID, len(q.Options), OptionCount)
	}
	distinct := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := distinct[opt]; dup {
			return fmt.Errorf("%w: question %d repeats option %q", ErrInvalidBank, q.ID, opt)
		}
		distinct[opt] = struct{}{}
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidBank, q.ID, q.Correct)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("%w: question %d has unknown difficulty %q", ErrInvalidBank, q.ID, q.Difficulty)
	}
	if !q.Category.Valid() {
		return fmt.Errorf("%w: question %d has unknown category %q", ErrInvalidBank, q.ID, q.Category)
	}
	return nil
}
