package app_test

import (
	"fmt"

	"blockchainiq/internal/domain"
)

// makeBank builds n valid questions; question i has correct option i%4.
func makeBank(n int) domain.Bank {
	qs := make([]domain.Question, n)
	for i := range qs {
		id := i + 1
		qs[i] = domain.Question{
			ID:         id,
			Prompt:     fmt.Sprintf("Question %d?", id),
			Options:    []string{"a", "b", "c", "d"},
			Correct:    id % domain.OptionCount,
			Difficulty: domain.Difficulties[id%len(domain.Difficulties)],
			Category:   domain.Categories[id%len(domain.Categories)],
		}
	}
	return domain.Bank{ID: "test", Questions: qs}
}

func wrong(correct int) int {
	return (correct + 1) % domain.OptionCount
}
