package app

import (
	"fmt"

	"blockchainiq/internal/domain"
)

// PassThreshold is the minimum score percent for a passed result.
const PassThreshold = 80

// Score returns the percentage of answers matching each question's correct option.
// Halves round up: 1 of 8 correct scores 13.
func Score(questions []domain.Question, answers []int) (int, error) {
	correct, err := countCorrect(questions, answers)
	if err != nil {
		return 0, err
	}
	return percent(correct, len(questions)), nil
}

// Evaluate computes the full result of a completed answer sequence.
func Evaluate(questions []domain.Question, answers []int) (domain.Result, error) {
	correct, err := countCorrect(questions, answers)
	if err != nil {
		return domain.Result{}, err
	}
	score := percent(correct, len(questions))
	return domain.Result{
		CorrectCount: correct,
		Total:        len(questions),
		ScorePercent: score,
		Passed:       score >= PassThreshold,
	}, nil
}

func countCorrect(questions []domain.Question, answers []int) (int, error) {
	if len(answers) != len(questions) {
		return 0, fmt.Errorf("%w: %d answers for %d questions", domain.ErrLengthMismatch, len(answers), len(questions))
	}
	if len(questions) == 0 {
		return 0, domain.ErrNoQuestions
	}
	correct := 0
	for i, q := range questions {
		if answers[i] == q.Correct {
			correct++
		}
	}
	return correct, nil
}

// percent is round(100*correct/total) with halves rounded up, in integer arithmetic.
func percent(correct, total int) int {
	return (200*correct + total) / (2 * total)
}
