package app_test

import (
	"testing"

	"blockchainiq/internal/app"
	"blockchainiq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answersWith answers the first n questions correctly and the rest incorrectly.
func answersWith(qs []domain.Question, n int) []int {
	answers := make([]int, len(qs))
	for i, q := range qs {
		if i < n {
			answers[i] = q.Correct
		} else {
			answers[i] = wrong(q.Correct)
		}
	}
	return answers
}

func TestScore(t *testing.T) {
	qs15 := makeBank(15).Questions
	qs8 := makeBank(8).Questions

	cases := []struct {
		name    string
		qs      []domain.Question
		correct int
		want    int
	}{
		{"all correct", qs15, 15, 100},
		{"none correct", qs15, 0, 0},
		{"twelve of fifteen", qs15, 12, 80},
		{"eleven of fifteen", qs15, 11, 73},
		{"one of fifteen", qs15, 1, 7},
		{"half rounds up", qs8, 1, 13},
		{"three of eight", qs8, 3, 38},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := app.Score(tc.qs, answersWith(tc.qs, tc.correct))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	qs := makeBank(3).Questions
	_, err := app.Score(qs, []int{0, 1})
	assert.ErrorIs(t, err, domain.ErrLengthMismatch)
}

func TestScoreEmpty(t *testing.T) {
	_, err := app.Score(nil, nil)
	assert.ErrorIs(t, err, domain.ErrNoQuestions)
}

func TestEvaluatePassThreshold(t *testing.T) {
	qs15 := makeBank(15).Questions
	res, err := app.Evaluate(qs15, answersWith(qs15, 12))
	require.NoError(t, err)
	assert.Equal(t, 80, res.ScorePercent)
	assert.True(t, res.Passed)

	// 79% needs a 100-question quiz: 79 of 100.
	qs100 := makeBank(100).Questions
	res, err = app.Evaluate(qs100, answersWith(qs100, 79))
	require.NoError(t, err)
	assert.Equal(t, 79, res.ScorePercent)
	assert.False(t, res.Passed)
	assert.Equal(t, 79, res.CorrectCount)
	assert.Equal(t, 100, res.Total)
}
