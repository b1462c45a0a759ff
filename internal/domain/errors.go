package domain

import "errors"

var (
	// ErrInsufficientBankSize is returned when the bank holds fewer questions than a session needs.
	ErrInsufficientBankSize = errors.New("question bank smaller than sample size")
	// ErrInvalidName indicates an empty or over-long participant name.
	ErrInvalidName = errors.New("invalid participant name")
	// ErrLengthMismatch signals answers and questions of different lengths reached the scorer.
	ErrLengthMismatch = errors.New("answers and questions length mismatch")
	// ErrNoQuestions is returned when scoring an empty selection.
	ErrNoQuestions = errors.New("no questions to score")
	// ErrOptionOutOfRange indicates a submitted option index that does not exist on the current question.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrInvalidTransition is returned when an operation is not valid in the current session state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank indicates the question bank violates its schema.
	ErrInvalidBank = errors.New("invalid question bank")
	// ErrNotCompleted is returned when result-only views are requested mid-quiz.
	ErrNotCompleted = errors.New("quiz not completed")
	// ErrCorruptSession indicates stored session state that violates session invariants.
	ErrCorruptSession = errors.New("corrupt session state")
)
