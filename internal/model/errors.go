package model

import "errors"

// Business-state errors surfaced to callers as typed outcomes. None of these
// are retried internally.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("record not found")
	ErrNotEligible       = errors.New("student is not eligible for this test")
	ErrNotActive         = errors.New("test is not active")
	ErrAlreadyCompleted  = errors.New("attempt already completed")
	ErrDomainNotInTest   = errors.New("domain is not part of this test")
	ErrInvalidSection    = errors.New("section is not part of this test")
	ErrExamExpired       = errors.New("exam time has expired")
	ErrMarkAlreadyExists = errors.New("answer already has a mark")
	ErrNoExistingMark    = errors.New("answer has no mark to edit")
	ErrNotStarted        = errors.New("attempt was never started")
)
