package util

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailRegistered        = errors.New("username or email already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrQuizNotFound           = errors.New("quiz not found")
	ErrEmptyQuiz              = errors.New("quiz has no questions")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrConflictRetryExhausted = errors.New("aggregate update conflict, retries exhausted")
)
