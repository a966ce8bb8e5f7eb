package internal

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNotConfigured marks calls into a collaborator whose credentials were
	// missing at startup.
	ErrNotConfigured = errors.New("not configured")
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// GenerationError reports a failure of the generative pipeline or of the
// post-processing of its output.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

func NewGenerationError(stage string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Err: err}
}
