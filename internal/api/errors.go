package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthExpired marks a 401 that survived the single refresh attempt.
	ErrAuthExpired  = errors.New("authentication expired")
	ErrFileTooLarge = errors.New("file exceeds the 5 MB upload limit")
	ErrFileType     = errors.New("file type not accepted")
)

// Error is a failed backend response, decoded from the {error:{message}}
// envelope when the server provided one.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (%d)", e.StatusCode)
}

func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrAuthExpired
	}
	return nil
}

// UserMessage returns the server-provided message when there is one, else a
// generic fallback for transient notices.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrAuthExpired) {
		return "session expired, please log in again"
	}
	return "request failed, please try again"
}
