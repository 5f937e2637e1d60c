package service

import (
	"errors"
	"strings"
)

// Validation errors. Mutations that fail validation leave state unchanged.
var (
	ErrInvalidDuration   = errors.New("invalid duration: must be zero or more seconds")
	ErrInvalidClockTime  = errors.New("invalid time: hour must be 0-23 and minute 0-59")
	ErrEmptyMemo         = errors.New("memo needs a title or content")
	ErrInvalidMemoColor  = errors.New("invalid memo color: not in palette")
	ErrInvalidClockMode  = errors.New("invalid clock mode: must be analog or digital")
	ErrInvalidTheme      = errors.New("invalid theme: must be light or dark")
	ErrInvalidPermission = errors.New("invalid notification permission: must be granted, denied or default")
)

func validClockTime(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

func nameOr(name, fallback string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return fallback
}

var validationErrors = []error{
	ErrInvalidDuration,
	ErrInvalidClockTime,
	ErrEmptyMemo,
	ErrInvalidMemoColor,
	ErrInvalidClockMode,
	ErrInvalidTheme,
	ErrInvalidPermission,
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
