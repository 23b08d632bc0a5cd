package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	// ErrUserNotFound aborts a gamification transaction for an unknown user.
	// It never leaves GamificationService.
	ErrUserNotFound = errors.New("gamification user not found")
)
