package repository

import "errors"

var (
	ErrDBNotReady = errors.New("database not initialized")
	// ErrDuplicateAward is returned when the (user, badge) pair already exists.
	ErrDuplicateAward = errors.New("badge already awarded")
	// ErrDuplicateNotification is returned when the user was already notified of the badge.
	ErrDuplicateNotification = errors.New("badge notification already exists")
)
