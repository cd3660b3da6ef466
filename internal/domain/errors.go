package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every service failure wraps exactly one of these so callers
// can classify it with errors.Is.
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("ledger store unavailable")
	ErrNoData           = errors.New("no data")
)

var (
	ErrClientNotFound     = fmt.Errorf("client %w", ErrNotFound)
	ErrNoScheduledSession = fmt.Errorf("scheduled session %w", ErrNotFound)
	ErrNameAlreadyExists  = fmt.Errorf("client name already exists: %w", ErrConflict)
	ErrClientInactive     = fmt.Errorf("client is no longer active: %w", ErrConflict)
	ErrInvalidAmount      = fmt.Errorf("amount must be a positive number: %w", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("date/time not recognized: %w", ErrValidation)
)
