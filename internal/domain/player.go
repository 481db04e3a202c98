package domain

import (
	"time"

	"github.com/google/uuid"
)

// Player is an identity known to the player directory.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	LastSeen time.Time `json:"last_seen"`
}

// Common errors
var (
	ErrNotFound        = &CustomError{Code: "NOT_FOUND", Message: "Resource not found"}
	ErrInvalidIdentity = &CustomError{Code: "INVALID_IDENTITY", Message: "Identity must be a UUID or a player name"}
)

// CustomError represents a custom error.
type CustomError struct {
	Code    string
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}
