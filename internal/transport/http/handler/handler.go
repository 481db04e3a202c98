package handler

import (
	"context"
	"regexp"

	"github.com/google/uuid"
)

// Check is a named readiness probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Handler contains the health and readiness handlers and their dependencies.
type Handler struct {
	version string
	checks  []Check
}

// New creates a new handler.
func New(version string, checks ...Check) *Handler {
	return &Handler{version: version, checks: checks}
}

var playerName = regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`)

// validIdentity accepts a UUID or a player display name.
func validIdentity(s string) bool {
	if playerName.MatchString(s) {
		return true
	}
	_, err := uuid.Parse(s)
	return err == nil
}
