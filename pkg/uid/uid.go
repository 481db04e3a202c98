// Package uid generates opaque unique identifiers.
package uid

import "github.com/google/uuid"

// New returns a random UUID string.
func New() string {
	return uuid.NewString()
}
