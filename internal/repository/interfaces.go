package repository

import (
	"context"

	"alphachest/internal/domain"
)

// PlayerLookup finds known players by display name.
type PlayerLookup interface {
	// FindByName returns every player whose name equals name, ignoring case.
	// The order of multiple matches is unspecified.
	FindByName(ctx context.Context, name string) ([]domain.Player, error)
}

// PlayerStore is a PlayerLookup that can also record players.
type PlayerStore interface {
	PlayerLookup
	UpsertPlayer(ctx context.Context, p domain.Player) error
	ListPlayers(ctx context.Context) ([]domain.Player, error)
}
