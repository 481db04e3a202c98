package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alphachest/internal/chest"
	"alphachest/internal/domain"
)

// Permissions that override the configured death policy, strongest first.
const (
	PermKeepOnDeath  = "alphachest.keepOnDeath"
	PermDropOnDeath  = "alphachest.dropOnDeath"
	PermClearOnDeath = "alphachest.clearOnDeath"
)

// PlayerRegistry records players reported by the host.
type PlayerRegistry interface {
	Remember(ctx context.Context, p domain.Player) error
}

// DeathPolicy is the configured default for what happens to a chest when
// its owner dies.
type DeathPolicy struct {
	ClearOnDeath bool
	DropOnDeath  bool
}

// DeathOutcome describes what HandleDeath did.
type DeathOutcome struct {
	Key     string        `json:"key"`
	Cleared bool          `json:"cleared"`
	Drops   []domain.Item `json:"drops"`
}

// ChestService applies host policies on top of the chest store.
type ChestService struct {
	store   *chest.Store
	players PlayerRegistry
	policy  DeathPolicy
	logger  *zap.Logger
}

// NewChestService creates a new chest service. players may be nil.
func NewChestService(store *chest.Store, players PlayerRegistry, policy DeathPolicy, logger *zap.Logger) *ChestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChestService{
		store:   store,
		players: players,
		policy:  policy,
		logger:  logger,
	}
}

// Open returns the resolved key and chest for identity.
func (s *ChestService) Open(ctx context.Context, identity string) (string, *domain.Inventory) {
	return s.store.GetChestKey(ctx, identity)
}

// SetSlot puts item into one slot of identity's chest.
func (s *ChestService) SetSlot(ctx context.Context, identity string, slot int, item *domain.Item) error {
	return s.store.GetChest(ctx, identity).SetItem(slot, item)
}

// Clear schedules identity's chest for deletion and returns the resolved key.
func (s *ChestService) Clear(ctx context.Context, identity string) string {
	key := s.store.RemoveChestKey(ctx, identity)
	s.logger.Info("Cleared chest", zap.String("identity", identity), zap.String("key", key))
	return key
}

// SaveAll writes every chest and returns how many were written.
func (s *ChestService) SaveAll() int {
	return s.store.Save()
}

// Count returns the number of chests in memory, pending deletions included.
func (s *ChestService) Count() int {
	return s.store.ChestCount()
}

// RecordPlayer remembers a player seen by the host so later name lookups
// resolve to its UUID.
func (s *ChestService) RecordPlayer(ctx context.Context, p domain.Player) error {
	if s.players == nil {
		return nil
	}
	return s.players.Remember(ctx, p)
}

// HandleDeath applies the death policy for the player with the given
// permissions. Dropped items are returned to the caller to place in the
// world; a cleared chest is removed on the next save.
func (s *ChestService) HandleDeath(ctx context.Context, playerID uuid.UUID, permissions []string) DeathOutcome {
	drop, remove := s.deathActions(permissions)
	key := playerID.String()
	out := DeathOutcome{Key: key, Drops: []domain.Item{}}

	if drop {
		for _, item := range s.store.GetChest(ctx, key).Contents() {
			if item != nil {
				out.Drops = append(out.Drops, *item)
			}
		}
	}
	if remove {
		s.store.RemoveChest(ctx, key)
		out.Cleared = true
	}

	if drop || remove {
		s.logger.Info("Handled player death",
			zap.String("uuid", key), zap.Bool("cleared", remove), zap.Int("dropped", len(out.Drops)))
	}
	return out
}

func (s *ChestService) deathActions(permissions []string) (drop, remove bool) {
	switch {
	case slices.Contains(permissions, PermKeepOnDeath):
		return false, false
	case slices.Contains(permissions, PermDropOnDeath):
		return true, true
	case slices.Contains(permissions, PermClearOnDeath):
		return false, true
	}
	return s.policy.DropOnDeath, s.policy.DropOnDeath || s.policy.ClearOnDeath
}
