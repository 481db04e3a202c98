// Package directory resolves display names to known players. It is the
// identity resolver behind the chest store.
package directory

import (
	"context"

	"go.uber.org/zap"

	"alphachest/internal/domain"
	"alphachest/internal/repository"
)

// PlayerCache is a name -> player cache consulted before any repository.
type PlayerCache interface {
	Get(ctx context.Context, name string) (*domain.Player, error)
	Set(ctx context.Context, p domain.Player) error
}

// Directory looks names up in a local player store, then in optional
// upstream sources, in order. The first source with a match wins.
type Directory struct {
	local    repository.PlayerStore
	upstream []repository.PlayerLookup
	cache    PlayerCache
	logger   *zap.Logger
}

// Option configures a Directory.
type Option func(*Directory)

// WithUpstream appends a read-only source consulted after the local store.
func WithUpstream(lookup repository.PlayerLookup) Option {
	return func(d *Directory) {
		if lookup != nil {
			d.upstream = append(d.upstream, lookup)
		}
	}
}

// WithCache puts cache in front of every lookup.
func WithCache(cache PlayerCache) Option {
	return func(d *Directory) {
		d.cache = cache
	}
}

// New creates a Directory backed by local.
func New(local repository.PlayerStore, logger *zap.Logger, opts ...Option) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Directory{local: local, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// LookupName returns the player whose display name equals name ignoring
// case. When a source reports several players with that name the first one
// it returned is used and a warning is logged; no tie-break is applied.
// An error is returned only when no source matched and at least one failed.
func (d *Directory) LookupName(ctx context.Context, name string) (domain.Player, bool, error) {
	if name == "" {
		return domain.Player{}, false, nil
	}

	if d.cache != nil {
		p, err := d.cache.Get(ctx, name)
		if err != nil {
			d.logger.Debug("Player cache read failed", zap.String("name", name), zap.Error(err))
		} else if p != nil {
			return *p, true, nil
		}
	}

	var lastErr error
	for _, src := range d.sources() {
		players, err := src.FindByName(ctx, name)
		if err != nil {
			d.logger.Warn("Player source lookup failed", zap.String("name", name), zap.Error(err))
			lastErr = err
			continue
		}
		if len(players) == 0 {
			continue
		}
		if len(players) > 1 {
			d.logger.Warn("Ambiguous player name, using first match",
				zap.String("name", name),
				zap.Int("matches", len(players)),
				zap.Stringer("uuid", players[0].ID))
		}

		p := players[0]
		d.cacheSet(ctx, p)
		return p, true, nil
	}
	return domain.Player{}, false, lastErr
}

// Remember records a player seen by the host and refreshes the cache.
func (d *Directory) Remember(ctx context.Context, p domain.Player) error {
	if d.local != nil {
		if err := d.local.UpsertPlayer(ctx, p); err != nil {
			return err
		}
	}
	d.cacheSet(ctx, p)
	return nil
}

// Players lists every player in the local store.
func (d *Directory) Players(ctx context.Context) ([]domain.Player, error) {
	if d.local == nil {
		return nil, nil
	}
	return d.local.ListPlayers(ctx)
}

func (d *Directory) sources() []repository.PlayerLookup {
	out := make([]repository.PlayerLookup, 0, len(d.upstream)+1)
	if d.local != nil {
		out = append(out, d.local)
	}
	return append(out, d.upstream...)
}

func (d *Directory) cacheSet(ctx context.Context, p domain.Player) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Set(ctx, p); err != nil {
		d.logger.Debug("Player cache write failed", zap.Stringer("uuid", p.ID), zap.Error(err))
	}
}
