// Package chest owns the in-memory set of virtual chests and their files on
// disk. It resolves caller-supplied identities to canonical keys, creates
// chests lazily, defers file deletion to the next save and migrates chest
// files named after display names to UUID-named files on load.
package chest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"alphachest/internal/domain"
)

// Suffix is appended to a chest key to form its file name.
const Suffix = ".chest.yml"

// Codec reads and writes a single chest file.
type Codec interface {
	Deserialize(path string) (*domain.Inventory, error)
	Serialize(inv *domain.Inventory, path string) error
}

// Resolver maps a display name to a known player. Matching is
// case-insensitive; ok is false when no player matches.
type Resolver interface {
	LookupName(ctx context.Context, name string) (player domain.Player, ok bool, err error)
}

// entry is either a live chest or a tombstone awaiting file deletion.
type entry struct {
	inv        *domain.Inventory
	tombstoned bool
}

func live(inv *domain.Inventory) entry { return entry{inv: inv} }

var tombstone = entry{tombstoned: true}

// Store holds one chest per identity. All methods are safe for concurrent use;
// a single mutex guards the map and is held across Save.
type Store struct {
	dir      string
	codec    Codec
	resolver Resolver
	logger   *zap.Logger

	mu     sync.Mutex
	chests map[string]entry
	// legacy maps a canonical key to the name-based file it was converted
	// from when writing the converted file failed on load.
	legacy map[string]string
}

// NewStore creates a Store rooted at dir and loads every chest file found
// there. It never fails: unreadable directories and files are logged and
// treated as absent.
func NewStore(ctx context.Context, dir string, codec Codec, resolver Resolver, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		dir:      dir,
		codec:    codec,
		resolver: resolver,
		logger:   logger,
		chests:   make(map[string]entry),
		legacy:   make(map[string]string),
	}
	s.load(ctx)
	return s
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// GetChest returns the chest for identity, creating an empty one when none
// exists or the existing one is tombstoned. The returned inventory is shared
// with the store; mutating it mutates the chest that will be saved.
func (s *Store) GetChest(ctx context.Context, identity string) *domain.Inventory {
	_, inv := s.GetChestKey(ctx, identity)
	return inv
}

// GetChestKey is GetChest that also returns the key identity resolved to.
func (s *Store) GetChestKey(ctx context.Context, identity string) (string, *domain.Inventory) {
	key := s.ResolveKey(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.chests[key]; ok && !e.tombstoned {
		return key, e.inv
	}
	inv := domain.NewInventory(domain.DefaultSize)
	s.chests[key] = live(inv)
	return key, inv
}

// RemoveChest tombstones the chest for identity. The file is deleted on the
// next Save.
func (s *Store) RemoveChest(ctx context.Context, identity string) {
	s.RemoveChestKey(ctx, identity)
}

// RemoveChestKey is RemoveChest that also returns the key identity resolved to.
func (s *Store) RemoveChestKey(ctx context.Context, identity string) string {
	key := s.ResolveKey(ctx, identity)

	s.mu.Lock()
	s.chests[key] = tombstone
	s.mu.Unlock()
	return key
}

// ChestCount returns the number of map entries, pending tombstones included.
func (s *Store) ChestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chests)
}

// Has reports whether identity currently has a live chest in memory.
func (s *Store) Has(ctx context.Context, identity string) bool {
	key := s.ResolveKey(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.chests[key]
	return ok && !e.tombstoned
}

// ResolveKey returns the canonical UUID string of the player whose name
// matches identity, or identity unchanged when the directory has no match.
func (s *Store) ResolveKey(ctx context.Context, identity string) string {
	if s.resolver == nil {
		return identity
	}
	player, ok, err := s.resolver.LookupName(ctx, identity)
	if err != nil {
		s.logger.Warn("Player lookup failed, using identity as key",
			zap.String("identity", identity), zap.Error(err))
		return identity
	}
	if !ok {
		return identity
	}
	return player.ID.String()
}

// Save writes every live chest and deletes the files of tombstoned ones. It
// returns the number of chests written. Failed writes are logged and retried
// on the next call.
func (s *Store) Save() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Warn("Couldn't create chest directory", zap.String("dir", s.dir), zap.Error(err))
	}

	keys := make([]string, 0, len(s.chests))
	for key := range s.chests {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	saved := 0
	for _, key := range keys {
		e := s.chests[key]
		if !validKey(key) {
			s.logger.Warn("Skipping chest with unusable key", zap.String("key", key))
			if e.tombstoned {
				delete(s.chests, key)
			}
			continue
		}
		path := s.path(key)

		if e.tombstoned {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("Couldn't delete chest file",
					zap.String("file", filepath.Base(path)), zap.Error(err))
				continue
			}
			delete(s.chests, key)
			s.dropLegacy(key)
			continue
		}

		if err := s.codec.Serialize(e.inv, path); err != nil {
			s.logger.Warn("Couldn't save chest file",
				zap.String("file", filepath.Base(path)), zap.Error(err))
			continue
		}
		saved++
		s.dropLegacy(key)
	}
	return saved
}

// dropLegacy removes the name-based file left behind by a conversion that
// could not be written on load, once key's own file has been written or
// deleted.
func (s *Store) dropLegacy(key string) {
	name, ok := s.legacy[key]
	if !ok {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Couldn't delete converted chest file", zap.String("file", name), zap.Error(err))
		return
	}
	delete(s.legacy, key)
	s.logger.Info("Converted chest to uuid", zap.String("file", name), zap.String("uuid", key))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+Suffix)
}

// validKey reports whether key can be used as a file name stem inside dir.
func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && !strings.ContainsRune(key, 0)
}
