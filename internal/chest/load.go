package chest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alphachest/internal/domain"
)

// load reads every chest file in the data directory. Files named after a
// UUID are loaded first so that migrating a legacy file can tell whether the
// player already owns a chest.
func (s *Store) load(ctx context.Context) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Warn("Couldn't create chest directory", zap.String("dir", s.dir), zap.Error(err))
	}

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("Couldn't list chest directory", zap.String("dir", s.dir), zap.Error(err))
	}

	var canonical, legacy []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, Suffix) || len(name) == len(Suffix) {
			continue
		}
		if _, err := uuid.Parse(stem(name)); err == nil {
			canonical = append(canonical, name)
		} else {
			legacy = append(legacy, name)
		}
	}

	for _, name := range canonical {
		s.loadFile(ctx, name, s.loadCanonical)
	}
	for _, name := range legacy {
		s.loadFile(ctx, name, s.loadLegacy)
	}

	s.logger.Info("Loaded chests", zap.Int("count", len(s.chests)))
}

// loadFile runs fn for one file and contains any failure to that file.
func (s *Store) loadFile(ctx context.Context, name string, fn func(context.Context, string) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("Couldn't load chest file",
				zap.String("file", name), zap.Any("panic", r))
		}
	}()

	s.logger.Debug("Attempting to load chest", zap.String("file", name))
	if err := fn(ctx, name); err != nil {
		s.logger.Warn("Couldn't load chest file", zap.String("file", name), zap.Error(err))
	}
}

func (s *Store) loadCanonical(_ context.Context, name string) error {
	id, err := uuid.Parse(stem(name))
	if err != nil {
		return err
	}
	inv, err := s.codec.Deserialize(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}

	key := id.String()
	if key == stem(name) {
		s.chests[key] = live(inv)
		return nil
	}
	s.migrate(name, key, inv)
	return nil
}

func (s *Store) loadLegacy(ctx context.Context, name string) error {
	playerName := stem(name)
	s.logger.Info("Attempting to convert chest to uuid", zap.String("file", name))

	var (
		key   string
		found bool
	)
	if s.resolver != nil {
		player, ok, err := s.resolver.LookupName(ctx, playerName)
		if err != nil {
			s.logger.Warn("Player lookup failed", zap.String("name", playerName), zap.Error(err))
		}
		if err == nil && ok {
			key, found = player.ID.String(), true
		}
	}

	inv, err := s.codec.Deserialize(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}

	if !found {
		s.logger.Warn("Loading non-UUID chest", zap.String("file", name))
		s.chests[playerName] = live(inv)
		return nil
	}
	s.migrate(name, key, inv)
	return nil
}

// migrate stores inv under key and moves its file from name to the key's file
// name. The old file is removed only once the new one has been written.
// When that write fails the old file is removed by the first Save that writes
// key. When key already has a chest, the two are never merged: inv stays
// under its old stem.
func (s *Store) migrate(name, key string, inv *domain.Inventory) {
	oldPath := filepath.Join(s.dir, name)
	newPath := s.path(key)

	if _, exists := s.chests[key]; exists || fileExists(newPath) {
		s.logger.Warn("Chest already exists for player, keeping unconverted chest",
			zap.String("file", name), zap.String("uuid", key))
		s.chests[stem(name)] = live(inv)
		return
	}

	s.chests[key] = live(inv)
	if err := s.codec.Serialize(inv, newPath); err != nil {
		s.logger.Warn("Couldn't write converted chest, keeping old file until next save",
			zap.String("file", name), zap.String("uuid", key), zap.Error(err))
		s.legacy[key] = name
		return
	}
	if err := os.Remove(oldPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Couldn't delete converted chest file",
			zap.String("file", name), zap.Error(err))
		return
	}
	s.logger.Info("Converted chest to uuid", zap.String("file", name), zap.String("uuid", key))
}

func stem(name string) string {
	return strings.TrimSuffix(name, Suffix)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
