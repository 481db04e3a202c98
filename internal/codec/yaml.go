// Package codec reads and writes single chest files.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"alphachest/internal/domain"
)

// Sentinel errors for codec operations.
var (
	ErrFormat = errors.New("malformed chest file")
	ErrIO     = errors.New("chest file i/o failed")
)

// chestFile is the on-disk layout of one chest.
type chestFile struct {
	Size  int                 `yaml:"size"`
	Items map[int]domain.Item `yaml:"items,omitempty"`
}

// YAMLCodec stores one chest per YAML file.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML chest codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Deserialize reads the chest stored at path.
func (YAMLCodec) Deserialize(path string) (*domain.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrFormat, path)
	}

	var cf chestFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	if cf.Size < 0 {
		return nil, fmt.Errorf("%w: %s: negative size %d", ErrFormat, path, cf.Size)
	}

	inv := domain.NewInventory(cf.Size)
	for slot, item := range cf.Items {
		if err := inv.SetItem(slot, &item); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
		}
	}
	return inv, nil
}

// Serialize writes inv to path. The file is written to a temporary name in
// the same directory and renamed into place, so a failed write never leaves a
// truncated chest behind.
func (YAMLCodec) Serialize(inv *domain.Inventory, path string) error {
	cf := chestFile{
		Size:  inv.Size(),
		Items: inv.Occupied(),
	}
	data, err := yaml.Marshal(&cf)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrIO, path, err)
	}
	return nil
}
