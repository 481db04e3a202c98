package codec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphachest/internal/codec"
	"alphachest/internal/domain"
)

func TestYAMLCodec_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.chest.yml")
	c := codec.NewYAMLCodec()

	inv := domain.NewInventory(domain.DefaultSize)
	require.NoError(t, inv.SetItem(0, &domain.Item{Type: "DIAMOND", Amount: 3}))
	require.NoError(t, inv.SetItem(53, &domain.Item{Type: "WRITTEN_BOOK", Amount: 1, Name: "Notes", Lore: []string{"page one"}}))

	require.NoError(t, c.Serialize(inv, path))

	got, err := c.Deserialize(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSize, got.Size())
	assert.Equal(t, inv.Occupied(), got.Occupied())
}

func TestYAMLCodec_DeterministicOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.chest.yml")
	c := codec.NewYAMLCodec()

	inv := domain.NewInventory(domain.DefaultSize)
	for slot := 0; slot < 20; slot += 3 {
		require.NoError(t, inv.SetItem(slot, &domain.Item{Type: "STONE", Amount: slot + 1}))
	}

	require.NoError(t, c.Serialize(inv, path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, c.Serialize(inv, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestYAMLCodec_Deserialize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "   \n", codec.ErrFormat},
		{"not yaml", "size: [54\nitems: {", codec.ErrFormat},
		{"negative size", "size: -1\n", codec.ErrFormat},
		{"slot out of range", "size: 9\nitems:\n  12:\n    type: STONE\n    amount: 1\n", codec.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.chest.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := codec.NewYAMLCodec().Deserialize(path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := codec.NewYAMLCodec().Deserialize(filepath.Join(t.TempDir(), "nope.chest.yml"))
		assert.ErrorIs(t, err, codec.ErrIO)
	})
}

func TestYAMLCodec_Deserialize_MissingSizeUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.chest.yml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  2:\n    type: DIRT\n    amount: 8\n"), 0o644))

	inv, err := codec.NewYAMLCodec().Deserialize(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSize, inv.Size())
	assert.Equal(t, "DIRT", inv.Item(2).Type)
}

func TestYAMLCodec_Serialize_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "a.chest.yml")

	err := codec.NewYAMLCodec().Serialize(domain.NewInventory(9), path)
	assert.ErrorIs(t, err, codec.ErrIO)
}

func TestYAMLCodec_Serialize_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c := codec.NewYAMLCodec()

	require.NoError(t, c.Serialize(domain.NewInventory(9), filepath.Join(dir, "a.chest.yml")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.chest.yml", entries[0].Name())
}
