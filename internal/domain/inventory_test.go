package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphachest/internal/domain"
)

func TestNewInventory_DefaultSize(t *testing.T) {
	assert.Equal(t, domain.DefaultSize, domain.NewInventory(0).Size())
	assert.Equal(t, domain.DefaultSize, domain.NewInventory(-3).Size())
	assert.Equal(t, 27, domain.NewInventory(27).Size())
}

func TestInventory_SetItem(t *testing.T) {
	inv := domain.NewInventory(9)

	require.NoError(t, inv.SetItem(3, &domain.Item{Type: "STONE", Amount: 64}))
	got := inv.Item(3)
	require.NotNil(t, got)
	assert.Equal(t, "STONE", got.Type)
	assert.Equal(t, 1, inv.Len())

	t.Run("out of range", func(t *testing.T) {
		err := inv.SetItem(9, &domain.Item{Type: "DIRT", Amount: 1})
		assert.ErrorIs(t, err, domain.ErrSlotOutOfRange)
		err = inv.SetItem(-1, &domain.Item{Type: "DIRT", Amount: 1})
		assert.ErrorIs(t, err, domain.ErrSlotOutOfRange)
	})

	t.Run("zero amount empties slot", func(t *testing.T) {
		require.NoError(t, inv.SetItem(3, &domain.Item{Type: "STONE", Amount: 0}))
		assert.Nil(t, inv.Item(3))
		assert.True(t, inv.IsEmpty())
	})
}

func TestInventory_CopiesOnAccess(t *testing.T) {
	inv := domain.NewInventory(9)
	item := &domain.Item{Type: "BOOK", Amount: 1, Lore: []string{"first"}}
	require.NoError(t, inv.SetItem(0, item))

	item.Lore[0] = "changed"
	got := inv.Item(0)
	got.Amount = 99

	again := inv.Item(0)
	assert.Equal(t, 1, again.Amount)
	assert.Equal(t, []string{"first"}, again.Lore)
}

func TestInventory_ContentsAndClear(t *testing.T) {
	inv := domain.NewInventory(4)
	require.NoError(t, inv.SetItem(1, &domain.Item{Type: "APPLE", Amount: 2}))
	require.NoError(t, inv.SetItem(3, &domain.Item{Type: "BREAD", Amount: 5}))

	contents := inv.Contents()
	require.Len(t, contents, 4)
	assert.Nil(t, contents[0])
	assert.Equal(t, "APPLE", contents[1].Type)

	occupied := inv.Occupied()
	assert.Len(t, occupied, 2)
	assert.Equal(t, 5, occupied[3].Amount)

	inv.Clear()
	assert.True(t, inv.IsEmpty())
	assert.Equal(t, 4, inv.Size())
}
