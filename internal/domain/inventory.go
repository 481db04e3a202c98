package domain

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultSize is the capacity of a virtual chest: six rows of nine slots.
const DefaultSize = 6 * 9

// ErrSlotOutOfRange is returned when a slot index falls outside the chest.
var ErrSlotOutOfRange = errors.New("slot out of range")

// Item is one stack held in a chest slot.
type Item struct {
	Type   string   `json:"type" yaml:"type"`
	Amount int      `json:"amount" yaml:"amount"`
	Damage int      `json:"damage,omitempty" yaml:"damage,omitempty"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty"`
	Lore   []string `json:"lore,omitempty" yaml:"lore,omitempty"`
}

// Inventory is a fixed-capacity slot container. The store hands out the same
// *Inventory to every caller, so all slot access goes through the mutex.
type Inventory struct {
	mu    sync.RWMutex
	slots []*Item
}

// NewInventory creates an empty inventory with size slots.
// A non-positive size falls back to DefaultSize.
func NewInventory(size int) *Inventory {
	if size <= 0 {
		size = DefaultSize
	}
	return &Inventory{slots: make([]*Item, size)}
}

// Size returns the number of slots.
func (inv *Inventory) Size() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.slots)
}

// Item returns a copy of the item in slot, or nil if the slot is empty or
// out of range.
func (inv *Inventory) Item(slot int) *Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	if slot < 0 || slot >= len(inv.slots) || inv.slots[slot] == nil {
		return nil
	}
	return inv.slots[slot].clone()
}

// SetItem places item into slot. A nil item or a non-positive amount empties
// the slot.
func (inv *Inventory) SetItem(slot int, item *Item) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if slot < 0 || slot >= len(inv.slots) {
		return fmt.Errorf("%w: %d (size %d)", ErrSlotOutOfRange, slot, len(inv.slots))
	}
	if item == nil || item.Amount <= 0 {
		inv.slots[slot] = nil
		return nil
	}
	inv.slots[slot] = item.clone()
	return nil
}

// Contents returns a copy of every slot, including empty ones.
func (inv *Inventory) Contents() []*Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]*Item, len(inv.slots))
	for i, it := range inv.slots {
		if it != nil {
			out[i] = it.clone()
		}
	}
	return out
}

// Occupied returns the occupied slots keyed by slot index.
func (inv *Inventory) Occupied() map[int]Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make(map[int]Item)
	for i, it := range inv.slots {
		if it != nil {
			out[i] = *it.clone()
		}
	}
	return out
}

// Len returns the number of occupied slots.
func (inv *Inventory) Len() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	n := 0
	for _, it := range inv.slots {
		if it != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no slot is occupied.
func (inv *Inventory) IsEmpty() bool {
	return inv.Len() == 0
}

// Clear empties every slot.
func (inv *Inventory) Clear() {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i := range inv.slots {
		inv.slots[i] = nil
	}
}

func (it *Item) clone() *Item {
	c := *it
	if it.Lore != nil {
		c.Lore = append([]string(nil), it.Lore...)
	}
	return &c
}
