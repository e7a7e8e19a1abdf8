package buffer

import (
	"iter"
	"maps"
)

var _ Buffer[any] = (*MergingBuffer[any, string])(nil)

// MergingBuffer coalesces items sharing a key during a burst: pushing an item
// whose key is already buffered merges the two instead of growing the buffer.
// Useful when a storm repeats the same logical event, e.g. filesystem
// notifications for the same path.
//
// Unlike [AppendingBuffer], iteration order is unspecified.
type MergingBuffer[Item any, Key comparable] struct {
	items     map[Key]Item
	keyFunc   func(Item) Key
	mergeFunc func(Item, Item) Item
}

// Merging returns an empty [MergingBuffer] that keys items with keyFunc and
// combines colliding items with mergeFunc (existing item first).
func Merging[Item any, Key comparable](
	keyFunc func(Item) Key,
	mergeFunc func(Item, Item) Item,
) *MergingBuffer[Item, Key] {
	return &MergingBuffer[Item, Key]{
		items:     make(map[Key]Item),
		keyFunc:   keyFunc,
		mergeFunc: mergeFunc,
	}
}

func (b *MergingBuffer[Item, Key]) Push(item Item) {
	key := b.keyFunc(item)
	if existing, ok := b.items[key]; ok {
		item = b.mergeFunc(existing, item)
	}
	b.items[key] = item
}

func (b *MergingBuffer[Item, Key]) Size() int {
	return len(b.items)
}

func (b *MergingBuffer[Item, Key]) Iter() iter.Seq[Item] {
	return maps.Values(b.items)
}

func (b *MergingBuffer[Item, Key]) Reset() {
	clear(b.items)
}
