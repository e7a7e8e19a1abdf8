// Package buffer provides accumulator implementations used by the cooldown
// buffer to hold items between flushes.
package buffer

import "iter"

// Buffer is an in-memory container for items awaiting a flush.
//
// Implementations are not considered thread-safe; the owning cooldown buffer
// serializes all access.
type Buffer[Item any] interface {
	// Push adds an item to the buffer.
	Push(item Item)
	// Size returns the number of items in the buffer.
	Size() int
	// Iter returns a sequence of all items in the buffer.
	Iter() iter.Seq[Item]
	// Reset clears all items from the buffer.
	Reset()
}
