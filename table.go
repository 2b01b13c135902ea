// Copyright (c) Arista Networks, Inc. 2025
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import (
	"fmt"
	"math/bits"
)

// Node is the link a record embeds to be stored in a Map. The record
// owns the Node; the Map only threads records together through it.
//
// Hash must be set before the record is passed to any Map method and
// must not change while the record is linked into a Map.
//
//	type item struct {
//		hmap.Node[item]
//		key   string
//		value int
//	}
type Node[T any] struct {
	next *T
	Hash uint64
}

func (n *Node[T]) hnode() *Node[T] {
	return n
}

// Linked is satisfied by *T for any T that embeds Node[T].
type Linked[T any] interface {
	*T
	hnode() *Node[T]
}

const (
	// Smallest slot array a table will allocate.
	minCapacity = 4

	// Largest slot array a table will allocate unless overridden
	// with WithMaxCapacity.
	defaultMaxCapacity = 1 << 40

	// Largest power of two an int holds. WithMaxCapacity clamps to it.
	maxTableCapacity = 1 << (bits.UintSize - 2)
)

// table is a fixed capacity array of chain heads. Records are placed
// in slot Hash&mask and chained through their Node.
type table[T any, N Linked[T]] struct {
	slots []*T
	mask  uint64
	count int
}

// roundCapacity returns the smallest power of two >= n, and at least
// minCapacity. n must not exceed maxTableCapacity.
func roundCapacity(n int) int {
	if n <= minCapacity {
		return minCapacity
	}
	if n > maxTableCapacity {
		panic(fmt.Sprintf("hmap: capacity %d overflows", n))
	}
	return 1 << bits.Len(uint(n-1))
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// init allocates capacity slots, rounded up. t is left untouched on
// error.
func (t *table[T, N]) init(capacity, limit int) error {
	if capacity <= limit {
		capacity = roundCapacity(capacity)
	}
	if capacity > limit {
		return fmt.Errorf("%w: %d slots, limit is %d", ErrTooLarge, capacity, limit)
	}
	*t = table[T, N]{
		slots: make([]*T, capacity),
		mask:  uint64(capacity - 1),
	}
	return nil
}

func (t *table[T, N]) capacity() int {
	return len(t.slots)
}

// allocated reports whether t has a slot array.
func (t *table[T, N]) allocated() bool {
	return t.slots != nil
}

func (t *table[T, N]) insert(n N) {
	node := n.hnode()
	pos := node.Hash & t.mask
	node.next = t.slots[pos]
	t.slots[pos] = (*T)(n)
	t.count++
}

// find returns the link pointing at the record equal to key, or nil.
// The link is only valid until t is next modified.
func (t *table[T, N]) find(key N, eq func(a, b N) bool) **T {
	if t.slots == nil {
		return nil
	}
	hash := key.hnode().Hash
	from := &t.slots[hash&t.mask]
	for *from != nil {
		cur := N(*from)
		node := cur.hnode()
		// compare hash codes first to skip most non-matches.
		if node.Hash == hash && eq(cur, key) {
			return from
		}
		from = &node.next
	}
	return nil
}

// detach unlinks the record *from points at and hands it back.
func (t *table[T, N]) detach(from **T) N {
	n := N(*from)
	node := n.hnode()
	*from = node.next
	node.next = nil
	t.count--
	return n
}

// reset drops the slot array. Linked records are not touched.
func (t *table[T, N]) reset() {
	*t = table[T, N]{}
}

// each calls fn for every record in t, in slot order and chain order
// within a slot, until fn returns false.
func (t *table[T, N]) each(fn func(N) bool) bool {
	for _, head := range t.slots {
		for cur := head; cur != nil; {
			n := N(cur)
			// read the link first, fn may detach n
			next := n.hnode().next
			if !fn(n) {
				return false
			}
			cur = next
		}
	}
	return true
}
