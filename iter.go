// Modifications copyright (c) Arista Networks, Inc. 2025
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import "iter"

// Iterator is instantiated by a call to Iter. It allows iterating over
// a Map.
//
// Records are visited slot by slot and in chain order within a slot.
// The order is not stable across inserts, deletes or resizes, and it
// is undefined which records an iteration sees if the Map is inserted
// into or resized before it ends. Lookup, and Delete of the record
// most recently returned by Node, are allowed.
type Iterator[T any, N Linked[T]] struct {
	node   N
	slots  []*T
	bucket int
	cur    *T
}

// Node returns the record at the iterator's current position. This is
// only valid after a call to Next that returns true.
func (it *Iterator[T, N]) Node() N {
	return it.node
}

// Iter instantiates an Iterator over the records of m. A migration in
// progress is finished first, so Lookup and Delete during the
// iteration have no records left to move.
func (m *Map[T, N]) Iter() *Iterator[T, N] {
	if m == nil || m.Len() == 0 {
		return &Iterator[T, N]{}
	}
	m.drain()
	// grab snapshot of slot array
	return &Iterator[T, N]{slots: m.newer.slots}
}

// Next moves the iterator to the next record. Next returns false when
// the iterator is complete.
func (it *Iterator[T, N]) Next() bool {
	for {
		if it.cur != nil {
			n := N(it.cur)
			it.cur = n.hnode().next
			it.node = n
			return true
		}
		if it.bucket == len(it.slots) {
			break
		}
		it.cur = it.slots[it.bucket]
		it.bucket++
	}
	it.node = nil
	return false
}

// All returns an iterator over the records in m.
func (m *Map[T, N]) All() iter.Seq[N] {
	return func(yield func(N) bool) {
		for it := m.Iter(); it.Next(); {
			if !yield(it.Node()) {
				return
			}
		}
	}
}
