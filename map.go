// Modifications copyright (c) Arista Networks, Inc. 2025
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hmap provides Map, an intrusive hash table that grows
// without ever stopping to rehash all of its entries at once.
//
// Records embed a Node and carry a precomputed hash code. The Map
// links records together through that Node and never allocates,
// copies or frees them: a record is owned by the caller before it is
// inserted, while it is stored, and after it is deleted.
//
// The following requirements are the user's responsibility to follow:
//   - Node.Hash is set before the record is handed to Insert, Lookup
//     or Delete, and does not change while the record is stored.
//   - eq(a, b) => a.Hash == b.Hash. Records whose hashes differ are
//     never passed to eq, so an inconsistent eq silently misses.
//   - A record is linked into at most one Map at a time.
//   - A Map is not safe for concurrent use. Callers serialize access.
package hmap

// A Map is two chained hash tables. New records always go into the
// newer table. When the newer table reaches the load factor it becomes
// the older table and a table twice as big takes its place. From then
// on every Insert, Lookup and Delete first moves a bounded number of
// records from the older table to the newer one, walking the older
// table's buckets in order. Lookup and Delete check the newer table
// and then the older one. Once the older table is empty it is dropped.
//
// This is the same incremental evacuation the built-in map does, but
// a record is moved whole (its hash is kept, never recomputed) and
// buckets are chains of caller records rather than arrays of cells,
// so no bucket ever needs an evacuated mark: a moved record is simply
// no longer in the older table.

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

const (
	// Average chain length that triggers growth. Chained buckets hold
	// any number of records, so this is well above 1.
	loadFactor = 8

	// Maximum number of records moved from the older table to the
	// newer one by a single operation.
	migrateWork = 128
)

// ErrTooLarge is returned when a table would need more slots than the
// Map's capacity limit allows. The Map is left unchanged.
var ErrTooLarge = errors.New("hmap: table capacity exceeds limit")

// Map is an intrusive hash table of *T records with progressive
// rehashing. The zero Map is empty and ready to use.
type Map[T any, N Linked[T]] struct {
	newer table[T, N] // receives all inserts
	older table[T, N] // being drained into newer; allocated only while growing

	migratePos int // next bucket of older to move; buckets below it are empty

	hint        int  // slots allocated by the first Insert; 0 means minCapacity
	maxCapacity int  // 0 means defaultMaxCapacity
	capped      bool // growth skipped at the capacity limit was logged
	log         logr.Logger
}

// New instantiates a Map configured by opts. It only fails if
// WithCapacity asks for more slots than the capacity limit.
func New[T any, N Linked[T]](opts ...Option) (*Map[T, N], error) {
	c := config{
		maxCapacity: defaultMaxCapacity,
		log:         logr.Discard(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	m := &Map[T, N]{maxCapacity: c.maxCapacity, log: c.log}
	if c.capacity > 0 {
		if err := m.Reserve(c.capacity); err != nil {
			return nil, err
		}
		m.hint = c.capacity
	}
	return m, nil
}

func (m *Map[T, N]) limit() int {
	if m.maxCapacity == 0 {
		return defaultMaxCapacity
	}
	return m.maxCapacity
}

// Len returns the number of records in m.
func (m *Map[T, N]) Len() int {
	if m == nil {
		return 0
	}
	return m.newer.count + m.older.count
}

// Capacity returns the number of slots of the table receiving
// inserts, or 0 if m has no storage.
func (m *Map[T, N]) Capacity() int {
	if m == nil {
		return 0
	}
	return m.newer.capacity()
}

// Migrating reports whether m is moving records out of an older
// table.
func (m *Map[T, N]) Migrating() bool {
	return m != nil && m.growing()
}

func (m *Map[T, N]) growing() bool {
	return m.older.allocated()
}

// Insert links n into m. n.Hash must already be set. Insert does not
// check for an existing record equal to n: callers wanting
// replace semantics Delete first.
func (m *Map[T, N]) Insert(n N) {
	if m == nil {
		panic("hmap: Insert called on nil map")
	}
	if n == nil {
		panic("hmap: Insert of nil record")
	}
	if !m.newer.allocated() {
		// New checked the hint against the limit, and WithMaxCapacity
		// rejects limits below minCapacity.
		if err := m.newer.init(max(m.hint, minCapacity), m.limit()); err != nil {
			panic(err)
		}
	}

	m.newer.insert(n)

	if !m.growing() && m.newer.count >= m.newer.capacity()*loadFactor {
		m.grow()
	}

	m.migrate()
}

// grow starts a migration to a table twice the size of the newer one,
// unless that would pass the capacity limit. Growth is an
// optimization: at the limit chains get longer but every record stays
// reachable.
func (m *Map[T, N]) grow() {
	capacity := m.newer.capacity()
	if capacity > m.limit()/2 {
		if !m.capped {
			m.capped = true
			m.log.V(1).Info("growth skipped", "len", m.Len(),
				"capacity", capacity, "limit", m.limit())
		}
		return
	}
	if err := m.hashGrow(capacity * 2); err != nil {
		m.log.V(1).Info("growth failed", "len", m.Len(),
			"capacity", capacity, "err", err.Error())
	}
}

// Lookup returns the record in m equal to key according to eq, or
// nil. key only needs its Hash and whatever fields eq reads.
func (m *Map[T, N]) Lookup(key N, eq func(a, b N) bool) N {
	m.checkArgs(key, eq)
	if m == nil {
		return nil
	}
	m.migrate()

	from := m.newer.find(key, eq)
	if from == nil {
		from = m.older.find(key, eq)
	}
	if from == nil {
		return nil
	}
	return N(*from)
}

// Delete unlinks the record in m equal to key according to eq and
// returns it, or returns nil if there is none.
func (m *Map[T, N]) Delete(key N, eq func(a, b N) bool) N {
	m.checkArgs(key, eq)
	if m == nil {
		return nil
	}
	m.migrate()

	if from := m.newer.find(key, eq); from != nil {
		return m.newer.detach(from)
	}
	if from := m.older.find(key, eq); from != nil {
		n := m.older.detach(from)
		m.dropOlderIfEmpty()
		return n
	}
	return nil
}

func (m *Map[T, N]) checkArgs(key N, eq func(a, b N) bool) {
	if key == nil {
		panic("hmap: nil key")
	}
	if eq == nil {
		panic("hmap: nil equal func")
	}
}

// Clear unlinks all records from m and releases its storage. The
// records themselves are not modified.
func (m *Map[T, N]) Clear() {
	if m == nil {
		return
	}
	m.newer.reset()
	m.older.reset()
	m.migratePos = 0
	m.capped = false
}

// Reserve sizes an empty m to hold capacity slots, rounded up to a
// power of two. It does nothing if m already has storage or capacity
// is not positive.
func (m *Map[T, N]) Reserve(capacity int) error {
	if m == nil {
		panic("hmap: Reserve called on nil map")
	}
	if capacity <= 0 || m.newer.allocated() {
		return nil
	}
	return m.newer.init(capacity, m.limit())
}

// Resize moves m to a table of capacity slots. capacity must be a
// power of two; if it is too small to hold Len() records at one
// record per slot it is rounded up.
//
// A migration already under way is finished first, so the call costs
// up to the size of that migration. Growing then proceeds
// progressively like load-triggered growth. Shrinking is done in place
// by the call, as by ResizeNow, so the older table is never the larger
// one.
func (m *Map[T, N]) Resize(capacity int) error {
	capacity, err := m.resizeTarget("Resize", capacity)
	if err != nil {
		return err
	}
	if !m.newer.allocated() {
		return m.newer.init(capacity, m.limit())
	}
	if m.newer.capacity() == capacity && !m.growing() {
		return nil
	}

	m.drain()

	switch {
	case capacity == m.newer.capacity():
		return nil
	case capacity < m.newer.capacity():
		return m.rebuild(capacity)
	}
	if err := m.hashGrow(capacity); err != nil {
		return err
	}
	m.migrate()
	return nil
}

// ResizeNow is like Resize but moves every record before returning.
// It costs O(Len()) and leaves m with a single table.
func (m *Map[T, N]) ResizeNow(capacity int) error {
	capacity, err := m.resizeTarget("ResizeNow", capacity)
	if err != nil {
		return err
	}
	if !m.newer.allocated() {
		return m.newer.init(capacity, m.limit())
	}

	m.drain()

	if capacity == m.newer.capacity() {
		return nil
	}
	return m.rebuild(capacity)
}

// resizeTarget validates capacity and rounds it up to cover Len().
func (m *Map[T, N]) resizeTarget(op string, capacity int) (int, error) {
	if m == nil {
		panic("hmap: " + op + " called on nil map")
	}
	if !isPowerOfTwo(capacity) {
		panic(fmt.Sprintf("hmap: %s capacity %d is not a power of two", op, capacity))
	}
	if n := m.Len(); capacity < n {
		capacity = n
	}
	capacity = roundCapacity(capacity)
	if capacity > m.limit() {
		return 0, fmt.Errorf("%w: %d slots, limit is %d", ErrTooLarge, capacity, m.limit())
	}
	return capacity, nil
}

// hashGrow makes the newer table the older one and puts an empty
// table of capacity slots in its place. The records are moved by
// migrate.
func (m *Map[T, N]) hashGrow(capacity int) error {
	if m.growing() {
		panic("hmap: grow started during migration")
	}
	var fresh table[T, N]
	if err := fresh.init(capacity, m.limit()); err != nil {
		return err
	}

	// commit the grow
	m.older = m.newer
	m.newer = fresh
	m.migratePos = 0
	m.capped = false

	m.log.V(1).Info("migration started", "len", m.Len(),
		"from", m.older.capacity(), "to", m.newer.capacity())
	return nil
}

// migrate moves up to migrateWork records from the older table to the
// newer one.
func (m *Map[T, N]) migrate() {
	for work := 0; work < migrateWork && m.older.count > 0; {
		from := &m.older.slots[m.migratePos]
		if *from == nil {
			m.migratePos++
			continue
		}
		m.newer.insert(m.older.detach(from))
		work++
	}
	m.dropOlderIfEmpty()
}

func (m *Map[T, N]) dropOlderIfEmpty() {
	if m.older.count != 0 || !m.older.allocated() {
		return
	}
	m.log.V(1).Info("migration done", "len", m.Len(), "capacity", m.newer.capacity())
	m.older.reset()
	m.migratePos = 0
}

// drain finishes any migration under way.
func (m *Map[T, N]) drain() {
	for m.growing() {
		m.migrate()
	}
}

// rebuild moves every record of the newer table into a fresh table of
// capacity slots. m must not be migrating.
func (m *Map[T, N]) rebuild(capacity int) error {
	var fresh table[T, N]
	if err := fresh.init(capacity, m.limit()); err != nil {
		return err
	}
	m.newer.each(func(n N) bool {
		fresh.insert(n)
		return true
	})
	m.log.V(1).Info("rebuilt", "len", fresh.count,
		"from", m.newer.capacity(), "to", fresh.capacity())
	m.newer = fresh
	m.capped = false
	return nil
}
