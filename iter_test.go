// Modifications copyright (c) Arista Networks, Inc. 2025
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import (
	"strconv"
	"testing"
)

// hashedItem returns a record with a chosen hash to control which
// slot it lands in.
func hashedItem(key string, hash uint64) *item {
	it := &item{key: key}
	it.Hash = hash
	return it
}

func TestIter(t *testing.T) {
	var m itemMap
	expected := make(map[*item]struct{}, 9)
	for i := 0; i < 9; i++ {
		it := newItem(strconv.Itoa(i), i)
		expected[it] = struct{}{}
		m.Insert(it)
	}
	for i := m.Iter(); i.Next(); {
		if _, ok := expected[i.Node()]; !ok {
			t.Errorf("unexpected or repeated record: %v", i.Node())
			continue
		}
		delete(expected, i.Node())
	}
	if len(expected) > 0 {
		t.Errorf("records not found in m: %v", expected)
	}
}

func TestIterOrder(t *testing.T) {
	var m itemMap
	// 4 slots: 1 and 5 share slot 1, 2 is alone in slot 2
	for _, h := range []uint64{1, 2, 5} {
		m.Insert(hashedItem(strconv.FormatUint(h, 10), h))
	}
	var got []string
	for n := range m.All() {
		got = append(got, n.key)
	}
	// slot order, most recent insert first within a slot
	want := []string{"5", "1", "2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
	}
}

func TestIterMigrating(t *testing.T) {
	m, items := migratingMap(t, 256)
	seen := make(map[*item]int, len(items))
	for n := range m.All() {
		seen[n]++
	}
	if m.Migrating() {
		t.Errorf("iteration did not finish the migration: %s", m.debugString())
	}
	checkInvariants(t, m)
	if len(seen) != len(items) {
		t.Errorf("expected %d records got %d", len(items), len(seen))
	}
	for _, it := range items {
		if seen[it] != 1 {
			t.Errorf("record %s seen %d times", it.key, seen[it])
		}
	}
}

func TestIterDelete(t *testing.T) {
	var m itemMap
	for i := 0; i < 100; i++ {
		m.Insert(newItem(strconv.Itoa(i), i))
	}
	m.drain()
	count := 0
	for i := m.Iter(); i.Next(); {
		if m.Delete(i.Node(), itemEq) != i.Node() {
			t.Errorf("Delete(%s) failed", i.Node().key)
		}
		count++
	}
	if count != 100 || m.Len() != 0 {
		t.Errorf("visited %d records, %d left: %s", count, m.Len(), m.debugString())
	}
}

// resizingMap returns a map of count records that has just started a
// migration to a table of capacity slots.
func resizingMap(t *testing.T, count, capacity int) (*itemMap, []*item) {
	t.Helper()
	var m itemMap
	items := make([]*item, count)
	for i := range items {
		items[i] = newItem(strconv.Itoa(i), i)
		m.Insert(items[i])
	}
	m.drain()
	if err := m.Resize(capacity); err != nil {
		t.Fatal(err)
	}
	if !m.Migrating() || m.older.count <= migrateWork {
		t.Fatalf("expected a long migration: %s", m.debugString())
	}
	return &m, items
}

func TestIterDeleteMigrating(t *testing.T) {
	m, items := resizingMap(t, 2048, 4096)
	const keep = 200
	visited := 0
	for i := m.Iter(); i.Next(); {
		visited++
		if visited <= keep {
			continue
		}
		if m.Delete(i.Node(), itemEq) != i.Node() {
			t.Errorf("Delete(%s) failed", i.Node().key)
		}
	}
	if visited != len(items) || m.Len() != keep {
		t.Errorf("visited %d records, %d left: %s", visited, m.Len(), m.debugString())
	}
	checkInvariants(t, m)
}

func TestIterLookupMigrating(t *testing.T) {
	m, items := resizingMap(t, 2048, 4096)
	seen := make(map[*item]int, len(items))
	for i := m.Iter(); i.Next(); {
		seen[i.Node()]++
		if got := m.Lookup(i.Node(), itemEq); got != i.Node() {
			t.Errorf("Lookup(%s): got %v", i.Node().key, got)
		}
	}
	if len(seen) != len(items) {
		t.Errorf("expected %d records got %d", len(items), len(seen))
	}
	for _, it := range items {
		if seen[it] != 1 {
			t.Errorf("record %s seen %d times", it.key, seen[it])
		}
	}
}

func TestAllBreak(t *testing.T) {
	var m itemMap
	for i := 0; i < 10; i++ {
		m.Insert(newItem(strconv.Itoa(i), i))
	}
	count := 0
	for range m.All() {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("expected 3 iterations got %d", count)
	}
}
