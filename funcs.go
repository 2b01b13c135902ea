// Modifications copyright (c) Arista Networks, Inc. 2025
// Underlying
// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import (
	"strings"

	"golang.org/x/exp/slices"
)

// StringFunc converts m to a string representation with the help of
// str to stringify m's records. Records are listed in sorted order of
// their string form, so the result does not depend on table layout.
func StringFunc[T any, N Linked[T]](m *Map[T, N], str func(N) string) string {
	if m.Len() == 0 {
		return "hmap.Map[]"
	}
	strs := make([]string, 0, m.Len())
	s := 0
	for it := m.Iter(); it.Next(); {
		rs := str(it.Node())
		s += len(rs)
		strs = append(strs, rs)
	}
	slices.Sort(strs)

	var b strings.Builder
	b.Grow(len("hmap.Map[]") + // space for header and footer
		len(strs) - 1 + // space for delimiters
		s) // space for records
	b.WriteString("hmap.Map[")
	for i, rs := range strs {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(rs)
	}
	b.WriteByte(']')
	return b.String()
}

// EqualFunc returns true if every record of m1 has a record in m2
// that eq considers equal, and the maps are the same size.
//
// EqualFunc iterates m1 and looks records up in m2, so it finishes a
// migration in progress in m1 and advances one in m2.
func EqualFunc[T any, N Linked[T]](m1, m2 *Map[T, N], eq func(a, b N) bool) bool {
	if m1.Len() != m2.Len() {
		return false
	}
	if m1 == m2 {
		return true
	}
	for it := m1.Iter(); it.Next(); {
		if m2.Lookup(it.Node(), eq) == nil {
			return false
		}
	}
	return true
}
