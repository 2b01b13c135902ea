// Copyright (c) Arista Networks, Inc. 2025
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmap

import (
	"fmt"

	"github.com/go-logr/logr"
)

// config holds the settings New applies to a Map.
type config struct {
	// capacity is the initial slot count. Zero or negative leaves the
	// Map without storage until the first Insert.
	capacity int

	// maxCapacity bounds every slot array the Map allocates. Growth
	// past it is skipped; Resize, ResizeNow and Reserve past it fail
	// with ErrTooLarge.
	maxCapacity int

	log logr.Logger
}

// Option configures a Map created by New.
type Option func(*config)

// WithCapacity preallocates capacity slots, rounded up to a power of
// two. If capacity is zero or negative the value is ignored.
func WithCapacity(capacity int) Option {
	return func(c *config) {
		c.capacity = capacity
	}
}

// WithMaxCapacity limits the slot count of every table the Map
// allocates. It panics if limit is below the minimum table size of 4.
// Limits past the largest power of two an int holds are lowered to it.
func WithMaxCapacity(limit int) Option {
	if limit < minCapacity {
		panic(fmt.Sprintf("hmap: max capacity %d is below the minimum of %d", limit, minCapacity))
	}
	limit = min(limit, maxTableCapacity)
	return func(c *config) {
		c.maxCapacity = limit
	}
}

// WithLogger sets the logger the Map reports growth and migration
// progress to, at verbosity 1. The default discards everything.
func WithLogger(log logr.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}
