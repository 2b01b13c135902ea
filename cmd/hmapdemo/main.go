// Copyright (c) Arista Networks, Inc. 2025
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hmapdemo indexes a preallocated pool of entities by id with an
// hmap.Map, then looks some of them up and removes others.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aristanetworks/hmap"
	"github.com/aristanetworks/hmap/hashes"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

const (
	defaultCount = 1000
	defaultHash  = "murmur3"
)

type entity struct {
	hmap.Node[entity]
	id   uint32
	name string
	x, y float32
}

func sameID(a, b *entity) bool {
	return a.id == b.id
}

// pool hands out entities from a single allocation and indexes them by
// id.
type pool struct {
	entities []entity
	index    *hmap.Map[entity, *entity]
	hasher   hashes.Hasher
}

func (p *pool) hash(id uint32) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], id)
	return p.hasher.Hash64(buf[:])
}

func (p *pool) spawn(id uint32, name string, x, y float32) (*entity, error) {
	if len(p.entities) == cap(p.entities) {
		return nil, fmt.Errorf("pool exhausted at %d entities", cap(p.entities))
	}
	p.entities = append(p.entities, entity{id: id, name: name, x: x, y: y})
	e := &p.entities[len(p.entities)-1]
	e.Hash = p.hash(id)
	p.index.Insert(e)
	return e, nil
}

func (p *pool) find(id uint32) *entity {
	key := entity{id: id}
	key.Hash = p.hash(id)
	return p.index.Lookup(&key, sameID)
}

func (p *pool) remove(id uint32) *entity {
	key := entity{id: id}
	key.Hash = p.hash(id)
	return p.index.Delete(&key, sameID)
}

func usage() {
	log.Printf("Usage: hmapdemo [-n count] [-hash kind] [-find id] [-remove id] [-presize] [-v level]\n")
	flag.PrintDefaults()
}

func exitOnErr(logger logr.Logger, err error, msg string) {
	if err != nil {
		logger.Error(err, msg)
		os.Exit(1)
	}
}

// getLogger returns a stdr logger with verbosity v.
// set v to 0 for info level messages and 1 to see map growth.
func getLogger(v int) logr.Logger {
	logger := stdr.New(nil).WithName("hmapdemo")
	if v > 2 || v < 0 {
		v = 0
		logger.Info("Invalid verbosity, setting logger to display info level messages only.")
	}
	stdr.SetVerbosity(v)
	return logger
}

func main() {
	var count = flag.Int("n", defaultCount, "number of entities to spawn")
	var hashName = flag.String("hash", defaultHash, "hash function (fnv1a, jenkins, murmur3, metro, xxhash)")
	var findID = flag.Uint("find", 42, "entity id to look up")
	var removeID = flag.Uint("remove", 7, "entity id to remove")
	var presize = flag.Bool("presize", false, "size the index for all entities up front")
	var verbose = flag.Int("v", 0, "verbosity level")
	flag.Usage = usage
	flag.Parse()

	logger := getLogger(*verbose)

	if *count <= 0 {
		usage()
		os.Exit(2)
	}

	kind, err := hashes.ParseKind(*hashName)
	exitOnErr(logger, err, "bad -hash")
	hasher, err := hashes.New(kind, nil)
	exitOnErr(logger, err, "cannot create hasher")

	opts := []hmap.Option{hmap.WithLogger(logger.WithName("index"))}
	if *presize {
		opts = append(opts, hmap.WithCapacity(*count))
	}
	index, err := hmap.New[entity](opts...)
	exitOnErr(logger, err, "cannot create index")

	p := &pool{
		entities: make([]entity, 0, *count),
		index:    index,
		hasher:   hasher,
	}
	for i := 0; i < *count; i++ {
		_, err := p.spawn(uint32(i), fmt.Sprintf("Entity_%d", i), float32(i)*1.5, float32(i)*2)
		exitOnErr(logger, err, "spawn failed")
	}
	logger.Info("spawned", "entities", p.index.Len(), "capacity", p.index.Capacity(),
		"migrating", p.index.Migrating(), "hash", kind.String())

	if e := p.find(uint32(*findID)); e != nil {
		fmt.Printf("Found: %s at (%.1f, %.1f)\n", e.name, e.x, e.y)
	} else {
		fmt.Printf("Not found: %d\n", *findID)
	}

	if e := p.remove(uint32(*removeID)); e != nil {
		fmt.Printf("Removed: %s\n", e.name)
	}
	if p.find(uint32(*removeID)) == nil {
		fmt.Printf("Confirmed %d is removed\n", *removeID)
	}

	fmt.Printf("Index size: %d\n", p.index.Len())
	p.index.Clear()
}
