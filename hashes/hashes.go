// Copyright (c) Arista Networks, Inc. 2025
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hashes provides hash functions for computing the Node.Hash
// of hmap records: small hand-written mixers for strings and integers,
// and seeded Hashers backed by well known 64-bit hash libraries.
package hashes

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/minio/highwayhash"
	"github.com/shivakar/metrohash"
	"github.com/twmb/murmur3"
)

// Kind selects a Hasher implementation.
type Kind int

const (
	KindFNV1a Kind = iota
	KindJenkins
	KindMurmur3
	KindMetro
	KindXXHash
	KindSipHash
	KindHighway
)

// HighwayKeySize is the key length KindHighway requires.
const HighwayKeySize = 32

var kindNames = [...]string{
	KindFNV1a:   "fnv1a",
	KindJenkins: "jenkins",
	KindMurmur3: "murmur3",
	KindMetro:   "metro",
	KindXXHash:  "xxhash",
	KindSipHash: "siphash",
	KindHighway: "highway",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind whose String is name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHash, name)
}

var (
	ErrUnknownHash = errors.New("hashes: unknown hash kind")
	ErrKeyLength   = errors.New("hashes: wrong seed length")
)

// Hasher computes 64-bit hash codes of byte strings.
type Hasher interface {
	Hash64([]byte) uint64
}

// New creates a Hasher of kind k.
//
// KindFNV1a, KindJenkins, KindMetro and KindXXHash hash seed as a
// prefix of every input, so any seed length works. KindMurmur3 takes an
// empty or 8 byte little endian seed, KindSipHash a 16 byte key and
// KindHighway a HighwayKeySize byte key.
func New(k Kind, seed []byte) (Hasher, error) {
	switch k {
	case KindFNV1a:
		return fnvHasher{offset: fnv1a(fnvOffset, seed)}, nil
	case KindJenkins:
		return jenkinsHasher{state: oneAtATime(0, seed)}, nil
	case KindMurmur3:
		switch len(seed) {
		case 0:
			return murmurHasher{}, nil
		case 8:
			return murmurHasher{seed: binary.LittleEndian.Uint64(seed)}, nil
		}
		return nil, fmt.Errorf("%w: murmur3 needs 0 or 8 bytes, got %d", ErrKeyLength, len(seed))
	case KindMetro:
		return metroHasher{salt: seed}, nil
	case KindXXHash:
		return xxHasher{salt: seed}, nil
	case KindSipHash:
		if len(seed) != 16 {
			return nil, fmt.Errorf("%w: siphash needs 16 bytes, got %d", ErrKeyLength, len(seed))
		}
		return sipHasher{
			k0: binary.LittleEndian.Uint64(seed[:8]),
			k1: binary.LittleEndian.Uint64(seed[8:]),
		}, nil
	case KindHighway:
		if len(seed) != HighwayKeySize {
			return nil, fmt.Errorf("%w: highwayhash needs %d bytes, got %d",
				ErrKeyLength, HighwayKeySize, len(seed))
		}
		return highwayHasher{key: append([]byte(nil), seed...)}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownHash, k)
}

const (
	fnvOffset = 0x811c9dc5
	fnvPrime  = 0x01000193
)

func fnv1a(h uint32, p []byte) uint32 {
	for _, b := range p {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return h
}

// FNV1a returns the 32-bit FNV-1a hash of p, widened to 64 bits.
func FNV1a(p []byte) uint64 {
	return uint64(fnv1a(fnvOffset, p))
}

// FNV1aString is FNV1a for strings.
func FNV1aString(s string) uint64 {
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return uint64(h)
}

type fnvHasher struct {
	offset uint32
}

func (f fnvHasher) Hash64(p []byte) uint64 {
	return uint64(fnv1a(f.offset, p))
}

func oneAtATime(h uint32, p []byte) uint32 {
	for _, b := range p {
		h += uint32(b)
		h += h << 10
		h ^= h >> 6
	}
	return h
}

func finishOneAtATime(h uint32) uint32 {
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

// OneAtATime returns Bob Jenkins' one-at-a-time hash of p.
func OneAtATime(p []byte) uint32 {
	return finishOneAtATime(oneAtATime(0, p))
}

type jenkinsHasher struct {
	state uint32
}

func (j jenkinsHasher) Hash64(p []byte) uint64 {
	return uint64(finishOneAtATime(oneAtATime(j.state, p)))
}

// Mix32 is the MurmurHash3 32-bit finalizer. It spreads the bits of
// small or sequential integers over the whole word.
func Mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x85ebca6b
	x ^= x >> 13
	x *= 0xc2b2ae35
	x ^= x >> 16
	return x
}

// Mix64 is the MurmurHash3 64-bit finalizer.
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

type murmurHasher struct {
	seed uint64
}

func (m murmurHasher) Hash64(p []byte) uint64 {
	return murmur3.SeedSum64(m.seed, p)
}

type metroHasher struct {
	salt []byte
}

func (m metroHasher) Hash64(p []byte) uint64 {
	h := metrohash.NewMetroHash64()
	h.Write(m.salt)
	h.Write(p)
	return h.Sum64()
}

type xxHasher struct {
	salt []byte
}

func (x xxHasher) Hash64(p []byte) uint64 {
	if len(x.salt) == 0 {
		return xxhash.Sum64(p)
	}
	d := xxhash.New()
	d.Write(x.salt)
	d.Write(p)
	return d.Sum64()
}

type sipHasher struct {
	k0, k1 uint64
}

func (s sipHasher) Hash64(p []byte) uint64 {
	return siphash.Hash(s.k0, s.k1, p)
}

type highwayHasher struct {
	key []byte
}

func (h highwayHasher) Hash64(p []byte) uint64 {
	return highwayhash.Sum64(p, h.key)
}
