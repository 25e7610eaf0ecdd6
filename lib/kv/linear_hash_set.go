package kv

import (
	"errors"
	randv2 "math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

// References:
// https://opendatastructures.org/ods-java/5_2_LinearHashTable_Linear_.html
// https://en.wikipedia.org/wiki/Tabulation_hashing

/*
 index |   0    |   1    |   2    |   3    |   4    | ... |  2^d-1 |
-------|--------|--------|--------|--------|--------|     |--------|
 key   |   5    |        |   39   |   13   |        | ... |        |
-------|--------|--------|--------|--------|--------|     |--------|
 state |  full  | empty  |  full  |  dead  | empty  | ... | empty  |

1. open-addressing
One array keeps the keys, a collision moves on to the next slot
(linear-probing) and wraps around at the end of the array.

2. deletion
A removed key leaves a tombstone (dead) behind, so the probe chains
passing through that slot are not broken. A later insertion may reuse
the tombstone.

3. load factor
The non empty slots (full + dead) never exceed the half of the array.
The array shrinks once the full slots fall under 1/8 of it. Every
resize drops the tombstones and makes the array the smallest power of
two that is at least 3 times the number of keys.
*/

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFull
	slotDead
)

const (
	tabulationTables = 4
	tabulationSize   = 256
)

var errNilHashFunc = errors.New("[linear-hash-set] hash func is nil")

type linearHashSlot[K comparable] struct {
	key   K
	state slotState
}

type linearHashSetConfig struct {
	rng *randv2.Rand
}

type LinearHashSetOption func(cfg *linearHashSetConfig)

// WithLinearHashSetRand fills the tabulation tables from rng,
// the same rng always builds the same layout.
func WithLinearHashSetRand(rng *randv2.Rand) LinearHashSetOption {
	return func(cfg *linearHashSetConfig) {
		cfg.rng = rng
	}
}

var _ Set[int] = (*LinearHashSet[int])(nil)

type LinearHashSet[K comparable] struct {
	slots  []linearHashSlot[K]
	hashFn HashFunc[K]
	tab    [tabulationTables][tabulationSize]uint64
	n      int64 // full slots
	q      int64 // full + dead slots
	d      uint8 // len(slots) == 1 << d
}

func (s *LinearHashSet[K]) hash(key K) uint64 {
	h := s.hashFn(key)
	return (s.tab[0][h&0xff] ^
		s.tab[1][(h>>8)&0xff] ^
		s.tab[2][(h>>16)&0xff] ^
		s.tab[3][(h>>24)&0xff]) & (1<<s.d - 1)
}

func (s *LinearHashSet[K]) next(i uint64) uint64 {
	i++
	if i >= uint64(len(s.slots)) { // wrap-around
		i = 0
	}
	return i
}

func (s *LinearHashSet[K]) Len() int64 {
	return s.n
}

func (s *LinearHashSet[K]) Contains(key K) bool {
	for i := s.hash(key); s.slots[i].state != slotEmpty; i = s.next(i) {
		if s.slots[i].state == slotFull && s.slots[i].key == key {
			return true
		}
	}
	return false
}

func (s *LinearHashSet[K]) Insert(key K) bool {
	if s.Contains(key) {
		return false
	}
	if 2*(s.q+1) > int64(len(s.slots)) {
		s.resize()
	}
	i := s.hash(key)
	for ; s.slots[i].state == slotFull; i = s.next(i) {
	}
	if s.slots[i].state == slotEmpty {
		s.q++
	}
	s.slots[i] = linearHashSlot[K]{key: key, state: slotFull}
	s.n++
	return true
}

func (s *LinearHashSet[K]) Remove(key K) bool {
	for i := s.hash(key); s.slots[i].state != slotEmpty; i = s.next(i) {
		if s.slots[i].state != slotFull || s.slots[i].key != key {
			continue
		}
		var k K
		s.slots[i] = linearHashSlot[K]{key: k, state: slotDead}
		s.n--
		if 8*s.n < int64(len(s.slots)) {
			s.resize()
		}
		return true
	}
	return false
}

func (s *LinearHashSet[K]) Foreach(action func(idx int64, key K) bool) {
	idx := int64(0)
	for i := range s.slots {
		if s.slots[i].state != slotFull {
			continue
		}
		if _continue := action(idx, s.slots[i].key); !_continue {
			return
		}
		idx++
	}
}

func (s *LinearHashSet[K]) Clear() {
	s.slots = make([]linearHashSlot[K], 1)
	s.n, s.q, s.d = 0, 0, 0
}

func (s *LinearHashSet[K]) resize() {
	d := uint8(1)
	for int64(1)<<d < 3*s.n {
		d++
	}
	oldSlots := s.slots
	s.slots = make([]linearHashSlot[K], 1<<d)
	s.d, s.q = d, s.n
	for _, slot := range oldSlots {
		if slot.state != slotFull {
			continue
		}
		i := s.hash(slot.key)
		for ; s.slots[i].state != slotEmpty; i = s.next(i) {
		}
		s.slots[i] = slot
	}
}

func NewLinearHashSet[K comparable](hashFn HashFunc[K], opts ...LinearHashSetOption) (*LinearHashSet[K], error) {
	if hashFn == nil {
		return nil, errNilHashFunc
	}
	cfg := &linearHashSetConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = randv2.New(randv2.NewPCG(randv2.Uint64(), randv2.Uint64()))
	}

	s := &LinearHashSet[K]{
		slots:  make([]linearHashSlot[K], 1),
		hashFn: hashFn,
	}
	for i := 0; i < tabulationTables; i++ {
		for j := 0; j < tabulationSize; j++ {
			s.tab[i][j] = cfg.rng.Uint64()
		}
	}
	return s, nil
}

func StringHashFunc(key string) uint64 {
	h := xxhash.Sum64String(key)
	// Fold the high half in, only the low 32 bits are tabulated.
	return h ^ (h >> 32)
}

func IntegerHashFunc[K infra.Integer](key K) uint64 {
	h := uint64(key)
	// Same folding as StringHashFunc, keys differing only above bit 31
	// must not share a home slot.
	return h ^ (h >> 32)
}
