package kv

// HashFunc maps a key to its hash code. Only the low 32 bits take part
// in the slot selection.
type HashFunc[K comparable] func(key K) uint64

type Set[K comparable] interface {
	Len() int64
	Contains(key K) bool
	Insert(key K) bool
	Remove(key K) bool
	Foreach(action func(idx int64, key K) bool)
	Clear()
}
