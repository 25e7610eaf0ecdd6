package tree

import (
	"io"

	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=ViolationKind
type ViolationKind uint8

const (
	RedRedViolation ViolationKind = iota + 1
	LeftLeaningViolation
	BlackHeightViolation
)

// LLRBNode is a read-only view of a tree node.
// The color marks the edge from the node's parent.
type LLRBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() LLRBNode[K, V]
	Right() LLRBNode[K, V]
}

// LLRBTree is an ordered map balanced as a left-leaning red-black tree.
// It is not safe for concurrent use, the owner has to serialize access.
type LLRBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Root() LLRBNode[K, V]
	Contains(key K) bool
	Get(key K) (V, bool)
	// Insert returns false and keeps the stored value if the key is present.
	Insert(key K, val V) bool
	Remove(key K) bool
	RemoveMin() (K, V, bool)
	Min() (K, V, bool)
	Max() (K, V, bool)
	Height() int
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	// Check reports the first invariant violation found.
	Check() error
	// CheckAll reports every invariant violation found.
	CheckAll() error
	Dump(w io.Writer) error
	Release()
}

// OrderedSet is a key-only LLRBTree.
type OrderedSet[K infra.OrderedKey] interface {
	Len() int64
	Contains(key K) bool
	Insert(key K) bool
	Remove(key K) bool
	Min() (K, bool)
	Max() (K, bool)
	Height() int
	Foreach(action func(idx int64, key K) bool)
	Check() error
	Dump(w io.Writer) error
	Release()
}
