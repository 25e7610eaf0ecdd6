package queue

import "github.com/n4o847/sig-datastructures-2020/lib/infra"

// MinHeap pops the element that orders first under its comparator.
type MinHeap[E any] interface {
	Len() int64
	Insert(elem E)
	Pop() (E, bool)
	Peek() (E, bool)
	Foreach(action func(depth int, elem E) bool)
}

// HeapElementComparator
// if return > 0, i > j
// if return 0, i == j
// if return < 0, i < j
type HeapElementComparator[E any] infra.OrderedKeyComparator[E]
