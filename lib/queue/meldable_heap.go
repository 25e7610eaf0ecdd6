package queue

import (
	randv2 "math/rand/v2"

	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

// References:
// https://opendatastructures.org/ods-java/10_2_MeldableHeap_Randomiz.html

/*
Randomized meldable heap. A heap ordered binary tree without any shape
rule, every operation is a merge of two subtrees.

	merge(h1, h2), h1.elem <= h2.elem
	   (h1)                  (h1)
	   /  \     coin flip    /  \
	  L    R   ==========> merge(L, h2)  R
	                  or     L  merge(R, h2)

The expected length of a random walk down the tree is O(log n), so
the merges are expected O(log n).
*/

type meldableHeapNode[E any] struct {
	left  *meldableHeapNode[E]
	right *meldableHeapNode[E]
	elem  E
}

type meldableHeapConfig struct {
	rng *randv2.Rand
}

type MeldableHeapOption func(cfg *meldableHeapConfig)

func WithMeldableHeapRand(rng *randv2.Rand) MeldableHeapOption {
	return func(cfg *meldableHeapConfig) {
		cfg.rng = rng
	}
}

var _ MinHeap[int] = (*MeldableHeap[int])(nil)

type MeldableHeap[E any] struct {
	root       *meldableHeapNode[E]
	comparator HeapElementComparator[E]
	rng        *randv2.Rand
	count      int64
}

func (h *MeldableHeap[E]) merge(h1, h2 *meldableHeapNode[E]) *meldableHeapNode[E] {
	if h1 == nil {
		return h2
	}
	if h2 == nil {
		return h1
	}
	if h.comparator(h1.elem, h2.elem) > 0 {
		h1, h2 = h2, h1
	}
	if h.rng.IntN(2) == 0 {
		h1.left = h.merge(h1.left, h2)
	} else {
		h1.right = h.merge(h1.right, h2)
	}
	return h1
}

func (h *MeldableHeap[E]) Len() int64 {
	return h.count
}

func (h *MeldableHeap[E]) Insert(elem E) {
	h.root = h.merge(&meldableHeapNode[E]{elem: elem}, h.root)
	h.count++
}

func (h *MeldableHeap[E]) Peek() (elem E, ok bool) {
	if h.root == nil {
		return elem, false
	}
	return h.root.elem, true
}

func (h *MeldableHeap[E]) Pop() (elem E, ok bool) {
	if h.root == nil {
		return elem, false
	}
	root := h.root
	h.root = h.merge(root.left, root.right)
	root.left, root.right = nil, nil
	h.count--
	return root.elem, true
}

// Append moves all the elements of other into h, other is empty
// afterward. Both heaps have to share the same ordering.
func (h *MeldableHeap[E]) Append(other *MeldableHeap[E]) {
	if other == nil || other == h {
		return
	}
	h.root = h.merge(h.root, other.root)
	h.count += other.count
	other.root, other.count = nil, 0
}

// Foreach visits the elements in preorder.
func (h *MeldableHeap[E]) Foreach(action func(depth int, elem E) bool) {
	type frame struct {
		node  *meldableHeapNode[E]
		depth int
	}
	if h.root == nil {
		return
	}
	stack := make([]frame, 0, 64)
	stack = append(stack, frame{node: h.root})
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _continue := action(top.depth, top.node.elem); !_continue {
			return
		}
		if top.node.right != nil {
			stack = append(stack, frame{node: top.node.right, depth: top.depth + 1})
		}
		if top.node.left != nil {
			stack = append(stack, frame{node: top.node.left, depth: top.depth + 1})
		}
	}
}

func NewMeldableHeap[E any](comparator HeapElementComparator[E], opts ...MeldableHeapOption) *MeldableHeap[E] {
	if comparator == nil {
		panic( /* debug assertion */ "[meldable-heap] comparator is nil")
	}
	cfg := &meldableHeapConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = randv2.New(randv2.NewPCG(randv2.Uint64(), randv2.Uint64()))
	}
	return &MeldableHeap[E]{
		comparator: comparator,
		rng:        cfg.rng,
	}
}

func NewOrderedMeldableHeap[E infra.OrderedKey](opts ...MeldableHeapOption) *MeldableHeap[E] {
	return NewMeldableHeap[E](HeapElementComparator[E](infra.Ascending[E]), opts...)
}
