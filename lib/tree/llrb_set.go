package tree

import (
	"io"

	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

var _ OrderedSet[int] = (*llrbSet[int])(nil)

type llrbSet[K infra.OrderedKey] struct {
	tree *llrbTree[K, struct{}]
}

func (s *llrbSet[K]) Len() int64 {
	return s.tree.Len()
}

func (s *llrbSet[K]) Contains(key K) bool {
	return s.tree.Contains(key)
}

func (s *llrbSet[K]) Insert(key K) bool {
	return s.tree.Insert(key, struct{}{})
}

func (s *llrbSet[K]) Remove(key K) bool {
	return s.tree.Remove(key)
}

func (s *llrbSet[K]) Min() (K, bool) {
	key, _, ok := s.tree.Min()
	return key, ok
}

func (s *llrbSet[K]) Max() (K, bool) {
	key, _, ok := s.tree.Max()
	return key, ok
}

func (s *llrbSet[K]) Height() int {
	return s.tree.Height()
}

func (s *llrbSet[K]) Foreach(action func(idx int64, key K) bool) {
	s.tree.Foreach(func(idx int64, _ RBColor, key K, _ struct{}) bool {
		return action(idx, key)
	})
}

func (s *llrbSet[K]) Check() error {
	return s.tree.Check()
}

func (s *llrbSet[K]) Dump(w io.Writer) error {
	return s.tree.Dump(w)
}

func (s *llrbSet[K]) Release() {
	s.tree.Release()
}

func NewOrderedSet[K infra.OrderedKey](opts ...LLRBTreeOption) OrderedSet[K] {
	return &llrbSet[K]{
		tree: newLLRBTree[K, struct{}](opts...),
	}
}
