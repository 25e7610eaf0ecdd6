package tree

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

// llrb rule validation utilities.

var (
	ErrRedRedViolation      = errors.New("llrb red violation")
	ErrLeftLeaningViolation = errors.New("llrb left-leaning violation")
	ErrBlackHeightViolation = errors.New("llrb black violation")
)

func (kind ViolationKind) sentinel() error {
	switch kind {
	case RedRedViolation:
		return ErrRedRedViolation
	case LeftLeaningViolation:
		return ErrLeftLeaningViolation
	case BlackHeightViolation:
		return ErrBlackHeightViolation
	default:
	}
	return nil
}

// ViolationError points to the node where an invariant does not hold.
// It is a defect signal of the fixups, never a user facing condition.
type ViolationError struct {
	Kind ViolationKind
	Key  any
}

func (err *ViolationError) Error() string {
	return fmt.Sprintf("[llrb] %s at key %v", err.Kind, err.Key)
}

func (err *ViolationError) Unwrap() error {
	return err.Kind.sentinel()
}

type llrbValidator[K infra.OrderedKey, V any] struct {
	stopOnFirst bool
	merr        error
}

func (v *llrbValidator[K, V]) report(kind ViolationKind, node *llrbNode[K, V]) bool {
	v.merr = multierr.Append(v.merr, &ViolationError{Kind: kind, Key: node.key})
	return v.stopOnFirst
}

// Postorder traversal, returns the black-height of the subtree and
// whether the validation has to stop.
func (v *llrbValidator[K, V]) blackHeight(node *llrbNode[K, V]) (int, bool) {
	if node == nil {
		return 0, false
	}

	if node.isRed() && (node.left.isRed() || node.right.isRed()) {
		if v.report(RedRedViolation, node) {
			return 0, true
		}
	}
	if node.right.isRed() && node.left.isBlack() {
		if v.report(LeftLeaningViolation, node) {
			return 0, true
		}
	}

	lh, stop := v.blackHeight(node.left)
	if stop {
		return 0, true
	}
	rh, stop := v.blackHeight(node.right)
	if stop {
		return 0, true
	}
	if lh != rh {
		if v.report(BlackHeightViolation, node) {
			return 0, true
		}
	}
	if node.isBlack() {
		lh++
	}
	return lh, false
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [7]
	       /   \
	    [3]     [9]
	    / \     /
	  <1> <4> <8>

Each path from a node to its NIL leaves passes the same number of black
nodes, no red node owns a red child and a red right child always has a
red sibling.
*/
func (tree *llrbTree[K, V]) Check() error {
	v := &llrbValidator[K, V]{stopOnFirst: true}
	_, _ = v.blackHeight(tree.root)
	return v.merr
}

func (tree *llrbTree[K, V]) CheckAll() error {
	v := &llrbValidator[K, V]{}
	_, _ = v.blackHeight(tree.root)
	return v.merr
}

// Dump prints the tree rotated by 90 degrees, the root on the left
// and the greatest key on the top.
//
//	    [9]
//	        <8>
//	[7]
//	        <4>
//	    [3]
//	        <1>
func (tree *llrbTree[K, V]) Dump(w io.Writer) error {
	builder := &strings.Builder{}
	dumpNode[K, V](builder, tree.root, 0)
	_, err := io.WriteString(w, builder.String())
	return err
}

func dumpNode[K infra.OrderedKey, V any](builder *strings.Builder, node *llrbNode[K, V], depth int) {
	if node == nil {
		return
	}
	dumpNode[K, V](builder, node.right, depth+1)
	builder.WriteString(strings.Repeat("    ", depth))
	if node.isRed() {
		_, _ = fmt.Fprintf(builder, "<%v>\n", node.key)
	} else {
		_, _ = fmt.Fprintf(builder, "[%v]\n", node.key)
	}
	dumpNode[K, V](builder, node.left, depth+1)
}
