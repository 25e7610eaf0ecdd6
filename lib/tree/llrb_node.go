package tree

import (
	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

// References:
// https://opendatastructures.org/ods-java/9_2_RedBlackTree_Simulated_.html
// https://sedgewick.io/wp-content/themes/sedgewick/papers/2008LLRB.pdf

// A parent owns its children exclusively and there is no back pointer.
// Every restructure takes a subtree and returns the new subtree root,
// the caller relinks it into the slot it took it from.
type llrbNode[K infra.OrderedKey, V any] struct {
	left  *llrbNode[K, V]
	right *llrbNode[K, V]
	key   K
	val   V
	color RBColor
}

func (node *llrbNode[K, V]) Key() K {
	return node.key
}

func (node *llrbNode[K, V]) Val() V {
	return node.val
}

func (node *llrbNode[K, V]) Color() RBColor {
	if node == nil {
		return Black
	}
	return node.color
}

func (node *llrbNode[K, V]) Left() LLRBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *llrbNode[K, V]) Right() LLRBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// Absent children are black.
func (node *llrbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *llrbNode[K, V]) isBlack() bool {
	return !node.isRed()
}

func (node *llrbNode[K, V]) minimum() *llrbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *llrbNode[K, V]) maximum() *llrbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

func (node *llrbNode[K, V]) height() int {
	if node == nil {
		return 0
	}
	return 1 + max(node.left.height(), node.right.height())
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

	   {U}                     {W}
	   / \    rotateLeft(U)    / \
	  A  {W}  ============>  {U}  C
	     / \                 / \
	    B   C               A   B

Colors are untouched.
*/
func (node *llrbNode[K, V]) rotateLeft() *llrbNode[K, V] {
	if node == nil || node.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] left rotate node is nil or node.right is nil")
	}
	w := node.right
	node.right, w.left = w.left, node
	return w
}

/*
	     {U}                   {W}
	     / \   rotateRight(U)  / \
	   {W}  C  ============>  A  {U}
	   / \                       / \
	  A   B                     B   C
*/
func (node *llrbNode[K, V]) rotateRight() *llrbNode[K, V] {
	if node == nil || node.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] right rotate node is nil or node.left is nil")
	}
	w := node.left
	node.left, w.right = w.right, node
	return w
}

/*
Swap the colors of U and its right child W, then rotate left.
The subtree root keeps U's color, U takes W's color.

	  [U]                 [W]
	  / \   flipLeft(U)   / \
	[A] <W> ==========> <U>  C
	    / \             / \
	   B   C          [A]  B
*/
func (node *llrbNode[K, V]) flipLeft() *llrbNode[K, V] {
	if node == nil || node.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] flip left node is nil or node.right is nil")
	}
	node.color, node.right.color = node.right.color, node.color
	return node.rotateLeft()
}

/*
	    [U]                [W]
	    / \  flipRight(U)  / \
	  <W> [C] =========>  A  <U>
	  / \                    / \
	 A   B                  B  [C]
*/
func (node *llrbNode[K, V]) flipRight() *llrbNode[K, V] {
	if node == nil || node.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] flip right node is nil or node.left is nil")
	}
	node.color, node.left.color = node.left.color, node.color
	return node.rotateRight()
}

/*
Split a temporary 4-node, the black-height is unchanged.

	    [U]                <U>
	    / \  pushBlack(U)  / \
	  <A> <B> ==========> [A] [B]
*/
func (node *llrbNode[K, V]) pushBlack() {
	if node == nil || node.left == nil || node.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] push black node requires two children")
	}
	node.color = Red
	node.left.color = Black
	node.right.color = Black
}

// The inverse of pushBlack. None of the insert or remove fixups need it,
// it completes the color primitives and is only exercised directly.
func (node *llrbNode[K, V]) pullBlack() {
	if node == nil || node.left == nil || node.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] pull black node requires two children")
	}
	node.color = Black
	node.left.color = Red
	node.right.color = Red
}

// A right leaning red edge is only allowed while a fixup is pending.
func (node *llrbNode[K, V]) fixLeaning() *llrbNode[K, V] {
	if node != nil && node.left.isBlack() && node.right.isRed() {
		return node.flipLeft()
	}
	return node
}
