package tree

import (
	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

// llrbTree properties:
// p1. Every node is either red or black, the color belongs to the
//   edge from its parent.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. If the right child is red, the left child is red too. (left-leaning)
// p5. Every path from a given node to any of its descendant NIL nodes
//   goes through the same number of black nodes. (black-violation)
// p6. The root is black after every public operation returns.
//
// A node with two red children is a temporary 4-node. It is legal as
// long as neither child has a red child of its own.

type llrbTree[K infra.OrderedKey, V any] struct {
	root   *llrbNode[K, V]
	count  int64
	isDesc bool
	strict bool
}

func (tree *llrbTree[K, V]) keyCompare(k1, k2 K) int64 {
	if !tree.isDesc {
		return infra.Ascending[K](k1, k2)
	}
	return infra.Descending[K](k1, k2)
}

func (tree *llrbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *llrbTree[K, V]) Root() LLRBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *llrbTree[K, V]) Height() int {
	return tree.root.height()
}

func (tree *llrbTree[K, V]) search(key K) *llrbNode[K, V] {
	for aux := tree.root; aux != nil; {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *llrbTree[K, V]) Contains(key K) bool {
	return tree.search(key) != nil
}

func (tree *llrbTree[K, V]) Get(key K) (val V, ok bool) {
	if x := tree.search(key); x != nil {
		return x.val, true
	}
	return val, false
}

func (tree *llrbTree[K, V]) Min() (key K, val V, ok bool) {
	if x := tree.root.minimum(); x != nil {
		return x.key, x.val, true
	}
	return key, val, false
}

func (tree *llrbTree[K, V]) Max() (key K, val V, ok bool) {
	if x := tree.root.maximum(); x != nil {
		return x.key, x.val, true
	}
	return key, val, false
}

func (tree *llrbTree[K, V]) Insert(key K, val V) bool {
	var changed bool
	tree.root, changed = tree.insert(tree.root, key, val)
	tree.root.color = Black
	if changed {
		tree.count++
	}
	tree.strictCheck()
	return changed
}

// A new node is always spliced in red at an absent child. The fixup
// runs on the way back up only for the levels whose subtree changed.
func (tree *llrbTree[K, V]) insert(h *llrbNode[K, V], key K, val V) (*llrbNode[K, V], bool) {
	if h == nil {
		return &llrbNode[K, V]{
			key:   key,
			val:   val,
			color: Red,
		}, true
	}

	var changed bool
	if res := tree.keyCompare(key, h.key); /* equal */ res == 0 {
		return h, false
	} else /* less */ if res < 0 {
		h.left, changed = tree.insert(h.left, key, val)
	} else /* greater */ {
		h.right, changed = tree.insert(h.right, key, val)
	}
	if changed {
		h = h.insertFixup()
	}
	return h, changed
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

if1: The left child is black and the right child is red. Restore the
left-leaning property.

	  {H}                  {R}
	  / \   flipLeft(H)    / \
	[L] <R>  ========>   <H>  ..
	                     /
	                   [L]

if2: H is black, both children are red and one of them has a red
left child. Split the 4-node, H turns red and the red-violation (if
any) moves one level up.

	    [H]                 <H>
	    / \   pushBlack     / \
	  <L> <R>  ========>  [L] [R]
	  /                   /
	<X>                 <X>

if3: H is black, only the left child is red and it has a red left
child. Rotate the red pair into a single balanced red edge.

	      [H]                [L]
	      / \  flipRight(H)  / \
	    <L> [R] ==========> <X> <H>
	    /                         \
	  <X>                         [R]
*/
func (node *llrbNode[K, V]) insertFixup() *llrbNode[K, V] {
	h := node
	if /* if1 */ h.left.isBlack() && h.right.isRed() {
		h = h.flipLeft()
	}
	if h.isBlack() && h.left.isRed() {
		if h.right.isRed() {
			if /* if2 */ h.left.left.isRed() || h.right.left.isRed() {
				h.pushBlack()
			}
		} else if /* if3 */ h.left.left.isRed() {
			h = h.flipRight()
		}
	}
	return h
}

func (tree *llrbTree[K, V]) Remove(key K) bool {
	var removed bool
	tree.root, removed, _ = tree.remove(tree.root, key)
	if tree.root != nil {
		tree.root.color = Black
	}
	if removed {
		tree.count--
	}
	tree.strictCheck()
	return removed
}

func (tree *llrbTree[K, V]) RemoveMin() (key K, val V, ok bool) {
	if tree.root == nil {
		return key, val, false
	}
	var x *llrbNode[K, V]
	tree.root, x, _ = tree.root.removeMin()
	if tree.root != nil {
		tree.root.color = Black
	}
	tree.count--
	tree.strictCheck()
	return x.key, x.val, true
}

/*
The deficit flag reports that the returned subtree lost one black
level and its root is black. It is never dropped, the level above
either repairs it or passes it on.

r1: The key is not here, recurse and fix the side that lost a level.

r2: H has no right child. Then the left child is NIL or a red leaf.
Splice H out.

r3: H has a right child. Move the minimum of the right subtree into H
and splice the minimum node out instead.

	  |                  |
	  H                  S
	 / \                / \
	L  ..   remove(H)  L  ..
	    |  =========>      |
	    P                  P
	   / \                / \
	  S  ..              X  ..
*/
func (tree *llrbTree[K, V]) remove(h *llrbNode[K, V], key K) (_ *llrbNode[K, V], removed, deficit bool) {
	if h == nil {
		return nil, false, false
	}

	if res := tree.keyCompare(key, h.key); /* r1 */ res < 0 {
		if h.left, removed, deficit = tree.remove(h.left, key); !removed {
			// Absent key, the path is left untouched.
			return h, false, false
		}
		if deficit {
			h, deficit = h.removeFixupLeft()
		}
	} else /* r1 */ if res > 0 {
		if h.right, removed, deficit = tree.remove(h.right, key); !removed {
			return h, false, false
		}
		if deficit {
			h, deficit = h.removeFixupRight()
		}
	} else {
		removed = true
		if /* r2 */ h.right == nil {
			h, deficit = h.spliceOut(h.left)
			return h, removed, deficit
		}
		/* r3 */
		var x *llrbNode[K, V]
		h.right, x, deficit = h.right.removeMin()
		h.key, h.val = x.key, x.val
		if deficit {
			h, deficit = h.removeFixupRight()
		}
	}
	return h.fixLeaning(), removed, deficit
}

// removeMin returns the new subtree root, the unlinked minimum node
// and the deficit flag.
func (node *llrbNode[K, V]) removeMin() (_, x *llrbNode[K, V], deficit bool) {
	h := node
	if h.left == nil {
		// By p4 the right child is NIL too.
		h, deficit = node.spliceOut(node.right)
		return h, node, deficit
	}
	if h.left, x, deficit = h.left.removeMin(); deficit {
		h, deficit = h.removeFixupLeft()
	}
	return h.fixLeaning(), x, deficit
}

// spliceOut unlinks the node and hands its only child up.
// Removing a red node never changes the black-height. A black node
// with a red child hands the black over to the child.
func (node *llrbNode[K, V]) spliceOut(child *llrbNode[K, V]) (*llrbNode[K, V], bool) {
	node.left, node.right = nil, nil
	if node.isRed() {
		return child, false
	}
	if child.isRed() {
		child.color = Black
		return child, false
	}
	return child, true
}

/*
The left child X lost one black level, X is black and the sibling S
must be black (a red right child implies a red left child, but the
deficit only comes from black subtrees).

rfl1: Repaint S red and rotate it up. H (now red) holds X and S's left
child Sc.

	  {H}                   {S}
	  / \    flipLeft(H)    / \
	[X] <S>  ==========>  <H> [Sd]
	    / \               / \
	 [Sc] [Sd]          [X] [Sc]

rfl2: Sc is black. S owns one black level less than the target. If S
took a red color from H, paint it black and the deficit is cleared.
Otherwise S is black and the deficit moves one level up.

rfl3: Sc is red, H-Sc is a red-violation. Rotate Sc to the top, it
takes H's original color and both H and S turn black. The deficit is
always cleared.

	      {S}                      {Sc}
	      / \                      /  \
	    <H> [Sd]  rotateLeft(H)  [H]  [S]
	    / \       flipRight(S)   / \  / \
	  [X] <Sc>    ===========> [X] .. .. [Sd]
	      /  \
	     ..  ..
*/
func (node *llrbNode[K, V]) removeFixupLeft() (*llrbNode[K, V], bool) {
	h := node
	if s := h.right; s == nil || s.isRed() {
		return h, false
	}

	/* rfl1 */
	h.right.color = Red
	h = h.flipLeft()
	if /* rfl2 */ h.left.right.isBlack() {
		if h.isRed() {
			h.color = Black
			return h, false
		}
		return h, true
	}

	/* rfl3 */
	h.left = h.left.rotateLeft()
	h = h.flipRight()
	h.left.color, h.right.color = Black, Black
	h.right = h.right.fixLeaning()
	return h, false
}

/*
The right child X lost one black level, X is black.

rfr1: H is black and the left child L is red. Rotate L up, H turns
red and becomes the parent of X. Fix X under the red H, which can not
report a deficit, then restore the left-leaning property.

	    [H]                 [L]
	    / \  flipRight(H)   / \
	  <L> [X] ==========> [A] <H>
	  / \                     / \
	[A] [B]                 [B] [X]

rfr2: L is black. Repaint L red and rotate it up, H (now red) holds
L's right child B and X.

	    {H}                  {L}
	    / \   flipRight(H)   / \
	  [L] [X] ===========> [A] <H>
	  / \                      / \
	{A} [B]                  [B] [X]

rfr3: B is red, H-B is a red-violation. Rotate B to the top, it takes
H's original color, L and H turn black.

rfr4: A is red, both children of L are red now. Paint them black, L
keeps H's original color.

rfr5: Otherwise rotate H back to the top. If H took a red color, paint
it black. Otherwise the deficit moves one level up.
*/
func (node *llrbNode[K, V]) removeFixupRight() (*llrbNode[K, V], bool) {
	h := node
	if /* rfr1 */ h.isBlack() && h.left.isRed() {
		h = h.flipRight()
		var deficit bool
		if h.right, deficit = h.right.removeFixupRight(); deficit {
			// impossible run to here
			panic( /* debug assertion */ "[llrb] remove fixup violate (rfr1)")
		}
		return h.fixLeaning(), false
	}

	if l := h.left; l == nil || l.isRed() || h.right.isRed() {
		return h, false
	}

	/* rfr2 */
	h.left.color = Red
	h = h.flipRight()
	if /* rfr3 */ h.right.left.isRed() {
		h.right = h.right.rotateRight()
		h = h.flipLeft()
		h.left.color, h.right.color = Black, Black
		return h, false
	}
	if /* rfr4 */ h.left.isRed() {
		h.left.color, h.right.color = Black, Black
		return h, false
	}

	/* rfr5 */
	h = h.flipLeft()
	if h.isRed() {
		h.color = Black
		return h, false
	}
	return h, true
}

// Inorder traversal to implement the DFS.
func (tree *llrbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	aux := tree.root
	if aux == nil {
		return
	}

	stack := make([]*llrbNode[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *llrbTree[K, V]) Release() {
	aux := tree.root
	tree.root, tree.count = nil, 0
	if aux == nil {
		return
	}

	stack := make([]*llrbNode[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		r := aux.right
		aux.left, aux.right = nil, nil
		for aux = r; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *llrbTree[K, V]) strictCheck() {
	if !tree.strict {
		return
	}
	if err := tree.Check(); err != nil {
		panic(err)
	}
}

type llrbTreeConfig struct {
	isDesc bool
	strict bool
}

type LLRBTreeOption func(*llrbTreeConfig)

// WithLLRBTreeDesc orders the keys from the greatest to the least.
func WithLLRBTreeDesc() LLRBTreeOption {
	return func(cfg *llrbTreeConfig) {
		cfg.isDesc = true
	}
}

// WithLLRBTreeStrict validates the whole tree after every mutation and
// panics on the first violation. Serves for tests and debugging only.
func WithLLRBTreeStrict() LLRBTreeOption {
	return func(cfg *llrbTreeConfig) {
		cfg.strict = true
	}
}

func newLLRBTree[K infra.OrderedKey, V any](opts ...LLRBTreeOption) *llrbTree[K, V] {
	cfg := &llrbTreeConfig{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return &llrbTree[K, V]{
		isDesc: cfg.isDesc,
		strict: cfg.strict,
	}
}

func NewLLRBTree[K infra.OrderedKey, V any](opts ...LLRBTreeOption) LLRBTree[K, V] {
	return newLLRBTree[K, V](opts...)
}
