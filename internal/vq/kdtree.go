package vq

import "github.com/Wuerfel21/cinepunk/internal/yuvblock"

const (
	leafSize      = 8
	rebalanceRatio = 2
)

// componentAt reads one of a Block's six scalar components in the same
// order the max-extent search ranks axes by: U, V, Ytl, Ytr, Ybl, Ybr.
// That order matters for determinism -- ties in extent are broken by
// picking the first axis in this order.
func componentAt(b yuvblock.Block, axis int) uint8 {
	switch axis {
	case 0:
		return b.U
	case 1:
		return b.V
	case 2:
		return b.Ytl
	case 3:
		return b.Ytr
	case 4:
		return b.Ybl
	default:
		return b.Ybr
	}
}

func maxExtentAxis(data []yuvblock.Block) int {
	var lo, hi [6]uint8
	for i := range lo {
		lo[i] = 255
	}
	for _, b := range data {
		for axis := 0; axis < 6; axis++ {
			c := componentAt(b, axis)
			if c < lo[axis] {
				lo[axis] = c
			}
			if c > hi[axis] {
				hi[axis] = c
			}
		}
	}
	best, bestExt := 0, hi[0]-lo[0]
	for axis := 1; axis < 6; axis++ {
		ext := hi[axis] - lo[axis]
		if ext > bestExt {
			bestExt = ext
			best = axis
		}
	}
	return best
}

// kdNode is a node of the PNN seed tree. Leaves and branches alike
// reserve a contiguous [start, start+span) region of the tree's backing
// array; a leaf's live elements are the first `fill` of that span, with
// any remainder left over from earlier merges considered garbage until a
// rebalance compacts it away.
type kdNode struct {
	leaf  bool
	start int
	span  int
	fill  int // leaves only

	axis      int
	threshold uint8
	lower     *kdNode
	upper     *kdNode
}

type kdTree struct {
	backing []yuvblock.Block
	root    *kdNode
}

func newKDTree(vectors []yuvblock.Block) *kdTree {
	backing := make([]yuvblock.Block, len(vectors))
	copy(backing, vectors)
	root := buildKDNode(backing, 0, len(backing))
	return &kdTree{backing: backing, root: root}
}

func buildKDNode(backing []yuvblock.Block, start, count int) *kdNode {
	if count <= leafSize {
		return &kdNode{leaf: true, start: start, span: count, fill: count}
	}
	sub := backing[start : start+count]
	axis := maxExtentAxis(sub)
	medianIdx := count / 2
	quickselectBy(sub, medianIdx, func(b yuvblock.Block) uint8 { return componentAt(b, axis) })
	threshold := componentAt(sub[medianIdx], axis)
	lower := buildKDNode(backing, start, medianIdx)
	upper := buildKDNode(backing, start+medianIdx, count-medianIdx)
	return &kdNode{leaf: false, start: start, span: count, axis: axis, threshold: threshold, lower: lower, upper: upper}
}

func (t *kdTree) leafData(n *kdNode) []yuvblock.Block {
	return t.backing[n.start : n.start+n.fill]
}

// flatten compacts the live elements of the subtree rooted at n into
// t.backing starting at dstStart, in left-to-right order, and returns
// the number of live elements.
func (t *kdTree) flatten(n *kdNode, dstStart int) int {
	if n.leaf {
		data := t.leafData(n)
		if n.start != dstStart {
			copy(t.backing[dstStart:dstStart+len(data)], data)
		}
		return len(data)
	}
	n1 := t.flatten(n.lower, dstStart)
	n2 := t.flatten(n.upper, dstStart+n1)
	return n1 + n2
}

// rebalance walks the tree bottom-up, coalescing sibling leaves that now
// fit in one LEAF_SIZE bucket (after merges shrank them) and flattening
// and rebuilding subtrees that have become too lopsided. It returns the
// live vector count of the subtree rooted at n.
func (t *kdTree) rebalance(n *kdNode) int {
	if n.leaf {
		return n.fill
	}
	lowerCount := t.rebalance(n.lower)
	upperCount := t.rebalance(n.upper)
	switch {
	case n.lower.leaf && n.upper.leaf && lowerCount+upperCount <= leafSize:
		upperData := t.leafData(n.upper)
		dstStart := n.lower.start + lowerCount
		copy(t.backing[dstStart:dstStart+upperCount], upperData)
		n.leaf = true
		n.start = n.lower.start
		n.span = n.lower.span + n.upper.span
		n.fill = lowerCount + upperCount
		n.lower, n.upper = nil, nil
		return n.fill
	case lowerCount > rebalanceRatio*upperCount || upperCount > rebalanceRatio*lowerCount:
		flatCount := t.flatten(n, n.start)
		rebuilt := buildKDNode(t.backing, n.start, flatCount)
		*n = *rebuilt
		return flatCount
	default:
		return lowerCount + upperCount
	}
}
