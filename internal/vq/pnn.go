package vq

import "github.com/Wuerfel21/cinepunk/internal/yuvblock"

// pnnCandidate is a proposed merge of two vectors within the same kd-tree
// leaf, identified by their current local index within that leaf's live
// range. Candidates are invalidated whenever their leaf's contents change,
// so every merge regenerates the full candidate set for its leaf.
type pnnCandidate struct {
	leaf   *kdNode
	li, lj int
	cost   uint64
}

// mergeCost scores a candidate pair the way the original Ward-linkage
// merge does: the raw distortion between the two vectors, scaled by a
// weight ratio computed with integer division performed before the
// multiply (not the other way around -- that ordering changes the result
// for small weights).
func mergeCost(a, b yuvblock.Block) uint64 {
	w1, w2 := uint64(a.Weight), uint64(b.Weight)
	wsum := w1 + w2
	if wsum == 0 {
		return 0
	}
	ratio := (w1 * w2) / wsum
	return ratio * uint64(yuvblock.Distortion(a, b))
}

// mergeVectors folds b into a, producing the codeword a later PNN pass (or
// the ELBG refinement that follows) will further adjust. The blend weight
// favours whichever input carries more mass; a zero-weight input leaves
// the other input essentially untouched.
func mergeVectors(a, b yuvblock.Block) yuvblock.Block {
	w1, w2 := uint64(a.Weight), uint64(b.Weight)
	wsum := w1 + w2
	var aw uint8
	if wsum == 0 {
		aw = 128
	} else {
		aw = uint8((511*w1 + w2) / (2 * wsum))
	}
	bw := aw ^ 255
	blend := func(av, bv uint8) uint8 {
		return uint8((uint32(av)*uint32(aw) + uint32(bv)*uint32(bw) + 255) / 256)
	}
	return yuvblock.Block{
		Ytl: blend(a.Ytl, b.Ytl), Ytr: blend(a.Ytr, b.Ytr), Ybl: blend(a.Ybl, b.Ybl), Ybr: blend(a.Ybr, b.Ybr),
		U: blend(a.U, b.U), V: blend(a.V, b.V),
		Weight: clampWeight16(wsum),
	}
}

func collectLeaves(n *kdNode, out *[]*kdNode) {
	if n.leaf {
		*out = append(*out, n)
		return
	}
	collectLeaves(n.lower, out)
	collectLeaves(n.upper, out)
}

func genLeafMerges(t *kdTree, leaf *kdNode) []pnnCandidate {
	data := t.leafData(leaf)
	var out []pnnCandidate
	for i := 0; i < len(data); i++ {
		for j := i + 1; j < len(data); j++ {
			out = append(out, pnnCandidate{leaf: leaf, li: i, lj: j, cost: mergeCost(data[i], data[j])})
		}
	}
	return out
}

// Seed builds a codebook of at most targetSize codewords from vectors by
// repeatedly merging the globally cheapest pair of vectors that share a
// kd-tree leaf, until targetSize remain. Candidates are restricted to
// leaf-mates because the kd-tree split puts spatially close vectors in
// the same leaf, making a leaf-local search a good approximation of a
// full nearest-neighbour search at a fraction of the cost.
//
// This reuses the generic quickselect from select.go to pull the
// minimum-cost candidate each round rather than the original's
// incremental partial/full-sort bookkeeping; the two are behaviourally
// equivalent greedy-merge procedures, just at different constant
// factors.
func Seed(vectors []yuvblock.Block, targetSize int) []yuvblock.Block {
	if len(vectors) <= targetSize {
		out := make([]yuvblock.Block, len(vectors))
		copy(out, vectors)
		return out
	}
	if targetSize < 1 {
		targetSize = 1
	}

	t := newKDTree(vectors)
	t.rebalance(t.root)

	var leaves []*kdNode
	collectLeaves(t.root, &leaves)

	var candidates []pnnCandidate
	for _, lf := range leaves {
		candidates = append(candidates, genLeafMerges(t, lf)...)
	}

	count := len(vectors)
	for count > targetSize {
		if len(candidates) == 0 {
			// Every leaf is down to one vector: rebalance so sibling leaves
			// coalesce, then propose merges within the new leaves.
			t.rebalance(t.root)
			leaves = leaves[:0]
			collectLeaves(t.root, &leaves)
			for _, lf := range leaves {
				candidates = append(candidates, genLeafMerges(t, lf)...)
			}
			if len(candidates) == 0 {
				break
			}
		}
		quickselectBy(candidates, 0, func(c pnnCandidate) uint64 { return c.cost })
		best := candidates[0]
		rest := candidates[1:]

		kept := rest[:0]
		for _, c := range rest {
			if c.leaf != best.leaf {
				kept = append(kept, c)
			}
		}
		candidates = kept

		data := t.leafData(best.leaf)
		merged := mergeVectors(data[best.li], data[best.lj])
		data[best.li] = merged
		copy(data[best.lj:], data[best.lj+1:])
		best.leaf.fill--
		count--

		candidates = append(candidates, genLeafMerges(t, best.leaf)...)
	}

	t.rebalance(t.root)
	n := t.flatten(t.root, 0)
	out := make([]yuvblock.Block, n)
	copy(out, t.backing[:n])
	return out
}
