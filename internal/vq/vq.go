// Package vq implements the two-stage vector quantiser cinepunk uses to
// build each strip's V1 and V4 codebooks: a fast pairwise-nearest-neighbour
// seed pass over a kd-tree, followed by an ELBG refinement pass.
package vq

import "github.com/Wuerfel21/cinepunk/internal/yuvblock"

// clusterAccum accumulates a weighted sum of assigned vectors for one
// centroid recomputation.
type clusterAccum struct {
	sumYtl, sumYtr, sumYbl, sumYbr, sumU, sumV uint64
	weight                                     uint64
}

func (c *clusterAccum) add(b yuvblock.Block) {
	w := uint64(b.Weight)
	c.sumYtl += w * uint64(b.Ytl)
	c.sumYtr += w * uint64(b.Ytr)
	c.sumYbl += w * uint64(b.Ybl)
	c.sumYbr += w * uint64(b.Ybr)
	c.sumU += w * uint64(b.U)
	c.sumV += w * uint64(b.V)
	c.weight += w
}

func (c *clusterAccum) centroid() yuvblock.Block {
	if c.weight == 0 {
		return yuvblock.Block{}
	}
	half := c.weight / 2
	round := func(sum uint64) uint8 {
		return yuvblock.Clamp8(int((sum + half) / c.weight))
	}
	return yuvblock.Block{
		Ytl: round(c.sumYtl), Ytr: round(c.sumYtr), Ybl: round(c.sumYbl), Ybr: round(c.sumYbr),
		U: round(c.sumU), V: round(c.sumV),
		Weight: clampWeight16(c.weight),
	}
}

func clampWeight16(w uint64) uint16 {
	if w > 65535 {
		return 65535
	}
	return uint16(w)
}

// voronoiPartition assigns each vector to its nearest codeword (unweighted
// distortion decides the winner), then accumulates that vector's
// weight-scaled distortion against its assigned code. It returns the
// per-code accumulated distortion.
func voronoiPartition(vectors []yuvblock.Block, codebook []yuvblock.Block, assign []int) []uint64 {
	codeDistortion := make([]uint64, len(codebook))
	for i, v := range vectors {
		best := 0
		bestDist := yuvblock.Distortion(v, codebook[0])
		for c := 1; c < len(codebook); c++ {
			d := yuvblock.Distortion(v, codebook[c])
			if d < bestDist {
				bestDist = d
				best = c
			}
		}
		assign[i] = best
		codeDistortion[best] += uint64(v.Weight) * uint64(bestDist)
	}
	return codeDistortion
}

// computeCentroids recomputes a codebook of the given size from the
// current vector-to-code assignment. Codes with no assigned vectors come
// back as the zero vector; the caller (ELBG's split step) is responsible
// for keeping the codebook populated.
func computeCentroids(vectors []yuvblock.Block, assign []int, numCodes int) []yuvblock.Block {
	accums := make([]clusterAccum, numCodes)
	for i, v := range vectors {
		accums[assign[i]].add(v)
	}
	out := make([]yuvblock.Block, numCodes)
	for i := range out {
		out[i] = accums[i].centroid()
	}
	return out
}

// bboxDistrib computes, per component, a quarter-range inward offset from
// the bounding box of members and returns the two points {min+off,
// max-off}. Splitting a code into this pair spreads the new pair toward
// the bulk of its members rather than toward the box's extremes.
func bboxDistrib(members []yuvblock.Block) (lo, hi yuvblock.Block) {
	var loY, hiY [6]int
	for i := range loY {
		loY[i] = 255
	}
	get := func(b yuvblock.Block, axis int) int {
		switch axis {
		case 0:
			return int(b.Ytl)
		case 1:
			return int(b.Ytr)
		case 2:
			return int(b.Ybl)
		case 3:
			return int(b.Ybr)
		case 4:
			return int(b.U)
		default:
			return int(b.V)
		}
	}
	for _, m := range members {
		for axis := 0; axis < 6; axis++ {
			v := get(m, axis)
			if v < loY[axis] {
				loY[axis] = v
			}
			if v > hiY[axis] {
				hiY[axis] = v
			}
		}
	}
	var loVals, hiVals [6]uint8
	for axis := 0; axis < 6; axis++ {
		off := (hiY[axis] - loY[axis]) >> 2
		loVals[axis] = yuvblock.Clamp8(loY[axis] + off)
		hiVals[axis] = yuvblock.Clamp8(hiY[axis] - off)
	}
	lo = yuvblock.Block{Ytl: loVals[0], Ytr: loVals[1], Ybl: loVals[2], Ybr: loVals[3], U: loVals[4], V: loVals[5]}
	hi = yuvblock.Block{Ytl: hiVals[0], Ytr: hiVals[1], Ybl: hiVals[2], Ybr: hiVals[3], U: hiVals[4], V: hiVals[5]}
	return lo, hi
}

// perturb splits one codeword into a pair. When members is non-empty it
// spreads the pair across the members' bounding box; otherwise it falls
// back to a flat +-2 nudge of the single original codeword. Neither half
// carries over the original Weight -- the next partition/centroid pass
// fills it in.
func perturb(code yuvblock.Block, members []yuvblock.Block) (a, b yuvblock.Block) {
	if len(members) > 0 {
		return bboxDistrib(members)
	}
	nudge := func(x uint8, d int) uint8 { return yuvblock.Clamp8(int(x) + d) }
	a = yuvblock.Block{
		Ytl: nudge(code.Ytl, 2), Ytr: nudge(code.Ytr, 2), Ybl: nudge(code.Ybl, 2), Ybr: nudge(code.Ybr, 2),
		U: nudge(code.U, 2), V: nudge(code.V, 2),
	}
	b = yuvblock.Block{
		Ytl: nudge(code.Ytl, -2), Ytr: nudge(code.Ytr, -2), Ybl: nudge(code.Ybl, -2), Ybr: nudge(code.Ybr, -2),
		U: nudge(code.U, -2), V: nudge(code.V, -2),
	}
	return a, b
}
