package strip

import (
	"github.com/Wuerfel21/cinepunk/internal/vq"
	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

// Rate-distortion bit-cost constants for each per-macroblock encoding.
// These scale the trade-off a strip makes between the bits a mode costs
// to signal and the distortion it introduces; intra (V4-capable) strips
// pay one mode bit per macroblock, inter (skip-capable) strips pay a
// presence bit plus a mode bit, and a pure-V1 strip pays neither.
const (
	qualityScale  = 1
	costV1Only    = 8
	costIntraV1   = 9
	costIntraV4   = 33
	costInterV1   = 10
	costInterV4   = 34
	costInterSkip = 1
)

func bitCost(branch uint64, qualityFactor uint) uint64 {
	return branch * qualityScale * uint64(qualityFactor) * yuvblock.TotalWeight
}

// MBInput is the source data for one macroblock's mode decision: its
// four full-resolution blocks, the half-resolution vector representing
// it in the V1 codebook, and -- for inter strips only -- the weighted
// distortion of re-using the previous frame's reconstruction verbatim.
type MBInput struct {
	V4             [4]yuvblock.Block // tl, tr, bl, br
	V1             yuvblock.Block
	SkipDistortion uint64
	CanSkip        bool
}

// codebookTarget caps codebook size: one entry per source vector at
// most, and never more than the 256 entries an 8-bit index in the image
// chunk can address.
func codebookTarget(n int) int {
	if n > 256 {
		return 256
	}
	if n < 1 {
		return 1
	}
	return n
}

// TryStrip builds both codebooks for one strip and decides, per
// macroblock, the cheapest of the codings available to it, then decides
// the strip-wide encoding type from the aggregate cost of the
// alternatives: an all-V1 strip (no per-macroblock mode bits at all), or
// a mixed strip using per-macroblock mode bits (V4-capable when inter is
// false, additionally skip-capable when inter is true).
func TryStrip(mbs []MBInput, mbWidth, mbHeight int, qualityFactor uint, inter bool) *Encoding {
	n := len(mbs)

	v4Vectors := make([]yuvblock.Block, 0, n*4)
	v1Vectors := make([]yuvblock.Block, 0, n)
	for _, mb := range mbs {
		v4Vectors = append(v4Vectors, mb.V4[:]...)
		v1Vectors = append(v1Vectors, mb.V1)
	}

	v4Target := codebookTarget(len(v4Vectors))
	v4Codebook, v4Assign := vq.Refine(v4Vectors, v4Target, vq.Seed(v4Vectors, v4Target))

	v1Target := codebookTarget(len(v1Vectors))
	v1Codebook, v1Assign := vq.Refine(v1Vectors, v1Target, vq.Seed(v1Vectors, v1Target))

	result := &Encoding{
		MBWidth: mbWidth, MBHeight: mbHeight,
		V1Codebook: v1Codebook, V4Codebook: v4Codebook,
		MBs: make([]MB, n),
	}

	var v1OnlyTotal, mixedTotal, intraTotal uint64
	v1OnlyCost := bitCost(costV1Only, qualityFactor)
	intraV1Cost, intraV4Cost := bitCost(costIntraV1, qualityFactor), bitCost(costIntraV4, qualityFactor)
	var v1Cost, v4Cost, skipCost uint64
	if inter {
		v1Cost, v4Cost, skipCost = bitCost(costInterV1, qualityFactor), bitCost(costInterV4, qualityFactor), bitCost(costInterSkip, qualityFactor)
	} else {
		v1Cost, v4Cost = intraV1Cost, intraV4Cost
	}

	// intraMBs mirrors result.MBs but always picks between V1 and V4 only
	// (intra cost constants, no skip option); it's only consulted if an
	// inter strip loses to the intra alternative below.
	intraMBs := make([]MB, n)

	for i, mb := range mbs {
		v1Idx := v1Assign[i]
		v1Dist := uint64(yuvblock.MacroblockV1Distortion(mb.V4[0], mb.V4[1], mb.V4[2], mb.V4[3], v1Codebook[v1Idx]))

		var v4Idx [4]int
		var v4Dist uint64
		for k := 0; k < 4; k++ {
			v4Idx[k] = v4Assign[i*4+k]
			v4Dist += uint64(yuvblock.Distortion(mb.V4[k], v4Codebook[v4Idx[k]]))
		}

		v1OnlyTotal += v1Dist + v1OnlyCost

		bestType, bestScore := MBV1, v1Dist+v1Cost
		if v4Dist+v4Cost < bestScore {
			bestType, bestScore = MBV4, v4Dist+v4Cost
		}
		if inter && mb.CanSkip && mb.SkipDistortion+skipCost < bestScore {
			bestType, bestScore = MBSkip, mb.SkipDistortion+skipCost
		}
		mixedTotal += bestScore

		result.MBs[i] = MB{Type: bestType, V1Index: v1Idx, V4Index: v4Idx}

		if inter {
			intraType, intraScore := MBV1, v1Dist+intraV1Cost
			if v4Dist+intraV4Cost < intraScore {
				intraType, intraScore = MBV4, v4Dist+intraV4Cost
			}
			intraTotal += intraScore
			intraMBs[i] = MB{Type: intraType, V1Index: v1Idx, V4Index: v4Idx}
		}
	}

	switch {
	case inter && v1OnlyTotal <= mixedTotal && v1OnlyTotal <= intraTotal:
		result.Type = TypeV1
		for i := range result.MBs {
			result.MBs[i] = MB{Type: MBV1, V1Index: v1Assign[i]}
		}
	case !inter && v1OnlyTotal <= mixedTotal:
		result.Type = TypeV1
		for i := range result.MBs {
			result.MBs[i] = MB{Type: MBV1, V1Index: v1Assign[i]}
		}
	case inter && mixedTotal < intraTotal:
		// Inter strip earns its keep: its skip/V1/V4 mix beats the best
		// intra-only (V1/V4, no skip) coding of the same macroblocks.
		result.Type = TypeSkip
	case inter:
		// Falls back to intra per spec: any macroblock the inter pass
		// marked SKIP or chose for inter reasons is recoded using the
		// intra-only decision computed above.
		result.Type = TypeV4
		copy(result.MBs, intraMBs)
	default:
		result.Type = TypeV4
	}

	return result
}
