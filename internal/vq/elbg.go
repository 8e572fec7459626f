package vq

import "github.com/Wuerfel21/cinepunk/internal/yuvblock"

const (
	lbgIterations      = 200
	splitIterations    = 3
	socaIterations     = 3
	socaSearchLenLower = 256
)

// tryShift looks for a code carrying zero accumulated distortion -- a
// code no vector prefers, effectively dead weight in the codebook -- and
// relocates it into the bounding box of whichever code is carrying the
// most distortion. Only exactly-zero-distortion codes are ever considered
// shift sources; a code with any measured distortion, however small,
// stays put. Returns whether a shift was made.
func tryShift(vectors []yuvblock.Block, codebook []yuvblock.Block, assign []int, codeDistortion []uint64) bool {
	if len(codebook) < 8 {
		return false
	}
	from := -1
	for i, d := range codeDistortion {
		if d == 0 {
			from = i
			break
		}
	}
	if from == -1 {
		return false
	}

	to := 0
	searchLen := len(codebook)
	if searchLen > socaSearchLenLower {
		searchLen = socaSearchLenLower
	}
	worst := codeDistortion[0]
	for i := 0; i < searchLen; i++ {
		if codeDistortion[i] > worst {
			worst = codeDistortion[i]
			to = i
		}
	}
	if to == from || codeDistortion[to] == 0 {
		return false
	}

	var members []yuvblock.Block
	for i, a := range assign {
		if a == to {
			members = append(members, vectors[i])
		}
	}
	if len(members) < 2 {
		return false
	}
	lo, hi := bboxDistrib(members)
	codebook[to] = hi
	codebook[from] = lo
	return true
}

// splitWorst replaces the codeword carrying the most distortion with a
// perturbed pair, growing the codebook by one entry.
func splitWorst(vectors []yuvblock.Block, assign []int, codebook []yuvblock.Block, codeDistortion []uint64) []yuvblock.Block {
	worst := 0
	for i, d := range codeDistortion {
		if d > codeDistortion[worst] {
			worst = i
		}
	}
	var members []yuvblock.Block
	for i, a := range assign {
		if a == worst {
			members = append(members, vectors[i])
		}
	}
	a, b := perturb(codebook[worst], members)
	codebook[worst] = a
	return append(codebook, b)
}

// Refine runs the ELBG (Enhanced Linde-Buzo-Gray) loop: alternating
// Voronoi partition and weighted centroid recomputation at each codebook
// size, periodically relocating dead codewords into the lossiest cluster
// (SoCA) once the codebook is large enough for that to make sense, and
// growing the codebook by splitting its worst codeword whenever an
// iteration budget at the current size runs out. seed becomes the
// starting codebook; pass a single zero-valued entry to start from
// scratch. Returns the final codebook and the vector-to-code assignment.
func Refine(vectors []yuvblock.Block, targetSize int, seed []yuvblock.Block) ([]yuvblock.Block, []int) {
	codebook := make([]yuvblock.Block, len(seed))
	copy(codebook, seed)
	if len(codebook) == 0 {
		codebook = []yuvblock.Block{{}}
	}
	if targetSize < 1 {
		targetSize = 1
	}

	assign := make([]int, len(vectors))
	iterationLeft := lbgIterations

	for {
		codeDistortion := voronoiPartition(vectors, codebook, assign)

		if len(codebook) >= 8 && iterationLeft > 0 {
			for s := 0; s < socaIterations; s++ {
				if !tryShift(vectors, codebook, assign, codeDistortion) {
					break
				}
				codeDistortion = voronoiPartition(vectors, codebook, assign)
			}
		}

		codebook = computeCentroids(vectors, assign, len(codebook))
		iterationLeft--

		if iterationLeft > 0 {
			continue
		}
		if len(codebook) >= targetSize {
			break
		}
		codeDistortion = voronoiPartition(vectors, codebook, assign)
		codebook = splitWorst(vectors, assign, codebook, codeDistortion)
		iterationLeft = lbgIterations
	}

	voronoiPartition(vectors, codebook, assign)
	return codebook, assign
}
