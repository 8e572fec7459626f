package vq

import (
	"testing"

	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

func blk(y, u, v uint8, w uint16) yuvblock.Block {
	return yuvblock.Block{Ytl: y, Ytr: y, Ybl: y, Ybr: y, U: u, V: v, Weight: w}
}

func TestClusterAccumCentroid(t *testing.T) {
	var acc clusterAccum
	acc.add(blk(0, 0, 0, 1))
	acc.add(blk(100, 100, 100, 1))
	c := acc.centroid()
	if c.Ytl != 50 {
		t.Errorf("centroid Ytl = %d, want 50", c.Ytl)
	}
	if c.Weight != 2 {
		t.Errorf("centroid Weight = %d, want 2", c.Weight)
	}
}

func TestClusterAccumEmpty(t *testing.T) {
	var acc clusterAccum
	if c := acc.centroid(); c != (yuvblock.Block{}) {
		t.Errorf("empty centroid = %+v, want zero value", c)
	}
}

func TestVoronoiPartitionPicksNearest(t *testing.T) {
	codebook := []yuvblock.Block{blk(0, 128, 128, 1), blk(200, 128, 128, 1)}
	vectors := []yuvblock.Block{blk(10, 128, 128, 1), blk(190, 128, 128, 1)}
	assign := make([]int, len(vectors))
	voronoiPartition(vectors, codebook, assign)
	if assign[0] != 0 {
		t.Errorf("assign[0] = %d, want 0", assign[0])
	}
	if assign[1] != 1 {
		t.Errorf("assign[1] = %d, want 1", assign[1])
	}
}

func TestMergeCostZeroWeight(t *testing.T) {
	if got := mergeCost(blk(0, 128, 128, 0), blk(255, 128, 128, 0)); got != 0 {
		t.Errorf("mergeCost with zero weights = %d, want 0", got)
	}
}

func TestMergeVectorsFavoursHeavierInput(t *testing.T) {
	a := blk(0, 128, 128, 1000)
	b := blk(255, 128, 128, 1)
	m := mergeVectors(a, b)
	if m.Ytl > 10 {
		t.Errorf("merged luma %d leans too far from the heavily-weighted input", m.Ytl)
	}
	if m.Weight != 1001 {
		t.Errorf("merged weight = %d, want 1001", m.Weight)
	}
}

func TestSeedReturnsAllVectorsWhenUnderTarget(t *testing.T) {
	vectors := []yuvblock.Block{blk(1, 1, 1, 1), blk(2, 2, 2, 1)}
	out := Seed(vectors, 8)
	if len(out) != 2 {
		t.Fatalf("Seed with targetSize > len(vectors) = %d entries, want 2", len(out))
	}
}

func TestSeedShrinksToTarget(t *testing.T) {
	var vectors []yuvblock.Block
	for i := 0; i < 64; i++ {
		y := uint8(i * 4 % 256)
		vectors = append(vectors, blk(y, 128, 128, 1))
	}
	out := Seed(vectors, 8)
	if len(out) != 8 {
		t.Fatalf("Seed(64 vectors, target=8) = %d entries, want 8", len(out))
	}
}

func TestRefineReachesTargetSize(t *testing.T) {
	var vectors []yuvblock.Block
	for i := 0; i < 32; i++ {
		y := uint8(i * 8 % 256)
		vectors = append(vectors, blk(y, 128, 128, 1))
	}
	seed := Seed(vectors, 4)
	codebook, assign := Refine(vectors, 4, seed)
	if len(codebook) != 4 {
		t.Fatalf("Refine codebook size = %d, want 4", len(codebook))
	}
	if len(assign) != len(vectors) {
		t.Fatalf("Refine assignment length = %d, want %d", len(assign), len(vectors))
	}
	for _, a := range assign {
		if a < 0 || a >= len(codebook) {
			t.Fatalf("assignment %d out of range for codebook of size %d", a, len(codebook))
		}
	}
}

func TestRefineReducesTotalDistortion(t *testing.T) {
	var vectors []yuvblock.Block
	for i := 0; i < 32; i++ {
		y := uint8(i * 8 % 256)
		vectors = append(vectors, blk(y, 128, 128, 1))
	}
	seed := []yuvblock.Block{blk(128, 128, 128, 1)}
	before := totalDistortion(vectors, seed)
	codebook, assign := Refine(vectors, 4, seed)
	_ = assign
	after := totalDistortion(vectors, codebook)
	if after >= before {
		t.Errorf("refinement did not reduce distortion: before=%d after=%d", before, after)
	}
}

func totalDistortion(vectors, codebook []yuvblock.Block) uint64 {
	var total uint64
	for _, v := range vectors {
		best := yuvblock.Distortion(v, codebook[0])
		for _, c := range codebook[1:] {
			if d := yuvblock.Distortion(v, c); d < best {
				best = d
			}
		}
		total += uint64(best)
	}
	return total
}

func TestPerturbWithMembersStaysWithinBounds(t *testing.T) {
	members := []yuvblock.Block{blk(10, 50, 60, 1), blk(200, 90, 100, 1)}
	a, b := perturb(blk(100, 70, 80, 1), members)
	for _, v := range []uint8{a.Ytl, b.Ytl} {
		if v < 10 || v > 200 {
			t.Errorf("perturb luma %d escaped members' bounding box [10,200]", v)
		}
	}
}

func TestPerturbWithoutMembersNudges(t *testing.T) {
	code := blk(100, 100, 100, 1)
	a, b := perturb(code, nil)
	if a.Ytl != 102 || b.Ytl != 98 {
		t.Errorf("flat perturb = (%d, %d), want (102, 98)", a.Ytl, b.Ytl)
	}
}
