package vq

import (
	"testing"

	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

func TestMaxExtentAxisPicksWidestComponent(t *testing.T) {
	data := []yuvblock.Block{
		{U: 10, V: 10, Ytl: 0},
		{U: 20, V: 200, Ytl: 255},
	}
	// Ytl spans 0..255 (extent 255), wider than U (10) or V (190), and
	// sits later in the U,V,Ytl,Ytr,Ybl,Ybr axis order.
	if got, want := maxExtentAxis(data), 2; got != want {
		t.Errorf("maxExtentAxis = %d, want %d", got, want)
	}
}

func TestNewKDTreeCoversAllVectors(t *testing.T) {
	var vectors []yuvblock.Block
	for i := 0; i < 40; i++ {
		vectors = append(vectors, blk(uint8(i*6), uint8(i*3), uint8(255-i*3), 1))
	}
	tr := newKDTree(vectors)

	var leaves []*kdNode
	collectLeaves(tr.root, &leaves)
	total := 0
	for _, lf := range leaves {
		total += lf.fill
		if lf.fill > leafSize {
			t.Errorf("leaf fill %d exceeds leafSize %d", lf.fill, leafSize)
		}
	}
	if total != len(vectors) {
		t.Errorf("total leaf fill = %d, want %d", total, len(vectors))
	}
}

func TestRebalanceCoalescesAfterShrink(t *testing.T) {
	var vectors []yuvblock.Block
	for i := 0; i < 20; i++ {
		vectors = append(vectors, blk(uint8(i*12), 128, 128, 1))
	}
	tr := newKDTree(vectors)

	var leaves []*kdNode
	collectLeaves(tr.root, &leaves)
	if len(leaves) < 2 {
		t.Fatalf("expected more than one leaf for %d vectors, got %d", len(vectors), len(leaves))
	}
	// Shrink every leaf down to one live element each, well under
	// leafSize when combined, then rebalance should coalesce them.
	for _, lf := range leaves {
		lf.fill = 1
	}
	tr.rebalance(tr.root)
	if !tr.root.leaf {
		t.Errorf("root should have coalesced into a single leaf after shrinking, still a branch")
	}
}

func TestFlattenCompactsLiveElements(t *testing.T) {
	var vectors []yuvblock.Block
	for i := 0; i < 20; i++ {
		vectors = append(vectors, blk(uint8(i*12), 128, 128, 1))
	}
	tr := newKDTree(vectors)
	n := tr.flatten(tr.root, 0)
	if n != len(vectors) {
		t.Errorf("flatten returned %d live elements, want %d", n, len(vectors))
	}
}
