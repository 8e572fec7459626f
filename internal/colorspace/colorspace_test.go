package colorspace

import (
	"testing"

	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

func TestRGBToYUVFastGrayHasNeutralChroma(t *testing.T) {
	grid := yuvblock.Grid{MBWidth: 1, MBHeight: 1}
	frame := yuvblock.NewFrame(grid)
	src := make([]byte, 4*4*3)
	for i := range src {
		src[i] = 128
	}
	RGBToYUVFast(frame, src)
	for _, blk := range frame.Blocks {
		if blk.U != 128 || blk.V != 128 {
			t.Errorf("neutral gray input produced non-neutral chroma U=%d V=%d", blk.U, blk.V)
		}
	}
}

func TestYUVToRGBBlack(t *testing.T) {
	grid := yuvblock.Grid{MBWidth: 1, MBHeight: 1}
	frame := yuvblock.NewFrame(grid)
	for i := range frame.Blocks {
		frame.Blocks[i] = yuvblock.Block{U: 128, V: 128}
	}
	out := make([]byte, 4*4*3)
	YUVToRGB(out, frame)
	for _, c := range out {
		if c != 0 {
			t.Fatalf("zero-luma neutral-chroma frame produced non-black pixel byte %d", c)
		}
	}
}

func TestGrayToYUVAndBack(t *testing.T) {
	grid := yuvblock.Grid{MBWidth: 1, MBHeight: 1}
	frame := yuvblock.NewFrame(grid)
	src := []byte{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160}
	GrayToYUV(frame, src)
	out := make([]byte, len(src))
	YUVToGray(out, frame)
	for i, v := range src {
		if out[i] != v {
			t.Errorf("luma[%d] = %d, want %d", i, out[i], v)
		}
	}
	for _, blk := range frame.Blocks {
		if blk.U != 128 || blk.V != 128 {
			t.Errorf("GrayToYUV did not force neutral chroma: U=%d V=%d", blk.U, blk.V)
		}
	}
}

func TestDownscale2to1Uniform(t *testing.T) {
	grid := yuvblock.Grid{MBWidth: 1, MBHeight: 1}
	src := yuvblock.NewFrame(grid)
	for i := range src.Blocks {
		src.Blocks[i] = yuvblock.Block{Ytl: 64, Ytr: 64, Ybl: 64, Ybr: 64, U: 100, V: 150}
	}
	dst := yuvblock.NewV1Frame(grid)
	Downscale2to1(dst, src)
	out := dst.At(0, 0)
	if out.Ytl != 64 || out.Ytr != 64 || out.Ybl != 64 || out.Ybr != 64 {
		t.Errorf("uniform source did not downscale to uniform luma: %+v", out)
	}
	if out.U != 100 || out.V != 150 {
		t.Errorf("uniform source did not downscale to matching chroma: %+v", out)
	}
}
