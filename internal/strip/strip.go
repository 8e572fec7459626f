// Package strip implements the per-strip mode decision, codebook
// construction, and bitstream encoding/decoding that make up one strip
// chunk of a cinepunk frame.
package strip

import "github.com/Wuerfel21/cinepunk/internal/yuvblock"

// MBType is the per-macroblock encoding decision. Unlike Type, MBType
// has no meaningful ordering -- it is only ever compared for equality.
type MBType uint8

const (
	MBUndecided MBType = iota
	MBV1
	MBV4
	MBSkip
)

// Type is the strip-level encoding mode, ordered V1 < V4 < Skip.
// WriteStrip and ReadStrip switch on its value to decide, strip-wide,
// whether a presence bit (Skip) and a mode bit (V4, Skip) are coded for
// each macroblock.
type Type uint8

const (
	TypeV1 Type = iota
	TypeV4
	TypeSkip
)

// MB is one macroblock's resolved encoding: which codebook(s) it draws
// from and which entries.
type MB struct {
	Type    MBType
	V1Index int    // valid when Type is MBV1.
	V4Index [4]int // valid when Type is MBV4; order is tl, tr, bl, br.
}

// Encoding is one strip's complete, already-decided bitstream content:
// the codebooks it carries and every macroblock's mode and codebook
// indices.
type Encoding struct {
	YTop, XStart, YBottom, XEnd int // pixel-space bounds, inclusive start/exclusive end.
	OriginMBX, OriginMBY        int // this strip's top-left macroblock, in the frame's macroblock grid.
	MBWidth, MBHeight           int // macroblock-space strip dimensions.
	Type                        Type

	V1Codebook []yuvblock.Block
	V4Codebook []yuvblock.Block

	MBs []MB // row-major, MBWidth*MBHeight entries.
}

// Reconstruct writes this strip's decoded pixels into dst, which must
// already be sized for the whole frame. prev supplies the previous
// frame's reconstruction for any skip-coded macroblocks; it may be nil
// if the strip is known to contain none.
func (enc *Encoding) Reconstruct(dst, prev *yuvblock.Frame) {
	for j := 0; j < enc.MBHeight; j++ {
		for i := 0; i < enc.MBWidth; i++ {
			mb := enc.MBs[i+j*enc.MBWidth]
			mbx, mby := enc.OriginMBX+i, enc.OriginMBY+j
			bx, by := mbx*2, mby*2

			switch mb.Type {
			case MBSkip:
				*dst.At(bx+0, by+0) = *prev.At(bx+0, by+0)
				*dst.At(bx+1, by+0) = *prev.At(bx+1, by+0)
				*dst.At(bx+0, by+1) = *prev.At(bx+0, by+1)
				*dst.At(bx+1, by+1) = *prev.At(bx+1, by+1)
			case MBV1:
				code := enc.V1Codebook[mb.V1Index]
				tl, tr, bl, br := code, code, code, code
				tl.Ytr, tl.Ybl, tl.Ybr = code.Ytl, code.Ytl, code.Ytl
				tr.Ytl, tr.Ybl, tr.Ybr = code.Ytr, code.Ytr, code.Ytr
				bl.Ytl, bl.Ytr, bl.Ybr = code.Ybl, code.Ybl, code.Ybl
				br.Ytl, br.Ytr, br.Ybl = code.Ybr, code.Ybr, code.Ybr
				*dst.At(bx+0, by+0) = tl
				*dst.At(bx+1, by+0) = tr
				*dst.At(bx+0, by+1) = bl
				*dst.At(bx+1, by+1) = br
			case MBV4:
				*dst.At(bx+0, by+0) = enc.V4Codebook[mb.V4Index[0]]
				*dst.At(bx+1, by+0) = enc.V4Codebook[mb.V4Index[1]]
				*dst.At(bx+0, by+1) = enc.V4Codebook[mb.V4Index[2]]
				*dst.At(bx+1, by+1) = enc.V4Codebook[mb.V4Index[3]]
			}
		}
	}
}
