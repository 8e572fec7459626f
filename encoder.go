/*
NAME
  encoder.go

LICENSE
  Copyright (C) 2026 the cinepunk authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the cinepunk authors.
*/

// Package cinepunk implements a Cinepak-family vector-quantised video
// codec: an Encoder that turns packed RGB frames into a strip-based
// bitstream, and a Decoder that reverses it.
package cinepunk

import (
	"sync"

	"github.com/ausocean/utils/bitrate"
	"github.com/pkg/errors"

	"github.com/Wuerfel21/cinepunk/config"
	"github.com/Wuerfel21/cinepunk/internal/bitstream"
	"github.com/Wuerfel21/cinepunk/internal/colorspace"
	"github.com/Wuerfel21/cinepunk/internal/strip"
	"github.com/Wuerfel21/cinepunk/internal/wire"
	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

// Encoder turns successive RGB frames into cinepunk packets. It keeps
// the previous frame's bit-exact reconstruction internally so that
// inter-frame skip decisions are always made against what a decoder
// will actually see, never against the unquantised source.
type Encoder struct {
	cfg     config.Config
	grid    yuvblock.Grid
	prev    *yuvblock.Frame // nil until the first frame has been encoded.
	left    uint            // inter frames remaining before the next forced key frame.
	bitrate bitrate.Calculator
}

// New returns a new Encoder for the given configuration, or an error if
// the configuration is invalid.
func New(cfg config.Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "cinepunk: invalid config")
	}
	if cfg.Width == 0 || cfg.Width%4 != 0 || cfg.Height == 0 || cfg.Height%4 != 0 {
		return nil, errors.New("cinepunk: width and height must be positive multiples of 4")
	}
	return &Encoder{
		cfg:  cfg,
		grid: yuvblock.Grid{MBWidth: int(cfg.Width / 4), MBHeight: int(cfg.Height / 4)},
	}, nil
}

// Bitrate returns the result of the most recent bitrate check.
func (e *Encoder) Bitrate() int { return e.bitrate.Bitrate() }

// numStrips picks how many horizontal strips to split a frame into: one
// worker goroutine will be spawned per strip. With MaxStrips unset we
// default to roughly four macroblock rows per strip, which gives each
// strip's codebook enough source vectors to be worth building.
func (e *Encoder) numStrips() int {
	n := e.grid.MBHeight / 4
	if n < 1 {
		n = 1
	}
	if e.cfg.MaxStrips > 0 && int(e.cfg.MaxStrips) < n {
		n = int(e.cfg.MaxStrips)
	}
	if n > e.grid.MBHeight {
		n = e.grid.MBHeight
	}
	return n
}

// stripRowBounds returns the first MB row (inclusive) and the row count
// of the i'th of n strips, distributing any remainder across the
// leading strips.
func stripRowBounds(i, n, mbHeight int) (start, count int) {
	base := mbHeight / n
	rem := mbHeight % n
	start = i*base + min(i, rem)
	count = base
	if i < rem {
		count++
	}
	return start, count
}

// Encode converts one packed 24-bit RGB frame (row-major, Width*3 bytes
// per row, Width taken from the Encoder's config) into a cinepunk packet.
func (e *Encoder) Encode(rgb []byte) ([]byte, error) {
	want := int(e.cfg.Width) * int(e.cfg.Height) * 3
	if len(rgb) != want {
		return nil, errors.Errorf("cinepunk: expected %d bytes of RGB input, got %d", want, len(rgb))
	}

	src := yuvblock.NewFrame(e.grid)
	if e.cfg.FastRGBToYUV {
		colorspace.RGBToYUVFast(src, rgb)
	} else {
		colorspace.RGBToYUVHQ(src, rgb)
	}
	if e.cfg.GrayOnly {
		for i := range src.Blocks {
			src.Blocks[i].U, src.Blocks[i].V = 128, 128
		}
	}

	// Every block fed to a quantiser needs a nonzero weight (see
	// yuvblock.Block.Weight); RGBToYUVFast/RGBToYUVHQ don't set one, so
	// it's assigned here, before Downscale2to1 sums children into their
	// parent V1 block and before any block reaches strip.MBInput.
	blockWeight := uint16(2)
	if e.cfg.ForwardWeighting {
		framesSinceKey := e.cfg.KeyFrameInterval - e.left
		if framesSinceKey < 16 {
			blockWeight = 3
		}
	}
	for i := range src.Blocks {
		src.Blocks[i].Weight = blockWeight
	}

	v1 := yuvblock.NewV1Frame(e.grid)
	colorspace.Downscale2to1(v1, src)

	inter := e.prev != nil && e.left > 0
	numStrips := e.numStrips()
	encodings := make([]*strip.Encoding, numStrips)

	var wg sync.WaitGroup
	runStrip := func(i int) {
		mbRow, mbRows := stripRowBounds(i, numStrips, e.grid.MBHeight)
		mbs := make([]strip.MBInput, e.grid.MBWidth*mbRows)
		for r := 0; r < mbRows; r++ {
			for c := 0; c < e.grid.MBWidth; c++ {
				mbx, mby := c, mbRow+r
				bx, by := mbx*2, mby*2
				in := strip.MBInput{
					V4: [4]yuvblock.Block{*src.At(bx+0, by+0), *src.At(bx+1, by+0), *src.At(bx+0, by+1), *src.At(bx+1, by+1)},
					V1: *v1.At(mbx, mby),
				}
				if inter {
					var prevMB [4]yuvblock.Block
					prevMB[0] = *e.prev.At(bx+0, by+0)
					prevMB[1] = *e.prev.At(bx+1, by+0)
					prevMB[2] = *e.prev.At(bx+0, by+1)
					prevMB[3] = *e.prev.At(bx+1, by+1)
					in.CanSkip = true
					in.SkipDistortion = uint64(yuvblock.Distortion(in.V4[0], prevMB[0])) +
						uint64(yuvblock.Distortion(in.V4[1], prevMB[1])) +
						uint64(yuvblock.Distortion(in.V4[2], prevMB[2])) +
						uint64(yuvblock.Distortion(in.V4[3], prevMB[3]))
				}
				mbs[r*e.grid.MBWidth+c] = in
			}
		}
		enc := strip.TryStrip(mbs, e.grid.MBWidth, mbRows, e.cfg.QualityFactor, inter)
		enc.OriginMBX, enc.OriginMBY = 0, mbRow
		enc.XStart, enc.YTop = 0, mbRow*4
		enc.XEnd, enc.YBottom = int(e.cfg.Width), (mbRow+mbRows)*4
		encodings[i] = enc
	}

	if e.cfg.NoThreads {
		for i := 0; i < numStrips; i++ {
			runStrip(i)
		}
	} else {
		wg.Add(numStrips)
		for i := 0; i < numStrips; i++ {
			i := i
			go func() {
				defer wg.Done()
				runStrip(i)
			}()
		}
		wg.Wait()
	}

	w := bitstream.NewWriter()
	hdr := w.Reserve(wire.FrameHeaderSize)
	frameType := wire.FrameIntra
	if inter {
		frameType = wire.FrameInter
	}
	w.PatchU16(hdr+4, uint16(e.cfg.Width))
	w.PatchU16(hdr+6, uint16(e.cfg.Height))
	w.PatchU16(hdr+8, uint16(numStrips))
	for _, enc := range encodings {
		strip.WriteStrip(w, enc, e.cfg.GrayOnly)
	}
	w.PatchU8(hdr, frameType)
	w.PatchU24(hdr+1, uint32(w.Len()))

	recon := yuvblock.NewFrame(e.grid)
	for _, enc := range encodings {
		enc.Reconstruct(recon, e.prev)
	}
	e.prev = recon

	if !inter {
		e.left = e.cfg.KeyFrameInterval
	} else {
		e.left--
	}

	packet := w.Bytes()
	e.bitrate.Report(len(packet))
	return packet, nil
}
