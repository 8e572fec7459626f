/*
NAME
  decoder.go

LICENSE
  Copyright (C) 2026 the cinepunk authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the cinepunk authors.
*/

package cinepunk

import (
	"github.com/pkg/errors"

	"github.com/Wuerfel21/cinepunk/internal/bitstream"
	"github.com/Wuerfel21/cinepunk/internal/colorspace"
	"github.com/Wuerfel21/cinepunk/internal/strip"
	"github.com/Wuerfel21/cinepunk/internal/wire"
	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

// ErrBadPacket is returned when a packet is structurally invalid or was
// truncated before all of its chunks could be parsed.
var ErrBadPacket = errors.New("cinepunk: malformed packet")

// Decoder reconstructs frames from a stream of cinepunk packets. It
// keeps the previous frame's reconstruction so inter-frame packets
// carrying skip-coded macroblocks can be resolved.
//
// DebugCryptomatte, when set, renders each macroblock as a flat colour
// keyed by its encoding mode (V1, V4, or skip) instead of its real
// content -- useful for visualising the mode decision an Encoder made.
type Decoder struct {
	DebugCryptomatte bool

	mbWidth, mbHeight int
	prev              *yuvblock.Frame
}

// NewDecoder returns a new, empty Decoder. Frame dimensions are taken
// from the first packet passed to Decode.
func NewDecoder() *Decoder { return &Decoder{} }

// PeekDimensions reads a packet's frame header without decoding it,
// returning the pixel width and height it declares.
func PeekDimensions(packet []byte) (width, height int, err error) {
	r := bitstream.NewReader(packet)
	if _, err := r.ReadU8(); err != nil {
		return 0, 0, errors.Wrap(err, "cinepunk: reading frame type")
	}
	if _, err := r.ReadU24(); err != nil {
		return 0, 0, errors.Wrap(err, "cinepunk: reading frame size")
	}
	w, err := r.ReadU16()
	if err != nil {
		return 0, 0, errors.Wrap(err, "cinepunk: reading frame width")
	}
	h, err := r.ReadU16()
	if err != nil {
		return 0, 0, errors.Wrap(err, "cinepunk: reading frame height")
	}
	return int(w), int(h), nil
}

// Decode parses one packet and returns its frame as packed 24-bit RGB,
// row-major, width*3 bytes per row.
func (d *Decoder) Decode(packet []byte) (rgb []byte, width, height int, err error) {
	r := bitstream.NewReader(packet)
	frameType, err := r.ReadU8()
	if err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPacket, err.Error())
	}
	if _, err := r.ReadU24(); err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPacket, err.Error())
	}
	w, err := r.ReadU16()
	if err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPacket, err.Error())
	}
	h, err := r.ReadU16()
	if err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPacket, err.Error())
	}
	numStrips, err := r.ReadU16()
	if err != nil {
		return nil, 0, 0, errors.Wrap(ErrBadPacket, err.Error())
	}
	if frameType != wire.FrameIntra && frameType != wire.FrameInter {
		return nil, 0, 0, errors.Wrapf(ErrBadPacket, "bad frame chunk type %#x", frameType)
	}
	if frameType == wire.FrameInter && d.prev == nil {
		return nil, 0, 0, errors.Wrap(ErrBadPacket, "inter frame with no preceding key frame")
	}

	grid := yuvblock.Grid{MBWidth: int(w) / 4, MBHeight: int(h) / 4}
	if d.prev == nil || d.mbWidth != grid.MBWidth || d.mbHeight != grid.MBHeight {
		d.mbWidth, d.mbHeight = grid.MBWidth, grid.MBHeight
	}

	frame := yuvblock.NewFrame(grid)
	for i := 0; i < int(numStrips); i++ {
		enc, err := strip.ReadStrip(r, grid.MBWidth, false)
		if err != nil {
			return nil, 0, 0, errors.Wrap(ErrBadPacket, err.Error())
		}
		if d.DebugCryptomatte {
			applyCryptomatte(enc)
		}
		enc.Reconstruct(frame, d.prev)
	}
	d.prev = frame

	out := make([]byte, int(w)*int(h)*3)
	colorspace.YUVToRGB(out, frame)
	return out, int(w), int(h), nil
}

// applyCryptomatte overwrites a strip's codebooks with flat debug
// colours keyed by macroblock mode, so Reconstruct paints mode instead
// of content: green for V1, blue for V4, red for skip.
func applyCryptomatte(enc *strip.Encoding) {
	green := yuvblock.Block{Ytl: 180, Ytr: 180, Ybl: 180, Ybr: 180, U: 80, V: 90}
	blue := yuvblock.Block{Ytl: 110, Ytr: 110, Ybl: 110, Ybr: 110, U: 200, V: 110}
	red := yuvblock.Block{Ytl: 130, Ytr: 130, Ybl: 130, Ybr: 130, U: 90, V: 200}

	enc.V1Codebook = []yuvblock.Block{green, red}
	enc.V4Codebook = []yuvblock.Block{blue}
	for i, mb := range enc.MBs {
		switch mb.Type {
		case strip.MBSkip:
			enc.MBs[i] = strip.MB{Type: strip.MBV1, V1Index: 1}
		case strip.MBV4:
			enc.MBs[i] = strip.MB{Type: strip.MBV4, V4Index: [4]int{0, 0, 0, 0}}
		default:
			enc.MBs[i] = strip.MB{Type: strip.MBV1, V1Index: 0}
		}
	}
}
