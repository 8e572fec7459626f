// Package wire defines the on-disk chunk type constants and framing
// sizes shared by the strip encoder and the reference/output decoders.
package wire

// Frame chunk types.
const (
	FrameIntra uint8 = 0x00
	FrameInter uint8 = 0x01
)

// Strip chunk types.
const (
	StripIntra uint8 = 0x10
	StripInter uint8 = 0x11
)

// Codebook chunk types, V4 base. CBPartialMask marks a codebook update
// that only replaces a subset of entries (the entries not covered keep
// their value from the previous codebook of the same strip slot);
// CBV1Mask marks a V1 (one vector per macroblock) codebook rather than a
// V4 one; CBMonoMask marks a codebook carrying no chroma (U/V omitted
// from the wire encoding, assumed neutral on decode).
const (
	CBBase        uint8 = 0x20
	CBPartialMask uint8 = 0x01
	CBV1Mask      uint8 = 0x02
	CBMonoMask    uint8 = 0x04
)

// Image chunk types: V1-only strip, full V4 strip, inter (skip-capable)
// strip.
const (
	ImageV1Only uint8 = 0x30
	ImageV4     uint8 = 0x31
	ImageInter  uint8 = 0x32
)

// Fixed header sizes, in bytes.
const (
	FrameHeaderSize  = 10 // type(1) + size(3) + width(2) + height(2) + strips(2)
	StripHeaderSize  = 12 // type(1) + size(3) + ytop(2) + xstart(2) + ybottom(2) + xend(2)
	ChunkHeaderSize  = 4  // type(1) + size(3)
)
