package strip

import (
	"github.com/pkg/errors"

	"github.com/Wuerfel21/cinepunk/internal/bitstream"
	"github.com/Wuerfel21/cinepunk/internal/wire"
	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

// writeCodebook emits one codebook chunk: a 4-byte header followed by
// six bytes per code (four luma corners, then chroma biased +128 onto
// the wire so an all-zero byte mid-chunk doesn't collide with a
// legitimate neutral chroma value).
func writeCodebook(w *bitstream.Writer, codebook []yuvblock.Block, v1, mono bool) {
	hdr := w.Reserve(wire.ChunkHeaderSize)
	start := w.Len()

	flags := uint8(0)
	if v1 {
		flags |= wire.CBV1Mask
	}
	if mono {
		flags |= wire.CBMonoMask
	}

	for _, c := range codebook {
		w.WriteU8(c.Ytl)
		w.WriteU8(c.Ytr)
		w.WriteU8(c.Ybl)
		w.WriteU8(c.Ybr)
		if !mono {
			w.WriteU8(c.U ^ 128)
			w.WriteU8(c.V ^ 128)
		}
	}

	size := uint32(w.Len() - start + wire.ChunkHeaderSize)
	w.PatchU8(hdr, wire.CBBase|flags)
	w.PatchU24(hdr+1, size)
}

// readCodebookBody parses a codebook chunk's size field and entries,
// given that its type byte (typ) has already been consumed by the
// caller -- the caller needs to inspect that byte to tell a codebook
// chunk apart from the image chunk that follows an all-V1 intra strip's
// lone codebook.
func readCodebookBody(r *bitstream.Reader, typ uint8, mono bool) (codebook []yuvblock.Block, v1 bool, err error) {
	size, err := r.ReadU24()
	if err != nil {
		return nil, false, err
	}
	if typ&^(wire.CBPartialMask|wire.CBV1Mask|wire.CBMonoMask) != wire.CBBase {
		return nil, false, errors.Errorf("strip: bad codebook chunk type %#x", typ)
	}
	v1 = typ&wire.CBV1Mask != 0
	entryMono := mono || typ&wire.CBMonoMask != 0
	entrySize := 6
	if entryMono {
		entrySize = 4
	}
	body := int(size) - wire.ChunkHeaderSize
	if body < 0 || body%entrySize != 0 {
		return nil, false, errors.Errorf("strip: malformed codebook chunk size %d", size)
	}
	n := body / entrySize
	codebook = make([]yuvblock.Block, n)
	for i := range codebook {
		var c yuvblock.Block
		if c.Ytl, err = r.ReadU8(); err != nil {
			return nil, false, err
		}
		if c.Ytr, err = r.ReadU8(); err != nil {
			return nil, false, err
		}
		if c.Ybl, err = r.ReadU8(); err != nil {
			return nil, false, err
		}
		if c.Ybr, err = r.ReadU8(); err != nil {
			return nil, false, err
		}
		if entryMono {
			c.U, c.V = 128, 128
		} else {
			u, err := r.ReadU8()
			if err != nil {
				return nil, false, err
			}
			v, err := r.ReadU8()
			if err != nil {
				return nil, false, err
			}
			c.U, c.V = u^128, v^128
		}
		codebook[i] = c
	}
	return codebook, v1, nil
}

// isCodebookType reports whether a just-read chunk type byte belongs to
// a codebook chunk rather than an image chunk; the two occupy disjoint
// nibble ranges (0x2x vs 0x3x).
func isCodebookType(typ uint8) bool { return typ&0xF0 == wire.CBBase&0xF0 }

// WriteStrip appends one complete strip chunk -- header, codebooks, and
// the bit/byte-interleaved image chunk -- to w. A strip always carries
// its V1 codebook; a strip whose Type is not TypeV1 additionally carries
// a V4 codebook, since its macroblocks may draw from either.
func WriteStrip(w *bitstream.Writer, enc *Encoding, mono bool) {
	hdr := w.Reserve(wire.StripHeaderSize)
	start := w.Len()

	stripChunkType := wire.StripIntra
	if enc.Type == TypeSkip {
		stripChunkType = wire.StripInter
	}

	writeCodebook(w, enc.V1Codebook, true, mono)
	if enc.Type != TypeV1 {
		writeCodebook(w, enc.V4Codebook, false, mono)
	}

	imgHdr := w.Reserve(wire.ChunkHeaderSize)
	imgStart := w.Len()

	bw := bitstream.NewBitWriter(w)
	for _, mb := range enc.MBs {
		switch enc.Type {
		case TypeV1:
			w.WriteU8(uint8(mb.V1Index))
		case TypeV4:
			bw.PutBit(mb.Type == MBV4)
			if mb.Type == MBV4 {
				for _, idx := range mb.V4Index {
					bw.WriteU8(uint8(idx))
				}
			} else {
				bw.WriteU8(uint8(mb.V1Index))
			}
		case TypeSkip:
			bw.PutBit(mb.Type != MBSkip)
			if mb.Type != MBSkip {
				bw.PutBit(mb.Type == MBV4)
				if mb.Type == MBV4 {
					for _, idx := range mb.V4Index {
						bw.WriteU8(uint8(idx))
					}
				} else {
					bw.WriteU8(uint8(mb.V1Index))
				}
			}
		}
	}
	if enc.Type != TypeV1 {
		bw.Flush()
	}

	imgType := wire.ImageV1Only
	switch enc.Type {
	case TypeV4:
		imgType = wire.ImageV4
	case TypeSkip:
		imgType = wire.ImageInter
	}
	w.PatchU8(imgHdr, imgType)
	w.PatchU24(imgHdr+1, uint32(w.Len()-imgStart+wire.ChunkHeaderSize))

	w.PatchU8(hdr, stripChunkType)
	w.PatchU24(hdr+1, uint32(w.Len()-start+wire.StripHeaderSize))
	w.PatchU16(hdr+4, uint16(enc.YTop))
	w.PatchU16(hdr+6, uint16(enc.XStart))
	w.PatchU16(hdr+8, uint16(enc.YBottom))
	w.PatchU16(hdr+10, uint16(enc.XEnd))
}

// ReadStrip parses one strip chunk. mbWidth is the frame's macroblock
// width (needed to size the per-macroblock slice); the strip's own
// macroblock height is recovered from its header's pixel bounds.
func ReadStrip(r *bitstream.Reader, mbWidth int, mono bool) (*Encoding, error) {
	typ, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	size, err := r.ReadU24()
	if err != nil {
		return nil, err
	}
	ytop, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	xstart, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	ybottom, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	xend, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if typ != wire.StripIntra && typ != wire.StripInter {
		return nil, errors.Errorf("strip: bad strip chunk type %#x", typ)
	}
	_ = size // framing is self-describing via nested chunk headers; not needed to navigate.

	mbHeight := (int(ybottom) - int(ytop)) / 4
	enc := &Encoding{
		YTop: int(ytop), XStart: int(xstart), YBottom: int(ybottom), XEnd: int(xend),
		OriginMBX: int(xstart) / 4, OriginMBY: int(ytop) / 4,
		MBWidth: mbWidth, MBHeight: mbHeight,
	}

	v1Typ, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	v1CB, _, err := readCodebookBody(r, v1Typ, mono)
	if err != nil {
		return nil, err
	}
	enc.V1Codebook = v1CB

	nextTyp, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if isCodebookType(nextTyp) {
		v4CB, _, err := readCodebookBody(r, nextTyp, mono)
		if err != nil {
			return nil, err
		}
		enc.V4Codebook = v4CB
		nextTyp, err = r.ReadU8()
		if err != nil {
			return nil, err
		}
	}
	imgType := nextTyp
	if _, err := r.ReadU24(); err != nil { // image chunk size, unused by the bit reader
		return nil, err
	}

	n := mbWidth * mbHeight
	enc.MBs = make([]MB, n)

	switch imgType {
	case wire.ImageV1Only:
		enc.Type = TypeV1
		for i := range enc.MBs {
			idx, err := r.ReadU8()
			if err != nil {
				return nil, err
			}
			enc.MBs[i] = MB{Type: MBV1, V1Index: int(idx)}
		}
		return enc, nil
	case wire.ImageV4:
		enc.Type = TypeV4
	case wire.ImageInter:
		enc.Type = TypeSkip
	default:
		return nil, errors.Errorf("strip: bad image chunk type %#x", imgType)
	}

	br := bitstream.NewBitReader(r)
	for i := range enc.MBs {
		switch enc.Type {
		case TypeV4:
			isV4, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			if isV4 {
				var idx [4]int
				for k := range idx {
					b, err := br.ReadU8()
					if err != nil {
						return nil, err
					}
					idx[k] = int(b)
				}
				enc.MBs[i] = MB{Type: MBV4, V4Index: idx}
			} else {
				b, err := br.ReadU8()
				if err != nil {
					return nil, err
				}
				enc.MBs[i] = MB{Type: MBV1, V1Index: int(b)}
			}
		case TypeSkip:
			present, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			if !present {
				enc.MBs[i] = MB{Type: MBSkip}
				continue
			}
			isV4, err := br.ReadBit()
			if err != nil {
				return nil, err
			}
			if isV4 {
				var idx [4]int
				for k := range idx {
					b, err := br.ReadU8()
					if err != nil {
						return nil, err
					}
					idx[k] = int(b)
				}
				enc.MBs[i] = MB{Type: MBV4, V4Index: idx}
			} else {
				b, err := br.ReadU8()
				if err != nil {
					return nil, err
				}
				enc.MBs[i] = MB{Type: MBV1, V1Index: int(b)}
			}
		}
	}
	return enc, nil
}
