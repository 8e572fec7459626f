// Package colorspace converts between packed RGB/gray pixel planes and
// cinepunk's YUV block representation, and produces the half-resolution
// plane the V1 quantiser seeds from.
package colorspace

import (
	"math"

	"github.com/Wuerfel21/cinepunk/internal/yuvblock"
)

const (
	matShift = 20
	matScale = 1 << matShift
	matRound = matScale >> 1
)

// Row-major RGB->Y, RGB->U, RGB->V coefficients, fixed-point at matShift.
var yuvMatrix = [9]int{
	fixed(0.2857), fixed(0.5714), fixed(0.1429),
	fixed(-0.1429), fixed(-0.2857), fixed(0.4286),
	fixed(0.3571), fixed(-0.2857), fixed(-0.0714),
}

// fixed converts a matrix coefficient to matShift fixed point, truncating
// toward zero.
func fixed(c float64) int { return int(c * matScale) }

func clamp8(x int) uint8 { return yuvblock.Clamp8(x) }

// YUVToRGB renders a Frame into a packed 24-bit RGB plane (row-major,
// pixelWidth = frame.BlockWidth()*2 pixels wide).
func YUVToRGB(dst []byte, frame *yuvblock.Frame) {
	bw, bh := frame.BlockWidth(), frame.BlockHeight()
	i := 0
	for row := 0; row < bh; row++ {
		for col := 0; col < bw; col++ {
			blk := frame.Blocks[i]
			i++
			u := int(blk.U) - 128
			v := int(blk.V) - 128
			off := (col + row*bw*2) * 6
			writeRGB(dst[off:], int(blk.Ytl), u, v)
			writeRGB(dst[off+3:], int(blk.Ytr), u, v)
			off += bw * 2 * 3
			writeRGB(dst[off:], int(blk.Ybl), u, v)
			writeRGB(dst[off+3:], int(blk.Ybr), u, v)
		}
	}
}

func writeRGB(dst []byte, y, u, v int) {
	dst[0] = clamp8(y + v*2)
	dst[1] = clamp8(y - u/2 - v)
	dst[2] = clamp8(y + u*2)
}

// YUVToGray renders a Frame into a single-channel luma plane.
func YUVToGray(dst []byte, frame *yuvblock.Frame) {
	bw, bh := frame.BlockWidth(), frame.BlockHeight()
	i := 0
	for row := 0; row < bh; row++ {
		for col := 0; col < bw; col++ {
			blk := frame.Blocks[i]
			i++
			off := (col + row*bw*2) * 2
			dst[off+0] = blk.Ytl
			dst[off+1] = blk.Ytr
			off += bw * 2
			dst[off+0] = blk.Ybl
			dst[off+1] = blk.Ybr
		}
	}
}

// GrayToYUV builds a Frame from a single-channel luma plane, with chroma
// forced to neutral (128/128).
func GrayToYUV(frame *yuvblock.Frame, src []byte) {
	bw, bh := frame.BlockWidth(), frame.BlockHeight()
	i := 0
	for row := 0; row < bh; row++ {
		for col := 0; col < bw; col++ {
			off := (col + row*bw*2) * 2
			blk := &frame.Blocks[i]
			i++
			blk.U, blk.V = 128, 128
			blk.Ytl = src[off+0]
			blk.Ytr = src[off+1]
			off += bw * 2
			blk.Ybl = src[off+0]
			blk.Ybr = src[off+1]
		}
	}
}

// RGBToYUVFast converts a packed RGB plane using the integer fixed-point
// matrix, with no gamma correction.
func RGBToYUVFast(frame *yuvblock.Frame, src []byte) {
	bw, bh := frame.BlockWidth(), frame.BlockHeight()
	i := 0
	for row := 0; row < bh; row++ {
		for col := 0; col < bw; col++ {
			blk := &frame.Blocks[i]
			i++
			off := (col + row*bw*2) * 6
			var r, g, b int

			y0 := matY(src, off)
			r += int(src[off+0])
			g += int(src[off+1])
			b += int(src[off+2])

			y1 := matY(src, off+3)
			r += int(src[off+3])
			g += int(src[off+4])
			b += int(src[off+5])

			off2 := off + bw*2*3
			y2 := matY(src, off2)
			r += int(src[off2+0])
			g += int(src[off2+1])
			b += int(src[off2+2])

			y3 := matY(src, off2+3)
			r += int(src[off2+3])
			g += int(src[off2+4])
			b += int(src[off2+5])

			blk.Ytl = clamp8(y0)
			blk.Ytr = clamp8(y1)
			blk.Ybl = clamp8(y2)
			blk.Ybr = clamp8(y3)
			blk.U = clamp8(((r*yuvMatrix[3]+g*yuvMatrix[4]+b*yuvMatrix[5]+matRound*4)>>(matShift+2)) + 128)
			blk.V = clamp8(((r*yuvMatrix[6]+g*yuvMatrix[7]+b*yuvMatrix[8]+matRound*4)>>(matShift+2)) + 128)
		}
	}
}

func matY(src []byte, off int) int {
	return (int(src[off])*yuvMatrix[0] + int(src[off+1])*yuvMatrix[1] + int(src[off+2])*yuvMatrix[2] + matRound) >> matShift
}

const (
	yFix   = 2
	yMax   = 255 << yFix
	yRound = (1 << yFix) >> 1
)

func clampY(x int) int {
	if x < 0 {
		return 0
	}
	if x > yMax {
		return yMax
	}
	return x
}

func srgbToLinear(i int) float64 {
	f := float64(i) / float64(yMax)
	if f > 0.04045 {
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return f / 12.92
}

func linearToSRGB(f float64) int {
	var v float64
	if f > 0.0031308 {
		v = math.Pow(f, 1.0/2.4)*1.055 - 0.055
	} else {
		v = f * 12.92
	}
	return clampY(int(math.Round(v * yMax)))
}

func srgbToLinearGrey(r, g, b int) float64 {
	return srgbToLinear(r)*0.2126 + srgbToLinear(g)*0.7152 + srgbToLinear(b)*0.0722
}

func srgbAvg(a, b, c, d int) int {
	return linearToSRGB((srgbToLinear(a) + srgbToLinear(b) + srgbToLinear(c) + srgbToLinear(d)) / 4)
}

// RGBToYUVHQ converts a packed RGB plane using a gamma-correct luma path:
// chroma is derived from a gamma-correct average of the four pixels, and
// each luma value is adjusted by one linear-light round trip so its real
// (gamma-correct) luminance matches the original pixel's.
func RGBToYUVHQ(frame *yuvblock.Frame, src []byte) {
	bw, bh := frame.BlockWidth(), frame.BlockHeight()
	i := 0
	for row := 0; row < bh; row++ {
		for col := 0; col < bw; col++ {
			blk := &frame.Blocks[i]
			i++
			off := (col + row*bw*2) * 6
			var r, g, b [4]int
			r[0], g[0], b[0] = int(src[off+0])<<yFix, int(src[off+1])<<yFix, int(src[off+2])<<yFix
			r[1], g[1], b[1] = int(src[off+3])<<yFix, int(src[off+4])<<yFix, int(src[off+5])<<yFix
			off2 := off + bw*2*3
			r[2], g[2], b[2] = int(src[off2+0])<<yFix, int(src[off2+1])<<yFix, int(src[off2+2])<<yFix
			r[3], g[3], b[3] = int(src[off2+3])<<yFix, int(src[off2+4])<<yFix, int(src[off2+5])<<yFix

			rdiff := srgbAvg(r[0], r[1], r[2], r[3])
			gdiff := srgbAvg(g[0], g[1], g[2], g[3])
			bdiff := srgbAvg(b[0], b[1], b[2], b[3])
			avgY := (rdiff*yuvMatrix[0] + gdiff*yuvMatrix[1] + bdiff*yuvMatrix[2]) / matScale
			rdiff -= avgY
			gdiff -= avgY
			bdiff -= avgY

			var y [4]int
			for k := 0; k < 4; k++ {
				wTarget := srgbToLinearGrey(r[k], g[k], b[k])
				y[k] = (r[k]*yuvMatrix[0] + g[k]*yuvMatrix[1] + b[k]*yuvMatrix[2] + matRound) >> matShift
				curLuma := srgbToLinearGrey(clampY(y[k]+rdiff), clampY(y[k]+gdiff), clampY(y[k]+bdiff))
				y[k] = linearToSRGB(srgbToLinear(y[k]) + wTarget - curLuma)
			}

			blk.Ytl = clamp8((y[0] + yRound) >> yFix)
			blk.Ytr = clamp8((y[1] + yRound) >> yFix)
			blk.Ybl = clamp8((y[2] + yRound) >> yFix)
			blk.Ybr = clamp8((y[3] + yRound) >> yFix)
			blk.U = clamp8(((rdiff*yuvMatrix[3]+gdiff*yuvMatrix[4]+bdiff*yuvMatrix[5]+(matRound<<yFix))>>(matShift+yFix)) + 128)
			blk.V = clamp8(((rdiff*yuvMatrix[6]+gdiff*yuvMatrix[7]+bdiff*yuvMatrix[8]+(matRound<<yFix))>>(matShift+yFix)) + 128)
		}
	}
}

// Downscale2to1 builds the V1-resolution plane used to seed the V1
// quantiser: each destination corner is the rounded mean of its source
// child block's four lumas, chroma is the mean of the four children's
// chroma, and weight is the sum of the children's weights with a
// perceptual boost when the resulting V1 reconstruction is already close
// to the source (see yuvblock.MacroblockV1Distortion).
func Downscale2to1(dst *yuvblock.V1Frame, src *yuvblock.Frame) {
	bw, bh := dst.MBWidth, dst.MBHeight
	for row := 0; row < bh; row++ {
		for col := 0; col < bw; col++ {
			tl := *src.At(col*2+0, row*2+0)
			tr := *src.At(col*2+1, row*2+0)
			bl := *src.At(col*2+0, row*2+1)
			br := *src.At(col*2+1, row*2+1)

			out := dst.At(col, row)
			out.Ytl = avg4(tl.Ytl, tl.Ytr, tl.Ybl, tl.Ybr)
			out.Ytr = avg4(tr.Ytl, tr.Ytr, tr.Ybl, tr.Ybr)
			out.Ybl = avg4(bl.Ytl, bl.Ytr, bl.Ybl, bl.Ybr)
			out.Ybr = avg4(br.Ytl, br.Ytr, br.Ybl, br.Ybr)
			out.U = uint8((int(tl.U) + int(tr.U) + int(bl.U) + int(br.U) + 2) >> 2)
			out.V = uint8((int(tl.V) + int(tr.V) + int(bl.V) + int(br.V) + 2) >> 2)

			weight := int(tl.Weight) + int(tr.Weight) + int(bl.Weight) + int(br.Weight)
			mbDist := yuvblock.MacroblockV1Distortion(tl, tr, bl, br, *out)
			if mbDist < 48*yuvblock.TotalWeight {
				weight *= 2
			}
			if mbDist < 6*yuvblock.TotalWeight {
				weight *= 2
			}
			out.Weight = uint16(clamp8(weight))
		}
	}
}

func avg4(a, b, c, d uint8) uint8 {
	return uint8((int(a) + int(b) + int(c) + int(d) + 2) >> 2)
}
