package wire

import "testing"

func TestChunkTypeNibblesDisjoint(t *testing.T) {
	codebookTypes := []uint8{CBBase, CBBase | CBV1Mask, CBBase | CBMonoMask, CBBase | CBV1Mask | CBMonoMask}
	imageTypes := []uint8{ImageV1Only, ImageV4, ImageInter}
	for _, c := range codebookTypes {
		for _, im := range imageTypes {
			if c&0xF0 == im&0xF0 {
				t.Errorf("codebook type %#x and image type %#x share a high nibble", c, im)
			}
		}
	}
}

func TestFrameAndStripTypesDistinct(t *testing.T) {
	if FrameIntra == FrameInter {
		t.Error("FrameIntra and FrameInter must differ")
	}
	if StripIntra == StripInter {
		t.Error("StripIntra and StripInter must differ")
	}
}
