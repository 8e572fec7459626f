package bitstream

import (
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0xAB)
	w.WriteU16(0x1234)
	w.WriteU24(0x567890)
	w.WriteU32(0xDEADBEEF)
	w.WriteBytes([]byte{1, 2, 3})

	r := NewReader(w.Bytes())
	if v, err := r.ReadU8(); err != nil || v != 0xAB {
		t.Fatalf("ReadU8 = %#x, %v", v, err)
	}
	if v, err := r.ReadU16(); err != nil || v != 0x1234 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
	if v, err := r.ReadU24(); err != nil || v != 0x567890 {
		t.Fatalf("ReadU24 = %#x, %v", v, err)
	}
	if v, err := r.ReadU32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadU32 = %#x, %v", v, err)
	}
	if r.Remaining() != 3 {
		t.Fatalf("Remaining = %d, want 3", r.Remaining())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.ReadU32(); err == nil {
		t.Fatal("ReadU32 on a 2-byte buffer should fail")
	}
}

func TestReserveAndPatch(t *testing.T) {
	w := NewWriter()
	hdr := w.Reserve(4)
	w.WriteBytes([]byte{0xFF, 0xFF})
	w.PatchU8(hdr, 0x10)
	w.PatchU24(hdr+1, uint32(w.Len()))

	r := NewReader(w.Bytes())
	typ, _ := r.ReadU8()
	size, _ := r.ReadU24()
	if typ != 0x10 {
		t.Errorf("patched type = %#x, want 0x10", typ)
	}
	if int(size) != w.Len() {
		t.Errorf("patched size = %d, want %d", size, w.Len())
	}
}

func TestBitWriterBitReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	bw := NewBitWriter(w)
	bits := []bool{true, false, true, true, false, false, true, false}
	for i, b := range bits {
		bw.PutBit(b)
		if b {
			bw.WriteU8(uint8(i))
		}
	}
	bw.Flush()

	r := NewReader(w.Bytes())
	br := NewBitReader(r)
	for i, want := range bits {
		got, err := br.ReadBit()
		if err != nil {
			t.Fatalf("ReadBit(%d): %v", i, err)
		}
		if got != want {
			t.Fatalf("ReadBit(%d) = %v, want %v", i, got, want)
		}
		if want {
			b, err := br.ReadU8()
			if err != nil {
				t.Fatalf("ReadU8(%d): %v", i, err)
			}
			if int(b) != i {
				t.Fatalf("ReadU8(%d) = %d, want %d", i, b, i)
			}
		}
	}
}

func TestBitWriterSpanningMultipleWords(t *testing.T) {
	w := NewWriter()
	bw := NewBitWriter(w)
	const n = 40 // forces an automatic mid-stream flush at bit 32.
	for i := 0; i < n; i++ {
		bw.PutBit(i%3 == 0)
		if i%3 == 0 {
			bw.WriteU8(uint8(i))
		}
	}
	bw.Flush()

	r := NewReader(w.Bytes())
	br := NewBitReader(r)
	for i := 0; i < n; i++ {
		want := i%3 == 0
		got, err := br.ReadBit()
		if err != nil {
			t.Fatalf("ReadBit(%d): %v", i, err)
		}
		if got != want {
			t.Fatalf("ReadBit(%d) = %v, want %v", i, got, want)
		}
		if want {
			b, err := br.ReadU8()
			if err != nil {
				t.Fatalf("ReadU8(%d): %v", i, err)
			}
			if int(b) != i {
				t.Fatalf("ReadU8(%d) = %d, want %d", i, b, i)
			}
		}
	}
}
