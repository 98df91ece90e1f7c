package glbackend

import (
	"image"
	"testing"
)

func TestFlipRows(t *testing.T) {
	// Two rows, bottom row first as GL returns them.
	pixels := []byte{
		1, 1, 1, 1, 2, 2, 2, 2,
		3, 3, 3, 3, 4, 4, 4, 4,
	}
	img := flipRows(pixels, 2, 2)
	if got := img.RGBAAt(0, 0).R; got != 3 {
		t.Errorf("top-left = %d, want 3", got)
	}
	if got := img.RGBAAt(1, 1).R; got != 2 {
		t.Errorf("bottom-right = %d, want 2", got)
	}
}

func TestPackRows(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range full.Pix {
		full.Pix[i] = byte(i / 4)
	}
	sub := full.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	got := packRows(sub)
	if len(got) != 2*2*4 {
		t.Fatalf("len = %d", len(got))
	}
	// Pixel (1,1) is pixel index 5, (2,2) is index 10.
	if got[0] != 5 || got[len(got)-1] != 10 {
		t.Errorf("packed = %v", got)
	}
}
