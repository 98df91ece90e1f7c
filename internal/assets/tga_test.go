package assets

import (
	"errors"
	"image/color"
	"testing"
)

func tgaHeader(imageType byte, w, h int, bpp byte, topDown bool) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	if topDown {
		hdr[17] = 0x20
	}
	return hdr
}

func TestDecodeTGA(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	half := color.RGBA{G: 10, A: 128}

	tests := []struct {
		name string
		data []byte
		// want is top row first.
		want [2][2]color.RGBA
	}{
		{
			name: "raw bottom-up 24 bit",
			data: append(tgaHeader(tgaTrueColor, 2, 2, 24, false),
				0, 0, 255, 0, 0, 255, // bottom row: red red
				255, 0, 0, 255, 0, 0, // top row: blue blue
			),
			want: [2][2]color.RGBA{{blue, blue}, {red, red}},
		},
		{
			name: "raw top-down 32 bit",
			data: append(tgaHeader(tgaTrueColor, 2, 2, 32, true),
				0, 0, 255, 255, 0, 10, 0, 128,
				255, 0, 0, 255, 255, 0, 0, 255,
			),
			want: [2][2]color.RGBA{{red, half}, {blue, blue}},
		},
		{
			name: "rle top-down",
			data: append(tgaHeader(tgaTrueColorRLE, 2, 2, 24, true),
				0x80|2, 0, 0, 255, // run of 3 red
				0x00, 255, 0, 0, // one raw blue
			),
			want: [2][2]color.RGBA{{red, red}, {red, blue}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := decodeTGA(tt.data)
			if err != nil {
				t.Fatalf("decodeTGA: %v", err)
			}
			for y := range 2 {
				for x := range 2 {
					if got := img.RGBAAt(x, y); got != tt.want[y][x] {
						t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, tt.want[y][x])
					}
				}
			}
		})
	}
}

func TestDecodeTGARejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := tgaHeader(1, 1, 1, 24, false); h[1] = 1; return h }()},
		{"grayscale", tgaHeader(3, 1, 1, 8, false)},
		{"16 bit", tgaHeader(tgaTrueColor, 1, 1, 16, false)},
	}
	for _, tt := range tests {
		if _, err := decodeTGA(tt.data); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	truncated := append(tgaHeader(tgaTrueColor, 2, 2, 24, false), 1, 2, 3)
	if _, err := decodeTGA(truncated); !errors.Is(err, errTGATruncated) {
		t.Errorf("truncated pixels: err = %v", err)
	}
}

func TestDecodeImageFallsBackToTGA(t *testing.T) {
	data := append(tgaHeader(tgaTrueColor, 1, 1, 24, false), 0, 255, 0)
	img, err := DecodeImage(data, 0)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}
