package assets

import (
	"errors"
	"image"
	"image/color"
)

// TGA image types handled by decodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: truncated data")

// decodeTGA decodes uncompressed and RLE true-color TGA images of 24 or 32
// bits per pixel. TGA has no signature, so it is tried only after every
// registered format has refused the data.
func decodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}
	idLength := int(data[0])
	colorMapType, imageType := data[1], data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	switch {
	case colorMapType != 0:
		return nil, errors.New("tga: color-mapped images not supported")
	case imageType != tgaTrueColor && imageType != tgaTrueColorRLE:
		return nil, errors.New("tga: only true-color images supported")
	case bpp != 24 && bpp != 32:
		return nil, errors.New("tga: only 24 and 32 bit images supported")
	case width == 0 || height == 0:
		return nil, errors.New("tga: empty image")
	}
	if 18+idLength > len(data) {
		return nil, errTGATruncated
	}

	r := tgaReader{
		src:  data[18+idLength:],
		bpp:  bpp / 8,
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		flip: !topToBottom,
	}
	var err error
	if imageType == tgaTrueColor {
		err = r.raw(width * height)
	} else {
		err = r.rle()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	src  []byte
	pos  int
	bpp  int
	img  *image.RGBA
	flip bool
	next int // pixel index to write
}

// pixel reads one BGR(A) pixel.
func (r *tgaReader) pixel() (color.RGBA, error) {
	if r.pos+r.bpp > len(r.src) {
		return color.RGBA{}, errTGATruncated
	}
	p := r.src[r.pos : r.pos+r.bpp]
	r.pos += r.bpp
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bpp == 4 {
		c.A = p[3]
	}
	return c, nil
}

func (r *tgaReader) put(c color.RGBA) {
	b := r.img.Bounds()
	x, y := r.next%b.Dx(), r.next/b.Dx()
	if r.flip {
		y = b.Dy() - 1 - y
	}
	r.img.SetRGBA(x, y, c)
	r.next++
}

func (r *tgaReader) total() int { return r.img.Bounds().Dx() * r.img.Bounds().Dy() }

func (r *tgaReader) raw(n int) error {
	for i := 0; i < n && r.next < r.total(); i++ {
		c, err := r.pixel()
		if err != nil {
			return err
		}
		r.put(c)
	}
	return nil
}

func (r *tgaReader) rle() error {
	for r.next < r.total() {
		if r.pos >= len(r.src) {
			return errTGATruncated
		}
		header := r.src[r.pos]
		r.pos++
		count := int(header&0x7f) + 1

		if header&0x80 == 0 {
			if err := r.raw(count); err != nil {
				return err
			}
			continue
		}
		c, err := r.pixel()
		if err != nil {
			return err
		}
		for i := 0; i < count && r.next < r.total(); i++ {
			r.put(c)
		}
	}
	return nil
}
