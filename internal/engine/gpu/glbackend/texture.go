package glbackend

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

type texture struct {
	id            uint32
	width, height int32
}

func newTexture(img *image.RGBA) (*texture, error) {
	b := img.Bounds()
	t := &texture{width: int32(b.Dx()), height: int32(b.Dy())}
	pix := img.Pix
	if img.Stride != b.Dx()*4 {
		pix = packRows(img)
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("texture"); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func (t *texture) Bind(_ gpu.CommandList, unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

func (t *texture) Size() (int32, int32) { return t.width, t.height }

func (t *texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// packRows copies a sub-image into tightly packed rows.
func packRows(img *image.RGBA) []byte {
	b := img.Bounds()
	row := b.Dx() * 4
	out := make([]byte, row*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*row:(y+1)*row], img.Pix[src:src+row])
	}
	return out
}

// flipRows returns an image from bottom-up RGBA rows, as GL reads them.
func flipRows(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img
}
