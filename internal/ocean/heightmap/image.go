// Package heightmap holds the baked ocean height/normal image and samples it
// at wrapped UV coordinates. Elevation is stored in the alpha channel and the
// surface normal in RGB.
package heightmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	ErrUnsupportedFormat = errors.New("heightmap: unsupported image format")
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("heightmap: empty image")
)

// Image is a decoded height map: non-premultiplied RGBA, 4 bytes per pixel, row-major.
// It is read-only once built.
type Image struct {
	Width  int
	Height int
	Pix    []byte
	// SRGB marks the RGB channels as sRGB encoded. Alpha is always linear.
	SRGB bool
}

// NewImage allocates a zeroed width x height image.
func NewImage(width, height int, srgb bool) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
		SRGB:   srgb,
	}
}

// Offset returns the index of pixel (x, y) in Pix.
func (m *Image) Offset(x, y int) int {
	return (y*m.Width + x) * 4
}

// At returns the raw pixel at (x, y).
func (m *Image) At(x, y int) color.NRGBA {
	i := m.Offset(x, y)
	p := m.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set stores a raw pixel at (x, y).
func (m *Image) Set(x, y int, c color.NRGBA) {
	i := m.Offset(x, y)
	m.Pix[i] = c.R
	m.Pix[i+1] = c.G
	m.Pix[i+2] = c.B
	m.Pix[i+3] = c.A
}

// Validate checks the buffer matches the declared dimensions.
func (m *Image) Validate() error {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return ErrEmptyImage
	}
	if len(m.Pix) != m.Width*m.Height*4 {
		return fmt.Errorf("heightmap: pixel buffer is %d bytes, want %d", len(m.Pix), m.Width*m.Height*4)
	}
	return nil
}

// FromImage copies any decoded image into an Image. Pixels are converted to
// non-premultiplied RGBA so the alpha-encoded elevation does not darken RGB.
func FromImage(src image.Image, srgb bool) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	var nrgba *image.NRGBA
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == b.Dx()*4 {
		nrgba = n
	} else {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}

	pix := make([]byte, len(nrgba.Pix))
	copy(pix, nrgba.Pix)
	return &Image{Width: b.Dx(), Height: b.Dy(), Pix: pix, SRGB: srgb}, nil
}

// ToNRGBA returns the image as a standard library image.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	copy(out.Pix, m.Pix)
	return out
}

// Decode decodes data according to the format name ("png", "bmp", "tiff", "tga").
func Decode(data []byte, format string, srgb bool) (*Image, error) {
	var (
		img image.Image
		err error
	)

	switch strings.ToLower(format) {
	case "png":
		img, err = png.Decode(bytes.NewReader(data))
	case "bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	case "tif", "tiff":
		img, err = tiff.Decode(bytes.NewReader(data))
	case "tga":
		img, err = DecodeTGA(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	return FromImage(img, srgb)
}

// Load reads and decodes a height map file, choosing the decoder by extension.
func Load(path string, srgb bool) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heightmap: %w", err)
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	m, err := Decode(data, ext, srgb)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}

// EncodePNG writes the image as a non-premultiplied PNG.
func EncodePNG(w io.Writer, m *Image) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return png.Encode(w, m.ToNRGBA())
}

// SavePNG writes the image to path.
func SavePNG(path string, m *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := EncodePNG(f, m); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
