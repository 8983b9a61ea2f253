package heightmap

import (
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTypeUncompressed = 2
	tgaTypeRLE          = 10
)

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA data.
// The result is non-premultiplied so alpha-encoded elevation survives intact.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != tgaTypeUncompressed && imageType != tgaTypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := tgaDecoder{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	var err error
	if imageType == tgaTypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.NRGBA
	src         []byte
	pos         int
	width       int
	height      int
	bpp         int
	topToBottom bool
}

// put writes the BGR(A) pixel at d.pos into linear pixel index p.
func (d *tgaDecoder) put(p int, px []byte) {
	x := p % d.width
	y := p / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	i := d.img.PixOffset(x, y)
	d.img.Pix[i] = px[2]
	d.img.Pix[i+1] = px[1]
	d.img.Pix[i+2] = px[0]
	if d.bpp == 4 {
		d.img.Pix[i+3] = px[3]
	} else {
		d.img.Pix[i+3] = 255
	}
}

func (d *tgaDecoder) raw() error {
	count := d.width * d.height
	if len(d.src) < count*d.bpp {
		return fmt.Errorf("TGA pixel data truncated")
	}
	for p := 0; p < count; p++ {
		d.put(p, d.src[p*d.bpp:])
	}
	return nil
}

func (d *tgaDecoder) rle() error {
	count := d.width * d.height
	p := 0
	for p < count {
		if d.pos >= len(d.src) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", p, count)
		}
		packet := d.src[d.pos]
		d.pos++
		n := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if d.pos+d.bpp > len(d.src) {
				return fmt.Errorf("TGA RLE data truncated")
			}
			px := d.src[d.pos : d.pos+d.bpp]
			d.pos += d.bpp
			for k := 0; k < n && p < count; k++ {
				d.put(p, px)
				p++
			}
			continue
		}

		for k := 0; k < n && p < count; k++ {
			if d.pos+d.bpp > len(d.src) {
				return fmt.Errorf("TGA RLE data truncated")
			}
			d.put(p, d.src[d.pos:d.pos+d.bpp])
			d.pos += d.bpp
			p++
		}
	}
	return nil
}
