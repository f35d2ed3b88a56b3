// Package media provides the frame codec boundary: decoding inbound still-image
// bytes into raw RGB frames, resampling, and re-encoding processed frames.
package media

import (
	"fmt"
	"image"
	"image/color"
)

// Channels is the number of color channels in a Frame buffer.
const Channels = 3

// Frame is a raw decoded video frame: a tightly packed, row-major RGB buffer.
// RGB is the single normalized channel order for the whole pipeline; any
// conversion from an encoding's native representation happens in this package
// and nowhere else.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*Channels
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*Channels),
	}
}

// At returns the RGB triple at (x, y). No bounds checking beyond the slice's own.
func (f *Frame) At(x, y int) (r, g, b byte) {
	i := (y*f.Width + x) * Channels
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set writes the RGB triple at (x, y).
func (f *Frame) Set(x, y int, r, g, b byte) {
	i := (y*f.Width + x) * Channels
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{Width: f.Width, Height: f.Height, Pix: make([]byte, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

// Validate checks that the buffer length matches the declared dimensions.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame dimensions %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * Channels; len(f.Pix) != want {
		return fmt.Errorf("frame buffer length %d, want %d for %dx%d", len(f.Pix), want, f.Width, f.Height)
	}
	return nil
}

// FromImage converts a decoded image.Image into a Frame, dropping alpha.
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	f := NewFrame(bounds.Dx(), bounds.Dy())

	// Fast path for the decoders that already produce RGBA.
	if rgba, ok := img.(*image.RGBA); ok {
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := rgba.Pix[(y-bounds.Min.Y)*rgba.Stride:]
			for x := 0; x < f.Width; x++ {
				f.Pix[i] = row[x*4]
				f.Pix[i+1] = row[x*4+1]
				f.Pix[i+2] = row[x*4+2]
				i += Channels
			}
		}
		return f
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			f.Pix[i] = byte(r >> 8)
			f.Pix[i+1] = byte(g >> 8)
			f.Pix[i+2] = byte(b >> 8)
			i += Channels
		}
	}
	return f
}

// ToImage converts the frame into an *image.RGBA for encoding or scaling.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	si := 0
	for y := 0; y < f.Height; y++ {
		di := y * img.Stride
		for x := 0; x < f.Width; x++ {
			img.Pix[di] = f.Pix[si]
			img.Pix[di+1] = f.Pix[si+1]
			img.Pix[di+2] = f.Pix[si+2]
			img.Pix[di+3] = 0xff
			si += Channels
			di += 4
		}
	}
	return img
}

// Fill sets every pixel of the frame to the given color.
func (f *Frame) Fill(c color.RGBA) {
	for i := 0; i < len(f.Pix); i += Channels {
		f.Pix[i] = c.R
		f.Pix[i+1] = c.G
		f.Pix[i+2] = c.B
	}
}
