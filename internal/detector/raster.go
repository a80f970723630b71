package detector

import (
	"errors"
	"fmt"
	"image"
)

// Channel depths supported by Raster.
const (
	GrayChannels = 1
	RGBAChannels = 4
)

// ErrInvalidFrame is returned when a frame's buffer does not match its
// declared geometry. Per-candidate rejections inside the pipeline are never
// surfaced through errors.
var ErrInvalidFrame = errors.New("invalid frame")

// Raster is a 2D grid of pixel samples with explicit geometry. It is owned
// by whichever stage produced it and treated as read-only by consumers.
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewGrayRaster allocates a zeroed single-channel raster.
func NewGrayRaster(w, h int) *Raster {
	return &Raster{Width: w, Height: h, Channels: GrayChannels, Pix: make([]byte, w*h)}
}

// RasterFromImage converts any image into a grayscale Raster using BT.601
// luma weights.
func RasterFromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := NewGrayRaster(b.Dx(), b.Dy())
	for y := range r.Height {
		for x := range r.Width {
			cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			luma := (299*(cr>>8) + 587*(cg>>8) + 114*(cb>>8)) / 1000
			r.Pix[y*r.Width+x] = byte(luma)
		}
	}
	return r
}

// Validate checks the raster's declared geometry against its buffer.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidFrame)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrame, r.Width, r.Height)
	}
	if r.Channels != GrayChannels && r.Channels != RGBAChannels {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidFrame, r.Channels)
	}
	if want := r.Width * r.Height * r.Channels; len(r.Pix) != want {
		return fmt.Errorf("%w: buffer length %d, want %d", ErrInvalidFrame, len(r.Pix), want)
	}
	return nil
}

// Gray returns a single-channel view of the raster, converting RGBA input
// with BT.601 luma weights. Gray input is returned as-is.
func (r *Raster) Gray() *Raster {
	if r.Channels == GrayChannels {
		return r
	}
	out := NewGrayRaster(r.Width, r.Height)
	for i := range out.Pix {
		o := i * RGBAChannels
		luma := (299*int(r.Pix[o]) + 587*int(r.Pix[o+1]) + 114*int(r.Pix[o+2])) / 1000
		out.Pix[i] = byte(luma)
	}
	return out
}

// at reads a single-channel sample. Callers guarantee bounds.
func (r *Raster) at(x, y int) byte {
	return r.Pix[y*r.Width+x]
}
