// Package generator renders marker bit patterns into images. It is the
// encoding inverse of the detector and doubles as the synthetic fixture
// source for pipeline tests.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/fidmark/internal/detector"
)

// Options controls marker rendering.
type Options struct {
	Dictionary *detector.Dictionary
	CellPixels int // rendered pixels per grid cell
	QuietCells int // white quiet zone around the marker, in cells
}

// DefaultOptions returns rendering defaults: ArUco 5x5, 16 px cells, one
// cell of quiet zone.
func DefaultOptions() Options {
	return Options{
		Dictionary: detector.ArUco5x5(),
		CellPixels: 16,
		QuietCells: 1,
	}
}

// Render draws the marker with the given id as a black-on-white image.
func Render(id int, opts Options) (*image.NRGBA, error) {
	if opts.Dictionary == nil {
		opts.Dictionary = detector.ArUco5x5()
	}
	if opts.CellPixels < 1 {
		return nil, fmt.Errorf("cell pixels must be positive, got %d", opts.CellPixels)
	}
	if opts.QuietCells < 0 {
		return nil, fmt.Errorf("quiet zone must be non-negative, got %d", opts.QuietCells)
	}

	grid, err := opts.Dictionary.Encode(id)
	if err != nil {
		return nil, err
	}

	side := (grid.Size + 2*opts.QuietCells) * opts.CellPixels
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	offset := opts.QuietCells * opts.CellPixels
	for r := range grid.Size {
		for c := range grid.Size {
			if !grid.At(r, c) {
				continue
			}
			cell := image.Rect(
				offset+c*opts.CellPixels,
				offset+r*opts.CellPixels,
				offset+(c+1)*opts.CellPixels,
				offset+(r+1)*opts.CellPixels,
			)
			draw.Draw(img, cell, image.NewUniform(color.Black), image.Point{}, draw.Src)
		}
	}
	return img, nil
}

// Save renders the marker and writes it to path; the format follows the
// file extension.
func Save(id int, opts Options, path string) error {
	img, err := Render(id, opts)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save marker image: %w", err)
	}
	return nil
}
