package detector

// binarize converts a grayscale raster into a binary raster using an
// adaptive mean threshold: a pixel is foreground when it is darker than the
// local window mean minus a constant. Foreground pixels are written as 255,
// background as 0. With invert set, foreground is instead anything brighter
// than the mean plus the constant, for light markers on dark backgrounds.
//
// The window mean is computed from an integral image so cost is independent
// of window size; windows are clamped at the raster borders.
func binarize(gray *Raster, window int, c float64, invert bool) *Raster {
	w, h := gray.Width, gray.Height
	if window <= 0 {
		window = defaultWindow(w, h)
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	integral := integralImage(gray)
	out := NewGrayRaster(w, h)
	for y := range h {
		y0, y1 := max(0, y-half), min(h-1, y+half)
		for x := range w {
			x0, x1 := max(0, x-half), min(w-1, x+half)
			area := (x1 - x0 + 1) * (y1 - y0 + 1)
			sum := windowSum(integral, w, x0, y0, x1, y1)
			mean := float64(sum) / float64(area)
			v := float64(gray.at(x, y))
			foreground := v < mean-c
			if invert {
				foreground = v > mean+c
			}
			if foreground {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}

// defaultWindow scales the threshold window to the image dimensions, odd and
// at least 3.
func defaultWindow(w, h int) int {
	d := min(w, h) / 8
	if d < 3 {
		d = 3
	}
	if d%2 == 0 {
		d++
	}
	return d
}

// integralImage builds a (w+1)x(h+1) summed-area table of the gray samples.
func integralImage(gray *Raster) []uint64 {
	w, h := gray.Width, gray.Height
	integral := make([]uint64, (w+1)*(h+1))
	for y := range h {
		var rowSum uint64
		for x := range w {
			rowSum += uint64(gray.at(x, y))
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}
	return integral
}

// windowSum reads the inclusive rectangle sum [x0,x1]x[y0,y1] from the table.
func windowSum(integral []uint64, w, x0, y0, x1, y1 int) uint64 {
	stride := w + 1
	return integral[(y1+1)*stride+(x1+1)] -
		integral[y0*stride+(x1+1)] -
		integral[(y1+1)*stride+x0] +
		integral[y0*stride+x0]
}
