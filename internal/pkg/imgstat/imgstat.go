// Package imgstat provides the pixel statistics the detection and analysis
// heuristics are built on: grayscale planes, gradient magnitudes, sharpness
// and skin-tone segmentation. All functions are deterministic.
package imgstat

import (
	"image"
	"math"
)

// Gray is a float64 grayscale plane.
type Gray struct {
	Pix    []float64
	Width  int
	Height int
}

// FromImage converts an image to a grayscale plane using Rec. 601 luma.
func FromImage(img image.Image) *Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	g := &Gray{
		Pix:    make([]float64, w*h),
		Width:  w,
		Height: h,
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			g.Pix[y*w+x] = 0.299*float64(r>>8) + 0.587*float64(gr>>8) + 0.114*float64(b>>8)
		}
	}

	return g
}

// At returns the gray value at (x, y). Out-of-range coordinates return 0.
func (g *Gray) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Pix[y*g.Width+x]
}

// Mean returns the average gray value.
func (g *Gray) Mean() float64 {
	if len(g.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.Pix {
		sum += v
	}
	return sum / float64(len(g.Pix))
}

// StdDev returns the standard deviation of the gray values.
func (g *Gray) StdDev() float64 {
	if len(g.Pix) == 0 {
		return 0
	}
	mean := g.Mean()
	var sum float64
	for _, v := range g.Pix {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(g.Pix)))
}

// Crop returns a copy of the plane restricted to the given rectangle,
// clamped to the plane bounds.
func (g *Gray) Crop(x0, y0, x1, y1 int) *Gray {
	x0 = clampInt(x0, 0, g.Width)
	x1 = clampInt(x1, 0, g.Width)
	y0 = clampInt(y0, 0, g.Height)
	y1 = clampInt(y1, 0, g.Height)

	if x1 <= x0 || y1 <= y0 {
		return &Gray{}
	}

	w, h := x1-x0, y1-y0
	out := &Gray{
		Pix:    make([]float64, w*h),
		Width:  w,
		Height: h,
	}
	for y := 0; y < h; y++ {
		copy(out.Pix[y*w:(y+1)*w], g.Pix[(y0+y)*g.Width+x0:(y0+y)*g.Width+x1])
	}
	return out
}

// SobelMean returns the average gradient magnitude of the plane. Flat skin
// yields low values, wrinkles and texture raise it.
func (g *Gray) SobelMean() float64 {
	if g.Width < 3 || g.Height < 3 {
		return 0
	}

	var sum float64
	var n int
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			gx := -g.At(x-1, y-1) + g.At(x+1, y-1) +
				-2*g.At(x-1, y) + 2*g.At(x+1, y) +
				-g.At(x-1, y+1) + g.At(x+1, y+1)
			gy := -g.At(x-1, y-1) - 2*g.At(x, y-1) - g.At(x+1, y-1) +
				g.At(x-1, y+1) + 2*g.At(x, y+1) + g.At(x+1, y+1)
			sum += math.Sqrt(gx*gx + gy*gy)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LaplacianVar returns the variance of the Laplacian, the usual sharpness
// measure. Blurry images score low.
func (g *Gray) LaplacianVar() float64 {
	if g.Width < 3 || g.Height < 3 {
		return 0
	}

	lap := make([]float64, 0, (g.Width-2)*(g.Height-2))
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			v := g.At(x-1, y) + g.At(x+1, y) + g.At(x, y-1) + g.At(x, y+1) - 4*g.At(x, y)
			lap = append(lap, v)
		}
	}

	var mean float64
	for _, v := range lap {
		mean += v
	}
	mean /= float64(len(lap))

	var variance float64
	for _, v := range lap {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(lap))
}

// MaskedMean returns mean and standard deviation of the plane restricted to
// the mask. A nil or empty mask yields zeros.
func (g *Gray) MaskedMean(mask *Mask) (mean, std float64) {
	if mask == nil || mask.Width != g.Width || mask.Height != g.Height {
		return 0, 0
	}

	var sum float64
	var n int
	for i, on := range mask.Bits {
		if on {
			sum += g.Pix[i]
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)

	var varSum float64
	for i, on := range mask.Bits {
		if on {
			d := g.Pix[i] - mean
			varSum += d * d
		}
	}
	return mean, math.Sqrt(varSum / float64(n))
}

// Mask is a boolean pixel mask.
type Mask struct {
	Bits   []bool
	Width  int
	Height int
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	var n int
	for _, on := range m.Bits {
		if on {
			n++
		}
	}
	return n
}

// Bounds returns the bounding box of the set pixels and whether any pixel
// is set.
func (m *Mask) Bounds() (rect image.Rectangle, ok bool) {
	minX, minY := m.Width, m.Height
	maxX, maxY := -1, -1

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Bits[y*m.Width+x] {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// SkinMask segments likely skin pixels with the classic RGB rule: dominant
// red channel, sufficient spread between channels and minimum brightness.
func SkinMask(img image.Image) *Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mask := &Mask{
		Bits:   make([]bool, w*h),
		Width:  w,
		Height: h,
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			b := float64(b16 >> 8)

			maxC := math.Max(r, math.Max(g, b))
			minC := math.Min(r, math.Min(g, b))

			if r > 95 && g > 40 && b > 20 &&
				maxC-minC > 15 &&
				math.Abs(r-g) > 15 &&
				r > g && r > b {
				mask.Bits[y*w+x] = true
			}
		}
	}

	return mask
}

// MeanRGB returns the average color of the pixels selected by the mask. A
// nil mask averages the whole image.
func MeanRGB(img image.Image, mask *Mask) (r, g, b float64, n int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask != nil && !mask.Bits[y*w+x] {
				continue
			}
			r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r += float64(r16 >> 8)
			g += float64(g16 >> 8)
			b += float64(b16 >> 8)
			n++
		}
	}

	if n == 0 {
		return 0, 0, 0, 0
	}
	return r / float64(n), g / float64(n), b / float64(n), n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
