package contribmatrix

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultThreshold is the luminance cutoff below which a cell paints.
const DefaultThreshold = 128

// PixelizeOpt is an option for a Pixelizer.
type PixelizeOpt func(*Pixelizer)

// WithThreshold sets the luminance cutoff in the range (0, 255]. Pixels
// strictly darker than the cutoff paint their cell.
func WithThreshold(t int) PixelizeOpt {
	return func(p *Pixelizer) {
		p.threshold = t
	}
}

// WithFilter sets the resampling filter used to squash a frame down to
// grid size. NearestNeighbor keeps hard edges in pixel art; video frames
// come out better with a smoother filter such as Lanczos.
func WithFilter(f imaging.ResampleFilter) PixelizeOpt {
	return func(p *Pixelizer) {
		p.filter = f
	}
}

// WithInvertedColors paints light cells instead of dark ones.
func WithInvertedColors() PixelizeOpt {
	return func(p *Pixelizer) {
		p.invert = true
	}
}

// Pixelizer reduces raster frames to 52x7 binary grids.
type Pixelizer struct {
	threshold int
	filter    imaging.ResampleFilter
	invert    bool
}

func NewPixelizer(opts ...PixelizeOpt) *Pixelizer {
	p := Pixelizer{
		threshold: DefaultThreshold,
		filter:    imaging.NearestNeighbor,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return &p
}

// Pixelize converts one frame to a grid by grayscaling it, resizing the
// result to 52x7, and thresholding each cell's luminance. Image column x
// becomes week x and image row y becomes day y.
func (p *Pixelizer) Pixelize(img image.Image) Grid {
	small := imaging.Resize(imaging.Grayscale(img), GridWeeks, GridDays, p.filter)
	grid := NewGrid()
	for w := 0; w < GridWeeks; w++ {
		for d := 0; d < GridDays; d++ {
			// Grayscale output has R == G == B, so any one channel is
			// the luminance.
			lum := int(small.NRGBAAt(w, d).R)
			if (lum < p.threshold) != p.invert {
				grid[w][d] = 1
			}
		}
	}
	return grid
}
