package contribmatrix

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/setanarut/apng"
)

// Calendar colors lifted from GitHub's light theme.
var (
	cellBlank   = color.RGBA{R: 0xeb, G: 0xed, B: 0xf0, A: 0xff}
	cellPainted = color.RGBA{R: 0x21, G: 0x6e, B: 0x39, A: 0xff}
	pageWhite   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// ImageOpt is an option for an ImageRenderer.
type ImageOpt func(*ImageRenderer)

// WithCellSize sets the pixel edge of one calendar cell.
func WithCellSize(px int) ImageOpt {
	return func(ir *ImageRenderer) {
		if px > 0 {
			ir.cell = px
		}
	}
}

// WithGutter sets the spacing between cells.
func WithGutter(px int) ImageOpt {
	return func(ir *ImageRenderer) {
		if px >= 0 {
			ir.gutter = px
		}
	}
}

// ImageRenderer draws grids the way github.com draws a contribution
// calendar: rounded cells on a white page, painted cells in green.
type ImageRenderer struct {
	cell   int
	gutter int
	margin int
}

func NewImageRenderer(opts ...ImageOpt) *ImageRenderer {
	ir := ImageRenderer{cell: 10, gutter: 3, margin: 12}
	for _, opt := range opts {
		opt(&ir)
	}
	return &ir
}

// Size returns the pixel dimensions of one rendered frame.
func (ir *ImageRenderer) Size() (w, h int) {
	w = 2*ir.margin + GridWeeks*ir.cell + (GridWeeks-1)*ir.gutter
	h = 2*ir.margin + GridDays*ir.cell + (GridDays-1)*ir.gutter
	return w, h
}

// Frame renders a single grid.
func (ir *ImageRenderer) Frame(g Grid) *image.RGBA {
	w, h := ir.Size()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	gc := draw2dimg.NewGraphicContext(dst)

	gc.SetFillColor(pageWhite)
	draw2dkit.Rectangle(gc, 0, 0, float64(w), float64(h))
	gc.Fill()

	radius := float64(ir.cell) / 5
	for wk := 0; wk < GridWeeks && wk < len(g); wk++ {
		for d := 0; d < GridDays && d < len(g[wk]); d++ {
			x := float64(ir.margin + wk*(ir.cell+ir.gutter))
			y := float64(ir.margin + d*(ir.cell+ir.gutter))
			if g[wk][d] != 0 {
				gc.SetFillColor(cellPainted)
			} else {
				gc.SetFillColor(cellBlank)
			}
			draw2dkit.RoundedRectangle(gc, x, y, x+float64(ir.cell), y+float64(ir.cell), radius, radius)
			gc.Fill()
		}
	}
	return dst
}

// GIF renders the whole set as a looping animation. delayCS is the
// per-frame delay in hundredths of a second.
func (ir *ImageRenderer) GIF(fs FrameSet, delayCS int) *gif.GIF {
	palette := color.Palette{pageWhite, cellBlank, cellPainted}
	anim := &gif.GIF{LoopCount: 0}
	for _, g := range fs {
		rgba := ir.Frame(g)
		pal := image.NewPaletted(rgba.Bounds(), palette)
		draw.Draw(pal, pal.Bounds(), rgba, image.Point{}, draw.Src)
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delayCS)
	}
	return anim
}

// APNG writes the set to path as an animated PNG. delayCS is the
// per-frame delay in hundredths of a second.
func (ir *ImageRenderer) APNG(path string, fs FrameSet, delayCS int) error {
	frames := make([]image.Image, len(fs))
	for i, g := range fs {
		frames[i] = ir.Frame(g)
	}
	return apng.Save(path, frames, delayCS)
}
