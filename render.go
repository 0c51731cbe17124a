package contribmatrix

import (
	"io"
	"unicode/utf8"
)

// DefaultGlyph marks painted cells in text previews.
const DefaultGlyph = '#'

// RenderOpt is an option for a Renderer.
type RenderOpt func(*Renderer)

// WithGlyph sets the rune drawn for painted cells.
func WithGlyph(r rune) RenderOpt {
	return func(rd *Renderer) {
		rd.glyph = r
	}
}

// WithColor draws painted cells in bright green, the closest an ANSI
// terminal gets to the contribution-calendar look.
func WithColor() RenderOpt {
	return func(rd *Renderer) {
		rd.color = true
	}
}

// Renderer writes grids as text, one line per day row.
type Renderer struct {
	w     io.Writer
	glyph rune
	color bool
}

func NewRenderer(w io.Writer, opts ...RenderOpt) *Renderer {
	rd := Renderer{w: w, glyph: DefaultGlyph}
	for _, opt := range opts {
		opt(&rd)
	}
	return &rd
}

// Render writes g as 7 lines of 52 characters, top row first. Grids with
// odd shapes render whatever cells they have; validation belongs to the
// callers that need it.
func (rd *Renderer) Render(g Grid) error {
	row := make([]byte, 0, GridWeeks*4)
	for d := 0; d < GridDays; d++ {
		row = row[:0]
		for _, week := range g {
			v := 0
			if d < len(week) {
				v = week[d]
			}
			if v == 0 {
				row = append(row, ' ')
				continue
			}
			if rd.color {
				row = append(row, "\033[32;1m"...)
				row = utf8.AppendRune(row, rd.glyph)
				row = append(row, "\033[0m"...)
			} else {
				row = utf8.AppendRune(row, rd.glyph)
			}
		}
		row = append(row, '\n')
		if _, err := rd.w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
