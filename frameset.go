// Package contribmatrix converts raster frames into 52x7 binary grids
// shaped like a one-year GitHub contribution calendar, and reads and
// writes the JSON documents the rest of the toolkit exchanges.
package contribmatrix

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// A contribution calendar is 52 columns of weeks and 7 rows of days.
const (
	GridWeeks = 52
	GridDays  = 7
)

// Grid is one visual frame mapped onto the calendar: 52 weeks of 7
// day-values each, where 1 paints a cell and 0 leaves it blank. The
// first index is the week (image column), the second the day (image row).
type Grid [][]int

// NewGrid returns an all-blank 52x7 grid.
func NewGrid() Grid {
	g := make(Grid, GridWeeks)
	for w := range g {
		g[w] = make([]int, GridDays)
	}
	return g
}

// Validate checks the 52x7 shape and that every value is 0 or 1.
func (g Grid) Validate() error {
	if len(g) != GridWeeks {
		return fmt.Errorf("expected %d weeks, got %d", GridWeeks, len(g))
	}
	for w, week := range g {
		if len(week) != GridDays {
			return fmt.Errorf("week %d: expected %d day values, got %d", w, GridDays, len(week))
		}
		for d, v := range week {
			if v != 0 && v != 1 {
				return fmt.Errorf("week %d day %d: value %d is not 0 or 1", w, d, v)
			}
		}
	}
	return nil
}

// Painted counts the painted cells.
func (g Grid) Painted() int {
	var n int
	for _, week := range g {
		for _, v := range week {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// FrameSet is an ordered sequence of grids, one per animation frame.
type FrameSet []Grid

// Slice returns frames [start, end) clamped to the set's bounds, so
// out-of-range indices trim instead of panicking. A negative end means
// "through the last frame".
func (fs FrameSet) Slice(start, end int) FrameSet {
	if end < 0 || end > len(fs) {
		end = len(fs)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		return FrameSet{}
	}
	return fs[start:end]
}

// ErrNoFrames reports a document carrying neither a "frames" nor a
// "weeks" key.
var ErrNoFrames = errors.New(`document must contain either "frames" or "weeks"`)

type frameSetDoc struct {
	Frames []Grid `json:"frames"`
}

type weeksDoc struct {
	Weeks Grid `json:"weeks"`
}

type anyDoc struct {
	Frames []Grid `json:"frames"`
	Weeks  Grid   `json:"weeks"`
}

// DecodeFrames reads a frame-set document from r. A "frames" key takes
// precedence; a lone "weeks" key is wrapped into a one-frame set.
func DecodeFrames(r io.Reader) (FrameSet, error) {
	var doc anyDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode frame set: %w", err)
	}
	if doc.Frames != nil {
		return FrameSet(doc.Frames), nil
	}
	if doc.Weeks != nil {
		return FrameSet{doc.Weeks}, nil
	}
	return nil, ErrNoFrames
}

// EncodeFrames writes fs to w as a {"frames": ...} document. A nil set
// encodes as an empty array, never as JSON null.
func EncodeFrames(w io.Writer, fs FrameSet) error {
	if fs == nil {
		fs = FrameSet{}
	}
	return json.NewEncoder(w).Encode(frameSetDoc{Frames: fs})
}

// EncodeWeeks writes a single grid as the legacy {"weeks": ...} document.
func EncodeWeeks(w io.Writer, g Grid) error {
	return json.NewEncoder(w).Encode(weeksDoc{Weeks: g})
}
