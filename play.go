package contribmatrix

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Terminal moves the cursor between animation frames.
type Terminal interface {
	// ResetCursor rewinds to column zero and up rows lines so the next
	// frame overdraws the last one.
	ResetCursor(rows int)
	// ShowCursor toggles cursor visibility.
	ShowCursor(show bool)
}

// Xterm drives any xterm-compatible emulator with raw escape codes.
type Xterm struct {
	Writer io.Writer
}

func (t *Xterm) ResetCursor(rows int) {
	fmt.Fprintf(t.Writer, "\033[999D\033[%dA", rows)
}

func (t *Xterm) ShowCursor(show bool) {
	if show {
		fmt.Fprint(t.Writer, "\033[?12l\033[?25h")
	} else {
		fmt.Fprint(t.Writer, "\033[?25l")
	}
}

// Animator replays a frame set in place, the way a terminal gif player
// would: draw a frame, rewind the cursor, draw the next one over it.
type Animator struct {
	rd   *Renderer
	term Terminal
}

// NewAnimator renders to w. A nil term gets an Xterm writing to the
// same destination.
func NewAnimator(w io.Writer, term Terminal, opts ...RenderOpt) *Animator {
	if term == nil {
		term = &Xterm{Writer: w}
	}
	return &Animator{rd: NewRenderer(w, opts...), term: term}
}

/*
Play renders frames at the given rate, looping the whole set loops times.
A loops of 0 plays until the context is canceled. The cursor is hidden
during playback and restored on the way out.
*/
func (a *Animator) Play(ctx context.Context, fs FrameSet, fps float64, loops int) error {
	if len(fs) == 0 {
		return nil
	}
	if fps <= 0 {
		fps = 1
	}
	interval := time.Duration(float64(time.Second) / fps)

	a.term.ShowCursor(false)
	defer a.term.ShowCursor(true)

	first := true
	for c := 0; loops == 0 || c < loops; c++ {
		for _, g := range fs {
			if !first {
				a.term.ResetCursor(GridDays)
			}
			first = false
			delay := time.After(interval)
			if err := a.rd.Render(g); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-delay:
			}
		}
	}
	return nil
}
