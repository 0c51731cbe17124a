// Package gitgen fabricates back-dated git history from pixel grids so
// that a frame set shows up painted onto a GitHub contribution calendar.
package gitgen

import (
	"fmt"
	"time"

	"github.com/kevin-cantwell/contribmatrix"
)

// DefaultSpacingWeeks is how far apart consecutive frames start on the
// calendar.
const DefaultSpacingWeeks = 1

// Entry is one painted pixel resolved to the date its commits will carry.
type Entry struct {
	Date  time.Time
	Frame int
	Week  int
	Day   int
}

// Plan is the full commit schedule for a frame set. Entries are ordered
// frame first, then week, then day.
type Plan struct {
	Frames  int
	Entries []Entry
}

// Range returns the earliest and latest planned dates. ok is false when
// no pixel in the set is painted.
func (p Plan) Range() (min, max time.Time, ok bool) {
	for i, e := range p.Entries {
		if i == 0 || e.Date.Before(min) {
			min = e.Date
		}
		if i == 0 || e.Date.After(max) {
			max = e.Date
		}
	}
	return min, max, len(p.Entries) > 0
}

// PlannerOpt is an option for a Planner.
type PlannerOpt func(*Planner)

// WithSpacingWeeks starts consecutive frames n weeks apart.
func WithSpacingWeeks(n int) PlannerOpt {
	return func(p *Planner) {
		p.spacingDays = n * 7
	}
}

// WithSpacingDays starts consecutive frames n days apart, overriding any
// week spacing set before it.
func WithSpacingDays(n int) PlannerOpt {
	return func(p *Planner) {
		p.spacingDays = n
	}
}

// Planner maps painted pixels onto calendar dates. The anchor date is
// where week 0, day 0 of frame 0 lands; on GitHub that wants to be a
// Sunday or the whole image shears by a day.
type Planner struct {
	anchor      time.Time
	spacingDays int
}

func NewPlanner(anchor time.Time, opts ...PlannerOpt) *Planner {
	p := Planner{anchor: midday(anchor), spacingDays: DefaultSpacingWeeks * 7}
	for _, opt := range opts {
		opt(&p)
	}
	return &p
}

/*
Plan validates every frame and resolves each painted pixel to a date:
the anchor, plus the frame's spacing offset, plus seven days per week
column, plus one day per day row. Any malformed frame fails the whole
plan before anything is scheduled.
*/
func (p *Planner) Plan(fs contribmatrix.FrameSet) (Plan, error) {
	for i, g := range fs {
		if err := g.Validate(); err != nil {
			return Plan{}, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	plan := Plan{Frames: len(fs)}
	for i, g := range fs {
		start := p.anchor.AddDate(0, 0, i*p.spacingDays)
		for w, week := range g {
			for d, v := range week {
				if v == 0 {
					continue
				}
				plan.Entries = append(plan.Entries, Entry{
					Date:  start.AddDate(0, 0, w*7+d),
					Frame: i,
					Week:  w,
					Day:   d,
				})
			}
		}
	}
	return plan, nil
}

// LastSunday returns the most recent Sunday strictly before t, the
// default anchor when none is given.
func LastSunday(t time.Time) time.Time {
	days := int(t.Weekday())
	if days == 0 {
		days = 7
	}
	return midday(t.AddDate(0, 0, -days))
}

// midday pins a date to 12:00:00 local so the commits sit well away from
// day boundaries in any timezone GitHub might render them in.
func midday(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}
