package contribmatrix

// Stats summarizes painted-pixel counts across a frame set.
type Stats struct {
	Frames int
	Min    int
	Max    int
	Avg    float64
	Total  int
}

// Analyze counts painted pixels per frame. A zero-frame set yields all
// zeros rather than an error.
func Analyze(fs FrameSet) Stats {
	s := Stats{Frames: len(fs)}
	if s.Frames == 0 {
		return s
	}
	for i, g := range fs {
		n := g.Painted()
		s.Total += n
		if i == 0 || n < s.Min {
			s.Min = n
		}
		if n > s.Max {
			s.Max = n
		}
	}
	s.Avg = float64(s.Total) / float64(s.Frames)
	return s
}
