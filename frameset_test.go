package contribmatrix_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/contribmatrix"
)

// fullGrid builds a 52x7 grid with every cell set to v.
func fullGrid(v int) contribmatrix.Grid {
	g := contribmatrix.NewGrid()
	for w := range g {
		for d := range g[w] {
			g[w][d] = v
		}
	}
	return g
}

var _ = Describe("Grid", func() {
	Describe("Validate", func() {
		It("accepts a fresh 52x7 grid", func() {
			Expect(contribmatrix.NewGrid().Validate()).To(Succeed())
		})

		It("rejects the wrong number of weeks", func() {
			g := contribmatrix.NewGrid()[:51]
			Expect(g.Validate()).To(MatchError(ContainSubstring("52 weeks")))
		})

		It("rejects a short week", func() {
			g := contribmatrix.NewGrid()
			g[3] = g[3][:6]
			Expect(g.Validate()).To(MatchError(ContainSubstring("week 3")))
		})

		It("rejects values other than 0 and 1", func() {
			g := contribmatrix.NewGrid()
			g[0][0] = 2
			Expect(g.Validate()).To(MatchError(ContainSubstring("not 0 or 1")))
		})
	})

	Describe("Painted", func() {
		It("counts painted cells", func() {
			g := contribmatrix.NewGrid()
			g[0][0] = 1
			g[51][6] = 1
			Expect(g.Painted()).To(Equal(2))
		})

		It("counts a full grid as 364", func() {
			Expect(fullGrid(1).Painted()).To(Equal(364))
		})
	})
})

var _ = Describe("FrameSet", func() {
	var fs contribmatrix.FrameSet

	BeforeEach(func() {
		fs = contribmatrix.FrameSet{contribmatrix.NewGrid(), fullGrid(1), contribmatrix.NewGrid()}
	})

	Describe("Slice", func() {
		It("clamps out-of-range bounds instead of panicking", func() {
			Expect(fs.Slice(-5, 99)).To(HaveLen(3))
		})

		It("treats a negative end as the end of the set", func() {
			Expect(fs.Slice(1, -1)).To(HaveLen(2))
		})

		It("returns an empty set when start passes end", func() {
			Expect(fs.Slice(2, 1)).To(BeEmpty())
		})
	})

	Describe("EncodeFrames and DecodeFrames", func() {
		It("round-trips a frame set", func() {
			var buf bytes.Buffer
			Expect(contribmatrix.EncodeFrames(&buf, fs)).To(Succeed())
			got, err := contribmatrix.DecodeFrames(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(fs))
		})

		It("round-trips an empty frame set", func() {
			var buf bytes.Buffer
			Expect(contribmatrix.EncodeFrames(&buf, contribmatrix.FrameSet{})).To(Succeed())
			got, err := contribmatrix.DecodeFrames(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeEmpty())
		})

		It("encodes a nil set as an empty frames array", func() {
			var buf bytes.Buffer
			Expect(contribmatrix.EncodeFrames(&buf, nil)).To(Succeed())
			Expect(strings.TrimSpace(buf.String())).To(Equal(`{"frames":[]}`))
		})

		It("wraps a legacy weeks document into a one-frame set", func() {
			var buf bytes.Buffer
			Expect(contribmatrix.EncodeWeeks(&buf, fullGrid(1))).To(Succeed())
			got, err := contribmatrix.DecodeFrames(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].Painted()).To(Equal(364))
		})

		It("prefers frames when both keys are present", func() {
			doc := `{"weeks": [[1]], "frames": [[[0]], [[1]]]}`
			got, err := contribmatrix.DecodeFrames(strings.NewReader(doc))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
		})

		It("fails when neither key is present", func() {
			_, err := contribmatrix.DecodeFrames(strings.NewReader(`{"fps": 30}`))
			Expect(err).To(MatchError(contribmatrix.ErrNoFrames))
		})
	})
})
