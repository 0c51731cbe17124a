package gitgen_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/contribmatrix"
	"github.com/kevin-cantwell/contribmatrix/gitgen"
)

var _ = Describe("Planner", func() {
	anchor := utcDate(2023, time.December, 31) // a Sunday

	It("maps a pixel to anchor plus weeks plus days", func() {
		plan, err := gitgen.NewPlanner(anchor).Plan(contribmatrix.FrameSet{paint([2]int{2, 3})})
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Frames).To(Equal(1))
		Expect(plan.Entries).To(HaveLen(1))

		e := plan.Entries[0]
		Expect(e.Date).To(Equal(utcDate(2024, time.January, 17)))
		Expect(e.Frame).To(BeZero())
		Expect(e.Week).To(Equal(2))
		Expect(e.Day).To(Equal(3))
	})

	It("pins dates to noon regardless of the anchor clock", func() {
		late := time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)
		plan, err := gitgen.NewPlanner(late).Plan(contribmatrix.FrameSet{paint([2]int{0, 0})})
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Entries[0].Date).To(Equal(utcDate(2023, time.December, 31)))
	})

	It("starts consecutive frames a week apart", func() {
		fs := contribmatrix.FrameSet{paint([2]int{0, 0}), paint([2]int{0, 0})}
		plan, err := gitgen.NewPlanner(anchor).Plan(fs)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Entries[0].Date).To(Equal(anchor))
		Expect(plan.Entries[1].Date).To(Equal(utcDate(2024, time.January, 7)))
	})

	It("honors week spacing", func() {
		fs := contribmatrix.FrameSet{paint([2]int{0, 0}), paint([2]int{0, 0})}
		plan, err := gitgen.NewPlanner(anchor, gitgen.WithSpacingWeeks(2)).Plan(fs)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Entries[1].Date).To(Equal(utcDate(2024, time.January, 14)))
	})

	It("lets day spacing override week spacing", func() {
		fs := contribmatrix.FrameSet{paint([2]int{0, 0}), paint([2]int{0, 0})}
		planner := gitgen.NewPlanner(anchor, gitgen.WithSpacingWeeks(2), gitgen.WithSpacingDays(3))
		plan, err := planner.Plan(fs)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Entries[1].Date).To(Equal(utcDate(2024, time.January, 3)))
	})

	It("orders entries frame first, then week, then day", func() {
		fs := contribmatrix.FrameSet{
			paint([2]int{5, 2}, [2]int{1, 0}, [2]int{1, 6}),
			paint([2]int{0, 0}),
		}
		plan, err := gitgen.NewPlanner(anchor).Plan(fs)
		Expect(err).NotTo(HaveOccurred())

		var order [][3]int
		for _, e := range plan.Entries {
			order = append(order, [3]int{e.Frame, e.Week, e.Day})
		}
		Expect(order).To(Equal([][3]int{
			{0, 1, 0},
			{0, 1, 6},
			{0, 5, 2},
			{1, 0, 0},
		}))
	})

	It("rejects the whole set when any frame is malformed", func() {
		bad := paint([2]int{0, 0})[:51]
		fs := contribmatrix.FrameSet{paint([2]int{0, 0}), bad}
		plan, err := gitgen.NewPlanner(anchor).Plan(fs)
		Expect(err).To(MatchError(ContainSubstring("frame 1")))
		Expect(err).To(MatchError(ContainSubstring("weeks")))
		Expect(plan.Entries).To(BeEmpty())
	})
})

var _ = Describe("Plan", func() {
	It("reports the planned date range", func() {
		anchor := utcDate(2023, time.December, 31)
		fs := contribmatrix.FrameSet{paint([2]int{0, 0}, [2]int{2, 3})}
		plan, err := gitgen.NewPlanner(anchor).Plan(fs)
		Expect(err).NotTo(HaveOccurred())

		min, max, ok := plan.Range()
		Expect(ok).To(BeTrue())
		Expect(min).To(Equal(anchor))
		Expect(max).To(Equal(utcDate(2024, time.January, 17)))
	})

	It("reports no range for an unpainted plan", func() {
		plan, err := gitgen.NewPlanner(utcDate(2023, time.December, 31)).Plan(contribmatrix.FrameSet{paint()})
		Expect(err).NotTo(HaveOccurred())
		_, _, ok := plan.Range()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("LastSunday", func() {
	It("returns the Sunday before a weekday", func() {
		wed := time.Date(2024, time.January, 10, 9, 30, 0, 0, time.UTC)
		Expect(gitgen.LastSunday(wed)).To(Equal(utcDate(2024, time.January, 7)))
	})

	It("steps a full week back from a Sunday", func() {
		sun := time.Date(2024, time.January, 7, 9, 30, 0, 0, time.UTC)
		Expect(gitgen.LastSunday(sun)).To(Equal(utcDate(2023, time.December, 31)))
	})
})
