package contribmatrix_test

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kevin-cantwell/contribmatrix"
)

// cellImage builds a 52x7 image so each pixel maps onto exactly one cell.
func cellImage(fill color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 52, 7))
	for y := 0; y < 7; y++ {
		for x := 0; x < 52; x++ {
			img.Set(x, y, fill)
		}
	}
	return img
}

var _ = Describe("Pixelizer", func() {
	It("produces a valid 52x7 grid", func() {
		g := contribmatrix.NewPixelizer().Pixelize(cellImage(color.White))
		Expect(g.Validate()).To(Succeed())
	})

	It("paints dark pixels and leaves light ones blank", func() {
		img := cellImage(color.White)
		img.Set(0, 0, color.Black)
		g := contribmatrix.NewPixelizer().Pixelize(img)
		Expect(g[0][0]).To(Equal(1))
		Expect(g.Painted()).To(Equal(1))
	})

	It("maps image columns to weeks and rows to days", func() {
		img := cellImage(color.White)
		img.Set(5, 2, color.Black)
		g := contribmatrix.NewPixelizer().Pixelize(img)
		Expect(g[5][2]).To(Equal(1))
		Expect(g.Painted()).To(Equal(1))
	})

	It("leaves a pixel exactly at the threshold blank", func() {
		g := contribmatrix.NewPixelizer().Pixelize(cellImage(color.Gray{Y: 128}))
		Expect(g.Painted()).To(BeZero())
	})

	It("paints a pixel one step below the threshold", func() {
		g := contribmatrix.NewPixelizer().Pixelize(cellImage(color.Gray{Y: 127}))
		Expect(g.Painted()).To(Equal(364))
	})

	It("honors a custom threshold", func() {
		img := cellImage(color.Gray{Y: 50})
		g := contribmatrix.NewPixelizer(contribmatrix.WithThreshold(50)).Pixelize(img)
		Expect(g.Painted()).To(BeZero())
		g = contribmatrix.NewPixelizer(contribmatrix.WithThreshold(51)).Pixelize(img)
		Expect(g.Painted()).To(Equal(364))
	})

	It("flips painted and blank with inverted colors", func() {
		img := cellImage(color.White)
		img.Set(0, 0, color.Black)
		g := contribmatrix.NewPixelizer(contribmatrix.WithInvertedColors()).Pixelize(img)
		Expect(g[0][0]).To(Equal(0))
		Expect(g.Painted()).To(Equal(363))
	})

	It("downscales larger frames onto the grid", func() {
		img := image.NewNRGBA(image.Rect(0, 0, 520, 70))
		for y := 0; y < 70; y++ {
			for x := 0; x < 520; x++ {
				if x < 260 {
					img.Set(x, y, color.Black)
				} else {
					img.Set(x, y, color.White)
				}
			}
		}
		g := contribmatrix.NewPixelizer(contribmatrix.WithFilter(imaging.Lanczos)).Pixelize(img)
		Expect(g.Validate()).To(Succeed())
		Expect(g[0][0]).To(Equal(1))
		Expect(g[51][6]).To(Equal(0))
	})
})
