package contribmatrix

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

/*
ExtractGIF decodes an animated gif into whole frames, compositing each
frame over the running canvas according to its disposal method. Exposed
background is treated as white so it reads as blank once thresholded.
max caps the number of frames returned; 0 keeps them all.
*/
func ExtractGIF(r io.Reader, max int) ([]image.Image, error) {
	giff, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(giff.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}

	bounds := image.Rect(0, 0, giff.Config.Width, giff.Config.Height)
	if bounds.Empty() {
		bounds = giff.Image[0].Bounds()
	}
	screen := image.NewRGBA(bounds)
	draw.Draw(screen, bounds, image.White, image.Point{}, draw.Src)

	var frames []image.Image
	for i, frame := range giff.Image {
		// Dispose previous means draw, snapshot, then undo.
		var restore *image.RGBA
		if i < len(giff.Disposal) && giff.Disposal[i] == gif.DisposalPrevious {
			restore = cloneRGBA(screen)
		}

		draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, boundFrame(cloneRGBA(screen)))
		if max > 0 && len(frames) >= max {
			break
		}

		if i < len(giff.Disposal) {
			switch giff.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(screen, frame.Bounds(), image.White, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				screen = restore
			}
		}
	}
	return frames, nil
}

// DecodeStill reads a single raster image (png, jpeg, gif, bmp, or webp)
// as a one-frame sequence.
func DecodeStill(r io.Reader) ([]image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return []image.Image{boundFrame(img)}, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// boundFrame keeps decoded frames at a sane working size; the pixelizer
// squashes them to 52x7 anyway.
func boundFrame(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxFrameEdge && b.Dy() <= maxFrameEdge {
		return img
	}
	return resize.Thumbnail(maxFrameEdge, maxFrameEdge, img, resize.Bicubic)
}
