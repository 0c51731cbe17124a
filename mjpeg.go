package contribmatrix

import (
	"bufio"
	"bytes"
	"image"
	"image/jpeg"
	"io"
)

// MJPEGScanner splits a concatenated JPEG stream, such as ffmpeg's
// image2pipe output, into decoded frames. It follows the bufio.Scanner
// shape: call Scan until it returns false, then check Err.
type MJPEGScanner struct {
	r   *bufio.Reader
	img image.Image
	err error
}

func NewMJPEGScanner(r io.Reader) *MJPEGScanner {
	return &MJPEGScanner{r: bufio.NewReaderSize(r, 1<<16)}
}

// Scan reads through the next end-of-image marker and decodes the frame.
// Bytes between frames are skipped, so a stream with trailing junk still
// ends cleanly.
func (s *MJPEGScanner) Scan() bool {
	if s.err != nil {
		return false
	}

	// Sync to the next start-of-image marker (ff d8).
	var prev byte
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return false
		}
		if prev == 0xff && b == 0xd8 {
			break
		}
		prev = b
	}

	buf := bytes.NewBuffer([]byte{0xff, 0xd8})
	prev = 0
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			s.err = err
			return false
		}
		buf.WriteByte(b)
		// Entropy-coded data escapes ff bytes, so ff d9 only ever
		// terminates the image.
		if prev == 0xff && b == 0xd9 {
			break
		}
		prev = b
	}

	img, err := jpeg.Decode(buf)
	if err != nil {
		s.err = err
		return false
	}
	s.img = img
	return true
}

// Image returns the frame decoded by the last successful Scan.
func (s *MJPEGScanner) Image() image.Image {
	return s.img
}

// Err returns the first error Scan hit. Running off the end of the
// stream is not an error.
func (s *MJPEGScanner) Err() error {
	return s.err
}
