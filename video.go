package contribmatrix

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultSourceFPS stands in when probing cannot determine the source
// frame rate.
const DefaultSourceFPS = 30.0

// maxFrameEdge bounds frames held in memory during extraction. The grid
// is only 52 cells wide, so larger frames carry no extra signal.
const maxFrameEdge = 416

// VideoExtractor samples raster frames out of a video file by piping it
// through ffmpeg as an MJPEG stream and decoding frames on the fly.
type VideoExtractor struct {
	FFmpeg  string // ffmpeg binary, "ffmpeg" when empty
	FFprobe string // ffprobe binary, "ffprobe" when empty
	Log     *zap.Logger
}

func NewVideoExtractor(log *zap.Logger) *VideoExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &VideoExtractor{FFmpeg: "ffmpeg", FFprobe: "ffprobe", Log: log}
}

/*
Extract decodes path and keeps frames at roughly targetFPS by dropping
all but every nth decoded frame, where n is the rounded ratio of source
rate to target rate. maxFrames caps how many frames are kept; 0 keeps
everything. Once the cap is hit the ffmpeg pipe is torn down early
rather than decoded to the end.
*/
func (e *VideoExtractor) Extract(ctx context.Context, path string, targetFPS float64, maxFrames int) ([]image.Image, error) {
	info, err := e.probe(ctx, path)
	if err != nil {
		e.Log.Warn("probe failed, assuming default frame rate",
			zap.String("path", path),
			zap.Float64("assumed_fps", DefaultSourceFPS),
			zap.Error(err),
		)
		info = probeInfo{fps: DefaultSourceFPS}
	}
	stride := sampleStride(info.fps, targetFPS)
	e.Log.Info("extracting frames",
		zap.String("path", path),
		zap.Float64("source_fps", info.fps),
		zap.Float64("target_fps", targetFPS),
		zap.Int("stride", stride),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	args := []string{"-v", "error", "-i", path}
	if info.width > maxFrameEdge {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:-2", maxFrameEdge))
	}
	args = append(args, "-f", "image2pipe", "-c:v", "mjpeg", "-q:v", "3", "-")

	cmd := exec.CommandContext(ctx, e.ffmpeg(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	frames, scanErr := collectFrames(NewMJPEGScanner(stdout), stride, maxFrames)
	capped := maxFrames > 0 && len(frames) >= maxFrames
	if capped {
		// We have what we came for; kill the pipe instead of decoding
		// the rest of the stream.
		cancel()
	}
	waitErr := cmd.Wait()
	if waitErr != nil && !capped {
		return nil, fmt.Errorf("ffmpeg: %w: %s", waitErr, strings.TrimSpace(stderr.String()))
	}
	if scanErr != nil {
		return nil, fmt.Errorf("decode mjpeg stream: %w", scanErr)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", path)
	}
	e.Log.Info("extracted frames", zap.Int("count", len(frames)))
	return frames, nil
}

func (e *VideoExtractor) ffmpeg() string {
	if e.FFmpeg == "" {
		return "ffmpeg"
	}
	return e.FFmpeg
}

func (e *VideoExtractor) ffprobe() string {
	if e.FFprobe == "" {
		return "ffprobe"
	}
	return e.FFprobe
}

type probeInfo struct {
	fps   float64
	width int
}

func (e *VideoExtractor) probe(ctx context.Context, path string) (probeInfo, error) {
	cmd := exec.CommandContext(ctx, e.ffprobe(),
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,avg_frame_rate",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return probeInfo{}, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbe(string(out)), nil
}

// parseProbe reads ffprobe's key=value lines. Frame rates arrive as
// fractions like "30000/1001". Anything unparseable keeps its default.
func parseProbe(out string) probeInfo {
	info := probeInfo{fps: DefaultSourceFPS}
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "width":
			if w, err := strconv.Atoi(value); err == nil {
				info.width = w
			}
		case "avg_frame_rate":
			if fps, err := parseRate(value); err == nil && fps > 0 {
				info.fps = fps
			}
		}
	}
	return info
}

func parseRate(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("zero denominator in rate %q", s)
	}
	return n / d, nil
}

// sampleStride converts a source/target rate pair into a keep-every-nth
// stride, never below 1.
func sampleStride(sourceFPS, targetFPS float64) int {
	if sourceFPS <= 0 || targetFPS <= 0 {
		return 1
	}
	stride := int(math.Round(sourceFPS / targetFPS))
	if stride < 1 {
		return 1
	}
	return stride
}

// collectFrames keeps every stride-th frame from the scanner, stopping
// early once max frames are kept. A max of 0 or less samples to the end
// of the stream.
func collectFrames(s *MJPEGScanner, stride, max int) ([]image.Image, error) {
	var frames []image.Image
	for i := 0; s.Scan(); i++ {
		if i%stride != 0 {
			continue
		}
		frames = append(frames, s.Image())
		if max > 0 && len(frames) >= max {
			return frames, nil
		}
	}
	return frames, s.Err()
}
