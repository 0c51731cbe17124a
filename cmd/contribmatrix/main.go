package main

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disintegration/imaging"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin-cantwell/contribmatrix"
	"github.com/kevin-cantwell/contribmatrix/gitgen"
)

// environment collects the knobs that make more sense as env vars than
// flags: where the external binaries live and how loud the logs are.
type environment struct {
	LogLevel string `env:"CONTRIBMATRIX_LOG_LEVEL" envDefault:"info"`
	FFmpeg   string `env:"CONTRIBMATRIX_FFMPEG" envDefault:"ffmpeg"`
	FFprobe  string `env:"CONTRIBMATRIX_FFPROBE" envDefault:"ffprobe"`
	Git      string `env:"CONTRIBMATRIX_GIT" envDefault:"git"`
}

func main() {
	var cfg environment
	if err := env.Parse(&cfg); err != nil {
		exit(err.Error(), 1)
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		exit(err.Error(), 1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp()
	app.Name = "contribmatrix"
	app.Version = "0.1.0"
	app.Usage = "Paints video frames onto a GitHub contribution calendar, one back-dated commit at a time."
	app.Authors = []cli.Author{
		{Name: "Kevin Cantwell", Email: "kevin.cantwell@gmail.com"},
	}
	app.Commands = []cli.Command{
		convertCommand(ctx, log, cfg),
		statsCommand(),
		previewCommand(ctx),
		renderCommand(),
		generateCommand(ctx, log, cfg),
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func convertCommand(ctx context.Context, log *zap.Logger, cfg environment) cli.Command {
	return cli.Command{
		Name:      "convert",
		Usage:     "Convert a video, animated gif, or still image into a 52x7 frame-set JSON document.",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "input,i",
				Usage: "`PATH` of the source media: gif, png, jpeg, bmp, webp, or anything ffmpeg can read.",
			},
			cli.StringFlag{
				Name:  "output,o",
				Usage: "`PATH` of the frame-set JSON to write.",
				Value: "frames.json",
			},
			cli.Float64Flag{
				Name:  "fps",
				Usage: "`FPS` = 1 keeps roughly one video frame per second of footage. Ignored for gifs and stills.",
				Value: 1.0,
			},
			cli.IntFlag{
				Name:  "max-frames",
				Usage: "`N` caps the number of frames kept. 0 keeps everything.",
				Value: 600,
			},
			cli.IntFlag{
				Name:  "threshold",
				Usage: "`T` is the luminance cutoff between 0 and 255. Pixels darker than T paint their cell.",
				Value: contribmatrix.DefaultThreshold,
			},
			cli.Float64Flag{
				Name:  "gamma,g",
				Usage: "`GAMMA` = 1.0 gives the original image. GAMMA less than 1.0 darkens the image and GAMMA greater than 1.0 lightens it.",
				Value: 1.0,
			},
			cli.Float64Flag{
				Name:  "brightness,b",
				Usage: "`BRIGHTNESS` = 0 gives the original image. BRIGHTNESS = -100 gives solid black image. BRIGHTNESS = 100 gives solid white image.",
				Value: 0.0,
			},
			cli.Float64Flag{
				Name:  "contrast,c",
				Usage: "`CONTRAST` = 0 gives the original image. CONTRAST = -100 gives solid grey image. CONTRAST = 100 gives maximum contrast.",
				Value: 0.0,
			},
			cli.Float64Flag{
				Name:  "sharpen,s",
				Usage: "`SHARPEN` = 0 gives the original image. SHARPEN greater than 0 sharpens the image.",
				Value: 0.0,
			},
			cli.BoolFlag{
				Name:  "invert",
				Usage: "Paints light pixels instead of dark ones.",
			},
		},
		Action: func(c *cli.Context) error {
			input := c.String("input")
			if input == "" {
				input = c.Args().First()
			}
			if input == "" {
				return cli.NewExitError("convert: an input file is required", 1)
			}
			if _, err := os.Stat(input); err != nil {
				// Report and suggest rather than fail; a typo is the
				// usual culprit.
				reportMissing(input)
				return nil
			}

			frames, fromVideo, err := extractFrames(ctx, log, cfg, input, c.Float64("fps"), c.Int("max-frames"))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}

			opts := []contribmatrix.PixelizeOpt{
				contribmatrix.WithThreshold(c.Int("threshold")),
			}
			if fromVideo {
				// Hard edges matter for pixel art but real footage
				// reads better resampled smoothly.
				opts = append(opts, contribmatrix.WithFilter(imaging.Lanczos))
			}
			if c.Bool("invert") {
				opts = append(opts, contribmatrix.WithInvertedColors())
			}
			pix := contribmatrix.NewPixelizer(opts...)

			fs := make(contribmatrix.FrameSet, 0, len(frames))
			for _, frame := range frames {
				fs = append(fs, pix.Pixelize(adjust(c, frame)))
			}

			out, err := os.Create(c.String("output"))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			defer out.Close()
			if err := contribmatrix.EncodeFrames(out, fs); err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			log.Info("saved frame set",
				zap.String("path", c.String("output")),
				zap.Int("frames", len(fs)),
			)
			return nil
		},
	}
}

func statsCommand() cli.Command {
	return cli.Command{
		Name:  "stats",
		Usage: "Summarize painted-pixel counts across a frame-set document.",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "data,d",
				Usage: "`PATH` of the frame-set JSON to read.",
				Value: "frames.json",
			},
		},
		Action: func(c *cli.Context) error {
			fs, err := loadFrameSet(c.String("data"))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			s := contribmatrix.Analyze(fs)
			fmt.Printf("Frames: %d\n", s.Frames)
			fmt.Printf("Pixels per frame - min: %d avg: %.2f max: %d\n", s.Min, s.Avg, s.Max)
			fmt.Printf("Total painted pixels: %d\n", s.Total)
			fmt.Printf("Max per frame (full): %d\n", contribmatrix.GridWeeks*contribmatrix.GridDays)
			return nil
		},
	}
}

func previewCommand(ctx context.Context) cli.Command {
	return cli.Command{
		Name:  "preview",
		Usage: "Draw frames in the terminal, either one at a time or as an animation.",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "data,d",
				Usage: "`PATH` of the frame-set JSON to read.",
				Value: "frames.json",
			},
			cli.IntFlag{
				Name:  "frame,f",
				Usage: "`INDEX` of the frame to draw.",
			},
			cli.StringFlag{
				Name:  "glyph",
				Usage: "`CHAR` drawn for painted cells.",
				Value: "#",
			},
			cli.StringFlag{
				Name:  "color",
				Usage: "`WHEN` to use ANSI green: always, never, or auto.",
				Value: "auto",
			},
			cli.BoolFlag{
				Name:  "play,p",
				Usage: "Animates the whole set in place. CTRL-C to quit.",
			},
			cli.Float64Flag{
				Name:  "fps",
				Usage: "`FPS` playback rate when animating.",
				Value: 5.0,
			},
			cli.IntFlag{
				Name:  "loop",
				Usage: "`N` times to loop playback. 0 loops until interrupted.",
				Value: 1,
			},
		},
		Action: func(c *cli.Context) error {
			data := c.String("data")
			if _, err := os.Stat(data); err != nil {
				reportMissing(data)
				return nil
			}
			fs, err := loadFrameSet(data)
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}

			out, colored := stdoutWriter(c.String("color"))
			var opts []contribmatrix.RenderOpt
			if s := c.String("glyph"); s != "" {
				opts = append(opts, contribmatrix.WithGlyph([]rune(s)[0]))
			}
			if colored {
				opts = append(opts, contribmatrix.WithColor())
			}

			if c.Bool("play") {
				anim := contribmatrix.NewAnimator(out, nil, opts...)
				err := anim.Play(ctx, fs, c.Float64("fps"), c.Int("loop"))
				if err != nil && err != context.Canceled {
					return cli.NewExitError(err.Error(), 1)
				}
				return nil
			}

			idx := c.Int("frame")
			if idx < 0 || idx >= len(fs) {
				return cli.NewExitError(fmt.Sprintf("frame %d out of range: document has %d frames", idx, len(fs)), 1)
			}
			rd := contribmatrix.NewRenderer(out, opts...)
			if err := rd.Render(fs[idx]); err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			return nil
		},
	}
}

func renderCommand() cli.Command {
	return cli.Command{
		Name:  "render",
		Usage: "Render frames as contribution-calendar images: png, animated gif, or animated png.",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "data,d",
				Usage: "`PATH` of the frame-set JSON to read.",
				Value: "frames.json",
			},
			cli.StringFlag{
				Name:  "output,o",
				Usage: "`PATH` to write. A .gif or .apng animates the whole set; a .png is animated unless --frame picks one.",
				Value: "calendar.gif",
			},
			cli.IntFlag{
				Name:  "frame,f",
				Usage: "`INDEX` of a single frame to render as a still png.",
			},
			cli.IntFlag{
				Name:  "delay",
				Usage: "`CS` per-frame delay in hundredths of a second.",
				Value: 10,
			},
			cli.IntFlag{
				Name:  "cell",
				Usage: "`PX` edge of one calendar cell.",
				Value: 10,
			},
			cli.IntFlag{
				Name:  "gutter",
				Usage: "`PX` between cells.",
				Value: 3,
			},
		},
		Action: func(c *cli.Context) error {
			fs, err := loadFrameSet(c.String("data"))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			if len(fs) == 0 {
				return cli.NewExitError("render: the document has no frames", 1)
			}
			ir := contribmatrix.NewImageRenderer(
				contribmatrix.WithCellSize(c.Int("cell")),
				contribmatrix.WithGutter(c.Int("gutter")),
			)

			output := c.String("output")
			switch strings.ToLower(filepath.Ext(output)) {
			case ".gif":
				f, err := os.Create(output)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				defer f.Close()
				if err := gif.EncodeAll(f, ir.GIF(fs, c.Int("delay"))); err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
			case ".png":
				if c.IsSet("frame") || len(fs) == 1 {
					idx := c.Int("frame")
					if idx < 0 || idx >= len(fs) {
						return cli.NewExitError(fmt.Sprintf("frame %d out of range: document has %d frames", idx, len(fs)), 1)
					}
					f, err := os.Create(output)
					if err != nil {
						return cli.NewExitError(err.Error(), 1)
					}
					defer f.Close()
					if err := png.Encode(f, ir.Frame(fs[idx])); err != nil {
						return cli.NewExitError(err.Error(), 1)
					}
				} else if err := ir.APNG(output, fs, c.Int("delay")); err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
			case ".apng":
				if err := ir.APNG(output, fs, c.Int("delay")); err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
			default:
				return cli.NewExitError(fmt.Sprintf("render: unsupported output extension %q, use .gif, .png, or .apng", filepath.Ext(output)), 1)
			}
			fmt.Printf("Wrote %s\n", output)
			return nil
		},
	}
}

func generateCommand(ctx context.Context, log *zap.Logger, cfg environment) cli.Command {
	return cli.Command{
		Name:  "generate",
		Usage: "Lay down empty back-dated commits so the frame set paints the contribution calendar.",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "data,d",
				Usage: "`PATH` of the frame-set JSON to draw from.",
				Value: "frames.json",
			},
			cli.StringFlag{
				Name:  "start-date",
				Usage: "`DATE` (YYYY-MM-DD) where frame 0, week 0, day 0 lands. Wants a Sunday. Defaults to the last Sunday before today.",
			},
			cli.IntFlag{
				Name:  "intensity",
				Usage: "`N` commits per painted pixel. More commits reads as a darker green.",
				Value: gitgen.DefaultIntensity,
			},
			cli.IntFlag{
				Name:  "frame-spacing-weeks",
				Usage: "`N` weeks between the starts of consecutive frames.",
				Value: gitgen.DefaultSpacingWeeks,
			},
			cli.IntFlag{
				Name:  "frame-spacing-days",
				Usage: "`N` days between the starts of consecutive frames. Overrides week spacing.",
			},
			cli.IntFlag{
				Name:  "start-frame",
				Usage: "`INDEX` of the first frame to include.",
			},
			cli.IntFlag{
				Name:  "end-frame",
				Usage: "`INDEX` one past the last frame to include. Defaults to the end of the set.",
			},
			cli.BoolFlag{
				Name:  "dry-run,n",
				Usage: "Print every planned commit without touching the repository.",
			},
			cli.BoolFlag{
				Name:  "push",
				Usage: "Force-push the branch when generation finishes.",
			},
			cli.StringFlag{
				Name:  "profile",
				Usage: "`PATH` of a TOML profile carrying author, message, and push settings.",
			},
		},
		Action: func(c *cli.Context) error {
			fs, err := loadFrameSet(c.String("data"))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}

			prof := gitgen.Defaults()
			if c.IsSet("profile") {
				prof, err = gitgen.LoadProfile(c.String("profile"))
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
			}

			anchor := gitgen.LastSunday(time.Now())
			if c.IsSet("start-date") {
				anchor, err = time.ParseInLocation("2006-01-02", c.String("start-date"), time.Local)
				if err != nil {
					return cli.NewExitError(fmt.Sprintf("start-date: %v, want YYYY-MM-DD", err), 1)
				}
				if anchor.Weekday() != time.Sunday {
					log.Warn("start date is not a Sunday, the image will shear by one day per week",
						zap.String("start_date", c.String("start-date")),
					)
				}
			}

			popts := []gitgen.PlannerOpt{
				gitgen.WithSpacingWeeks(c.Int("frame-spacing-weeks")),
			}
			if c.IsSet("frame-spacing-days") {
				popts = append(popts, gitgen.WithSpacingDays(c.Int("frame-spacing-days")))
			}
			planner := gitgen.NewPlanner(anchor, popts...)

			end := -1
			if c.IsSet("end-frame") {
				end = c.Int("end-frame")
			}
			plan, err := planner.Plan(fs.Slice(c.Int("start-frame"), end))
			if err != nil {
				return cli.NewExitError(err.Error(), 1)
			}

			intensity := prof.Intensity
			if c.IsSet("intensity") {
				intensity = c.Int("intensity")
			}
			gopts := []gitgen.GeneratorOpt{
				gitgen.WithLogger(log),
				gitgen.WithRunner(&gitgen.ExecRunner{Bin: cfg.Git}),
				gitgen.WithIntensity(intensity),
				gitgen.WithMessagePrefix(prof.Message),
				gitgen.WithAuthor(prof.Author.Name, prof.Author.Email),
			}
			if c.Bool("dry-run") {
				gopts = append(gopts, gitgen.WithDryRun())
			}
			if c.Bool("push") {
				gopts = append(gopts, gitgen.WithPush(prof.Push.Remote, prof.Push.Branch))
			}

			gen := gitgen.NewGenerator(os.Stdout, gopts...)
			if err := gen.Generate(ctx, plan); err != nil {
				return cli.NewExitError(err.Error(), 1)
			}
			return nil
		},
	}
}

// extractFrames decodes input by whatever means fits: animated gifs and
// still images natively, everything else through ffmpeg.
func extractFrames(ctx context.Context, log *zap.Logger, cfg environment, input string, fps float64, max int) ([]image.Image, bool, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	if frames, err := contribmatrix.ExtractGIF(f, max); err == nil {
		log.Info("decoded gif", zap.String("path", input), zap.Int("frames", len(frames)))
		return frames, false, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, false, err
	}
	if frames, err := contribmatrix.DecodeStill(f); err == nil {
		log.Info("decoded still image", zap.String("path", input))
		return frames, false, nil
	}

	ex := contribmatrix.NewVideoExtractor(log)
	ex.FFmpeg, ex.FFprobe = cfg.FFmpeg, cfg.FFprobe
	frames, err := ex.Extract(ctx, input, fps, max)
	return frames, true, err
}

// adjust applies the optional exposure corrections before pixelizing.
func adjust(c *cli.Context, img image.Image) image.Image {
	if c.IsSet("gamma") {
		img = imaging.AdjustGamma(img, c.Float64("gamma"))
	}
	if c.IsSet("brightness") {
		img = imaging.AdjustBrightness(img, c.Float64("brightness"))
	}
	if c.IsSet("sharpen") {
		img = imaging.Sharpen(img, c.Float64("sharpen"))
	}
	if c.IsSet("contrast") {
		img = imaging.AdjustContrast(img, c.Float64("contrast"))
	}
	return img
}

func loadFrameSet(path string) (contribmatrix.FrameSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fs, err := contribmatrix.DecodeFrames(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fs, nil
}

// reportMissing prints the best-effort "did you mean" search that convert
// and preview share for mistyped paths.
func reportMissing(path string) {
	fmt.Printf("ERROR: file not found: %s\n", path)
	matches := contribmatrix.SuggestFiles(".", path)
	if len(matches) == 0 {
		fmt.Println("No similarly named files under the current directory.")
		return
	}
	fmt.Println("Found similarly named files:")
	for _, m := range matches {
		fmt.Printf("  %s\n", m)
	}
}

// stdoutWriter picks color handling for terminal output: always, never,
// or by detecting whether stdout is a terminal.
func stdoutWriter(mode string) (io.Writer, bool) {
	switch mode {
	case "always":
		return colorable.NewColorableStdout(), true
	case "never":
		return os.Stdout, false
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return colorable.NewColorableStdout(), true
	}
	return os.Stdout, false
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func exit(msg string, code int) {
	fmt.Println(msg)
	os.Exit(code)
}
