package frames

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultFFmpeg  = "ffmpeg"
	DefaultFFprobe = "ffprobe"

	framePattern = "frame_%06d.jpg"
)

var ErrNoFrames = errors.New("video has no frames")

type Extractor struct {
	runner      CommandRunner
	ffmpeg      string
	ffprobe     string
	concurrency int
}

type Option func(*Extractor)

func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

func WithBinaries(ffmpeg, ffprobe string) Option {
	return func(e *Extractor) {
		if ffmpeg != "" {
			e.ffmpeg = ffmpeg
		}
		if ffprobe != "" {
			e.ffprobe = ffprobe
		}
	}
}

func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		runner:      ExecRunner{},
		ffmpeg:      DefaultFFmpeg,
		ffprobe:     DefaultFFprobe,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFrames writes every interval-th frame of video to outDir. Files are
// named after the source frame index, so interval 5 yields frame_000000.jpg,
// frame_000005.jpg and so on.
func (e *Extractor) ExtractFrames(ctx context.Context, video, outDir string, interval int) (int, error) {
	if interval < 1 {
		return 0, fmt.Errorf("frame interval must be positive, got %d", interval)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	tmpDir, err := os.MkdirTemp(outDir, ".extract-")
	if err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	_, err = e.runner.Run(ctx, e.ffmpeg,
		"-v", "error", "-y",
		"-i", video,
		"-vf", fmt.Sprintf(`select=not(mod(n\,%d))`, interval),
		"-vsync", "vfr",
		"-start_number", "0",
		filepath.Join(tmpDir, "%06d.jpg"),
	)
	if err != nil {
		return 0, fmt.Errorf("extract frames from %s: %w", video, err)
	}

	written, err := renumber(tmpDir, outDir, interval)
	if err != nil {
		return 0, err
	}

	slog.Info("extracted frames", "video", video, "frames", written, "interval", interval)
	return written, nil
}

// renumber moves the sequentially numbered ffmpeg output to names that carry
// the source frame index.
func renumber(tmpDir, outDir string, interval int) (int, error) {
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return 0, fmt.Errorf("read extracted frames: %w", err)
	}

	n := 0
	for _, entry := range entries {
		seq, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".jpg"))
		if err != nil {
			continue
		}
		dst := filepath.Join(outDir, fmt.Sprintf(framePattern, seq*interval))
		if err := os.Rename(filepath.Join(tmpDir, entry.Name()), dst); err != nil {
			return n, fmt.Errorf("move frame: %w", err)
		}
		n++
	}
	return n, nil
}

// ExtractFrame writes the middle frame of video to outFile.
func (e *Extractor) ExtractFrame(ctx context.Context, video, outFile string) error {
	total, err := e.FrameCount(ctx, video)
	if err != nil {
		return err
	}
	if total == 0 {
		return fmt.Errorf("%s: %w", video, ErrNoFrames)
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	_, err = e.runner.Run(ctx, e.ffmpeg,
		"-v", "error", "-y",
		"-i", video,
		"-vf", fmt.Sprintf(`select=eq(n\,%d)`, total/2),
		"-frames:v", "1",
		outFile,
	)
	if err != nil {
		return fmt.Errorf("extract middle frame from %s: %w", video, err)
	}
	return nil
}

// FrameCount asks ffprobe for the number of video packets in the first
// video stream.
func (e *Extractor) FrameCount(ctx context.Context, video string) (int, error) {
	out, err := e.runner.Run(ctx, e.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=nb_read_packets",
		"-of", "csv=p=0",
		video,
	)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", video, err)
	}

	raw := strings.TrimSpace(string(out))
	raw = strings.TrimSuffix(raw, ",")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse frame count %q: %w", raw, err)
	}
	return n, nil
}

type BatchResult struct {
	Extracted int
	Failed    []string
}

// ExtractAll writes the middle frame of every file in folder to
// outDir/<file name>.jpg. A video that fails is logged and skipped; only
// context cancellation stops the batch.
func (e *Extractor) ExtractAll(ctx context.Context, folder, outDir string) (*BatchResult, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read video folder: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	var (
		extracted atomic.Int64
		failed    = make([]bool, len(names))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src := filepath.Join(folder, name)
			dst := filepath.Join(outDir, name+".jpg")
			if err := e.ExtractFrame(gctx, src, dst); err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Warn("frame extraction failed", "video", src, "error", err)
				failed[i] = true
				return nil
			}

			if n := extracted.Add(1); n%100 == 0 {
				slog.Info("extraction progress", "done", n, "total", len(names))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &BatchResult{Extracted: int(extracted.Load())}
	for i, f := range failed {
		if f {
			res.Failed = append(res.Failed, names[i])
		}
	}
	slices.Sort(res.Failed)

	slog.Info("extraction complete", "extracted", res.Extracted, "failed", len(res.Failed))
	return res, nil
}
