package frames

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers ffprobe with a fixed frame count and simulates ffmpeg by
// creating the output files it would write.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []call
	frames    int
	failOn    string
	extracted int
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()

	input := argAfter(args, "-i")
	if f.failOn != "" && (strings.Contains(input, f.failOn) || strings.Contains(args[len(args)-1], f.failOn)) {
		return nil, errors.New("corrupt input")
	}

	switch name {
	case DefaultFFprobe:
		return []byte(fmt.Sprintf("%d\n", f.frames)), nil
	case DefaultFFmpeg:
		out := args[len(args)-1]
		if strings.Contains(out, "%06d") {
			for i := 0; i < f.extracted; i++ {
				if err := os.WriteFile(fmt.Sprintf(out, i), []byte("jpg"), 0o644); err != nil {
					return nil, err
				}
			}
			return nil, nil
		}
		return nil, os.WriteFile(out, []byte("jpg"), 0o644)
	}
	return nil, fmt.Errorf("unexpected binary %s", name)
}

func (f *fakeRunner) byName(name string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestExtractFrames(t *testing.T) {
	r := &fakeRunner{extracted: 3}
	e := NewExtractor(WithRunner(r))
	out := filepath.Join(t.TempDir(), "frames")

	n, err := e.ExtractFrames(context.Background(), "video1.mp4", out, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Equal(t, []string{"frame_000000.jpg", "frame_000005.jpg", "frame_000010.jpg"}, names)

	calls := r.byName(DefaultFFmpeg)
	require.Len(t, calls, 1)
	assert.Equal(t, `select=not(mod(n\,5))`, argAfter(calls[0].args, "-vf"))
	assert.Equal(t, "video1.mp4", argAfter(calls[0].args, "-i"))
}

func TestExtractFrames_InvalidInterval(t *testing.T) {
	_, err := NewExtractor(WithRunner(&fakeRunner{})).ExtractFrames(context.Background(), "v.mp4", t.TempDir(), 0)
	assert.Error(t, err)
}

func TestExtractFrame_MiddleFrame(t *testing.T) {
	r := &fakeRunner{frames: 301}
	e := NewExtractor(WithRunner(r))
	out := filepath.Join(t.TempDir(), "nested", "video1.jpg")

	require.NoError(t, e.ExtractFrame(context.Background(), "video1.mp4", out))
	assert.FileExists(t, out)

	calls := r.byName(DefaultFFmpeg)
	require.Len(t, calls, 1)
	assert.Equal(t, `select=eq(n\,150)`, argAfter(calls[0].args, "-vf"))
	assert.Equal(t, "1", argAfter(calls[0].args, "-frames:v"))
}

func TestExtractFrame_NoFrames(t *testing.T) {
	e := NewExtractor(WithRunner(&fakeRunner{frames: 0}))
	err := e.ExtractFrame(context.Background(), "empty.mp4", filepath.Join(t.TempDir(), "x.jpg"))
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestFrameCount_Unparseable(t *testing.T) {
	e := NewExtractor(WithRunner(runnerFunc(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("N/A"), nil
	})))
	_, err := e.FrameCount(context.Background(), "v.mp4")
	assert.Error(t, err)
}

func TestWithBinaries(t *testing.T) {
	var seen []string
	e := NewExtractor(
		WithBinaries("/opt/ffmpeg", "/opt/ffprobe"),
		WithRunner(runnerFunc(func(_ context.Context, name string, _ ...string) ([]byte, error) {
			seen = append(seen, name)
			return []byte("10"), nil
		})),
	)

	_, err := e.FrameCount(context.Background(), "v.mp4")
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/ffprobe"}, seen)
}

func TestExtractAll(t *testing.T) {
	folder := t.TempDir()
	for _, name := range []string{"video1.mp4", "video2.mp4", "broken.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(folder, "subdir"), 0o755))

	r := &fakeRunner{frames: 10, failOn: "broken"}
	out := filepath.Join(t.TempDir(), "thumbs")

	res, err := NewExtractor(WithRunner(r), WithConcurrency(2)).ExtractAll(context.Background(), folder, out)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Extracted)
	assert.Equal(t, []string{"broken.mp4"}, res.Failed)
	assert.FileExists(t, filepath.Join(out, "video1.mp4.jpg"))
	assert.FileExists(t, filepath.Join(out, "video2.mp4.jpg"))
}

func TestExtractAll_Cancelled(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "video1.mp4"), nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(WithRunner(&fakeRunner{frames: 10})).ExtractAll(ctx, folder, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f runnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}
