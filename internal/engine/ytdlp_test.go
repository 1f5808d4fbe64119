package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTick(t *testing.T) {
	tick := renderTick(5*1024*1024, 10*1024*1024, 5*time.Second, 6*time.Second)
	assert.Equal(t, " 50.0%", tick.Percent)
	assert.Equal(t, "10 MiB", tick.TotalBytes)
	assert.Equal(t, "1.0 MiB/s", tick.Speed)
	assert.Equal(t, "00:06", tick.ETA)
}

func TestRenderTickUnknownTotals(t *testing.T) {
	tick := renderTick(0, 0, 0, 0)
	assert.Equal(t, Tick{Percent: "N/A", TotalBytes: "N/A", Speed: "N/A", ETA: "N/A"}, tick)
}

func TestFormatETA(t *testing.T) {
	assert.Equal(t, "00:59", formatETA(59*time.Second))
	assert.Equal(t, "02:05", formatETA(125*time.Second))
	assert.Equal(t, "01:00:01", formatETA(time.Hour+time.Second))
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	runErr := errors.New("exit status 1")

	err := classify(ctx, runErr, &ytdlp.Result{Stderr: "WARNING: foo\nERROR: Unsupported URL: https://example.com/x\n"})
	assert.True(t, IsInvalidSource(err))
	assert.Equal(t, "Unsupported URL: https://example.com/x", err.Error())

	err = classify(ctx, runErr, &ytdlp.Result{Stderr: "ERROR: Postprocessing: ffmpeg not found"})
	assert.False(t, IsInvalidSource(err))
	assert.ErrorIs(t, err, runErr)
	assert.Equal(t, "Postprocessing: ffmpeg not found", err.Error())

	err = classify(ctx, runErr, nil)
	assert.Equal(t, "exit status 1", err.Error())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = classify(cancelled, runErr, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLastJSONLine(t *testing.T) {
	assert.Equal(t, `{"id":"x"}`, lastJSONLine("[info] something\n{\"id\":\"x\"}\n"))
	assert.Empty(t, lastJSONLine("no json here"))
}

func TestLocateOutputPrefersExistingCandidate(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "dl/clip [a].mp4", []byte("x"), 0644))

	y := NewYtDlp(Options{DownloadDir: "dl", MergeFormat: "mp4"}, fsys)

	path, ok := y.locateOutput("dl/clip [a].webm")
	assert.True(t, ok)
	assert.Equal(t, "dl/clip [a].mp4", path)

	_, ok = y.locateOutput("dl/other.webm")
	assert.False(t, ok)
}

func TestNewYtDlpDefaults(t *testing.T) {
	y := NewYtDlp(Options{}, afero.NewMemMapFs())
	assert.Equal(t, DefaultOutputTemplate, y.opts.OutputTemplate)
	assert.Equal(t, 500*time.Millisecond, y.opts.ProgressInterval)
}

func TestSelectorMergesBestAudio(t *testing.T) {
	y := NewYtDlp(Options{MergeBestAudio: true}, afero.NewMemMapFs())
	assert.Equal(t, "137+bestaudio/137/best", y.selector("137"))
	assert.Equal(t, "18+bestaudio/18/best", y.selector("18"))
	assert.Equal(t, "137+140", y.selector("137+140"))
	assert.Equal(t, "bestvideo[height<=720]+bestaudio/best", y.selector("bestvideo[height<=720]+bestaudio/best"))

	plain := NewYtDlp(Options{}, afero.NewMemMapFs())
	assert.Equal(t, "137", plain.selector("137"))
}
