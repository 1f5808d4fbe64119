package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultOutputTemplate names files after the video title and id.
const DefaultOutputTemplate = "%(title)s [%(id)s].%(ext)s"

// invalidSourceMarkers are stderr fragments yt-dlp prints when a URL cannot be resolved.
var invalidSourceMarkers = []string{
	"unsupported url",
	"is not a valid url",
	"unable to download webpage",
	"video unavailable",
	"private video",
	"this video is not available",
	"no such host",
	"name or service not known",
	"http error 404",
	"incomplete youtube id",
}

// Options configures the yt-dlp engine
type Options struct {
	DownloadDir      string
	OutputTemplate   string
	MergeFormat      string
	NoPlaylist       bool
	ProgressInterval time.Duration
	// MergeBestAudio pairs the chosen format with the best audio stream.
	MergeBestAudio bool
}

// YtDlp runs the yt-dlp executable found on PATH
type YtDlp struct {
	opts Options
	fs   afero.Fs
}

// NewYtDlp creates a yt-dlp backed engine writing into opts.DownloadDir
func NewYtDlp(opts Options, fsys afero.Fs) *YtDlp {
	if opts.OutputTemplate == "" {
		opts.OutputTemplate = DefaultOutputTemplate
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 500 * time.Millisecond
	}
	return &YtDlp{opts: opts, fs: fsys}
}

func (y *YtDlp) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if y.opts.NoPlaylist {
		cmd = cmd.NoPlaylist()
	}
	return cmd
}

// Probe fetches metadata without downloading
func (y *YtDlp) Probe(ctx context.Context, url string) (*Info, error) {
	res, err := y.command().SkipDownload().DumpSingleJSON().Run(ctx, url)
	if err != nil {
		return nil, classify(ctx, err, res)
	}

	payload := lastJSONLine(res.Stdout)
	if payload == "" {
		return nil, &Error{Message: "engine returned no metadata"}
	}

	var info Info
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return nil, &Error{Message: "engine returned unreadable metadata", Err: err}
	}
	return &info, nil
}

// Fetch downloads the selected format, reporting progress through onTick
func (y *YtDlp) Fetch(ctx context.Context, url, formatSelector string, onTick func(Tick)) (*Result, error) {
	cmd := y.command().
		Format(y.selector(formatSelector)).
		Output(filepath.Join(y.opts.DownloadDir, y.opts.OutputTemplate))
	if y.opts.MergeFormat != "" {
		cmd = cmd.MergeOutputFormat(y.opts.MergeFormat)
	}
	cmd = cmd.ProgressFunc(y.opts.ProgressInterval, func(update ytdlp.ProgressUpdate) {
		if onTick != nil {
			onTick(tickFromUpdate(update, time.Now()))
		}
	})

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, classify(ctx, err, res)
	}

	infos, err := res.GetExtractedInfo()
	if err != nil || len(infos) == 0 || infos[0].Filename == nil {
		return nil, &Error{Message: "engine did not report an output file", Err: err}
	}

	path, ok := y.locateOutput(*infos[0].Filename)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("downloaded file %q not found", filepath.Base(*infos[0].Filename))}
	}

	result := &Result{Path: path}
	if infos[0].Title != nil {
		result.Title = *infos[0].Title
	}
	if infos[0].Thumbnail != nil {
		result.Thumbnail = *infos[0].Thumbnail
	}
	return result, nil
}

// selector expands a format id into the expression passed to --format.
// Ids that are already expressions are left alone.
func (y *YtDlp) selector(formatID string) string {
	if !y.opts.MergeBestAudio || strings.ContainsAny(formatID, "+/[]") {
		return formatID
	}
	return formatID + "+bestaudio/" + formatID + "/best"
}

// locateOutput finds the final file. The engine may report the pre-merge name,
// so the merge container extension is tried as well.
func (y *YtDlp) locateOutput(reported string) (string, bool) {
	candidates := []string{reported}
	if y.opts.MergeFormat != "" {
		base := strings.TrimSuffix(reported, filepath.Ext(reported))
		candidates = append(candidates, base+"."+y.opts.MergeFormat)
	}
	for _, candidate := range candidates {
		if ok, _ := afero.Exists(y.fs, candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

func tickFromUpdate(update ytdlp.ProgressUpdate, now time.Time) Tick {
	var elapsed time.Duration
	if !update.Started.IsZero() {
		elapsed = now.Sub(update.Started)
	}
	return renderTick(int64(update.DownloadedBytes), int64(update.TotalBytes), elapsed, update.ETA())
}

// renderTick formats raw counters the way yt-dlp prints them on its progress line.
func renderTick(downloaded, total int64, elapsed, eta time.Duration) Tick {
	tick := Tick{Percent: "N/A", TotalBytes: "N/A", Speed: "N/A", ETA: "N/A"}

	if total > 0 {
		tick.Percent = fmt.Sprintf("%5.1f%%", float64(downloaded)/float64(total)*100)
		tick.TotalBytes = humanize.IBytes(uint64(total))
	}
	if elapsed > 0 && downloaded > 0 {
		perSecond := float64(downloaded) / elapsed.Seconds()
		tick.Speed = humanize.IBytes(uint64(perSecond)) + "/s"
	}
	if eta > 0 {
		tick.ETA = formatETA(eta)
	}
	return tick
}

func formatETA(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// classify turns a failed run into an *Error, marking unresolvable sources.
func classify(ctx context.Context, err error, res *ytdlp.Result) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Message: "download cancelled", Err: ctxErr}
	}

	detail := err.Error()
	if res != nil && strings.TrimSpace(res.Stderr) != "" {
		detail = res.Stderr
	}
	message := lastErrorLine(detail)

	logger.Logger.Debug("Engine run failed", zap.Error(err), zap.String("detail", message))

	lowered := strings.ToLower(detail)
	for _, marker := range invalidSourceMarkers {
		if strings.Contains(lowered, marker) {
			return &Error{Message: message, Err: ErrInvalidSource}
		}
	}
	return &Error{Message: message, Err: err}
}

// lastErrorLine picks the most specific line of engine output.
func lastErrorLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "unknown engine error"
}

func lastJSONLine(stdout string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") {
			return line
		}
	}
	return ""
}

// IsInvalidSource reports whether err marks an unresolvable source.
func IsInvalidSource(err error) bool {
	return errors.Is(err, ErrInvalidSource)
}
