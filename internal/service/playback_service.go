package service

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/storage"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultContentType is served when the media type cannot be determined
const DefaultContentType = "video/mp4"

// RangeError reports a syntactically valid range that starts past the end of the file
type RangeError struct {
	Size int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("requested range not satisfiable for size %d", e.Size)
}

func (e *RangeError) Unwrap() error {
	return apperr.New(apperr.RangeNotSatisfiable, "Requested range not satisfiable")
}

// ContentRange returns the Content-Range value of a 416 response
func (e *RangeError) ContentRange() string {
	return fmt.Sprintf("bytes */%d", e.Size)
}

// Playback is an open, bounded view of a stored file. The caller must close Body.
type Playback struct {
	Status      int
	Size        int64
	Start       int64
	Length      int64
	ContentType string
	Body        io.ReadCloser
}

// ContentRange returns the Content-Range header of a partial response
func (p *Playback) ContentRange() string {
	if p.Status != http.StatusPartialContent {
		return ""
	}
	return fmt.Sprintf("bytes %d-%d/%d", p.Start, p.Start+p.Length-1, p.Size)
}

// PlaybackService answers whole-file and byte-range reads of stored files
type PlaybackService struct {
	storage *storage.Manager
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(sm *storage.Manager) *PlaybackService {
	return &PlaybackService{storage: sm}
}

// Open resolves filename and the optional Range header into a Playback.
// Missing files return storage.ErrFileNotFound before any byte is read.
func (s *PlaybackService) Open(filename, rangeHeader string) (*Playback, error) {
	file, info, err := s.storage.Open(filename)
	if err != nil {
		return nil, err
	}
	size := info.Size()

	start, length, outcome := ParseRange(rangeHeader, size)
	if outcome == RangeUnsatisfiable {
		file.Close()
		return nil, &RangeError{Size: size}
	}

	p := &Playback{
		Status:      http.StatusOK,
		Size:        size,
		Start:       0,
		Length:      size,
		ContentType: detectContentType(file, filename, size),
	}
	if outcome == RangeSatisfiable {
		p.Status = http.StatusPartialContent
		p.Start = start
		p.Length = length
	}
	p.Body = &sectionBody{SectionReader: io.NewSectionReader(file, p.Start, p.Length), file: file}

	logger.Logger.Debug("Playback opened",
		zap.String("filename", filename),
		zap.Int("status", p.Status),
		zap.Int64("start", p.Start),
		zap.Int64("length", p.Length),
		zap.Int64("size", size))
	return p, nil
}

type sectionBody struct {
	*io.SectionReader
	file afero.File
}

func (b *sectionBody) Close() error {
	return b.file.Close()
}

func detectContentType(file afero.File, filename string, size int64) string {
	if mtype, err := mimetype.DetectReader(io.NewSectionReader(file, 0, size)); err == nil {
		if ct := mtype.String(); ct != "" && ct != "application/octet-stream" {
			return ct
		}
	}
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return DefaultContentType
}

// RangeOutcome classifies a Range header against a file size
type RangeOutcome int

const (
	// RangeNone means the whole file is served: no header, or one that could not be parsed.
	RangeNone RangeOutcome = iota
	// RangeSatisfiable means a single partial range is served.
	RangeSatisfiable
	// RangeUnsatisfiable means the range is well formed but lies outside the file.
	RangeUnsatisfiable
)

// ParseRange interprets a single "bytes=" range. The end is clamped to the
// last byte of the file. Multiple ranges and malformed values yield RangeNone.
func ParseRange(header string, size int64) (start, length int64, outcome RangeOutcome) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, 0, RangeNone
	}
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return 0, 0, RangeNone
	}

	first, last, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return 0, 0, RangeNone
	}

	if first == "" {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n < 0 {
			return 0, 0, RangeNone
		}
		if n == 0 || size == 0 {
			return 0, 0, RangeUnsatisfiable
		}
		if n > size {
			n = size
		}
		return size - n, n, RangeSatisfiable
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, RangeNone
	}
	end := size - 1
	if last != "" {
		e, err := strconv.ParseInt(last, 10, 64)
		if err != nil || e < start {
			return 0, 0, RangeNone
		}
		if e < end {
			end = e
		}
	}
	if start >= size {
		return 0, 0, RangeUnsatisfiable
	}
	return start, end - start + 1, RangeSatisfiable
}
