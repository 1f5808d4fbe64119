// Package engine adapts the external extraction engine that resolves source
// URLs into media metadata and downloads the selected streams.
package engine

import (
	"context"
	"errors"
)

// ErrInvalidSource indicates the engine does not recognize or cannot reach the URL.
var ErrInvalidSource = errors.New("source unavailable")

// Info is the raw metadata reported by the engine for a source URL.
type Info struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Formats   []Format `json:"formats"`
}

// Format is one stream combination offered by the source.
type Format struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         *float64 `json:"height"`
	FPS            *float64 `json:"fps"`
	FileSize       *float64 `json:"filesize"`
	FileSizeApprox *float64 `json:"filesize_approx"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
}

// Tick is one progress report of a running fetch, already rendered for display.
type Tick struct {
	Percent    string
	TotalBytes string
	Speed      string
	ETA        string
}

// Result describes the file produced by a completed fetch.
type Result struct {
	Path      string
	Title     string
	Thumbnail string
}

// Engine is the extraction engine. Both calls may block for a long time and
// must stop early when ctx is cancelled.
type Engine interface {
	Probe(ctx context.Context, url string) (*Info, error)
	Fetch(ctx context.Context, url, formatSelector string, onTick func(Tick)) (*Result, error)
}

// Error is an engine failure carrying the engine's own description.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
