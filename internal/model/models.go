package model

import (
	"github.com/samber/mo"
)

// VideoMetadata is the normalized result of probing a source URL
type VideoMetadata struct {
	Title        string
	ThumbnailURL string
	Formats      []FormatOption
}

// FormatOption represents a selectable video format
type FormatOption struct {
	FormatID   string
	Height     mo.Option[int]
	Extension  string
	FPS        mo.Option[float64]
	SizeBytes  mo.Option[int64]
	VideoCodec string
	AudioCodec string
}

// FormatsRequest is the body of POST /api/get-formats
type FormatsRequest struct {
	URL string `json:"url"`
}

// FormatsResponse is returned by POST /api/get-formats
type FormatsResponse struct {
	Title     string           `json:"title"`
	Thumbnail string           `json:"thumbnail"`
	Formats   []FormatResponse `json:"formats"`
}

// FormatResponse is the wire form of a FormatOption
type FormatResponse struct {
	FormatID      string   `json:"format_id"`
	Resolution    string   `json:"resolution"`
	Height        int      `json:"height"`
	Extension     string   `json:"ext"`
	FPS           *float64 `json:"fps"`
	FileSize      string   `json:"filesize"`
	FileSizeBytes *int64   `json:"filesize_bytes"`
	VideoCodec    string   `json:"vcodec,omitempty"`
	AudioCodec    string   `json:"acodec,omitempty"`
}

// DownloadRequest represents a user's download request
type DownloadRequest struct {
	URL       string `form:"url"`
	FormatID  string `form:"format_id"`
	Title     string `form:"title"`
	Thumbnail string `form:"thumbnail"`
}

// HistoryEntry is one completed download
type HistoryEntry struct {
	Title     string `json:"title"`
	Filename  string `json:"filename"`
	Thumbnail string `json:"thumbnail"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Code  int    `json:"code"`
}
