// Package apperr defines the request-scoped error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	// Unknown is any error that was not classified.
	Unknown Kind = iota
	// InvalidInput means a required field was missing or malformed.
	InvalidInput
	// SourceUnavailable means the engine could not resolve or reach the URL.
	SourceUnavailable
	// EngineFailure is any other engine error.
	EngineFailure
	// FileNotFound means a stored file does not exist.
	FileNotFound
	// StorageCorrupt means persisted state could not be decoded.
	StorageCorrupt
	// RangeNotSatisfiable means a byte range starts past the end of the file.
	RangeNotSatisfiable
	// RateLimited means the client exceeded its request rate.
	RateLimited
	// QuotaExceeded means the client exhausted its daily download quota.
	QuotaExceeded
)

var kindNames = map[Kind]string{
	Unknown:             "internal_error",
	InvalidInput:        "invalid_input",
	SourceUnavailable:   "source_unavailable",
	EngineFailure:       "engine_failure",
	FileNotFound:        "file_not_found",
	StorageCorrupt:      "storage_corrupt",
	RangeNotSatisfiable: "range_not_satisfiable",
	RateLimited:         "rate_limited",
	QuotaExceeded:       "quota_exceeded",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// Status maps the kind to an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case InvalidInput, SourceUnavailable:
		return http.StatusBadRequest
	case FileNotFound:
		return http.StatusNotFound
	case RangeNotSatisfiable:
		return http.StatusRequestedRangeNotSatisfiable
	case RateLimited, QuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error carrying a client-visible message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err under kind with a client-visible message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return KindOf(err).Status()
}
