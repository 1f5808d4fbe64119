// Package sse writes server-sent-event frames.
//
// Every frame is a single "data: <json>" line followed by a blank line, so a
// frame is the atomic delivery unit and JSON payloads never span lines.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ContentType is the media type of an event stream.
const ContentType = "text/event-stream"

// Encode writes v as one data frame.
func Encode(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, payload...)
	frame = append(frame, '\n', '\n')

	_, err = w.Write(frame)
	return err
}

// PrepareHeaders sets the response headers of an event stream.
func PrepareHeaders(h http.Header) {
	h.Set("Content-Type", ContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}
