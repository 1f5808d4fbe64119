package model

// EventStatus discriminates the ProgressEvent variants
type EventStatus string

const (
	// EventDownloading is a progress snapshot
	EventDownloading EventStatus = "downloading"

	// EventFinished ends a successful session
	EventFinished EventStatus = "finished"

	// EventFailed ends a failed session
	EventFailed EventStatus = "error"
)

// ProgressEvent is one message of a download session. Only the fields of
// the variant named by Status are populated.
type ProgressEvent struct {
	Status     EventStatus `json:"status"`
	Percent    string      `json:"percent,omitempty"`
	TotalBytes string      `json:"total_bytes,omitempty"`
	Speed      string      `json:"speed,omitempty"`
	ETA        string      `json:"eta,omitempty"`
	Message    string      `json:"message,omitempty"`
	Filename   string      `json:"filename,omitempty"`
}

// Downloading builds a progress snapshot event
func Downloading(percent, totalBytes, speed, eta string) ProgressEvent {
	return ProgressEvent{
		Status:     EventDownloading,
		Percent:    percent,
		TotalBytes: totalBytes,
		Speed:      speed,
		ETA:        eta,
	}
}

// Finished builds the terminal success event
func Finished(message, filename string) ProgressEvent {
	return ProgressEvent{Status: EventFinished, Message: message, Filename: filename}
}

// Failed builds the terminal failure event
func Failed(message string) ProgressEvent {
	return ProgressEvent{Status: EventFailed, Message: message}
}

// IsTerminal reports whether the event ends its session
func (e ProgressEvent) IsTerminal() bool {
	return e.Status == EventFinished || e.Status == EventFailed
}
