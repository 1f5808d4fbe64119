package service

import (
	"sync"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
)

// ProgressChannel carries the events of one download session from the engine
// callback (single producer) to the response writer (single consumer), in
// push order and without drops. Pushing blocks while the buffer is full.
type ProgressChannel struct {
	events    chan model.ProgressEvent
	done      chan struct{}
	abandon   sync.Once
	mu        sync.Mutex
	completed bool
}

// NewProgressChannel creates a channel buffering up to buffer events
func NewProgressChannel(buffer int) *ProgressChannel {
	if buffer < 0 {
		buffer = 0
	}
	return &ProgressChannel{
		events: make(chan model.ProgressEvent, buffer),
		done:   make(chan struct{}),
	}
}

// Push delivers ev to the consumer. It returns false once a terminal event
// has been pushed or the consumer abandoned the channel. Pushing a terminal
// event closes Events.
func (p *ProgressChannel) Push(ev model.ProgressEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.completed {
		return false
	}

	select {
	case <-p.done:
		return false
	default:
	}

	select {
	case p.events <- ev:
	case <-p.done:
		return false
	}

	if ev.IsTerminal() {
		p.completed = true
		close(p.events)
	}
	return true
}

// Events returns the ordered event stream. It is closed after the terminal event.
func (p *ProgressChannel) Events() <-chan model.ProgressEvent {
	return p.events
}

// Abandon signals that the consumer is gone. Blocked and future pushes return false.
func (p *ProgressChannel) Abandon() {
	p.abandon.Do(func() { close(p.done) })
}

// Done is closed when the consumer abandons the channel
func (p *ProgressChannel) Done() <-chan struct{} {
	return p.done
}
