// Package enginetest provides a scriptable engine.Engine for tests.
package enginetest

import (
	"context"
	"sync"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/engine"
)

// Fake is a scriptable engine. ProbeFunc and FetchFunc take precedence over
// the canned fields when set.
type Fake struct {
	Info     *engine.Info
	ProbeErr error

	Ticks    []engine.Tick
	Result   *engine.Result
	FetchErr error

	ProbeFunc func(ctx context.Context, url string) (*engine.Info, error)
	FetchFunc func(ctx context.Context, url, format string, onTick func(engine.Tick)) (*engine.Result, error)

	mu         sync.Mutex
	probeCalls []string
	fetchCalls []string
}

// Probe implements engine.Engine
func (f *Fake) Probe(ctx context.Context, url string) (*engine.Info, error) {
	f.mu.Lock()
	f.probeCalls = append(f.probeCalls, url)
	f.mu.Unlock()

	if f.ProbeFunc != nil {
		return f.ProbeFunc(ctx, url)
	}
	if f.ProbeErr != nil {
		return nil, f.ProbeErr
	}
	return f.Info, nil
}

// Fetch implements engine.Engine
func (f *Fake) Fetch(ctx context.Context, url, format string, onTick func(engine.Tick)) (*engine.Result, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, url+"|"+format)
	f.mu.Unlock()

	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, url, format, onTick)
	}
	for _, tick := range f.Ticks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		onTick(tick)
	}
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return f.Result, nil
}

// ProbeCalls returns the URLs passed to Probe
func (f *Fake) ProbeCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.probeCalls...)
}

// FetchCalls returns "url|format" for every Fetch call
func (f *Fake) FetchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetchCalls...)
}

// Ptr returns a pointer to v, for building engine.Format literals.
func Ptr(v float64) *float64 {
	return &v
}
