// Package metrics exposes Prometheus instrumentation for probes, downloads and playback.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ytvd"

var (
	// ProbeRequests counts format probes by outcome.
	ProbeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "probe_requests_total",
		Help:      "Format probes by result.",
	}, []string{"result"})

	// DownloadsStarted counts download sessions that reached the engine.
	DownloadsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloads_started_total",
		Help:      "Download sessions started.",
	})

	// DownloadsCompleted counts download sessions by terminal state.
	DownloadsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloads_completed_total",
		Help:      "Download sessions by terminal state.",
	}, []string{"state"})

	// ActiveDownloads is the number of sessions currently running.
	ActiveDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "downloads_active",
		Help:      "Download sessions currently running.",
	})

	// PlaybackRequests counts playback responses by status code.
	PlaybackRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playback_requests_total",
		Help:      "Playback responses by HTTP status.",
	}, []string{"status"})
)

// ObservePlayback records one playback response
func ObservePlayback(status int) {
	PlaybackRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
