// Package metrics groups the Prometheus instruments for the announcer
// loop and serves them over HTTP when a listen address is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Skip reasons recorded on SkipsTotal.
const (
	SkipUpdating   = "updating"
	SkipNotPlaying = "not_playing"
	SkipNoNext     = "no_next"
	SkipShortLead  = "short_lead"
	SkipOwnClip    = "own_clip"
	SkipNoArt      = "no_art"
	SkipPointer    = "pointer_moved"
)

// Stages recorded on ErrorsTotal.
const (
	StageStatus   = "status"
	StageArtwork  = "artwork"
	StageChat     = "chat"
	StageSpeech   = "speech"
	StagePipeline = "pipeline"
	StageRescan   = "rescan"
	StageInject   = "inject"
)

// Metrics groups all Prometheus instruments used by the announcer.
type Metrics struct {
	CyclesTotal        prometheus.Counter
	SkipsTotal         *prometheus.CounterVec
	AnnouncementsTotal prometheus.Counter
	ErrorsTotal        *prometheus.CounterVec
	SpeechBytesTotal   prometheus.Counter
	PipelineSeconds    prometheus.Histogram
	RescanSeconds      prometheus.Histogram
	SessionRotations   prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Loop wakeups that evaluated the queue.",
		}),
		SkipsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skips_total",
			Help:      "Cycles that produced no announcement, by reason.",
		}, []string{"reason"}),
		AnnouncementsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_total",
			Help:      "Clips produced and queued.",
		}),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Cycle failures by stage.",
		}, []string{"stage"}),
		SpeechBytesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speech_bytes_total",
			Help:      "Synthesized audio bytes streamed into the pipeline.",
		}),
		PipelineSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_seconds",
			Help:      "Wall time of one synthesis-to-clip pipeline run.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60},
		}),
		RescanSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rescan_seconds",
			Help:      "Wall time waiting for the library rescan to finish.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		SessionRotations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_rotations_total",
			Help:      "Chat sessions replaced after reaching the turn ceiling.",
		}),
	}
}

// The helpers below are nil-tolerant so the loop runs identically with
// metrics disabled.

func (m *Metrics) Cycle() {
	if m == nil {
		return
	}
	m.CyclesTotal.Inc()
}

func (m *Metrics) Skip(reason string) {
	if m == nil {
		return
	}
	m.SkipsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) Announced() {
	if m == nil {
		return
	}
	m.AnnouncementsTotal.Inc()
}

func (m *Metrics) AddSpeechBytes(n int64) {
	if m == nil {
		return
	}
	m.SpeechBytesTotal.Add(float64(n))
}

func (m *Metrics) SessionRotated() {
	if m == nil {
		return
	}
	m.SessionRotations.Inc()
}

func (m *Metrics) Error(stage string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObservePipeline(d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineSeconds.Observe(d.Seconds())
}

func (m *Metrics) ObserveRescan(d time.Duration) {
	if m == nil {
		return
	}
	m.RescanSeconds.Observe(d.Seconds())
}
