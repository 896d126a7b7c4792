// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Metrics struct {
	Transcriptions      prometheus.Counter
	TranscriptionErrors prometheus.Counter
	TranscribedSeconds  prometheus.Counter
	UsageRecords        prometheus.Counter
	CheckoutSessions    prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transcriptions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_transcriptions_total",
			Help: "Completed transcriptions.",
		}),
		TranscriptionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_transcription_errors_total",
			Help: "Transcription requests that failed.",
		}),
		TranscribedSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_audio_seconds_total",
			Help: "Seconds of audio transcribed, before rounding.",
		}),
		UsageRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_usage_records_total",
			Help: "Usage records reported to the billing provider.",
		}),
		CheckoutSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_checkout_sessions_total",
			Help: "Checkout sessions created.",
		}),
	}
	reg.MustRegister(
		m.Transcriptions,
		m.TranscriptionErrors,
		m.TranscribedSeconds,
		m.UsageRecords,
		m.CheckoutSessions,
	)
	return m
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
