package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_updates_received_total",
		Help: "Inbound Telegram updates by type.",
	}, []string{"type"})

	UpdatesDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_updates_duplicate_total",
		Help: "Updates skipped because they were already processed.",
	})

	CallsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_calls_created_total",
		Help: "Calls successfully created through the call api.",
	})

	CallFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_call_failures_total",
		Help: "Failed call-creation attempts by failure kind.",
	}, []string{"kind"})

	DispatchPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_dispatch_panics_total",
		Help: "Panics recovered at the update dispatch boundary.",
	})
)
