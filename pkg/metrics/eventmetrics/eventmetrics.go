// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package eventmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/procmond/procmond/pkg/metrics/consts"
	"github.com/procmond/procmond/pkg/procevents"
)

var (
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   consts.MetricsNamespace,
		Name:        "events_total",
		Help:        "The total number of process events decoded, per event type.",
		ConstLabels: nil,
	}, []string{"type"})
	ReceiveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace:   consts.MetricsNamespace,
		Name:        "receive_errors_total",
		Help:        "The total number of errors receiving or decoding a process event.",
		ConstLabels: nil,
	})
)

// Increment the events_total metric for an event kind
func EventInc(kind procevents.Kind) {
	EventsProcessed.WithLabelValues(kind.String()).Inc()
}

// Increment the receive_errors_total metric
func ReceiveErrorInc() {
	ReceiveErrors.Inc()
}
