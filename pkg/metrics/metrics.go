// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/procmond/procmond/pkg/logger"
)

// EnableMetrics serves the prometheus registry on address. Blocks; run it
// on its own goroutine.
func EnableMetrics(address string) {
	logger.GetLogger().WithField("addr", address).Info("Starting metrics server")
	http.Handle("/metrics", promhttp.Handler())
	http.ListenAndServe(address, nil)
}
