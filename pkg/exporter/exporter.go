// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

// Package exporter writes system events as JSON lines to a sink, usually
// stdout or a size-rotated file.
package exporter

import (
	"fmt"
	"io"

	"github.com/procmond/procmond/pkg/sensors"
)

type ExportEncoder interface {
	Encode(v any) error
}

type Exporter struct {
	encoder ExportEncoder
	closer  io.Closer
}

// NewExporter wraps an encoder and the closer of its underlying sink.
// closer may be nil for sinks the exporter does not own, like stdout.
func NewExporter(encoder ExportEncoder, closer io.Closer) *Exporter {
	return &Exporter{encoder: encoder, closer: closer}
}

func (e *Exporter) Send(event *sensors.SystemEvent) error {
	if err := e.encoder.Encode(event); err != nil {
		return fmt.Errorf("exporter: encode event: %w", err)
	}
	return nil
}

func (e *Exporter) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}
