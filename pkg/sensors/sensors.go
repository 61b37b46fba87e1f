// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

// Package sensors turns low-level kernel notifications into enriched
// system events for the daemon to export.
package sensors

import (
	"context"
	"time"
)

// SystemEvent is one observed process lifecycle change, enriched with
// procfs metadata where available.
type SystemEvent struct {
	SessionID string    `json:"session_id"`
	Time      time.Time `json:"time"`
	Type      string    `json:"type"`
	Pid       uint32    `json:"pid"`
	Ppid      uint32    `json:"ppid,omitempty"`
	Tgid      uint32    `json:"tgid"`
	Comm      string    `json:"comm,omitempty"`
	Exe       string    `json:"exe,omitempty"`
}

// Sensor is a source of system events.
type Sensor interface {
	// ID returns the short identifier of the sensor.
	ID() string
	// Name returns the human readable name.
	Name() string
	// Description says what the sensor observes.
	Description() string
	// Start publishes events on the channel until ctx is cancelled.
	// It blocks; run it on its own goroutine.
	Start(ctx context.Context, events chan<- SystemEvent) error
}
