// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package option

import "github.com/procmond/procmond/pkg/defaults"

// Config contains all the configuration used by procmond.
var Config = config{
	// Initialize global defaults below.

	// ProcFS defaults to /proc.
	ProcFS: defaults.DefaultProcFS,

	// LogOpts contains logger parameters
	LogOpts: make(map[string]string),
}

type config struct {
	Debug            bool
	ProcFS           string
	ProcessCacheSize int
	GopsAddr         string

	LogOpts map[string]string
}
