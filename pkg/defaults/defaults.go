// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package defaults

const (
	// DefaultProcFS is where procfs is expected to be mounted.
	DefaultProcFS = "/proc"

	// DefaultProcessCacheSize bounds the pid -> process info LRU used to
	// enrich exec events.
	DefaultProcessCacheSize = 1024

	// DefaultEventBufferSize is the capacity of the channel the process
	// sensor publishes system events on.
	DefaultEventBufferSize = 256

	// DefaultExportFileMaxSizeMB is the size at which the JSON export
	// file is rotated.
	DefaultExportFileMaxSizeMB = 10

	// DefaultExportFileMaxBackups is the number of rotated export files
	// kept around.
	DefaultExportFileMaxBackups = 5
)
