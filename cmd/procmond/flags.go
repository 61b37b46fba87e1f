// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond
package main

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/procmond/procmond/pkg/defaults"
	"github.com/procmond/procmond/pkg/logger"
	"github.com/procmond/procmond/pkg/option"
)

const (
	keyDebug            = "debug"
	keyProcFS           = "procfs"
	keyProcessCacheSize = "process-cache-size"
	keyEventBufferSize  = "event-buffer-size"

	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"

	keyMetricsServer = "metrics-server"
	keyGopsAddr      = "gops-address"

	keyExportFilename             = "export-filename"
	keyExportFileMaxSizeMB        = "export-file-max-size-mb"
	keyExportFileRotationInterval = "export-file-rotation-interval"
	keyExportFileMaxBackups       = "export-file-max-backups"
	keyExportFileCompress         = "export-file-compress"
)

var (
	eventBufferSize int
	metricsServer   string

	exportFilename             string
	exportFileMaxSizeMB        int
	exportFileRotationInterval time.Duration
	exportFileMaxBackups       int
	exportFileCompress         bool
)

func readAndSetFlags() {
	option.Config.Debug = viper.GetBool(keyDebug)
	option.Config.ProcFS = viper.GetString(keyProcFS)
	option.Config.ProcessCacheSize = viper.GetInt(keyProcessCacheSize)
	option.Config.GopsAddr = viper.GetString(keyGopsAddr)

	logLevel := viper.GetString(keyLogLevel)
	logFormat := viper.GetString(keyLogFormat)
	logger.PopulateLogOpts(option.Config.LogOpts, logLevel, logFormat)

	eventBufferSize = viper.GetInt(keyEventBufferSize)
	metricsServer = viper.GetString(keyMetricsServer)

	exportFilename = viper.GetString(keyExportFilename)
	exportFileMaxSizeMB = viper.GetInt(keyExportFileMaxSizeMB)
	exportFileRotationInterval = viper.GetDuration(keyExportFileRotationInterval)
	exportFileMaxBackups = viper.GetInt(keyExportFileMaxBackups)
	exportFileCompress = viper.GetBool(keyExportFileCompress)
}

func addFlags(flags *pflag.FlagSet) {
	flags.BoolP(keyDebug, "d", false, "Enable debug messages. Equivalent to '--log-level=debug'")
	flags.String(keyProcFS, defaults.DefaultProcFS, "Location of procfs for event enrichment")
	flags.Int(keyProcessCacheSize, defaults.DefaultProcessCacheSize, "Size of the pid to process info cache")
	flags.Int(keyEventBufferSize, defaults.DefaultEventBufferSize, "Capacity of the in-flight event channel")

	flags.String(keyLogLevel, "info", "Set log level (trace, debug, info, warning, error, fatal, panic)")
	flags.String(keyLogFormat, "text", "Set log format (text, json)")

	flags.String(keyMetricsServer, "", "Metrics server address (e.g. ':2112'). Disabled by default")
	flags.String(keyGopsAddr, "", "gops server address (e.g. 'localhost:8118'). Disabled by default")

	flags.String(keyExportFilename, "", "Filename for JSON event export. Defaults to stdout")
	flags.Int(keyExportFileMaxSizeMB, defaults.DefaultExportFileMaxSizeMB, "Size in MB for rotating JSON export files")
	flags.Duration(keyExportFileRotationInterval, 0, "Interval at which to rotate JSON export files in addition to rotating them by size")
	flags.Int(keyExportFileMaxBackups, defaults.DefaultExportFileMaxBackups, "Number of rotated JSON export files to retain")
	flags.Bool(keyExportFileCompress, false, "Compress rotated JSON export files")
}
