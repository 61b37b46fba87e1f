// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cilium/lumberjack/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/procmond/procmond/pkg/exporter"
	"github.com/procmond/procmond/pkg/metrics"
	"github.com/procmond/procmond/pkg/option"
	"github.com/procmond/procmond/pkg/process"
	"github.com/procmond/procmond/pkg/sensors"
	"github.com/procmond/procmond/pkg/version"
)

func procmondExecute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		log.Infof("Received signal %s, shutting down...", s)
		cancel()
	}()

	log.WithField("version", version.Version).Info("Starting procmond")

	if metricsServer != "" {
		go metrics.EnableMetrics(metricsServer)
	}

	finder, err := process.NewFinder(option.Config.ProcFS)
	if err != nil {
		return err
	}
	procCache, err := process.NewCache(option.Config.ProcessCacheSize, finder)
	if err != nil {
		return err
	}

	exp := startExporter(ctx)
	sensor := sensors.NewProcessSensor(procCache)
	events := make(chan sensors.SystemEvent, eventBufferSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return sensor.Start(gctx, events)
	})
	g.Go(func() error {
		for ev := range events {
			if err := exp.Send(&ev); err != nil {
				log.WithError(err).Warn("Failed to export event")
			}
		}
		return nil
	})

	return multierr.Append(g.Wait(), exp.Close())
}

// startExporter builds the JSON-lines event sink: stdout unless an export
// file is configured, in which case the file is size-rotated and
// optionally also rotated on an interval.
func startExporter(ctx context.Context) *exporter.Exporter {
	if exportFilename == "" {
		log.Info("Exporting events to stdout")
		return exporter.NewExporter(json.NewEncoder(os.Stdout), nil)
	}

	writer := &lumberjack.Logger{
		Filename:   exportFilename,
		MaxSize:    exportFileMaxSizeMB,
		MaxBackups: exportFileMaxBackups,
		Compress:   exportFileCompress,
	}
	if exportFileRotationInterval != 0 {
		log.WithField("duration", exportFileRotationInterval).Info("Periodically rotating JSON export files")
		go func() {
			ticker := time.NewTicker(exportFileRotationInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := writer.Rotate(); err != nil {
						log.WithError(err).
							WithField("filename", exportFilename).
							Warn("Failed to rotate JSON export file")
					}
				}
			}
		}()
	}
	log.WithField("fileName", exportFilename).Info("Exporter configuration")
	return exporter.NewExporter(json.NewEncoder(writer), writer)
}
