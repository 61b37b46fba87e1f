// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package sensors

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/procmond/procmond/pkg/logger"
	"github.com/procmond/procmond/pkg/metrics/eventmetrics"
	"github.com/procmond/procmond/pkg/procevents"
	"github.com/procmond/procmond/pkg/process"
)

// ProcessSensor subscribes to the kernel process connector and publishes
// exec and exit events, enriched with comm and executable path from
// procfs. Fork and the remaining event kinds are counted but not
// forwarded; consumers interested in process identity only care about
// image changes and teardown.
type ProcessSensor struct {
	procs     *process.Cache
	sessionID string
	log       logrus.FieldLogger
}

func NewProcessSensor(procs *process.Cache) *ProcessSensor {
	return &ProcessSensor{
		procs:     procs,
		sessionID: uuid.NewString(),
		log:       logger.GetLogger(),
	}
}

func (s *ProcessSensor) ID() string   { return "process" }
func (s *ProcessSensor) Name() string { return "Process" }
func (s *ProcessSensor) Description() string {
	return "Watches the system for process events"
}

// Start opens the event channel, subscribes, and forwards events until ctx
// is cancelled. The context watcher closes the connection, which unblocks
// the receive loop; that shutdown is a clean return, not an error.
func (s *ProcessSensor) Start(ctx context.Context, events chan<- SystemEvent) error {
	conn, err := procevents.Open()
	if err != nil {
		return err
	}
	if err := conn.SetListening(true); err != nil {
		conn.Close()
		return err
	}
	s.log.WithField("session", s.sessionID).Info("Process sensor subscribed to kernel events")

	go func() {
		<-ctx.Done()
		// Best effort: the kernel stops multicasting once the last
		// listener is gone anyway.
		if err := conn.SetListening(false); err != nil {
			s.log.WithError(err).Debug("Unsubscribe on shutdown failed")
		}
		conn.Close()
	}()

	for {
		ev, err := conn.ReceiveEvent()
		if errors.Is(err, procevents.ErrConnClosed) {
			s.log.Info("Process sensor stopped")
			return nil
		}
		if err != nil {
			eventmetrics.ReceiveErrorInc()
			s.log.WithError(err).Warn("Failed to receive process event")
			continue
		}
		eventmetrics.EventInc(ev.Kind)

		out, ok := s.translate(ev)
		if !ok {
			continue
		}
		select {
		case events <- out:
		case <-ctx.Done():
			return nil
		}
	}
}

// translate maps a decoded kernel event to a SystemEvent, enriching exec
// events from procfs and settling the cache. The bool result is false for
// kinds that are not forwarded.
func (s *ProcessSensor) translate(ev procevents.Event) (SystemEvent, bool) {
	out := SystemEvent{
		SessionID: s.sessionID,
		Time:      time.Now(),
		Type:      ev.Kind.String(),
		Pid:       ev.Pid,
		Ppid:      ev.Ppid,
		Tgid:      ev.Tgid,
	}

	switch ev.Kind {
	case procevents.KindExec:
		info, err := s.procs.Refresh(ev.Pid)
		if err != nil {
			// Process raced us to exit; forward the bare event.
			s.log.WithError(err).WithField("pid", ev.Pid).Debug("Exec enrichment failed")
			break
		}
		out.Comm = info.Comm
		out.Exe = info.Exe

	case procevents.KindExit:
		if info, ok := s.procs.Cached(ev.Pid); ok {
			out.Comm = info.Comm
			out.Exe = info.Exe
		}
		s.procs.Remove(ev.Pid)

	default:
		return SystemEvent{}, false
	}

	return out, true
}
