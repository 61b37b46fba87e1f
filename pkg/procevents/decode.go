// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package procevents

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ReceiveEvent blocks until one kernel notification arrives and decodes it.
// Exactly one event is consumed per call; if the kernel packed several
// notifications into a single datagram the remainder is handed out by the
// following calls before the socket is read again.
//
// Shutdown (the channel closed by a concurrent Close, or a zero-length
// receive from the peer) is reported as ErrConnClosed and must be treated
// as graceful termination. Any other error is a receive or decode failure;
// the caller decides between retry and abort, and the Conn stays closable.
func (c *Conn) ReceiveEvent() (Event, error) {
	if len(c.pending) == 0 {
		msgs, err := c.nl.Receive()
		if err != nil {
			if isClosed(err) {
				return Event{}, ErrConnClosed
			}
			return Event{}, fmt.Errorf("procevents: receive: %w", err)
		}
		if len(msgs) == 0 {
			// Zero-length read, the peer shut the channel down.
			return Event{}, ErrConnClosed
		}
		c.pending = msgs
	}

	msg := c.pending[0]
	c.pending = c.pending[1:]
	return decodeEvent(msg.Data)
}

// decodeEvent interprets one connector message payload: cn_msg header,
// proc_event header, then the kind-specific union member selected by
// proc_event.what. Unrecognized discriminators decode to KindOther with
// the pid fields left zero; trailing bytes beyond the recognized envelope
// are ignored. A payload too short for its own framing is an error.
func decodeEvent(data []byte) (Event, error) {
	r := bytes.NewReader(data)

	var hdr cnMsg
	if err := binary.Read(r, binary.NativeEndian, &hdr); err != nil {
		return Event{}, fmt.Errorf("procevents: decode cn_msg: %w", err)
	}
	if hdr.ID.Idx != cnIdxProc || hdr.ID.Val != cnValProc {
		// Some other connector's traffic; not ours to interpret.
		return Event{Kind: KindOther}, nil
	}

	var evHdr procEventHeader
	if err := binary.Read(r, binary.NativeEndian, &evHdr); err != nil {
		return Event{}, fmt.Errorf("procevents: decode proc_event header: %w", err)
	}

	ev := Event{Kind: KindOther, What: evHdr.What}

	switch evHdr.What {
	case ProcEventFork:
		var fork forkProcEvent
		if err := binary.Read(r, binary.NativeEndian, &fork); err != nil {
			return Event{}, fmt.Errorf("procevents: decode fork event: %w", err)
		}
		ev.Kind = KindFork
		ev.Pid = fork.ChildPid
		ev.Ppid = fork.ParentPid
		ev.Tgid = fork.ChildTgid

	case ProcEventExec:
		var exec execProcEvent
		if err := binary.Read(r, binary.NativeEndian, &exec); err != nil {
			return Event{}, fmt.Errorf("procevents: decode exec event: %w", err)
		}
		ev.Kind = KindExec
		ev.Pid = exec.ProcessPid
		ev.Tgid = exec.ProcessTgid

	case ProcEventExit:
		var exit exitProcEvent
		if err := binary.Read(r, binary.NativeEndian, &exit); err != nil {
			return Event{}, fmt.Errorf("procevents: decode exit event: %w", err)
		}
		ev.Kind = KindExit
		// Exit events carry no distinct tgid; the kernel semantics are
		// pid duplicated into both fields.
		ev.Pid = exit.ProcessPid
		ev.Tgid = exit.ProcessPid
	}

	return ev, nil
}
