// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

// Package procevents receives process lifecycle notifications (fork, exec,
// exit) from the kernel's netlink process connector and decodes them into
// Event values. It holds no state beyond the socket itself: the caller
// opens a Conn, toggles the multicast subscription and drives the receive
// loop one event at a time.
package procevents

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

// ErrConnClosed is reported by ReceiveEvent when the channel has been shut
// down, either by the peer (zero-length receive) or by a concurrent Close.
// It signals that no further events will arrive and is not a receive
// failure.
var ErrConnClosed = errors.New("procevents: connection closed")

// Conn is an open channel to the kernel process-event multicast group.
//
// A Conn must not be used for concurrent ReceiveEvent calls; netlink
// datagram framing is not atomic across concurrent readers. Close may be
// called from another goroutine to unblock a pending receive.
type Conn struct {
	nl *netlink.Conn

	// Events the kernel packed into the current datagram beyond the one
	// already returned. Drained before the next socket read.
	pending []netlink.Message
}

// Open dials a NETLINK_CONNECTOR datagram socket joined to the CN_IDX_PROC
// multicast group. The socket is bound to this process; the kernel assigns
// the netlink port id. On bind failure the partially created socket is
// closed before the error is returned.
//
// Opening requires CAP_NET_ADMIN; without it Open fails with EPERM.
func Open() (*Conn, error) {
	nl, err := netlink.Dial(unix.NETLINK_CONNECTOR, &netlink.Config{
		Groups: cnIdxProc,
	})
	if err != nil {
		return nil, fmt.Errorf("procevents: dial netlink connector: %w", err)
	}
	return &Conn{nl: nl}, nil
}

// SetListening turns multicast delivery of process events to this channel
// on or off. The call is idempotent; resending the same mode is harmless.
// A send failure leaves the channel open and usable for retry.
func (c *Conn) SetListening(enable bool) error {
	op := procCnMcastIgnore
	if enable {
		op = procCnMcastListen
	}

	data, err := marshalMcastOp(op)
	if err != nil {
		return err
	}

	_, err = c.nl.Send(netlink.Message{
		Header: netlink.Header{
			Type:     netlink.Done,
			Sequence: 1,
			PID:      uint32(os.Getpid()),
		},
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("procevents: send mcast op %d: %w", op, err)
	}
	return nil
}

// marshalMcastOp composes the connector control payload: a cn_msg header
// addressed to {CN_IDX_PROC, CN_VAL_PROC} followed by the 4-byte
// proc_cn_mcast_op. The outer nlmsghdr framing and alignment is done by
// the netlink library on send. Native byte order throughout; the kernel
// rejects the message if any embedded length is off.
func marshalMcastOp(op uint32) ([]byte, error) {
	hdr := cnMsg{
		ID:  cbID{Idx: cnIdxProc, Val: cnValProc},
		Seq: 1,
		Len: uint16(binary.Size(op)),
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, hdr); err != nil {
		return nil, fmt.Errorf("procevents: marshal cn_msg: %w", err)
	}
	if err := binary.Write(&buf, binary.NativeEndian, op); err != nil {
		return nil, fmt.Errorf("procevents: marshal mcast op: %w", err)
	}
	return buf.Bytes(), nil
}

// SetReadDeadline bounds the next ReceiveEvent call. A caller that needs
// bounded waits sets a deadline instead of relying on any built-in
// timeout; there is none.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.nl.SetReadDeadline(t)
}

// SyscallConn exposes the raw socket descriptor so the channel can be
// multiplexed into an external poll/select loop.
func (c *Conn) SyscallConn() (syscall.RawConn, error) {
	return c.nl.SyscallConn()
}

// Close releases the socket. A ReceiveEvent blocked on the socket returns
// ErrConnClosed.
func (c *Conn) Close() error {
	return c.nl.Close()
}

// isClosed reports whether err means the socket has been torn down rather
// than a transient receive failure.
func isClosed(err error) bool {
	return errors.Is(err, os.ErrClosed) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, unix.EBADF)
}
