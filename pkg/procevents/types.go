// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package procevents

// Kernel ABI constants from <linux/connector.h> and <linux/cn_proc.h>.
// These values are fixed by the kernel and never change.
const (
	// cnIdxProc / cnValProc identify the process-events connector
	// (CN_IDX_PROC and CN_VAL_PROC).
	cnIdxProc uint32 = 0x1
	cnValProc uint32 = 0x1

	// procCnMcastListen / procCnMcastIgnore are the proc_cn_mcast_op
	// values that start and stop multicast delivery of process events.
	procCnMcastListen uint32 = 1
	procCnMcastIgnore uint32 = 2
)

// Process event discriminators, the proc_event.what values from
// <linux/cn_proc.h>. Successive bits so they can double as event sets.
const (
	ProcEventNone     uint32 = 0x00000000
	ProcEventFork     uint32 = 0x00000001
	ProcEventExec     uint32 = 0x00000002
	ProcEventUID      uint32 = 0x00000004
	ProcEventGID      uint32 = 0x00000040
	ProcEventSID      uint32 = 0x00000080
	ProcEventPtrace   uint32 = 0x00000100
	ProcEventComm     uint32 = 0x00000200
	ProcEventCoredump uint32 = 0x40000000
	ProcEventExit     uint32 = 0x80000000
)

// cbID mirrors struct cb_id from <linux/connector.h>.
type cbID struct {
	Idx uint32
	Val uint32
}

// cnMsg mirrors struct cn_msg from <linux/connector.h>. The variable
// length payload follows immediately after, Len bytes of it.
type cnMsg struct {
	ID    cbID
	Seq   uint32
	Ack   uint32
	Len   uint16
	Flags uint16
}

// procEventHeader mirrors the leading fields of struct proc_event from
// <linux/cn_proc.h>, up to the event_data union.
type procEventHeader struct {
	What      uint32
	CPU       uint32
	Timestamp uint64
}

// forkProcEvent mirrors event_data.fork.
type forkProcEvent struct {
	ParentPid  uint32
	ParentTgid uint32
	ChildPid   uint32
	ChildTgid  uint32
}

// execProcEvent mirrors event_data.exec.
type execProcEvent struct {
	ProcessPid  uint32
	ProcessTgid uint32
}

// exitProcEvent mirrors event_data.exit.
type exitProcEvent struct {
	ProcessPid  uint32
	ProcessTgid uint32
	ExitCode    uint32
	ExitSignal  uint32
}

// Kind classifies a decoded process event.
type Kind int

const (
	// KindOther covers every discriminator this package does not decode
	// further (uid/gid/sid/ptrace/comm/coredump and future additions).
	// Only the Event What field is meaningful for it.
	KindOther Kind = iota
	KindFork
	KindExec
	KindExit
)

func (k Kind) String() string {
	switch k {
	case KindFork:
		return "fork"
	case KindExec:
		return "exec"
	case KindExit:
		return "exit"
	default:
		return "other"
	}
}

// Event is one decoded process notification. Field validity depends on
// Kind:
//
//	KindFork:  Pid is the child pid, Ppid the parent pid, Tgid the child
//	           thread group id.
//	KindExec:  Pid and Tgid are the exec'ing process's pid/tgid, Ppid is
//	           zero.
//	KindExit:  Pid and Tgid both carry the exiting process's pid. The
//	           kernel supplies no separate tgid for exit events.
//	KindOther: only What is meaningful, the pid fields are zero.
//
// What always holds the raw proc_event.what discriminator.
type Event struct {
	Kind Kind
	What uint32
	Pid  uint32
	Ppid uint32
	Tgid uint32
}
