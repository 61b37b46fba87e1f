// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package procevents

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildNotification composes a connector payload the way the kernel does:
// cn_msg header, proc_event header with the given discriminator, then the
// raw union bytes.
func buildNotification(t *testing.T, idx, val, what uint32, union any) []byte {
	t.Helper()

	var payload bytes.Buffer
	require.NoError(t, binary.Write(&payload, binary.NativeEndian, procEventHeader{What: what}))
	if union != nil {
		require.NoError(t, binary.Write(&payload, binary.NativeEndian, union))
	}

	var buf bytes.Buffer
	hdr := cnMsg{
		ID:  cbID{Idx: idx, Val: val},
		Len: uint16(payload.Len()),
	}
	require.NoError(t, binary.Write(&buf, binary.NativeEndian, hdr))
	buf.Write(payload.Bytes())
	return buf.Bytes()
}

func TestDecodeFork(t *testing.T) {
	data := buildNotification(t, cnIdxProc, cnValProc, ProcEventFork, forkProcEvent{
		ParentPid:  1,
		ParentTgid: 1,
		ChildPid:   100,
		ChildTgid:  100,
	})

	ev, err := decodeEvent(data)
	require.NoError(t, err)

	want := Event{Kind: KindFork, What: ProcEventFork, Pid: 100, Ppid: 1, Tgid: 100}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("decoded fork event mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeForkPpidIndependentOfPid(t *testing.T) {
	data := buildNotification(t, cnIdxProc, cnValProc, ProcEventFork, forkProcEvent{
		ParentPid:  42,
		ParentTgid: 42,
		ChildPid:   31337,
		ChildTgid:  31000,
	})

	ev, err := decodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), ev.Ppid)
	assert.Equal(t, uint32(31000), ev.Tgid)
}

func TestDecodeExec(t *testing.T) {
	data := buildNotification(t, cnIdxProc, cnValProc, ProcEventExec, execProcEvent{
		ProcessPid:  2000,
		ProcessTgid: 2001,
	})

	ev, err := decodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, KindExec, ev.Kind)
	assert.Equal(t, uint32(2000), ev.Pid)
	assert.Equal(t, uint32(2001), ev.Tgid)
	assert.Zero(t, ev.Ppid, "ppid is not defined for exec events")
}

func TestDecodeExitPidEqualsTgid(t *testing.T) {
	// The encoded tgid differs from the pid on purpose: the decoder must
	// duplicate the process pid into both fields regardless.
	data := buildNotification(t, cnIdxProc, cnValProc, ProcEventExit, exitProcEvent{
		ProcessPid:  555,
		ProcessTgid: 9999,
		ExitCode:    1,
	})

	ev, err := decodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, KindExit, ev.Kind)
	assert.Equal(t, ev.Pid, ev.Tgid)
	assert.Equal(t, uint32(555), ev.Pid)
	assert.Zero(t, ev.Ppid)
}

func TestDecodeUnrecognizedKind(t *testing.T) {
	garbage := [32]byte{0xde, 0xad, 0xbe, 0xef, 0xff, 0xff, 0xff, 0xff}
	data := buildNotification(t, cnIdxProc, cnValProc, ProcEventUID, garbage)

	ev, err := decodeEvent(data)
	require.NoError(t, err, "unrecognized discriminators decode without error")

	want := Event{Kind: KindOther, What: ProcEventUID}
	assert.Equal(t, want, ev, "only the discriminator is meaningful")
}

func TestDecodeForeignConnector(t *testing.T) {
	// Traffic for another connector id decodes to KindOther untouched.
	data := buildNotification(t, 0x4, 0x1, ProcEventFork, forkProcEvent{ChildPid: 7})

	ev, err := decodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, Event{Kind: KindOther}, ev)
}

func TestDecodeTruncated(t *testing.T) {
	full := buildNotification(t, cnIdxProc, cnValProc, ProcEventFork, forkProcEvent{
		ParentPid: 1, ChildPid: 2,
	})

	for _, n := range []int{0, 10, 19, 21, 40} {
		_, err := decodeEvent(full[:n])
		assert.Error(t, err, "payload truncated to %d bytes must not decode", n)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "fork", KindFork.String())
	assert.Equal(t, "exec", KindExec.String())
	assert.Equal(t, "exit", KindExit.String())
	assert.Equal(t, "other", KindOther.String())
}

func TestWireStructSizes(t *testing.T) {
	// The packed kernel structs must marshal without implicit padding.
	assert.Equal(t, 20, binary.Size(cnMsg{}), "cn_msg")
	assert.Equal(t, 16, binary.Size(procEventHeader{}), "proc_event header")
	assert.Equal(t, 16, binary.Size(forkProcEvent{}), "fork event")
	assert.Equal(t, 8, binary.Size(execProcEvent{}), "exec event")
	assert.Equal(t, 16, binary.Size(exitProcEvent{}), "exit event")
}
