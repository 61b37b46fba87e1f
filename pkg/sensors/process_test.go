// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package sensors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procmond/procmond/pkg/defaults"
	"github.com/procmond/procmond/pkg/procevents"
	"github.com/procmond/procmond/pkg/process"
)

func newTestSensor(t *testing.T) *ProcessSensor {
	t.Helper()
	finder, err := process.NewFinder(defaults.DefaultProcFS)
	require.NoError(t, err)
	cache, err := process.NewCache(16, finder)
	require.NoError(t, err)
	return NewProcessSensor(cache)
}

func TestTranslateExec(t *testing.T) {
	s := newTestSensor(t)
	self := uint32(os.Getpid())

	out, ok := s.translate(procevents.Event{
		Kind: procevents.KindExec,
		What: procevents.ProcEventExec,
		Pid:  self,
		Tgid: self,
	})
	require.True(t, ok)
	assert.Equal(t, "exec", out.Type)
	assert.Equal(t, self, out.Pid)
	assert.NotEmpty(t, out.Comm)
	assert.NotEmpty(t, out.SessionID)
	assert.False(t, out.Time.IsZero())
}

func TestTranslateExecOfGonePid(t *testing.T) {
	s := newTestSensor(t)

	// Enrichment failure still forwards the bare event.
	out, ok := s.translate(procevents.Event{
		Kind: procevents.KindExec,
		Pid:  1 << 30,
		Tgid: 1 << 30,
	})
	require.True(t, ok)
	assert.Empty(t, out.Comm)
	assert.Empty(t, out.Exe)
}

func TestTranslateExitUsesCachedComm(t *testing.T) {
	s := newTestSensor(t)
	self := uint32(os.Getpid())

	// Exec populates the cache, exit reads it back and evicts.
	_, ok := s.translate(procevents.Event{Kind: procevents.KindExec, Pid: self, Tgid: self})
	require.True(t, ok)

	out, ok := s.translate(procevents.Event{Kind: procevents.KindExit, Pid: self, Tgid: self})
	require.True(t, ok)
	assert.Equal(t, "exit", out.Type)
	assert.NotEmpty(t, out.Comm)

	_, cached := s.procs.Cached(self)
	assert.False(t, cached, "exit must evict the cache entry")
}

func TestTranslateIgnoresForkAndOther(t *testing.T) {
	s := newTestSensor(t)

	_, ok := s.translate(procevents.Event{Kind: procevents.KindFork, Pid: 2, Ppid: 1, Tgid: 2})
	assert.False(t, ok)

	_, ok = s.translate(procevents.Event{Kind: procevents.KindOther, What: procevents.ProcEventComm})
	assert.False(t, ok)
}

func TestSensorIdentity(t *testing.T) {
	s := newTestSensor(t)
	assert.Equal(t, "process", s.ID())
	assert.Equal(t, "Process", s.Name())
	assert.NotEmpty(t, s.Description())
}
