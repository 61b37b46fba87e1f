// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

// Package process looks up process metadata from procfs for event
// enrichment.
package process

import (
	"fmt"

	"github.com/prometheus/procfs"
)

// Info is the procfs metadata attached to exec events.
type Info struct {
	Pid  uint32 `json:"pid"`
	Comm string `json:"comm,omitempty"`
	Exe  string `json:"exe,omitempty"`
}

// Finder resolves pids against a procfs mount.
type Finder struct {
	fs procfs.FS
}

func NewFinder(procfsPath string) (*Finder, error) {
	fs, err := procfs.NewFS(procfsPath)
	if err != nil {
		return nil, fmt.Errorf("process: open procfs at %s: %w", procfsPath, err)
	}
	return &Finder{fs: fs}, nil
}

// Lookup reads comm and the executable path for pid. A short-lived process
// can exit between the exec event and this read, in which case Lookup
// returns the error from procfs. The executable link is unreadable for
// processes owned by other users when not running privileged; that alone
// is not an error, Exe is just left empty.
func (f *Finder) Lookup(pid uint32) (Info, error) {
	proc, err := f.fs.Proc(int(pid))
	if err != nil {
		return Info{}, fmt.Errorf("process: pid %d: %w", pid, err)
	}

	info := Info{Pid: pid}
	info.Comm, err = proc.Comm()
	if err != nil {
		return Info{}, fmt.Errorf("process: comm of pid %d: %w", pid, err)
	}
	if exe, err := proc.Executable(); err == nil {
		info.Exe = exe
	}
	return info, nil
}
