// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond

package version

import "runtime/debug"

// Version is set at build time via -ldflags.
var Version string

type BuildInfo struct {
	GoVersion string
	Commit    string
	Time      string
}

func ReadBuildInfo() *BuildInfo {
	info := &BuildInfo{}
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		info.GoVersion = buildInfo.GoVersion
		// unfortunately, it's not a Go map
		for _, s := range buildInfo.Settings {
			if s.Key == "vcs.revision" {
				info.Commit = s.Value
				continue
			}
			if s.Key == "vcs.time" {
				info.Time = s.Value
				continue
			}
		}
	}
	return info
}
