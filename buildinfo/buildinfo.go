// Package buildinfo reports how the running binary was built, so a report
// produced months ago can be traced back to the exact tool revision.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

type Info struct {
	Module     string
	GoVersion  string
	Commit     string
	CommitTime string
	Dirty      bool
}

// Get reads the version control stamp embedded by the Go toolchain. Fields
// stay empty when the binary was built outside a checkout.
func Get() Info {
	info := Info{}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.Module = build.Main.Path
	info.GoVersion = build.GoVersion
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
		case "vcs.time":
			info.CommitTime = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}

	return info
}

func (i Info) String() string {
	if i.Commit == "" {
		return fmt.Sprintf("%s built with %s (no version control stamp)", i.Module, i.GoVersion)
	}

	suffix := ""
	if i.Dirty {
		suffix = ", with local modifications"
	}

	return fmt.Sprintf("%s built with %s at commit %s (%s)%s", i.Module, i.GoVersion, i.Commit, i.CommitTime, suffix)
}
