package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
)

// Info is the version report served by /version and `relay version`.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	GitBranch string    `json:"git_branch,omitempty"`
	BuildTime string    `json:"build_time,omitempty"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date,omitempty"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// GetVersionInfo returns version information for the running binary.
func GetVersionInfo() *Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(Version, GitCommit, GitBranch, BuildTime, bi)
}

// resolve merges link-time values with the embedded build info. Link-time
// values win; bi may be nil.
func resolve(version, commit, branch, buildTime string, bi *debug.BuildInfo) *Info {
	info := &Info{
		Version:   version,
		GitCommit: commit,
		GitBranch: branch,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	if bi != nil {
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = shortCommit(s.Value)
				}
			case "vcs.modified":
				info.IsDirty = s.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}

	if info.BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
			info.BuildDate = t.UTC()
		}
	}

	info.IsRelease = info.Version != "dev" && !info.IsDirty && !strings.Contains(info.Version, "dirty")
	return info
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// String returns "<version>[-<commit>][-dirty]".
func (i *Info) String() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// Full returns the short form plus non-default branch and build date.
func (i *Info) Full() string {
	parts := []string{i.String()}
	if i.GitBranch != "" && i.GitBranch != "main" && i.GitBranch != "master" {
		parts = append(parts, "("+i.GitBranch+")")
	}
	if !i.BuildDate.IsZero() {
		parts = append(parts, fmt.Sprintf("built %s", i.BuildDate.Format(time.RFC3339)))
	}
	parts = append(parts, i.GoVersion)
	return strings.Join(parts, " ")
}

// GetShortVersion returns the short version string of the running binary.
func GetShortVersion() string {
	return GetVersionInfo().String()
}

// GetFullVersion returns the detailed version string of the running binary.
func GetFullVersion() string {
	return GetVersionInfo().Full()
}
