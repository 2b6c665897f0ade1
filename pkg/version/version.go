package version

import "fmt"

// Overridden at build time via -ldflags.
var (
	version   = "v0.1.0-unreleased"
	gitCommit = ""
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

func Get() Info {
	return Info{
		Version:   version,
		GitCommit: gitCommit,
	}
}

func (i Info) String() string {
	if i.GitCommit == "" {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, i.GitCommit)
}
