// Package version identifies the bspecgen binary. The release build fills
// the variables below with -ldflags "-X github.com/teranos/bspecgen/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

// Dev marks a binary built without release ldflags.
const Dev = "dev"

var (
	// Version is the bspecgen release. It feeds the generator stamp in
	// model.json and in every emitted file header.
	Version = Dev

	// CommitHash is the bspecgen source revision, not the spec tree's.
	CommitHash = Dev

	// BuildTime is shown by `bspecgen version` only and never reaches
	// generated output.
	BuildTime = "unknown"
)

// Info is what `bspecgen version` reports, also as JSON with --json.
type Info struct {
	Version    string `json:"version"`
	Stamp      string `json:"generator"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	i := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	i.Stamp = i.Generator()
	return i
}

func (i Info) String() string {
	return fmt.Sprintf("bspecgen %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}

// Generator is the stamp pipeline.Options.Generator defaults to. It carries
// the release only, never the commit or build time.
func (i Info) Generator() string {
	return "bspecgen/" + i.Version
}
