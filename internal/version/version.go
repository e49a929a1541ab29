package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the errorless CLI.
// These variables can be overridden at build time via -ldflags:
//
//	go build -ldflags "-X errorless/internal/version.GitCommit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionNameColor = color.New(color.FgYellow, color.Bold)
	versionMetaColor = color.New(color.Faint)
)

// String returns the version line printed by --version, e.g.
// "0.1.0-dev (abc1234, 2024-01-15)". Metadata that was not set is omitted.
func String() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	var meta []string
	if c := strings.TrimSpace(GitCommit); c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		meta = append(meta, c)
	}
	if d := strings.TrimSpace(BuildDate); d != "" {
		meta = append(meta, d)
	}
	out := versionNameColor.Sprint(v)
	if len(meta) > 0 {
		out += " " + versionMetaColor.Sprint("("+strings.Join(meta, ", ")+")")
	}
	return out
}
