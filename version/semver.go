package version

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/cockroachdb/errors"

	"github.com/treeconf/treeconf/common"
)

// Build information, set with -ldflags "-X".
var (
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info is the version information of the running binary.
type Info struct {
	Version   semver.Version `json:"version"`
	GitCommit string         `json:"gitCommit"`
	BuildTime string         `json:"buildTime"`
}

// Get returns the version information of the running binary.
func Get() Info {
	return Info{
		Version:   common.Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("treeconf %s (commit %s, built %s)", i.Version, i.GitCommit, i.BuildTime)
}

// Parse parses a version string, a leading "v" and missing minor or patch
// parts are accepted.
func Parse(s string) (semver.Version, error) {
	v, err := semver.ParseTolerant(s)
	if err != nil {
		return semver.Version{}, errors.Wrapf(err, "invalid version %q", s)
	}
	return v, nil
}

// Compatible reports whether a client built at other can talk to this binary,
// that is both share the major version and other is not newer.
func Compatible(other string) (bool, error) {
	v, err := Parse(other)
	if err != nil {
		return false, err
	}
	return v.Major == common.Version.Major && v.LTE(common.Version), nil
}
