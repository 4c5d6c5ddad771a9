// Package houdini locates Houdini's husk and usdcat executables and runs
// usdcat to produce the layer dumps the extractor consumes.
//
// Nothing in this package links against USD or Houdini: the executables are
// found on disk from a configured search list and invoked as subprocesses,
// the same way the render farm's plugin host does it.
package houdini

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/renderkit/husksubmit/pkg/errors"
)

// VersionPlaceholder is the token in configured search paths that is
// replaced with the submitter's Houdini version, e.g.
// /opt/hfs/XX.X.XXX/bin/husk → /opt/hfs/20.5.445/bin/husk.
const VersionPlaceholder = "XX.X.XXX"

// FindExecutable resolves a ";"-separated list of candidate paths to the
// first one that exists on disk. version replaces [VersionPlaceholder] in
// each candidate before probing; an empty version leaves the placeholder in
// place, which then simply fails to match a real path.
//
// Failure to find any candidate is reported as EXECUTABLE_NOT_FOUND; it is
// a lookup failure for the caller to surface, never a panic.
func FindExecutable(searchList, version string) (string, error) {
	var probed []string
	for _, candidate := range strings.Split(searchList, ";") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if version != "" {
			candidate = strings.ReplaceAll(candidate, VersionPlaceholder, version)
		}
		probed = append(probed, candidate)

		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", errors.New(errors.ErrCodeExecutableNotFound,
		"no executable found in search list: %s", strings.Join(probed, "; "))
}

// UsdcatFor derives the usdcat binary that ships next to a husk executable.
// The husk path is split at "husk" and the prefix is rejoined with "usdcat"
// (plus ".exe" on Windows), so /opt/hfs20.5/bin/husk yields
// /opt/hfs20.5/bin/usdcat. The derived path must exist.
func UsdcatFor(huskPath string) (string, error) {
	prefix, _, found := strings.Cut(huskPath, "husk")
	if !found {
		return "", errors.New(errors.ErrCodeExecutableNotFound,
			"cannot derive usdcat from %q: no husk segment", huskPath)
	}

	usdcat := prefix + "usdcat"
	if runtime.GOOS == "windows" {
		usdcat += ".exe"
	}

	if _, err := os.Stat(usdcat); err != nil {
		return "", errors.Wrap(errors.ErrCodeExecutableNotFound, err,
			"usdcat not found next to husk: %s", usdcat)
	}

	return usdcat, nil
}

// DefaultSearchList returns a best-effort husk search list for the current
// platform, used when the config file provides none.
func DefaultSearchList() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(`C:\Program Files\Side Effects Software`, "Houdini "+VersionPlaceholder, "bin", "husk.exe")
	}
	return "/opt/hfs" + VersionPlaceholder + "/bin/husk"
}
