// Package core provides the repository contract, artifacts, and the update checker.
package core

import "github.com/git-pkgs/updatecheck/internal/semver"

// Status is the update status of a piece of software.
type Status string

const (
	// StatusUpToDate means no more recent version was found on any repository.
	StatusUpToDate Status = "up-to-date"
	// StatusOutdated means at least one repository publishes a more recent version.
	StatusOutdated Status = "outdated"
	// StatusUnknown means no versioning information could be found: no
	// repositories, unreadable repositories, or no published versions.
	StatusUnknown Status = "unknown"
)

func (s Status) String() string {
	return string(s)
}

// Result is the outcome of checking one artifact.
type Result struct {
	Checker  *Checker
	Status   Status
	Latest   *semver.Version
	Location string // packaged location of Latest, "" if none
	Err      error
}
