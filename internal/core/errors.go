package core

import (
	"errors"
	"fmt"

	"github.com/git-pkgs/updatecheck/internal/semver"
)

var (
	// ErrInvalidVersionFormat is returned for malformed version strings,
	// whether configured or read from repository metadata.
	ErrInvalidVersionFormat = semver.ErrInvalidFormat
	// ErrRepositoryUnavailable is returned when a repository could not be read.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrMalformedLocation is returned when a repository location does not
	// compose into a valid URL.
	ErrMalformedLocation = errors.New("malformed location")
)

// UnavailableError wraps a transport failure for one repository.
type UnavailableError struct {
	Repository string
	URL        string
	Err        error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: reading %s: %v", e.Repository, e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrRepositoryUnavailable, e.Err}
}

// LocationError reports a location that is not a valid absolute URL.
type LocationError struct {
	Location string
	Err      error
}

func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed location %q: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("malformed location %q", e.Location)
}

func (e *LocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedLocation}
	}
	return []error{ErrMalformedLocation, e.Err}
}
