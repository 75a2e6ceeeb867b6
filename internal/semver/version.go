// Package semver provides parsed semantic versions with two orderings: strict
// semver precedence, and a build-aware total order that also ranks build
// metadata.
package semver

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	msemver "github.com/Masterminds/semver/v3"
)

// ErrInvalidFormat is returned when a string is not MAJOR.MINOR.PATCH[-pre][+build].
var ErrInvalidFormat = errors.New("invalid version format")

// FormatError describes a string that could not be parsed as a version.
type FormatError struct {
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid version %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("invalid version %q", e.Text)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFormat}
	}
	return []error{ErrInvalidFormat, e.Err}
}

// Version is an immutable semantic version. It is comparable, so == is value
// equality over every field and a Version can key a map.
type Version struct {
	major uint64
	minor uint64
	patch uint64
	pre   string // dot-separated identifiers, "" if none
	build string // dot-separated identifiers, "" if none
}

// Parse parses text as a strict semantic version.
func Parse(text string) (Version, error) {
	sv, err := msemver.StrictNewVersion(text)
	if err != nil {
		return Version{}, &FormatError{Text: text, Err: err}
	}
	rest, build, hasBuild := strings.Cut(text, "+")
	_, pre, hasPre := strings.Cut(rest, "-")
	if hasPre {
		if err := checkIdentifiers(text, pre); err != nil {
			return Version{}, err
		}
	}
	if hasBuild {
		if err := checkIdentifiers(text, build); err != nil {
			return Version{}, err
		}
	}
	return Version{
		major: sv.Major(),
		minor: sv.Minor(),
		patch: sv.Patch(),
		pre:   sv.Prerelease(),
		build: sv.Metadata(),
	}, nil
}

// checkIdentifiers rejects empty identifiers such as "1.0.0-a..b" or a bare
// trailing separator, which the underlying parser lets through.
func checkIdentifiers(text, ids string) error {
	for _, id := range strings.Split(ids, ".") {
		if id == "" {
			return &FormatError{Text: text, Err: errors.New("empty identifier")}
		}
	}
	return nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) Major() uint64 { return v.major }
func (v Version) Minor() uint64 { return v.minor }
func (v Version) Patch() uint64 { return v.patch }

// Prerelease returns the pre-release identifiers, or nil.
func (v Version) Prerelease() []string { return split(v.pre) }

// Build returns the build-metadata identifiers, or nil.
func (v Version) Build() []string { return split(v.build) }

func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.major, v.minor, v.patch)
	if v.pre != "" {
		b.WriteString("-")
		b.WriteString(v.pre)
	}
	if v.build != "" {
		b.WriteString("+")
		b.WriteString(v.build)
	}
	return b.String()
}

func (v Version) lib() *msemver.Version {
	return msemver.New(v.major, v.minor, v.patch, v.pre, v.build)
}

// CompareStrict orders a and b by semver precedence. Build metadata is ignored.
func CompareStrict(a, b Version) int {
	return a.lib().Compare(b.lib())
}

// Compare orders a and b by build-aware precedence: strict precedence first,
// then build identifiers compared element-wise like pre-release identifiers.
// A version without build metadata ranks below the same version with it.
func Compare(a, b Version) int {
	if c := CompareStrict(a, b); c != 0 {
		return c
	}
	return compareIdentifiers(a.build, b.build)
}

func (v Version) GreaterThan(o Version) bool { return Compare(v, o) > 0 }
func (v Version) Equal(o Version) bool       { return v == o }

// Sort sorts versions ascending by build-aware order.
func Sort(versions []Version) {
	slices.SortFunc(versions, Compare)
}

// Max returns the build-aware maximum of versions.
func Max(versions []Version) (Version, bool) {
	if len(versions) == 0 {
		return Version{}, false
	}
	return slices.MaxFunc(versions, Compare), true
}

func compareIdentifiers(a, b string) int {
	if a == b {
		return 0
	}
	// an absent sequence is a prefix of every other and ranks lowest
	as, bs := split(a), split(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareIdentifier(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(as), len(bs))
}

func compareIdentifier(a, b string) int {
	an, aErr := strconv.ParseUint(a, 10, 64)
	bn, bErr := strconv.ParseUint(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if c := cmp.Compare(an, bn); c != 0 {
			return c
		}
		// "01" and "1" are numerically equal but distinct values
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func split(ids string) []string {
	if ids == "" {
		return nil
	}
	return strings.Split(ids, ".")
}
