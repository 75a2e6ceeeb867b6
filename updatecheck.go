// Package updatecheck reports whether a newer release of a piece of software
// is published on any of a set of artifact repositories.
//
// Basic usage:
//
//	import (
//		"context"
//		"github.com/git-pkgs/updatecheck"
//	)
//
//	central := updatecheck.NewMavenRepository("central", "", nil)
//	checker := updatecheck.NewChecker("com.example", "app", "1.2.0",
//		updatecheck.WithRepositories(central))
//
//	status, err := checker.Status(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if status == updatecheck.StatusOutdated {
//		loc, _ := checker.MostRecentArtifactLocationSafe(context.Background())
//		fmt.Println("update available:", loc)
//	}
//
// Repository kinds register themselves on import. Maven is always available;
// to register every supported kind, import the all subpackage:
//
//	import _ "github.com/git-pkgs/updatecheck/all"
package updatecheck

import (
	"context"

	"github.com/git-pkgs/updatecheck/client"
	"github.com/git-pkgs/updatecheck/internal/core"
	"github.com/git-pkgs/updatecheck/internal/maven"
	"github.com/git-pkgs/updatecheck/internal/semver"
)

// Re-export types from internal/core
type (
	// Repository is the interface implemented by all repository kinds.
	Repository = core.Repository

	// Transport fetches the bytes at a location.
	Transport = core.Transport

	// Artifact is a version of a package hosted on a specific repository.
	Artifact = core.Artifact

	// Checker checks one artifact for updates.
	Checker = core.Checker

	// CheckerOption configures a Checker.
	CheckerOption = core.CheckerOption

	// Status is the update status of a piece of software.
	Status = core.Status

	// Result is the outcome of checking one artifact.
	Result = core.Result

	// PURL represents a parsed Package URL.
	PURL = core.PURL

	// UnavailableError wraps a transport failure for one repository.
	UnavailableError = core.UnavailableError

	// LocationError reports a location that is not a valid absolute URL.
	LocationError = core.LocationError
)

// Version is a semantic version.
type Version = semver.Version

// Re-export types from client
type (
	// Client is an HTTP client for repository metadata.
	Client = client.Client

	// URLBuilder constructs URLs for a repository.
	URLBuilder = client.URLBuilder
)

// Re-export constants
const (
	StatusUpToDate = core.StatusUpToDate
	StatusOutdated = core.StatusOutdated
	StatusUnknown  = core.StatusUnknown

	// MavenCentral is the default Maven repository location.
	MavenCentral = maven.DefaultURL
)

// Re-export errors
var (
	ErrInvalidVersionFormat  = core.ErrInvalidVersionFormat
	ErrRepositoryUnavailable = core.ErrRepositoryUnavailable
	ErrMalformedLocation     = core.ErrMalformedLocation
	ErrNotFound              = client.ErrNotFound
	ErrCircuitOpen           = client.ErrCircuitOpen
)

// Error types
type (
	HTTPError      = client.HTTPError
	RateLimitError = client.RateLimitError
)

// Checker options
var (
	WithRepositories = core.WithRepositories
	WithClassifier   = core.WithClassifier
	WithLogger       = core.WithLogger
)

// NewChecker creates a checker for group:name at the current version.
func NewChecker(group, name, current string, opts ...CheckerOption) *Checker {
	return core.NewChecker(group, name, current, opts...)
}

// NewCheckerFromPURL creates a checker from a versioned PURL such as
// pkg:maven/com.example/app@1.2.0.
func NewCheckerFromPURL(purl string, t Transport, opts ...CheckerOption) (*Checker, error) {
	return core.NewCheckerFromPURL(purl, t, opts...)
}

// NewRepository creates a repository of the given kind.
// If baseURL is empty, the kind's default location is used.
// If t is nil, DefaultClient() is used.
func NewRepository(kind, name, baseURL string, t Transport) (Repository, error) {
	return core.NewRepository(kind, name, baseURL, t)
}

// NewMavenRepository creates a Maven repository. If baseURL is empty, Maven
// Central is used. If t is nil, DefaultClient() is used.
func NewMavenRepository(name, baseURL string, t Transport) Repository {
	return maven.New(name, baseURL, t)
}

// DefaultClient returns a client with a 30s timeout that makes a single
// attempt per request.
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// Option configures a Client.
type Option = client.Option

// WithTimeout sets the HTTP client timeout.
var WithTimeout = client.WithTimeout

// WithMaxRetries sets the maximum number of retries on 429 and 5xx responses.
var WithMaxRetries = client.WithMaxRetries

// WithCircuitBreaker enables per-host circuit breaking.
var WithCircuitBreaker = client.WithCircuitBreaker

// SupportedKinds returns all registered repository kinds.
func SupportedKinds() []string {
	return core.SupportedKinds()
}

// DefaultURL returns the default location for a repository kind.
func DefaultURL(kind string) string {
	return core.DefaultURL(kind)
}

// BuildURLs returns a map of all non-empty URLs for an artifact.
// Keys are "metadata", "registry", "download", "docs", and "purl".
func BuildURLs(urls URLBuilder, name, version string) map[string]string {
	return client.BuildURLs(urls, name, version)
}

// ParseVersion parses a strict semantic version such as 1.2.3-rc.1+build.5.
func ParseVersion(text string) (Version, error) {
	return semver.Parse(text)
}

// ParsePURL parses a Package URL string into its components.
func ParsePURL(purl string) (*PURL, error) {
	return core.ParsePURL(purl)
}

// Check computes the status, most recent version and its location for c.
func Check(ctx context.Context, c *Checker) Result {
	return core.Check(ctx, c)
}

// CheckAll checks multiple artifacts in parallel. Results are in input order.
// Checkers must not share repository instances.
func CheckAll(ctx context.Context, checkers []*Checker) []Result {
	return core.CheckAll(ctx, checkers)
}

// CheckAllWithConcurrency checks artifacts with a custom concurrency limit.
func CheckAllWithConcurrency(ctx context.Context, checkers []*Checker, concurrency int) []Result {
	return core.CheckAllWithConcurrency(ctx, checkers, concurrency)
}
