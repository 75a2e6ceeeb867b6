package core

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/git-pkgs/updatecheck/internal/semver"
)

// Repository lists the published versions of artifacts at one location.
type Repository interface {
	// Kind returns the repository type, e.g. "maven".
	Kind() string
	// Name returns a human-readable name.
	Name() string
	// Location returns the base URL.
	Location() string
	// ListVersions fetches every version published for group:artifact.
	// Transport failures are reported as ErrRepositoryUnavailable; a
	// readable document without versions yields an empty slice.
	ListVersions(ctx context.Context, group, artifact string) ([]semver.Version, error)
	// MostRecentVersion returns the build-aware maximum version, or nil if
	// none are published. It may reuse the result of the last ListVersions.
	MostRecentVersion(ctx context.Context, group, artifact string) (*semver.Version, error)
	// URLs returns the URL builder for this repository.
	URLs() URLBuilder
}

// Resetter is implemented by repositories that cache their last result.
type Resetter interface {
	Reset()
}

// Factory creates a repository for a given name and base URL.
type Factory func(name, baseURL string, transport Transport) Repository

var (
	factories = make(map[string]Factory)
	defaults  = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a repository factory.
// kind is the repository type (and PURL type), e.g. "maven".
// defaultURL is used when no base URL is given.
func Register(kind string, defaultURL string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = factory
	defaults[kind] = defaultURL
}

// NewRepository creates a repository of the given kind.
// If baseURL is empty, the kind's default URL is used.
// If transport is nil, DefaultClient() is used.
func NewRepository(kind, name, baseURL string, transport Transport) (Repository, error) {
	mu.RLock()
	factory, ok := factories[kind]
	defaultURL := defaults[kind]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown repository kind: %s", kind)
	}
	if baseURL == "" {
		baseURL = defaultURL
	}
	if name == "" {
		name = baseURL
	}
	if transport == nil {
		transport = DefaultClient()
	}
	return factory(name, baseURL, transport), nil
}

// SupportedKinds returns all registered repository kinds, sorted.
func SupportedKinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultURL returns the default base URL for a repository kind.
func DefaultURL(kind string) string {
	mu.RLock()
	defer mu.RUnlock()
	return defaults[kind]
}

// ValidateLocation checks that location is an absolute URL.
func ValidateLocation(location string) error {
	u, err := url.Parse(location)
	if err != nil {
		return &LocationError{Location: location, Err: err}
	}
	if !u.IsAbs() {
		return &LocationError{Location: location, Err: fmt.Errorf("not an absolute URL")}
	}
	return nil
}
