package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/git-pkgs/updatecheck/internal/semver"
)

const fakeKind = "fake"

func init() {
	Register(fakeKind, "https://fake.example.com/repo", func(name, baseURL string, transport Transport) Repository {
		r := newFakeRepo(name, nil)
		r.location = baseURL
		return r
	})
}

// fakeRepo serves versions from memory, keyed by group:artifact.
type fakeRepo struct {
	name     string
	location string
	versions map[string][]string
	err      error

	mu     sync.Mutex
	calls  int
	resets int
}

func newFakeRepo(name string, versions map[string][]string) *fakeRepo {
	return &fakeRepo{
		name:     name,
		location: "https://" + name + ".example.com/repo",
		versions: versions,
	}
}

func (r *fakeRepo) Kind() string     { return fakeKind }
func (r *fakeRepo) Name() string     { return r.name }
func (r *fakeRepo) Location() string { return r.location }

func (r *fakeRepo) ListVersions(ctx context.Context, group, artifact string) ([]semver.Version, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	var versions []semver.Version
	for _, s := range r.versions[group+":"+artifact] {
		v, err := semver.Parse(s)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	semver.Sort(versions)
	return versions, nil
}

func (r *fakeRepo) MostRecentVersion(ctx context.Context, group, artifact string) (*semver.Version, error) {
	versions, err := r.ListVersions(ctx, group, artifact)
	if err != nil {
		return nil, err
	}
	if v, ok := semver.Max(versions); ok {
		return &v, nil
	}
	return nil, nil
}

func (r *fakeRepo) Reset() {
	r.mu.Lock()
	r.resets++
	r.mu.Unlock()
}

func (r *fakeRepo) URLs() URLBuilder {
	return &BaseURLs{
		DownloadFn: func(name, version string) string {
			if version == "" {
				return ""
			}
			return fmt.Sprintf("%s/%s/%s.jar", r.location, name, version)
		},
		PURLFn: func(name, version string) string {
			return fmt.Sprintf("pkg:%s/%s@%s", fakeKind, name, version)
		},
	}
}

func (r *fakeRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func unavailable(name string) error {
	return &UnavailableError{Repository: name, URL: "https://" + name + ".example.com", Err: fmt.Errorf("connection refused")}
}
