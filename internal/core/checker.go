package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/git-pkgs/updatecheck/internal/semver"
)

// Checker checks whether a newer release of one artifact is published on any
// of a set of repositories.
//
// Repositories are queried sequentially in the order they were added. The
// status is computed once and memoized until Invalidate is called.
type Checker struct {
	group      string
	name       string
	current    string
	classifier string
	logger     *log.Logger

	mu        sync.Mutex // guards repos and artifacts
	repos     []Repository
	artifacts []Artifact

	statusMu sync.Mutex // held for the whole compute-and-memoize step
	status   *Status
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithRepositories adds repositories, in order.
func WithRepositories(repos ...Repository) CheckerOption {
	return func(c *Checker) {
		for _, r := range repos {
			c.addRepository(r)
		}
	}
}

// WithClassifier sets the classifier appended to packaged artifact names,
// e.g. "linux64" for bar-1.0.0-linux64.jar.
func WithClassifier(classifier string) CheckerOption {
	return func(c *Checker) {
		c.classifier = classifier
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *log.Logger) CheckerOption {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChecker creates a checker for group:name at the current version.
// The current version is parsed on the first Status call.
func NewChecker(group, name, current string, opts ...CheckerOption) *Checker {
	c := &Checker{
		group:   group,
		name:    name,
		current: current,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("artifact", group+":"+name)
	return c
}

func (c *Checker) Group() string          { return c.group }
func (c *Checker) Name() string           { return c.name }
func (c *Checker) CurrentVersion() string { return c.current }
func (c *Checker) Classifier() string     { return c.classifier }

// AddRepository adds repo unless it is already present. A repository is
// present if one with the same kind, name and location was added.
// Adding a repository does not affect a memoized status until Invalidate.
func (c *Checker) AddRepository(repo Repository) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addRepository(repo)
}

func (c *Checker) addRepository(repo Repository) bool {
	if repo == nil {
		return false
	}
	for _, r := range c.repos {
		if sameRepository(r, repo) {
			return false
		}
	}
	c.repos = append(c.repos, repo)
	return true
}

// Repositories returns the configured repositories in insertion order.
func (c *Checker) Repositories() []Repository {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.repos)
}

// ListAllVersions returns every version published on any repository,
// deduplicated and sorted ascending by build-aware order.
//
// If any repository is unavailable the whole call fails with
// ErrRepositoryUnavailable: an unreachable repository may hide an update.
func (c *Checker) ListAllVersions(ctx context.Context) ([]semver.Version, error) {
	repos := c.Repositories()

	seen := make(map[semver.Version]struct{})
	var versions []semver.Version
	var artifacts []Artifact
	for _, repo := range repos {
		c.logger.Debug("listing versions", "repository", repo.Name(), "location", repo.Location())
		found, err := repo.ListVersions(ctx, c.group, c.name)
		if err != nil {
			return nil, err
		}
		for _, v := range found {
			artifacts = append(artifacts, c.artifact(repo, v))
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			versions = append(versions, v)
		}
	}
	semver.Sort(versions)

	c.mu.Lock()
	c.artifacts = artifacts
	c.mu.Unlock()

	return versions, nil
}

// ListAllVersionsSafe is ListAllVersions, but an unavailable repository
// yields an empty result instead of an error.
func (c *Checker) ListAllVersionsSafe(ctx context.Context) ([]semver.Version, error) {
	versions, err := c.ListAllVersions(ctx)
	if errors.Is(err, ErrRepositoryUnavailable) {
		return nil, nil
	}
	return versions, err
}

// MostRecentVersion returns the most recent version on any repository, or
// nil if none are published.
func (c *Checker) MostRecentVersion(ctx context.Context) (*semver.Version, error) {
	versions, err := c.ListAllVersions(ctx)
	if err != nil {
		return nil, err
	}
	if latest, ok := semver.Max(versions); ok {
		return &latest, nil
	}
	return nil, nil
}

// MostRecentVersionSafe is MostRecentVersion with unavailable repositories
// treated as empty.
func (c *Checker) MostRecentVersionSafe(ctx context.Context) (*semver.Version, error) {
	v, err := c.MostRecentVersion(ctx)
	if errors.Is(err, ErrRepositoryUnavailable) {
		return nil, nil
	}
	return v, err
}

// MostRecentArtifact returns the most recent version together with the
// repository hosting it, or nil if none are published. Each repository is
// asked for its own most recent version. When several repositories host
// the winning version, the one added first is returned.
func (c *Checker) MostRecentArtifact(ctx context.Context) (*Artifact, error) {
	var best *Artifact
	for _, repo := range c.Repositories() {
		v, err := repo.MostRecentVersion(ctx, c.group, c.name)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if best == nil || v.GreaterThan(best.Version) {
			a := c.artifact(repo, *v)
			best = &a
		}
	}
	return best, nil
}

// MostRecentArtifactSafe is MostRecentArtifact with unavailable repositories
// treated as empty.
func (c *Checker) MostRecentArtifactSafe(ctx context.Context) (*Artifact, error) {
	a, err := c.MostRecentArtifact(ctx)
	if errors.Is(err, ErrRepositoryUnavailable) {
		return nil, nil
	}
	return a, err
}

// MostRecentArtifactLocation returns the packaged location of the most
// recent artifact, or "" if none is published.
func (c *Checker) MostRecentArtifactLocation(ctx context.Context) (string, error) {
	a, err := c.MostRecentArtifact(ctx)
	if err != nil || a == nil {
		return "", err
	}
	return a.PackagedLocation()
}

// MostRecentArtifactLocationSafe is MostRecentArtifactLocation with
// unavailable repositories treated as empty.
func (c *Checker) MostRecentArtifactLocationSafe(ctx context.Context) (string, error) {
	loc, err := c.MostRecentArtifactLocation(ctx)
	if errors.Is(err, ErrRepositoryUnavailable) {
		return "", nil
	}
	return loc, err
}

// DiscoveredArtifacts returns the artifacts seen by the last successful
// ListAllVersions, in repository order.
func (c *Checker) DiscoveredArtifacts() []Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.artifacts)
}

// Status returns the update status, computing it on first use.
//
// Unavailable repositories and empty results are reported as StatusUnknown
// and memoized. A malformed current version, corrupt metadata or a
// malformed location are returned as errors and not memoized.
func (c *Checker) Status(ctx context.Context) (Status, error) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()

	if c.status != nil {
		return *c.status, nil
	}

	status, err := c.computeStatus(ctx)
	if err != nil {
		return StatusUnknown, err
	}
	c.status = &status
	return status, nil
}

func (c *Checker) computeStatus(ctx context.Context) (Status, error) {
	current, err := semver.Parse(c.current)
	if err != nil {
		return StatusUnknown, fmt.Errorf("current version of %s:%s: %w", c.group, c.name, err)
	}

	versions, err := c.ListAllVersions(ctx)
	if errors.Is(err, ErrRepositoryUnavailable) {
		c.logger.Error("could not read from repositories", "err", err)
		return StatusUnknown, nil
	}
	if err != nil {
		return StatusUnknown, err
	}
	if len(versions) == 0 {
		c.logger.Debug("no versions found")
		return StatusUnknown, nil
	}

	for _, v := range versions {
		if v.GreaterThan(current) {
			c.logger.Debug("newer version available", "current", current, "latest", versions[len(versions)-1])
			return StatusOutdated, nil
		}
	}
	return StatusUpToDate, nil
}

// Invalidate discards the memoized status, the discovered artifacts, and
// any cached repository results, so the next call queries repositories again.
func (c *Checker) Invalidate() {
	c.statusMu.Lock()
	c.status = nil
	c.statusMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifacts = nil
	for _, r := range c.repos {
		if rs, ok := r.(Resetter); ok {
			rs.Reset()
		}
	}
}

func (c *Checker) artifact(repo Repository, v semver.Version) Artifact {
	return Artifact{
		Repository: repo,
		Group:      c.group,
		Name:       c.name,
		Version:    v,
		Classifier: c.classifier,
	}
}
