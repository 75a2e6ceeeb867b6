// Package maven provides a repository for Maven-layout servers, reading the
// versions of an artifact from its maven-metadata.xml.
package maven

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/git-pkgs/updatecheck/internal/core"
	"github.com/git-pkgs/updatecheck/internal/semver"
)

const (
	DefaultURL   = "https://repo1.maven.org/maven2"
	kind         = "maven"
	metadataFile = "maven-metadata.xml"
)

var versionLine = regexp.MustCompile(`^\s*<version>(.+)</version>\s*$`)

func init() {
	core.Register(kind, DefaultURL, func(name, baseURL string, transport core.Transport) core.Repository {
		return New(name, baseURL, transport)
	})
}

// Repository is a Maven repository. It keeps the result of its last
// successful ListVersions so that MostRecentVersion for the same coordinates
// needs no second request. That single slot is replaced by every query, so
// concurrent queries for different artifacts should use separate instances.
type Repository struct {
	name      string
	baseURL   string
	transport core.Transport
	urls      *URLs

	mu   sync.Mutex
	last *listing
}

type listing struct {
	group    string
	artifact string
	versions []semver.Version
}

// New creates a Maven repository. If baseURL is empty, Maven Central is used.
func New(name, baseURL string, transport core.Transport) *Repository {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if transport == nil {
		transport = core.DefaultClient()
	}
	r := &Repository{
		name:      name,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: transport,
	}
	r.urls = &URLs{baseURL: r.baseURL}
	return r
}

func (r *Repository) Kind() string {
	return kind
}

func (r *Repository) Name() string {
	return r.name
}

func (r *Repository) Location() string {
	return r.baseURL
}

func (r *Repository) URLs() core.URLBuilder {
	return r.urls
}

func (r *Repository) String() string {
	return fmt.Sprintf("%s (%s)", r.name, r.baseURL)
}

// ListVersions fetches maven-metadata.xml for group:artifact and returns its
// versions sorted ascending. Any unparseable version fails the whole call.
func (r *Repository) ListVersions(ctx context.Context, group, artifact string) ([]semver.Version, error) {
	metadataURL := r.urls.Metadata(group + ":" + artifact)
	if err := core.ValidateLocation(metadataURL); err != nil {
		return nil, err
	}

	body, err := r.transport.GetBody(ctx, metadataURL)
	if err != nil {
		return nil, &core.UnavailableError{Repository: r.name, URL: metadataURL, Err: err}
	}

	versions, err := ParseMetadata(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", r.name, metadataURL, err)
	}

	r.mu.Lock()
	r.last = &listing{group: group, artifact: artifact, versions: versions}
	r.mu.Unlock()

	return versions, nil
}

// MostRecentVersion returns the newest version of group:artifact, reusing
// the last listing when it was for the same coordinates.
func (r *Repository) MostRecentVersion(ctx context.Context, group, artifact string) (*semver.Version, error) {
	r.mu.Lock()
	last := r.last
	r.mu.Unlock()

	var versions []semver.Version
	if last != nil && last.group == group && last.artifact == artifact {
		versions = last.versions
	} else {
		var err error
		versions, err = r.ListVersions(ctx, group, artifact)
		if err != nil {
			return nil, err
		}
	}

	if v, ok := semver.Max(versions); ok {
		return &v, nil
	}
	return nil, nil
}

// Reset drops the cached listing.
func (r *Repository) Reset() {
	r.mu.Lock()
	r.last = nil
	r.mu.Unlock()
}

// ParseMetadata extracts every <version> line from a metadata document and
// returns the versions sorted ascending by build-aware order.
func ParseMetadata(body []byte) ([]semver.Version, error) {
	var versions []semver.Version
	for _, line := range strings.Split(string(body), "\n") {
		m := versionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := semver.Parse(m[1])
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	semver.Sort(versions)
	return versions, nil
}

// ParseCoordinates splits "group:artifact[:version]". Input without a colon
// yields empty strings.
func ParseCoordinates(s string) (group, artifact, version string) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return "", "", ""
	}
	group, artifact = parts[0], parts[1]
	if len(parts) == 3 {
		version = parts[2]
	}
	return group, artifact, version
}

// URLs builds Maven repository URLs. Names are "group:artifact", optionally
// followed by ":classifier" for downloads.
type URLs struct {
	baseURL string
}

func (u *URLs) groupPath(name string) (path, artifact, classifier string) {
	parts := strings.SplitN(name, ":", 3)
	if len(parts) < 2 {
		return "", name, ""
	}
	if len(parts) == 3 {
		classifier = parts[2]
	}
	return strings.ReplaceAll(parts[0], ".", "/"), parts[1], classifier
}

func (u *URLs) Metadata(name string) string {
	path, artifact, _ := u.groupPath(name)
	return fmt.Sprintf("%s/%s/%s/%s", u.baseURL, path, artifact, metadataFile)
}

func (u *URLs) Registry(name, version string) string {
	path, artifact, _ := u.groupPath(name)
	if version == "" {
		return fmt.Sprintf("%s/%s/%s/", u.baseURL, path, artifact)
	}
	return fmt.Sprintf("%s/%s/%s/%s/", u.baseURL, path, artifact, version)
}

func (u *URLs) Download(name, version string) string {
	if version == "" {
		return ""
	}
	path, artifact, classifier := u.groupPath(name)
	file := artifact + "-" + version
	if classifier != "" {
		file += "-" + classifier
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s.jar", u.baseURL, path, artifact, version, file)
}

func (u *URLs) Documentation(name, version string) string {
	if u.baseURL != DefaultURL {
		return ""
	}
	group, artifact, _ := ParseCoordinates(name)
	if group == "" {
		return ""
	}
	if version == "" {
		return fmt.Sprintf("https://javadoc.io/doc/%s/%s", group, artifact)
	}
	return fmt.Sprintf("https://javadoc.io/doc/%s/%s/%s", group, artifact, version)
}

func (u *URLs) PURL(name, version string) string {
	group, artifact, _ := ParseCoordinates(name)
	return core.FormatPURL(kind, group, artifact, version, u.baseURL)
}
