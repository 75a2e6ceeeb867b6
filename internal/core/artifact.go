package core

import (
	"fmt"

	"github.com/git-pkgs/updatecheck/internal/semver"
)

// Artifact is a version of a package hosted on a specific repository.
// Compare artifacts with Equal; == panics when the Repository's dynamic type
// is not comparable.
type Artifact struct {
	Repository Repository
	Group      string
	Name       string
	Version    semver.Version
	Classifier string
}

// Coordinates returns group:name:version.
func (a Artifact) Coordinates() string {
	return fmt.Sprintf("%s:%s:%s", a.Group, a.Name, a.Version)
}

// Equal reports whether a and b are the same artifact on the same repository.
// Repositories match on kind, name and location.
func (a Artifact) Equal(b Artifact) bool {
	return a.Group == b.Group &&
		a.Name == b.Name &&
		a.Classifier == b.Classifier &&
		a.Version == b.Version &&
		sameRepository(a.Repository, b.Repository)
}

func sameRepository(r1, r2 Repository) bool {
	if r1 == nil || r2 == nil {
		return r1 == nil && r2 == nil
	}
	return r1.Kind() == r2.Kind() && r1.Name() == r2.Name() && r1.Location() == r2.Location()
}

// PackagedLocation returns the URL of the packaged output, e.g.
// {base}/{group path}/{name}/{version}/{name}-{version}.jar.
func (a Artifact) PackagedLocation() (string, error) {
	name := a.Group + ":" + a.Name
	if a.Classifier != "" {
		name += ":" + a.Classifier
	}
	loc := a.Repository.URLs().Download(name, a.Version.String())
	if loc == "" {
		return "", &LocationError{Location: a.Repository.Location(), Err: fmt.Errorf("%s repositories have no download location", a.Repository.Kind())}
	}
	if err := ValidateLocation(loc); err != nil {
		return "", err
	}
	return loc, nil
}

// PURL returns the package URL for this artifact.
func (a Artifact) PURL() string {
	return a.Repository.URLs().PURL(a.Group+":"+a.Name, a.Version.String())
}
