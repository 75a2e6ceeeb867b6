package core

import (
	"fmt"

	packageurl "github.com/package-url/packageurl-go"
)

// PURL wraps packageurl.PackageURL with repository-specific helpers.
type PURL struct {
	packageurl.PackageURL
}

// ParsePURL parses a Package URL string into its components.
func ParsePURL(purl string) (*PURL, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return nil, err
	}
	return &PURL{p}, nil
}

// RepositoryURL returns the repository_url qualifier, or "".
func (p PURL) RepositoryURL() string {
	return p.Qualifiers.Map()["repository_url"]
}

// FormatPURL renders a PURL for kind/group/name@version. repositoryURL is
// added as a qualifier unless it is empty or the kind's default.
func FormatPURL(kind, group, name, version, repositoryURL string) string {
	var qualifiers packageurl.Qualifiers
	if repositoryURL != "" && repositoryURL != DefaultURL(kind) {
		qualifiers = packageurl.QualifiersFromMap(map[string]string{"repository_url": repositoryURL})
	}
	return packageurl.NewPackageURL(kind, group, name, version, qualifiers, "").ToString()
}

// NewChecker creates a checker for the PURL's coordinates with its version
// as the current version. No repository is added.
func (p PURL) NewChecker(opts ...CheckerOption) (*Checker, error) {
	if err := p.checkable(); err != nil {
		return nil, err
	}
	if classifier := p.Qualifiers.Map()["classifier"]; classifier != "" {
		opts = append(opts, WithClassifier(classifier))
	}
	return NewChecker(p.Namespace, p.Name, p.Version, opts...), nil
}

func (p PURL) checkable() error {
	if p.Version == "" {
		return fmt.Errorf("PURL has no version: %s", p.ToString())
	}
	if p.Namespace == "" {
		return fmt.Errorf("PURL has no namespace: %s", p.ToString())
	}
	return nil
}

// NewCheckerFromPURL creates a checker from a versioned PURL such as
// pkg:maven/com.example/app@1.2.0. The version is the current version. A
// repository of the PURL's type is added, using the repository_url
// qualifier as its base URL if present.
func NewCheckerFromPURL(purl string, transport Transport, opts ...CheckerOption) (*Checker, error) {
	p, err := ParsePURL(purl)
	if err != nil {
		return nil, err
	}
	if err := p.checkable(); err != nil {
		return nil, err
	}

	repo, err := NewRepository(p.Type, "", p.RepositoryURL(), transport)
	if err != nil {
		return nil, err
	}
	return p.NewChecker(append([]CheckerOption{WithRepositories(repo)}, opts...)...)
}
