package core

import (
	"strings"
	"testing"
)

func TestParsePURL(t *testing.T) {
	tests := []struct {
		input    string
		wantType string
		wantNS   string
		wantName string
		wantVer  string
		wantRepo string
		wantErr  bool
	}{
		{"pkg:maven/org.apache.commons/commons-lang3", "maven", "org.apache.commons", "commons-lang3", "", "", false},
		{"pkg:maven/org.apache.commons/commons-lang3@3.12.0", "maven", "org.apache.commons", "commons-lang3", "3.12.0", "", false},
		{"pkg:maven/foo/bar@1.0.0?repository_url=https://nexus.example.com/releases", "maven", "foo", "bar", "1.0.0", "https://nexus.example.com/releases", false},
		{"pkg:maven/foo/bar@1.0.0?classifier=linux64", "maven", "foo", "bar", "1.0.0", "", false},

		// Errors
		{"maven/foo/bar", "", "", "", "", "", true}, // missing pkg: prefix
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if p.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", p.Type, tt.wantType)
			}
			if p.Namespace != tt.wantNS {
				t.Errorf("Namespace = %q, want %q", p.Namespace, tt.wantNS)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if p.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", p.Version, tt.wantVer)
			}
			if p.RepositoryURL() != tt.wantRepo {
				t.Errorf("RepositoryURL() = %q, want %q", p.RepositoryURL(), tt.wantRepo)
			}
		})
	}
}

func TestFormatPURL(t *testing.T) {
	if got := FormatPURL(fakeKind, "foo", "bar", "1.0.0", ""); got != "pkg:fake/foo/bar@1.0.0" {
		t.Errorf("FormatPURL() = %q", got)
	}
	if got := FormatPURL(fakeKind, "foo", "bar", "1.0.0", DefaultURL(fakeKind)); got != "pkg:fake/foo/bar@1.0.0" {
		t.Errorf("FormatPURL(default repo) = %q, want no qualifier", got)
	}

	got := FormatPURL(fakeKind, "foo", "bar", "1.0.0", "https://nexus.example.com/releases")
	if !strings.HasPrefix(got, "pkg:fake/foo/bar@1.0.0?repository_url=") {
		t.Fatalf("FormatPURL(custom repo) = %q", got)
	}
	p, err := ParsePURL(got)
	if err != nil {
		t.Fatalf("ParsePURL(%q) error = %v", got, err)
	}
	if p.RepositoryURL() != "https://nexus.example.com/releases" {
		t.Errorf("RepositoryURL() = %q", p.RepositoryURL())
	}
}

func TestNewCheckerFromPURL(t *testing.T) {
	c, err := NewCheckerFromPURL("pkg:fake/foo/bar@0.4.0?classifier=linux64&repository_url=https://mirror.example.com/repo", nil)
	if err != nil {
		t.Fatalf("NewCheckerFromPURL error = %v", err)
	}
	if c.Group() != "foo" || c.Name() != "bar" || c.CurrentVersion() != "0.4.0" {
		t.Errorf("checker = %s:%s:%s", c.Group(), c.Name(), c.CurrentVersion())
	}
	if c.Classifier() != "linux64" {
		t.Errorf("Classifier() = %q, want linux64", c.Classifier())
	}

	repos := c.Repositories()
	if len(repos) != 1 {
		t.Fatalf("expected 1 repository, got %d", len(repos))
	}
	if repos[0].Location() != "https://mirror.example.com/repo" {
		t.Errorf("Location() = %q", repos[0].Location())
	}
}

func TestNewCheckerFromPURLDefaultRepository(t *testing.T) {
	c, err := NewCheckerFromPURL("pkg:fake/foo/bar@1.0.0", nil)
	if err != nil {
		t.Fatalf("NewCheckerFromPURL error = %v", err)
	}
	repos := c.Repositories()
	if len(repos) != 1 || repos[0].Location() != DefaultURL(fakeKind) {
		t.Errorf("repositories = %v", repos)
	}
}

func TestNewCheckerFromPURLErrors(t *testing.T) {
	tests := []string{
		"not a purl",
		"pkg:fake/foo/bar",          // no version
		"pkg:fake/bar@1.0.0",        // no namespace
		"pkg:unknown/foo/bar@1.0.0", // unregistered kind
	}
	for _, purl := range tests {
		t.Run(purl, func(t *testing.T) {
			if _, err := NewCheckerFromPURL(purl, nil); err == nil {
				t.Errorf("NewCheckerFromPURL(%q) expected error", purl)
			}
		})
	}
}

func TestPURLNewChecker(t *testing.T) {
	p, err := ParsePURL("pkg:fake/foo/bar@0.4.0?classifier=linux64&repository_url=https://mirror.example.com/repo")
	if err != nil {
		t.Fatal(err)
	}
	repo := newFakeRepo("override", fooBar("1.0.0"))

	c, err := p.NewChecker(WithRepositories(repo))
	if err != nil {
		t.Fatalf("NewChecker error = %v", err)
	}
	if c.Group() != "foo" || c.Name() != "bar" || c.CurrentVersion() != "0.4.0" || c.Classifier() != "linux64" {
		t.Errorf("checker = %s:%s:%s:%s", c.Group(), c.Name(), c.CurrentVersion(), c.Classifier())
	}
	repos := c.Repositories()
	if len(repos) != 1 || repos[0] != repo {
		t.Errorf("repositories = %v, want only the given repository", repos)
	}

	unversioned, err := ParsePURL("pkg:fake/foo/bar")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := unversioned.NewChecker(); err == nil {
		t.Error("NewChecker without version expected error")
	}
}
