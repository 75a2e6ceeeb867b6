package semver

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input     string
		wantMajor uint64
		wantMinor uint64
		wantPatch uint64
		wantPre   []string
		wantBuild []string
	}{
		{"0.0.0", 0, 0, 0, nil, nil},
		{"1.2.3", 1, 2, 3, nil, nil},
		{"10.20.30", 10, 20, 30, nil, nil},
		{"1.0.0-alpha", 1, 0, 0, []string{"alpha"}, nil},
		{"1.0.0-alpha.1", 1, 0, 0, []string{"alpha", "1"}, nil},
		{"1.0.0+20130313144700", 1, 0, 0, nil, []string{"20130313144700"}},
		{"1.0.0-beta+exp.sha.5114f85", 1, 0, 0, []string{"beta"}, []string{"exp", "sha", "5114f85"}},
		{"1.0.0+build-1", 1, 0, 0, nil, []string{"build-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if v.Major() != tt.wantMajor || v.Minor() != tt.wantMinor || v.Patch() != tt.wantPatch {
				t.Errorf("Parse(%q) = %d.%d.%d, want %d.%d.%d", tt.input,
					v.Major(), v.Minor(), v.Patch(), tt.wantMajor, tt.wantMinor, tt.wantPatch)
			}
			if !slices.Equal(v.Prerelease(), tt.wantPre) {
				t.Errorf("Prerelease() = %v, want %v", v.Prerelease(), tt.wantPre)
			}
			if !slices.Equal(v.Build(), tt.wantBuild) {
				t.Errorf("Build() = %v, want %v", v.Build(), tt.wantBuild)
			}
			if v.String() != tt.input {
				t.Errorf("String() = %q, want %q", v.String(), tt.input)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"",
		"1",
		"1.0",
		"v1.0.0",
		"1.0.0.0",
		"01.0.0",
		"1.0.0-",
		"1.0.0+",
		"1.0.0-alpha..1",
		"1.0.0+build..1",
		"a.b.c",
		"-1.0.0",
		" 1.0.0",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", input)
			}
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidFormat", input, err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Text != input {
				t.Errorf("Parse(%q) error = %#v, want *FormatError with text", input, err)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on malformed input")
		}
	}()
	MustParse("not-a-version")
}

func TestPrereleaseOrdering(t *testing.T) {
	ordered := []string{
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-alpha.beta",
		"1.0.0-beta",
		"1.0.0-beta.2",
		"1.0.0-beta.11",
		"1.0.0-rc.1",
		"1.0.0",
	}

	for i := 0; i < len(ordered)-1; i++ {
		a, b := MustParse(ordered[i]), MustParse(ordered[i+1])
		if CompareStrict(a, b) >= 0 {
			t.Errorf("CompareStrict(%s, %s) = %d, want < 0", a, b, CompareStrict(a, b))
		}
		if Compare(a, b) >= 0 {
			t.Errorf("Compare(%s, %s) = %d, want < 0", a, b, Compare(a, b))
		}
		if !b.GreaterThan(a) {
			t.Errorf("%s.GreaterThan(%s) = false", b, a)
		}
	}
}

func TestNumericFieldOrdering(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "2.0.0", -1},
		{"2.0.0", "2.1.0", -1},
		{"2.1.0", "2.1.1", -1},
		{"1.10.0", "1.9.0", 1},
		{"1.0.0", "1.0.0", 0},
	}

	for _, tt := range tests {
		got := Compare(MustParse(tt.a), MustParse(tt.b))
		if got != tt.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStrictIgnoresBuild(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"1.0.0+1", "1.0.0+2"},
		{"1.0.0", "1.0.0+build"},
		{"1.0.0-rc.1+a", "1.0.0-rc.1+b.1"},
	}

	for _, tt := range tests {
		a, b := MustParse(tt.a), MustParse(tt.b)
		if got := CompareStrict(a, b); got != 0 {
			t.Errorf("CompareStrict(%s, %s) = %d, want 0", a, b, got)
		}
		if got := Compare(a, b); got == 0 {
			t.Errorf("Compare(%s, %s) = 0, want non-zero", a, b)
		}
		if a.Equal(b) {
			t.Errorf("%s.Equal(%s) = true", a, b)
		}
	}
}

func TestBuildAwareOrdering(t *testing.T) {
	ordered := []string{
		"1.0.0-rc.1",
		"1.0.0",
		"1.0.0+1",
		"1.0.0+2",
		"1.0.0+10",
		"1.0.0+10.1",
		"1.0.0+alpha",
		"1.0.1",
		"1.0.1+0",
	}

	for i := 0; i < len(ordered)-1; i++ {
		a, b := MustParse(ordered[i]), MustParse(ordered[i+1])
		if Compare(a, b) >= 0 {
			t.Errorf("Compare(%s, %s) = %d, want < 0", a, b, Compare(a, b))
		}
	}
}

func TestCompareTotalOrder(t *testing.T) {
	inputs := []string{
		"0.1.0", "1.0.0", "1.0.0+1", "1.0.0+01", "1.0.0+a", "1.0.0-alpha",
		"1.0.0-alpha+z", "1.0.0-alpha.1", "1.0.0-beta.11", "1.0.0-beta.2",
		"2.0.0", "2.0.0+x.y", "1.10.0", "1.9.9",
	}
	versions := make([]Version, 0, len(inputs))
	for _, in := range inputs {
		versions = append(versions, MustParse(in))
	}

	for _, a := range versions {
		if Compare(a, a) != 0 {
			t.Errorf("Compare(%s, %s) != 0", a, a)
		}
		for _, b := range versions {
			ab, ba := Compare(a, b), Compare(b, a)
			if ab != -ba {
				t.Errorf("Compare not antisymmetric for %s, %s: %d vs %d", a, b, ab, ba)
			}
			if ab == 0 && a != b {
				t.Errorf("Compare(%s, %s) = 0 for distinct values", a, b)
			}
			for _, c := range versions {
				if ab < 0 && Compare(b, c) < 0 && Compare(a, c) >= 0 {
					t.Errorf("Compare not transitive for %s < %s < %s", a, b, c)
				}
			}
		}
	}
}

func TestSortAndMax(t *testing.T) {
	versions := []Version{
		MustParse("2.0.0"),
		MustParse("1.0.0-beta"),
		MustParse("1.0.0+b"),
		MustParse("1.0.0"),
		MustParse("0.9.0"),
	}

	Sort(versions)

	want := []string{"0.9.0", "1.0.0-beta", "1.0.0", "1.0.0+b", "2.0.0"}
	for i, v := range versions {
		if v.String() != want[i] {
			t.Errorf("versions[%d] = %s, want %s", i, v, want[i])
		}
	}

	max, ok := Max(versions)
	if !ok || max.String() != "2.0.0" {
		t.Errorf("Max() = %s, %v, want 2.0.0, true", max, ok)
	}

	variant, ok := Max([]Version{MustParse("1.0.0+build.5"), MustParse("1.0.0"), MustParse("1.0.0+build.1")})
	if !ok || variant.String() != "1.0.0+build.5" {
		t.Errorf("Max() = %s, %v, want 1.0.0+build.5, true", variant, ok)
	}

	if _, ok := Max(nil); ok {
		t.Error("Max(nil) ok = true, want false")
	}
}

func TestVersionAsMapKey(t *testing.T) {
	seen := map[Version]int{}
	for _, in := range []string{"1.0.0", "1.0.0", "1.0.0+b", "1.0.0-rc.1"} {
		seen[MustParse(in)]++
	}
	if len(seen) != 3 {
		t.Errorf("len(seen) = %d, want 3", len(seen))
	}
	if seen[MustParse("1.0.0")] != 2 {
		t.Errorf("seen[1.0.0] = %d, want 2", seen[MustParse("1.0.0")])
	}
}
