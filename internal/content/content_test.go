package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	want := []string{"about", "portfolio", "skills", "contact"}
	got := site.SectionIDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("SectionIDs = %v, want %v", got, want)
	}
	if n := len(site.RoleTitles()); n != 3 {
		t.Errorf("roles = %d, want 3", n)
	}
	if len(site.Projects) != 3 || len(site.Certifications) != 3 {
		t.Errorf("projects=%d certifications=%d", len(site.Projects), len(site.Certifications))
	}
	if !site.HasSection("skills") || site.HasSection("research") {
		t.Error("HasSection mismatch")
	}
}

func TestLinks(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	l, ok := site.LinkBySlug("email")
	if !ok || l.URL != "mailto:msingh23@stevens.edu" {
		t.Errorf("email link = %+v, %v", l, ok)
	}
	if _, ok := site.LinkBySlug("resume"); !ok {
		t.Error("resume link missing")
	}
	if _, ok := site.LinkBySlug("aws-saa"); !ok {
		t.Error("certification link missing")
	}
	if _, ok := site.LinkBySlug("nope"); ok {
		t.Error("unknown slug resolved")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Site {
		s, err := Default()
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	tests := []struct {
		name   string
		mutate func(*Site)
	}{
		{"no name", func(s *Site) { s.Profile.Name = " " }},
		{"no sections", func(s *Site) { s.Sections = nil }},
		{"duplicate section", func(s *Site) { s.Sections = append(s.Sections, s.Sections[0]) }},
		{"empty section id", func(s *Site) { s.Sections[1].ID = "" }},
		{"no roles", func(s *Site) { s.Roles = nil }},
		{"proficiency", func(s *Site) { s.Skills[0].Skills[0].Proficiency = 101 }},
		{"bad scheme", func(s *Site) { s.Contact.Links[1].Href = "javascript:alert(1)" }},
		{"no host", func(s *Site) { s.Certifications[0].Link = "https://" }},
		{"duplicate slug", func(s *Site) { s.Certifications[1].Slug = "github" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			if err := s.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadRoundTripsThroughFile(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	site.Profile.Name = "Someone Else"
	data, err := site.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "site.yml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Profile.Name != "Someone Else" {
		t.Errorf("name = %q", loaded.Profile.Name)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	doc := "profile:\n  name: A\n  nmae: typo\n"
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"LinkedIn":                          "linkedin",
		"AWS Solutions Architect Associate": "aws-solutions-architect-associate",
		"  Career -- Essentials!  ":         "career-essentials",
	} {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
