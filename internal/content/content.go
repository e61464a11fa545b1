// Package content holds the portfolio's static records: profile, roles,
// projects, skills, certifications and contact links.
//
// Records are decoded once from YAML and never mutated afterwards. Order in
// the document is their only identity.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDoc []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid content")

type Site struct {
	Meta           Meta            `yaml:"meta" json:"meta"`
	Profile        Profile         `yaml:"profile" json:"profile"`
	Roles          []Role          `yaml:"roles" json:"roles"`
	Sections       []Section       `yaml:"sections" json:"sections"`
	Projects       []Project       `yaml:"projects" json:"projects"`
	Skills         []SkillCategory `yaml:"skills" json:"skills"`
	Certifications []Certification `yaml:"certifications" json:"certifications"`
	Contact        Contact         `yaml:"contact" json:"contact"`
}

// Meta is document-level metadata for search engines and link previews.
type Meta struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Author      string   `yaml:"author" json:"author"`
	URL         string   `yaml:"url" json:"url"`
	SiteName    string   `yaml:"site_name" json:"site_name"`
	Image       string   `yaml:"image" json:"image"`
	Locale      string   `yaml:"locale" json:"locale"`
}

type Profile struct {
	Name       string      `yaml:"name" json:"name"`
	Photo      string      `yaml:"photo" json:"photo"`
	Email      string      `yaml:"email" json:"email"`
	Resume     string      `yaml:"resume" json:"resume"`
	Summary    string      `yaml:"summary" json:"summary"` // markdown
	Highlights []Highlight `yaml:"highlights" json:"highlights"`
}

type Highlight struct {
	Title string `yaml:"title" json:"title"`
	Icon  string `yaml:"icon" json:"icon"`
	Body  string `yaml:"body" json:"body"` // markdown
}

type Role struct {
	Title string `yaml:"title" json:"title"`
	Icon  string `yaml:"icon" json:"icon"`
}

// Section is an addressable block of the page.
type Section struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type Project struct {
	Title  string   `yaml:"title" json:"title"`
	Date   string   `yaml:"date" json:"date"`
	Icon   string   `yaml:"icon" json:"icon"`
	Tech   string   `yaml:"tech" json:"tech"`
	Points []string `yaml:"points" json:"points"`
}

type SkillCategory struct {
	Title  string  `yaml:"title" json:"title"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Proficiency int    `yaml:"proficiency" json:"proficiency"`
}

type Certification struct {
	Title string `yaml:"title" json:"title"`
	Org   string `yaml:"org" json:"org"`
	Slug  string `yaml:"slug" json:"slug"`
	Link  string `yaml:"link" json:"link"`
	Logo  string `yaml:"logo" json:"logo"`
}

type Contact struct {
	Heading string       `yaml:"heading" json:"heading"`
	Blurb   string       `yaml:"blurb" json:"blurb"`
	Links   []SocialLink `yaml:"links" json:"links"`
}

type SocialLink struct {
	Label string `yaml:"label" json:"label"`
	Slug  string `yaml:"slug" json:"slug"`
	Href  string `yaml:"href" json:"href"`
	Icon  string `yaml:"icon" json:"icon"`
}

// Link is an outbound hyperlink addressable by slug.
type Link struct {
	Slug  string
	Label string
	URL   string
}

// Default returns the compiled-in site.
func Default() (*Site, error) {
	return Parse(defaultDoc)
}

// Load reads a site document from path. An empty path yields Default.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

// Parse decodes and validates a YAML site document. Unknown keys are
// rejected so typos surface instead of silently dropping content.
func Parse(data []byte) (*Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var site Site
	if err := dec.Decode(&site); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks the invariants renderers rely on.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Profile.Name) == "" {
		return fmt.Errorf("%w: profile name is required", ErrInvalid)
	}
	if len(s.Sections) == 0 {
		return fmt.Errorf("%w: at least one section is required", ErrInvalid)
	}
	seen := map[string]bool{}
	for i, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalid, i)
		}
		if seen[sec.ID] {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalid, sec.ID)
		}
		seen[sec.ID] = true
	}
	if len(s.Roles) == 0 {
		return fmt.Errorf("%w: at least one role is required", ErrInvalid)
	}
	for _, cat := range s.Skills {
		for _, sk := range cat.Skills {
			if sk.Proficiency < 0 || sk.Proficiency > 100 {
				return fmt.Errorf("%w: skill %q proficiency %d out of range", ErrInvalid, sk.Name, sk.Proficiency)
			}
		}
	}

	slugs := map[string]bool{}
	for _, l := range s.Links() {
		if slugs[l.Slug] {
			return fmt.Errorf("%w: duplicate link slug %q", ErrInvalid, l.Slug)
		}
		slugs[l.Slug] = true
		if err := checkLink(l.URL); err != nil {
			return fmt.Errorf("%w: link %q: %v", ErrInvalid, l.Slug, err)
		}
	}
	return nil
}

func checkLink(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("missing host")
		}
	case "mailto":
		if u.Opaque == "" {
			return fmt.Errorf("missing address")
		}
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

// SectionIDs returns section identifiers in page order.
func (s *Site) SectionIDs() []string {
	ids := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		ids[i] = sec.ID
	}
	return ids
}

// HasSection reports whether id names a section.
func (s *Site) HasSection(id string) bool {
	for _, sec := range s.Sections {
		if sec.ID == id {
			return true
		}
	}
	return false
}

// RoleTitles returns the rotating role labels.
func (s *Site) RoleTitles() []string {
	titles := make([]string, len(s.Roles))
	for i, r := range s.Roles {
		titles[i] = r.Title
	}
	return titles
}

// Links returns every outbound link that can be tracked by slug: the
// resume, the contact links and the certifications, in that order.
func (s *Site) Links() []Link {
	var links []Link
	if s.Profile.Resume != "" {
		links = append(links, Link{Slug: "resume", Label: "Resume", URL: s.Profile.Resume})
	}
	for _, l := range s.Contact.Links {
		links = append(links, Link{Slug: slugOr(l.Slug, l.Label), Label: l.Label, URL: l.Href})
	}
	for _, c := range s.Certifications {
		links = append(links, Link{Slug: slugOr(c.Slug, c.Title), Label: c.Title, URL: c.Link})
	}
	return links
}

// LinkBySlug finds an outbound link.
func (s *Site) LinkBySlug(slug string) (Link, bool) {
	for _, l := range s.Links() {
		if l.Slug == slug {
			return l, true
		}
	}
	return Link{}, false
}

func slugOr(slug, label string) string {
	if slug != "" {
		return slug
	}
	return Slugify(label)
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// Marshal encodes the site back to YAML.
func (s *Site) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
