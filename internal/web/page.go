package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/manas300/portfolio/internal/config"
	"github.com/manas300/portfolio/internal/content"
	"github.com/manas300/portfolio/internal/viewctl"
)

type pageData struct {
	Site       *content.Site
	Summary    template.HTML
	Highlights []highlight
	View       viewOptions
	Year       int
}

type highlight struct {
	Title string
	Icon  string
	Body  template.HTML
}

// viewOptions is handed to static/app.js. It carries the same timings and
// thresholds the controller validates.
type viewOptions struct {
	Sections           []string `json:"sections"`
	Roles              []string `json:"roles"`
	SplashDelayMs      int64    `json:"splashDelayMs"`
	RotateIntervalMs   int64    `json:"rotateIntervalMs"`
	ScrollTopThreshold float64  `json:"scrollTopThreshold"`
	ActiveLine         float64  `json:"activeLine"`
	Smooth             bool     `json:"smooth"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify))

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// buildPage renders the immutable parts of the page once.
func buildPage(cfg *config.Config, site *content.Site) (*pageData, error) {
	opts, err := cfg.View.Options(site.SectionIDs(), len(site.Roles)).Normalize()
	if err != nil {
		return nil, fmt.Errorf("view options: %w", err)
	}

	summary, err := renderMarkdown(site.Profile.Summary)
	if err != nil {
		return nil, fmt.Errorf("rendering summary: %w", err)
	}
	highlights := make([]highlight, 0, len(site.Profile.Highlights))
	for _, h := range site.Profile.Highlights {
		body, err := renderMarkdown(h.Body)
		if err != nil {
			return nil, fmt.Errorf("rendering highlight %q: %w", h.Title, err)
		}
		highlights = append(highlights, highlight{Title: h.Title, Icon: h.Icon, Body: body})
	}

	return &pageData{
		Site:       site,
		Summary:    summary,
		Highlights: highlights,
		View: viewOptions{
			Sections:           opts.Sections,
			Roles:              site.RoleTitles(),
			SplashDelayMs:      opts.SplashDelay.Milliseconds(),
			RotateIntervalMs:   opts.RotateInterval.Milliseconds(),
			ScrollTopThreshold: opts.ScrollTopThreshold,
			ActiveLine:         opts.ActiveLine,
			Smooth:             opts.Behavior == viewctl.Smooth,
		},
	}, nil
}
