package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/manas300/portfolio/internal/content"
)

// markdownFunc renders a markdown fragment for the terminal.
type markdownFunc func(string) string

func newMarkdown(width int) markdownFunc {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return plainText(width)
	}
	return func(src string) string {
		out, err := r.Render(src)
		if err != nil {
			return plainText(width)(src)
		}
		return strings.Trim(out, "\n")
	}
}

func plainText(width int) markdownFunc {
	return func(src string) string {
		return lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(src))
	}
}

// renderBody lays the sections out top to bottom. Each section is padded to
// at least minHeight rows so every anchor can reach the top of the viewport.
func renderBody(site *content.Site, width, minHeight int, md markdownFunc) (string, map[string]anchor) {
	var lines []string
	anchors := make(map[string]anchor, len(site.Sections))

	for _, sec := range site.Sections {
		block := renderSection(site, sec, width, md)
		start := len(lines)
		lines = append(lines, strings.Split(block, "\n")...)
		for len(lines)-start < minHeight {
			lines = append(lines, "")
		}
		anchors[sec.ID] = anchor{start: start, end: len(lines)}
	}
	return strings.Join(lines, "\n"), anchors
}

func renderSection(site *content.Site, sec content.Section, width int, md markdownFunc) string {
	switch sec.ID {
	case "about":
		return renderAbout(site, width, md)
	case "portfolio", "projects":
		return renderProjects(site, width)
	case "skills":
		return renderSkills(site, width)
	case "contact":
		return renderContact(site, width)
	default:
		return heading.Render(sec.Label)
	}
}

func renderAbout(site *content.Site, width int, md markdownFunc) string {
	p := site.Profile
	var b strings.Builder
	b.WriteString(heading.Render(p.Name))
	b.WriteString("\n")

	var chips []string
	for _, r := range site.Roles {
		chips = append(chips, "["+r.Title+"]")
	}
	b.WriteString(muted.Width(width).Render(strings.Join(chips, " ")))
	b.WriteString("\n\n")
	b.WriteString(md(p.Summary))
	b.WriteString("\n")

	for _, h := range p.Highlights {
		b.WriteString("\n")
		b.WriteString(cardTitle.Render(h.Title))
		b.WriteString("\n")
		b.WriteString(md(h.Body))
		b.WriteString("\n")
	}
	if p.Resume != "" {
		b.WriteString("\n")
		b.WriteString(muted.Render("Resume: " + p.Resume))
	}
	return b.String()
}

func renderProjects(site *content.Site, width int) string {
	var b strings.Builder
	b.WriteString(heading.Render("Recent Projects"))
	b.WriteString("\n")
	wrap := lipgloss.NewStyle().Width(width - 4)
	for _, p := range site.Projects {
		b.WriteString(cardTitle.Render(p.Title))
		b.WriteString("  ")
		b.WriteString(muted.Render(p.Date))
		b.WriteString("\n")
		for _, pt := range p.Points {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  • ", wrap.Render(pt)))
			b.WriteString("\n")
		}
		b.WriteString(muted.Render("  " + p.Tech))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSkills(site *content.Site, width int) string {
	var b strings.Builder
	b.WriteString(heading.Render("Skills & Certifications"))
	b.WriteString("\n")
	barWidth := min(40, width-8)
	for _, cat := range site.Skills {
		b.WriteString(cardTitle.Render(cat.Title))
		b.WriteString("\n")
		for _, s := range cat.Skills {
			b.WriteString(lipgloss.NewStyle().Width(width).Render(s.Name))
			b.WriteString("\n")
			b.WriteString(progressBar(s.Proficiency, barWidth))
			b.WriteString(muted.Render(fmt.Sprintf(" %d%%", s.Proficiency)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(cardTitle.Render("Certifications"))
	b.WriteString("\n")
	for _, c := range site.Certifications {
		b.WriteString("  " + c.Title)
		b.WriteString(muted.Render(" · " + c.Org))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressBar(pct, width int) string {
	if width < 1 {
		return ""
	}
	filled := pct * width / 100
	return barFill.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}

func renderContact(site *content.Site, width int) string {
	var b strings.Builder
	b.WriteString(heading.Render(site.Contact.Heading))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(site.Contact.Blurb))
	b.WriteString("\n\n")
	for _, l := range site.Contact.Links {
		b.WriteString(cardTitle.Render(fmt.Sprintf("%-10s", l.Label)))
		b.WriteString(" ")
		b.WriteString(strings.TrimPrefix(l.Href, "mailto:"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
