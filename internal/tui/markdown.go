package tui

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdCodeBlockRe  = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	mdHeadingRe    = regexp.MustCompile(`<h[1-6][^>]*>(.*?)</h[1-6]>`)
	mdStrongRe     = regexp.MustCompile(`<strong>(.*?)</strong>`)
	mdEmRe         = regexp.MustCompile(`<em>(.*?)</em>`)
	mdInlineCodeRe = regexp.MustCompile(`<code>([^<]+)</code>`)
	mdListItemRe   = regexp.MustCompile(`<li>(.*?)</li>`)
	mdTagRe        = regexp.MustCompile(`<[^>]+>`)
	mdBlankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// MarkdownRenderer turns system replies (markdown) into styled terminal text.
// Rendering is a pure transform; it never touches workflow state.
type MarkdownRenderer struct {
	md      goldmark.Markdown
	heading lipgloss.Style
	strong  lipgloss.Style
	em      lipgloss.Style
	code    lipgloss.Style
}

func NewMarkdownRenderer(theme Theme) *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
		heading: theme.Title,
		strong:  lipgloss.NewStyle().Bold(true),
		em:      lipgloss.NewStyle().Italic(true),
		code:    lipgloss.NewStyle().Foreground(theme.Warn),
	}
}

// Render converts markdown to terminal text, highlighting fenced code blocks.
// On any conversion failure the raw content is returned unchanged.
func (r *MarkdownRenderer) Render(content string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	out := buf.String()

	out = mdCodeBlockRe.ReplaceAllStringFunc(out, func(block string) string {
		m := mdCodeBlockRe.FindStringSubmatch(block)
		lang, code := m[1], html.UnescapeString(m[2])
		return "\n" + highlightCode(code, lang) + "\n"
	})
	out = mdHeadingRe.ReplaceAllStringFunc(out, func(h string) string {
		m := mdHeadingRe.FindStringSubmatch(h)
		return r.heading.Render(mdTagRe.ReplaceAllString(m[1], "")) + "\n"
	})
	out = mdStrongRe.ReplaceAllStringFunc(out, func(s string) string {
		return r.strong.Render(mdStrongRe.FindStringSubmatch(s)[1])
	})
	out = mdEmRe.ReplaceAllStringFunc(out, func(s string) string {
		return r.em.Render(mdEmRe.FindStringSubmatch(s)[1])
	})
	out = mdInlineCodeRe.ReplaceAllStringFunc(out, func(s string) string {
		return r.code.Render(html.UnescapeString(mdInlineCodeRe.FindStringSubmatch(s)[1]))
	})
	out = mdListItemRe.ReplaceAllString(out, "  • $1\n")

	out = strings.ReplaceAll(out, "<br>", "\n")
	out = strings.ReplaceAll(out, "<br />", "\n")
	out = strings.ReplaceAll(out, "</p>", "\n")
	out = mdTagRe.ReplaceAllString(out, "")
	out = html.UnescapeString(out)
	out = mdBlankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

func highlightCode(code, lang string) string {
	if lang == "" {
		lang = "text"
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, strings.TrimRight(code, "\n"), lang, "terminal256", "monokai"); err != nil {
		return code
	}
	return buf.String()
}
