// Package html is the HTML back-end of the rendering framework. It renders
// the standard library modifiers, collects notes into a trailing section,
// and resolves asset URLs through an injected transform.
package html

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/render"
)

// Options configures the HTML back-end.
type Options struct {
	// TransformAsset maps an asset URL to its servable form. Returning
	// ok=false keeps the URL as written.
	TransformAsset func(url string) (string, bool)

	// DetectLanguage enables content-based language detection for code
	// blocks without an explicit language argument.
	DetectLanguage bool
}

// stateKey indexes the back-end's side-channel in the render state.
var stateKey = doc.NewStoreKey("html.state")

type noteEntry struct {
	name string
	body string
}

type docState struct {
	opts      Options
	notes     []noteEntry
	noteIndex map[string]int
	cssVars   map[string]string
}

func stateOf(st *render.State[string]) *docState {
	return render.StateGetOrInit(st, stateKey, func() *docState {
		return &docState{noteIndex: make(map[string]int), cssVars: make(map[string]string)}
	})
}

// SetCSSVar records a CSS custom property emitted with the document
// stylesheet.
func SetCSSVar(st *render.State[string], name, value string) {
	stateOf(st).cssVars[name] = value
}

// noteNumber assigns stable 1-based numbers in order of first mention.
func (d *docState) noteNumber(name string) int {
	if n, ok := d.noteIndex[name]; ok {
		return n
	}
	n := len(d.noteIndex) + 1
	d.noteIndex[name] = n
	return n
}

// NewConfiguration builds the renderer configuration for documents parsed
// against cfg. Renderers are keyed by the definition identities found in
// cfg, so the configuration must be the one the document was parsed with.
func NewConfiguration(cfg *doc.Configuration, opts Options) *render.Configuration[string] {
	rc := render.NewConfiguration[string]()

	rc.Join = func(parts []string) string { return strings.Join(parts, "") }
	rc.Text = func(_ *render.State[string], n *doc.Text) string {
		return html.EscapeString(n.Content)
	}
	rc.Escaped = func(_ *render.State[string], n *doc.Escaped) string {
		return html.EscapeString(n.Content)
	}
	rc.Paragraph = func(st *render.State[string], _ *doc.Paragraph, children []string) string {
		return "<p>" + strings.Join(children, "") + "</p>\n"
	}
	rc.Preformatted = func(st *render.State[string], n *doc.Preformatted) string {
		return renderCode(st, "", n.Content.Text, opts)
	}
	rc.InvalidBlock = func(_ *render.State[string], n *doc.BlockModifier, reason string) string {
		return fmt.Sprintf("<div class=\"emmm-invalid\" title=%q></div>\n", reason)
	}
	rc.InvalidInline = func(_ *render.State[string], n *doc.InlineModifier, reason string) string {
		return fmt.Sprintf("<span class=\"emmm-invalid\" title=%q></span>", reason)
	}

	if def, ok := cfg.BlockModifiers.Get("heading"); ok {
		rc.SetBlockRenderer(def, renderHeading)
	}
	if def, ok := cfg.BlockModifiers.Get("quote"); ok {
		rc.SetBlockRenderer(def, func(st *render.State[string], n *doc.BlockModifier) string {
			return "<blockquote>\n" + st.RenderBlocks(n.Content) + "</blockquote>\n"
		})
	}
	if def, ok := cfg.BlockModifiers.Get("code"); ok {
		rc.SetBlockRenderer(def, func(st *render.State[string], n *doc.BlockModifier) string {
			lang := ""
			if len(n.Arguments) > 0 && n.Arguments[0].Resolved {
				lang = n.Arguments[0].Expansion
			}
			return renderCode(st, lang, preText(n.Content), opts)
		})
	}
	if def, ok := cfg.BlockModifiers.Get("note"); ok {
		rc.SetBlockRenderer(def, func(st *render.State[string], n *doc.BlockModifier) string {
			ds := stateOf(st)
			name := ""
			if len(n.Arguments) > 0 && n.Arguments[0].Resolved {
				name = n.Arguments[0].Expansion
			}
			ds.noteNumber(name)
			ds.notes = append(ds.notes, noteEntry{name: name, body: st.RenderBlocks(n.Content)})
			return ""
		})
	}

	if def, ok := cfg.InlineModifiers.Get("emph"); ok {
		rc.SetInlineRenderer(def, inlineWrapper("em"))
	}
	if def, ok := cfg.InlineModifiers.Get("bold"); ok {
		rc.SetInlineRenderer(def, inlineWrapper("strong"))
	}
	if def, ok := cfg.InlineModifiers.Get("code"); ok {
		rc.SetInlineRenderer(def, inlineWrapper("code"))
	}
	if def, ok := cfg.InlineModifiers.Get("br"); ok {
		rc.SetInlineRenderer(def, func(_ *render.State[string], _ *doc.InlineModifier) string {
			return "<br/>"
		})
	}
	if def, ok := cfg.InlineModifiers.Get("link"); ok {
		rc.SetInlineRenderer(def, func(st *render.State[string], n *doc.InlineModifier) string {
			href := ""
			if len(n.Arguments) > 0 && n.Arguments[0].Resolved {
				href = n.Arguments[0].Expansion
			}
			if opts.TransformAsset != nil {
				if v, ok := opts.TransformAsset(href); ok {
					href = v
				}
			}
			return fmt.Sprintf("<a href=%q>%s</a>",
				href, st.RenderInlines(n.Content))
		})
	}
	if def, ok := cfg.InlineModifiers.Get("note"); ok {
		rc.SetInlineRenderer(def, func(st *render.State[string], n *doc.InlineModifier) string {
			name := ""
			if len(n.Arguments) > 0 && n.Arguments[0].Resolved {
				name = n.Arguments[0].Expansion
			}
			num := stateOf(st).noteNumber(name)
			return fmt.Sprintf("<sup><a href=\"#note-%d\">[%d]</a></sup>", num, num)
		})
	}

	return rc
}

// NewState creates a render state bound to opts.
func NewState(rc *render.Configuration[string], opts Options) *render.State[string] {
	st := render.NewState(rc)
	stateOf(st).opts = opts
	return st
}

// RenderDocument renders the document body followed by the collected notes
// section and preceded by the accumulated stylesheet, if any.
func RenderDocument(d *doc.Document, st *render.State[string]) string {
	body := st.Render(d)
	ds := stateOf(st)

	var b strings.Builder
	if len(ds.cssVars) > 0 {
		names := make([]string, 0, len(ds.cssVars))
		for name := range ds.cssVars {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("<style>:root{")
		for _, name := range names {
			fmt.Fprintf(&b, "--%s:%s;", name, ds.cssVars[name])
		}
		b.WriteString("}</style>\n")
	}
	b.WriteString(body)
	if len(ds.notes) > 0 {
		b.WriteString("<section class=\"emmm-notes\">\n<ol>\n")
		for _, note := range ds.notes {
			fmt.Fprintf(&b, "<li id=\"note-%d\">%s</li>\n", ds.noteNumber(note.name), note.body)
		}
		b.WriteString("</ol>\n</section>\n")
	}
	return b.String()
}

func inlineWrapper(tag string) render.InlineRenderer[string] {
	return func(st *render.State[string], n *doc.InlineModifier) string {
		return "<" + tag + ">" + st.RenderInlines(n.Content) + "</" + tag + ">"
	}
}

func renderHeading(st *render.State[string], n *doc.BlockModifier) string {
	level := 1
	if len(n.Arguments) > 0 && n.Arguments[0].Resolved {
		if lv, err := strconv.Atoi(n.Arguments[0].Expansion); err == nil && lv >= 1 && lv <= 6 {
			level = lv
		}
	}
	var inner strings.Builder
	for _, c := range n.Content {
		if p, ok := c.(*doc.Paragraph); ok {
			inner.WriteString(st.RenderInlines(p.Content))
		}
	}
	return fmt.Sprintf("<h%d>%s</h%d>\n", level, inner.String(), level)
}

// renderCode emits a fenced code block, detecting the language from the
// content when none is given.
func renderCode(_ *render.State[string], lang, text string, opts Options) string {
	if lang == "" && opts.DetectLanguage && strings.TrimSpace(text) != "" {
		lang = strings.ToLower(enry.GetLanguage("", []byte(text)))
	}
	class := ""
	if lang != "" && lang != "text" {
		class = fmt.Sprintf(" class=\"language-%s\"", html.EscapeString(lang))
	}
	return fmt.Sprintf("<pre><code%s>%s</code></pre>\n", class, html.EscapeString(text))
}

// preText extracts the verbatim text of a preformatted slot.
func preText(content []doc.BlockEntity) string {
	for _, c := range content {
		if pre, ok := c.(*doc.Preformatted); ok {
			return pre.Content.Text
		}
	}
	return ""
}
