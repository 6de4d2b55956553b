// Package mdconvert converts CommonMark text into EMMM source. It serves
// the document-import path: an existing Markdown file becomes an EMMM
// document built from the standard modifier library. Thematic breaks are
// dropped, lists become marker-prefixed paragraphs, and images become links.
package mdconvert

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Convert translates CommonMark src into EMMM markup.
func Convert(src []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))
	var b strings.Builder
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		convertBlock(&b, c, src)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func convertBlock(b *strings.Builder, n ast.Node, src []byte) {
	switch n := n.(type) {
	case *ast.Heading:
		fmt.Fprintf(b, "[.heading %d] ", n.Level)
		convertChildren(b, n, src)
		b.WriteString("\n\n")
	case *ast.Paragraph, *ast.TextBlock:
		convertChildren(b, n, src)
		b.WriteString("\n\n")
	case *ast.Blockquote:
		b.WriteString("[.quote]\n:--\n")
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			convertBlock(b, c, src)
		}
		b.WriteString("--:\n\n")
	case *ast.FencedCodeBlock:
		lang := string(n.Language(src))
		if lang == "" {
			b.WriteString("[.code]\n")
		} else {
			fmt.Fprintf(b, "[.code %s]\n", escapeArgument(lang))
		}
		writeCodeLines(b, n, src)
		b.WriteString("\n\n")
	case *ast.CodeBlock:
		b.WriteString("[.code]\n")
		writeCodeLines(b, n, src)
		b.WriteString("\n\n")
	case *ast.List:
		convertList(b, n, src)
	case *ast.ThematicBreak:
		// No EMMM equivalent.
	case *ast.HTMLBlock:
		writeRawLines(b, n, src)
		b.WriteString("\n\n")
	default:
		convertChildren(b, n, src)
		b.WriteString("\n\n")
	}
}

// convertList flattens list items into marker-prefixed paragraphs; EMMM has
// no native list structure.
func convertList(b *strings.Builder, list *ast.List, src []byte) {
	index := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if list.IsOrdered() {
			fmt.Fprintf(b, "%d. ", index)
			index++
		} else {
			b.WriteString("- ")
		}
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				convertChildren(b, c, src)
			default:
				convertBlock(b, c, src)
			}
		}
		b.WriteString("\n\n")
	}
}

func convertChildren(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		convertInline(b, c, src)
	}
}

func convertInline(b *strings.Builder, n ast.Node, src []byte) {
	switch n := n.(type) {
	case *ast.Text:
		b.WriteString(escapeText(string(n.Segment.Value(src))))
		switch {
		case n.HardLineBreak():
			b.WriteString("[/br;]\n")
		case n.SoftLineBreak():
			b.WriteString("\n")
		}
	case *ast.String:
		b.WriteString(escapeText(string(n.Value)))
	case *ast.Emphasis:
		tag := "emph"
		if n.Level >= 2 {
			tag = "bold"
		}
		fmt.Fprintf(b, "[/%s]", tag)
		convertChildren(b, n, src)
		b.WriteString("[;]")
	case *ast.CodeSpan:
		b.WriteString("[/code]")
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		b.WriteString("[;]")
	case *ast.Link:
		fmt.Fprintf(b, "[/link %s]", escapeArgument(string(n.Destination)))
		convertChildren(b, n, src)
		b.WriteString("[;]")
	case *ast.Image:
		fmt.Fprintf(b, "[/link %s]", escapeArgument(string(n.Destination)))
		convertChildren(b, n, src)
		b.WriteString("[;]")
	case *ast.AutoLink:
		url := string(n.URL(src))
		fmt.Fprintf(b, "[/link %s]%s[;]", escapeArgument(url), escapeText(url))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.WriteString(escapeText(string(seg.Value(src))))
		}
	default:
		convertChildren(b, n, src)
	}
}

// writeCodeLines emits verbatim code content. Blank lines inside the code
// would terminate a preformatted slot, so runs of them collapse to one
// newline.
func writeCodeLines(b *strings.Builder, n ast.Node, src []byte) {
	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(src))
	}
	out := strings.TrimRight(code.String(), "\n")
	for strings.Contains(out, "\n\n") {
		out = strings.ReplaceAll(out, "\n\n", "\n")
	}
	b.WriteString(out)
}

func writeRawLines(b *strings.Builder, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.WriteString(escapeText(strings.TrimRight(string(line.Value(src)), "\n")))
		if i < lines.Len()-1 {
			b.WriteString("\n")
		}
	}
}

// escapeText escapes free text so no character sequence is taken for an
// EMMM construct.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\\' || r == '[' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	out := b.String()
	out = strings.ReplaceAll(out, ":--", `\:--`)
	out = strings.ReplaceAll(out, "--:", `\--:`)
	return out
}

// escapeArgument escapes text for an argument position inside a modifier
// head.
func escapeArgument(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', ':', ']', ';', '[':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
