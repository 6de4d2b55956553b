package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/emmm/pkg/message"
	"github.com/yaklabco/emmm/pkg/source"
)

// FormatMessage formats a single parser message for terminal output,
// including the source context line and the referral trail for messages
// issued inside expansions.
func (s *Styles) FormatMessage(m *message.Message, src string, showContext bool) string {
	var builder strings.Builder

	inner := m.Unwrap()
	pos := source.PositionOf(src, inner.Location.Root().Start)

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(sourceName(inner.Location)),
		pos.Line,
		pos.Column,
	)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(inner.Severity),
		s.Message.Render(inner.Info),
		s.Code.Render("("+inner.Code.String()+")"),
	))

	if showContext {
		builder.WriteString(s.FormatSourceContext(src, inner.Location.Root().Start))
	}

	// Referral trail: outermost expansion site first.
	for cur := m; cur.Refers != nil; cur = cur.Refers {
		p := source.PositionOf(src, cur.Location.Root().Start)
		builder.WriteString("    " + s.Referral.Render(
			fmt.Sprintf("expanded from %s:%d:%d", sourceName(cur.Location), p.Line, p.Column)) + "\n")
	}

	for _, fix := range inner.Fixes {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " +
			s.Suggestion.Render(fix.Info) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev message.Severity) string {
	switch sev {
	case message.SeverityError:
		return s.Error.Render("error")
	case message.SeverityWarning:
		return s.Warning.Render("warning")
	default:
		return s.Info.Render("info")
	}
}

// FormatSourceContext formats the source line at offset with a caret marker.
func (s *Styles) FormatSourceContext(src string, offset int) string {
	var builder strings.Builder

	const indent = "        "

	line, column := lineAt(src, offset)
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

func sourceName(r *source.Range) string {
	root := r.Root()
	if root.Source == nil || root.Source.Name == "" {
		return "<input>"
	}
	return root.Source.Name
}

// lineAt extracts the text of the line containing a character offset and
// the 1-based column of the offset within it.
func lineAt(src string, offset int) (string, int) {
	runes := []rune(src)
	if offset > len(runes) {
		offset = len(runes)
	}
	start := offset
	for start > 0 && runes[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	return string(runes[start:end]), offset - start + 1
}
