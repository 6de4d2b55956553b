// Package message defines the diagnostic model of the EMMM processor.
// Diagnostics are data, not control flow: parsing accumulates messages and
// never aborts short of EOF.
package message

import (
	"fmt"

	"github.com/yaklabco/emmm/pkg/source"
)

// Severity indicates the importance of a message. Ordering is
// Error > Warning > Info.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Code identifies the kind of a message.
type Code int

const (
	CodeExpected Code = iota + 1
	CodeUnknownModifier
	CodeUnclosedInlineModifier
	CodeUnnecessaryNewline
	CodeNewBlockShouldBeOnNewline
	CodeContentShouldBeOnNewline
	CodeInvalidArgument
	CodeArgumentCountMismatch
	CodeNameAlreadyDefined
	CodeReachedReparseLimit
	CodeReferred
)

// String returns the canonical code name.
func (c Code) String() string {
	switch c {
	case CodeExpected:
		return "Expected"
	case CodeUnknownModifier:
		return "UnknownModifier"
	case CodeUnclosedInlineModifier:
		return "UnclosedInlineModifier"
	case CodeUnnecessaryNewline:
		return "UnnecessaryNewline"
	case CodeNewBlockShouldBeOnNewline:
		return "NewBlockShouldBeOnNewline"
	case CodeContentShouldBeOnNewline:
		return "ContentShouldBeOnNewline"
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeArgumentCountMismatch:
		return "ArgumentCountMismatch"
	case CodeNameAlreadyDefined:
		return "NameAlreadyDefined"
	case CodeReachedReparseLimit:
		return "ReachedReparseLimit"
	case CodeReferred:
		return "Referred"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// FixSuggestion is an optional, never auto-applied textual fix. Apply is a
// pure function from a source string and cursor position to the edited pair.
type FixSuggestion struct {
	// Info is the human-readable description of the fix.
	Info string

	// Apply performs the edit.
	Apply func(src string, cursor int) (string, int)
}

// Message is a single diagnostic with a source range. A message issued while
// expanding generated content carries the inner message in Refers and uses
// CodeReferred with the expansion-site range; walking Refers reproduces the
// original → caller chain.
type Message struct {
	Severity Severity
	Location *source.Range
	Code     Code
	Info     string
	Fixes    []FixSuggestion

	// Refers is non-nil only for referred messages.
	Refers *Message
}

// Unwrap follows the Refers chain to the innermost message.
func (m *Message) Unwrap() *Message {
	cur := m
	for cur.Refers != nil {
		cur = cur.Refers
	}
	return cur
}

// String renders the message for logs and tests.
func (m *Message) String() string {
	if m.Refers != nil {
		return fmt.Sprintf("%s: %s (while expanding %d..%d): %s",
			m.Severity, m.Code, m.Location.Start, m.Location.End, m.Refers)
	}
	return fmt.Sprintf("%s: %s at %d..%d: %s",
		m.Severity, m.Code, m.Location.Start, m.Location.End, m.Info)
}

// Referred wraps inner with the range of the expansion site that was being
// processed when inner was emitted.
func Referred(inner *Message, site *source.Range) *Message {
	return &Message{
		Severity: inner.Severity,
		Location: site,
		Code:     CodeReferred,
		Info:     "referred from here",
		Refers:   inner,
	}
}

// Expected reports that the literal what was required at loc.
func Expected(loc *source.Range, what string) *Message {
	return &Message{
		Severity: SeverityError,
		Location: loc,
		Code:     CodeExpected,
		Info:     fmt.Sprintf("expected %q", what),
	}
}

// UnknownModifier reports an unregistered modifier name.
func UnknownModifier(loc *source.Range, name string) *Message {
	return &Message{
		Severity: SeverityError,
		Location: loc,
		Code:     CodeUnknownModifier,
		Info:     fmt.Sprintf("unknown modifier %q", name),
	}
}

// UnclosedInlineModifier reports an inline modifier missing its [;] tag.
func UnclosedInlineModifier(loc *source.Range, name string) *Message {
	return &Message{
		Severity: SeverityError,
		Location: loc,
		Code:     CodeUnclosedInlineModifier,
		Info:     fmt.Sprintf("inline modifier %q is not closed", name),
	}
}

// UnnecessaryNewline warns about a blank line between a modifier head and
// its content.
func UnnecessaryNewline(loc *source.Range) *Message {
	return &Message{
		Severity: SeverityWarning,
		Location: loc,
		Code:     CodeUnnecessaryNewline,
		Info:     "unnecessary blank line",
	}
}

// NewBlockShouldBeOnNewline warns about a block construct starting mid-line.
func NewBlockShouldBeOnNewline(loc *source.Range) *Message {
	return &Message{
		Severity: SeverityWarning,
		Location: loc,
		Code:     CodeNewBlockShouldBeOnNewline,
		Info:     "a new block should begin on its own line",
	}
}

// ContentShouldBeOnNewline warns about preformatted content sharing the head
// line.
func ContentShouldBeOnNewline(loc *source.Range) *Message {
	return &Message{
		Severity: SeverityWarning,
		Location: loc,
		Code:     CodeContentShouldBeOnNewline,
		Info:     "content should begin on a new line",
	}
}

// InvalidArgument reports an argument that could not be used.
func InvalidArgument(loc *source.Range, detail string) *Message {
	return &Message{
		Severity: SeverityError,
		Location: loc,
		Code:     CodeInvalidArgument,
		Info:     detail,
	}
}

// ArgumentCountMismatch reports a wrong number of arguments.
func ArgumentCountMismatch(loc *source.Range, want, got int) *Message {
	return &Message{
		Severity: SeverityError,
		Location: loc,
		Code:     CodeArgumentCountMismatch,
		Info:     fmt.Sprintf("expected %d argument(s), got %d", want, got),
	}
}

// NameAlreadyDefined reports a definition name collision.
func NameAlreadyDefined(loc *source.Range, name string) *Message {
	return &Message{
		Severity: SeverityError,
		Location: loc,
		Code:     CodeNameAlreadyDefined,
		Info:     fmt.Sprintf("name %q is already defined", name),
	}
}

// ReachedReparseLimit reports that expansion recursion exceeded the
// configured depth limit.
func ReachedReparseLimit(loc *source.Range, name string) *Message {
	return &Message{
		Severity: SeverityError,
		Location: loc,
		Code:     CodeReachedReparseLimit,
		Info:     fmt.Sprintf("expansion of %q reached the reparse depth limit", name),
	}
}
