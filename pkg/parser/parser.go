// Package parser implements the recursive-descent EMMM parser and its
// integrated expansion engine. Parsing never aborts short of EOF; problems
// surface as messages on the resulting document.
package parser

import (
	"sort"
	"strings"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
	"github.com/yaklabco/emmm/pkg/source"
)

// Reserved definitions substituted for unregistered modifier names. Content
// still parses normally so downstream problems keep surfacing.
var (
	UnknownBlock  = &doc.BlockDefinition{Name: "UNKNOWN", Slot: doc.NormalSlot}
	UnknownInline = &doc.InlineDefinition{Name: "UNKNOWN", Slot: doc.NormalSlot}
	UnknownSystem = &doc.SystemDefinition{Name: "UNKNOWN", Slot: doc.NormalSlot}
)

// Parser drives one parse over one scanner. It exclusively owns its context
// for the lifetime of the parse.
type Parser struct {
	scan *source.Scanner
	cxt  *doc.Context
	msgs []*message.Message

	groupDepth int
	referral   []*source.Range

	tablesDirty     bool
	blockNames      []string
	inlineNames     []string
	systemNames     []string
	interpNames     []string
	blockShorthands []string
	inlineShorts    []string
}

// Parse consumes the scanner's source against the given context and returns
// the document tree plus accumulated messages.
func Parse(scan *source.Scanner, cxt *doc.Context) *doc.Document {
	p := &Parser{scan: scan, cxt: cxt, tablesDirty: true}
	cxt.Config.SetOnChange(func() { p.tablesDirty = true })
	root := p.parseDocument()
	cxt.Config.SetOnChange(nil)
	return &doc.Document{Root: root, Messages: p.msgs, Context: cxt}
}

// ParseString is a convenience wrapper for in-memory sources.
func ParseString(name, src string, cxt *doc.Context) *doc.Document {
	return Parse(source.NewScanner(source.NewDescriptor(name), src), cxt)
}

// emit records a message, wrapping it in referred frames for every
// expansion site currently being processed.
func (p *Parser) emit(m *message.Message) {
	for i := len(p.referral) - 1; i >= 0; i-- {
		m = message.Referred(m, p.referral[i])
	}
	p.msgs = append(p.msgs, m)
}

func (p *Parser) emitAll(ms []*message.Message) {
	for _, m := range ms {
		p.emit(m)
	}
}

func (p *Parser) pushReferral(r *source.Range) { p.referral = append(p.referral, r) }
func (p *Parser) popReferral()                 { p.referral = p.referral[:len(p.referral)-1] }

// rebuildTables re-sorts every lookup list by descending name length so the
// longest registered name always wins.
func (p *Parser) rebuildTables() {
	cfg := p.cxt.Config
	p.blockNames = byDescLength(cfg.BlockModifiers.Names())
	p.inlineNames = byDescLength(cfg.InlineModifiers.Names())
	p.systemNames = byDescLength(cfg.SystemModifiers.Names())
	p.interpNames = byDescLength(cfg.ArgumentInterpolators.Names())
	p.blockShorthands = byDescLength(cfg.BlockShorthands.Names())
	p.inlineShorts = byDescLength(cfg.InlineShorthands.Names())
	p.tablesDirty = false
}

func (p *Parser) tables() *Parser {
	if p.tablesDirty {
		p.rebuildTables()
	}
	return p
}

func byDescLength(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := len([]rune(out[i])), len([]rune(out[j]))
		if li != lj {
			return li > lj
		}
		return out[i] < out[j]
	})
	return out
}

// parseDocument implements DOCUMENT := WS* (BLOCK WS*)*.
func (p *Parser) parseDocument() *doc.Root {
	start := p.scan.Position()
	var content []doc.BlockEntity
	p.skipBlankArea()
	for !p.scan.IsEOF() {
		p.parseBlockInto(&content)
		p.skipBlankArea()
	}
	return &doc.Root{Rng: p.scan.RangeFrom(start), Content: content}
}

// skipBlankArea consumes whitespace including newlines between blocks.
func (p *Parser) skipBlankArea() {
	for {
		if _, ok := p.scan.AcceptWhitespaceChar(); ok {
			continue
		}
		if p.scan.Accept("\n") {
			continue
		}
		return
	}
}

// skipInlineWhitespace consumes non-newline whitespace.
func (p *Parser) skipInlineWhitespace() {
	for {
		if _, ok := p.scan.AcceptWhitespaceChar(); !ok {
			return
		}
	}
}

// parseBlockInto parses one BLOCK production. A group splices its children
// directly into dest, which is why this appends instead of returning.
func (p *Parser) parseBlockInto(dest *[]doc.BlockEntity) {
	switch {
	case p.scan.Peek("[."):
		*dest = append(*dest, p.parseBlockModifier())
	case p.scan.Peek("[-"):
		*dest = append(*dest, p.parseSystemModifier())
	case p.scan.Peek(":--"):
		p.parseGroup(dest)
	default:
		if sh, ok := p.matchBlockShorthand(); ok {
			*dest = append(*dest, p.parseBlockShorthand(sh))
			return
		}
		if para := p.parseParagraph(); para != nil {
			*dest = append(*dest, para)
		}
	}
}

// parseGroup implements ':--' NL (BLOCK WS*)* '--:'.
func (p *Parser) parseGroup(dest *[]doc.BlockEntity) {
	start := p.scan.Position()
	p.scan.Accept(":--")
	p.skipInlineWhitespace()
	if !p.scan.Accept("\n") && !p.scan.IsEOF() {
		p.emit(message.Expected(p.pointRange(), "\n"))
	}
	p.groupDepth++
	for {
		p.skipBlankArea()
		if p.scan.Accept("--:") {
			break
		}
		if p.scan.IsEOF() {
			p.emit(message.Expected(p.scan.RangeFrom(start), "--:"))
			break
		}
		p.parseBlockInto(dest)
	}
	p.groupDepth--
}

// pointRange is a zero-length range at the cursor, for messages about a
// missing token.
func (p *Parser) pointRange() *source.Range {
	return p.scan.RangeFrom(p.scan.Position())
}

// matchName tries every name in the (longest-first) list at the cursor and
// accepts the first one followed by a head boundary.
func (p *Parser) matchName(names []string) (string, bool) {
	for _, name := range names {
		if p.scan.Peek(name) && p.boundaryAfter(name) {
			p.scan.Accept(name)
			return name, true
		}
	}
	return "", false
}

// boundaryAfter reports whether the character following name at the cursor
// terminates a modifier name.
func (p *Parser) boundaryAfter(name string) bool {
	mark := p.scan.Position()
	p.scan.Accept(name)
	defer p.scan.SetPosition(mark)
	if p.scan.IsEOF() {
		return true
	}
	switch p.scan.PeekChar() {
	case " ", "\t", "\r", ":", "]", ";", "\n":
		return true
	}
	return false
}

// acceptUnknownName consumes an unregistered modifier name: everything up
// to whitespace, an argument separator, or the head close.
func (p *Parser) acceptUnknownName() string {
	var b strings.Builder
	for !p.scan.IsEOF() {
		c := p.scan.PeekChar()
		switch c {
		case " ", "\t", "\r", ":", "]", ";", "\n":
			return b.String()
		}
		b.WriteString(p.scan.AcceptChar())
	}
	return b.String()
}

// closeHead consumes the head terminator after the argument list. It
// returns marker=true for the ';]' form. A newline or EOF inside the head
// emits Expected and closes the head in place.
func (p *Parser) closeHead() (marker bool) {
	switch {
	case p.scan.Accept(";]"):
		return true
	case p.scan.Accept("]"):
		return false
	default:
		m := message.Expected(p.pointRange(), "]")
		m.Fixes = append(m.Fixes, insertFix("insert the missing ]", "]"))
		p.emit(m)
		return false
	}
}

// insertFix builds a suggestion that inserts text at the cursor position.
// The core only stores suggestions; hosts decide whether to offer them.
func insertFix(info, text string) message.FixSuggestion {
	return message.FixSuggestion{
		Info: info,
		Apply: func(src string, cursor int) (string, int) {
			runes := []rune(src)
			if cursor > len(runes) {
				cursor = len(runes)
			}
			out := string(runes[:cursor]) + text + string(runes[cursor:])
			return out, cursor + len([]rune(text))
		},
	}
}
