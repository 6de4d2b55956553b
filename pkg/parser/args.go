package parser

import (
	"strings"

	"github.com/yaklabco/emmm/pkg/doc"
	"github.com/yaklabco/emmm/pkg/message"
)

// headStops are the literals that end an argument inside a modifier head.
// The ';]' marker must be tried before a lone ']'.
var headStops = []string{":", ";]", "]"}

// parseArguments parses ARGS := (':' | WS*) ARG (':' ARG)* inside a
// modifier head. The head itself is single-line; a newline ends the list.
func (p *Parser) parseArguments() []*doc.Argument {
	if !p.scan.Accept(":") {
		p.skipInlineWhitespace()
		if p.headEnds() {
			return nil
		}
	}
	var args []*doc.Argument
	for {
		args = append(args, p.parseArgument(headStops))
		if !p.scan.Accept(":") {
			return args
		}
	}
}

func (p *Parser) headEnds() bool {
	return p.scan.IsEOF() || p.scan.Peek("]") || p.scan.Peek(";]") || p.scan.Peek("\n")
}

// parseArgument parses a single ARG: text, escapes, and interpolators, up
// to (but not including) one of the stop literals, a newline, or EOF.
func (p *Parser) parseArgument(stops []string) *doc.Argument {
	start := p.scan.Position()
	var entities []doc.ArgumentEntity
	textStart := start
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			entities = append(entities, &doc.Text{
				Rng:     p.scan.RangeFrom(textStart),
				Content: text.String(),
			})
			text.Reset()
		}
		textStart = p.scan.Position()
	}

scanLoop:
	for !p.scan.IsEOF() && !p.scan.Peek("\n") {
		for _, s := range stops {
			if p.scan.Peek(s) {
				break scanLoop
			}
		}
		if p.scan.Peek("\\") {
			flush()
			estart := p.scan.Position()
			p.scan.Accept("\\")
			c := p.scan.AcceptChar()
			entities = append(entities, &doc.Escaped{
				Rng:     p.scan.RangeFrom(estart),
				Content: c,
			})
			textStart = p.scan.Position()
			continue
		}
		if interp, ok := p.matchInterpolator(); ok {
			flush()
			entities = append(entities, p.parseInterpolation(interp))
			textStart = p.scan.Position()
			continue
		}
		text.WriteString(p.scan.AcceptChar())
	}
	flush()

	arg := &doc.Argument{Rng: p.scan.RangeFrom(start), Content: entities}
	p.resolveArgument(arg)
	return arg
}

// matchInterpolator tries interpolator openers longest-first at the cursor.
func (p *Parser) matchInterpolator() (*doc.InterpolatorDefinition, bool) {
	p.tables()
	for _, name := range p.interpNames {
		if p.scan.Peek(name) {
			def, _ := p.cxt.Config.ArgumentInterpolators.Get(name)
			return def, true
		}
	}
	return nil, false
}

// parseInterpolation parses INTERP := name ARG postfix. Interpolators with
// an empty postfix take no content.
func (p *Parser) parseInterpolation(def *doc.InterpolatorDefinition) *doc.Interpolation {
	start := p.scan.Position()
	p.scan.Accept(def.Name)
	var inner *doc.Argument
	if def.Postfix == "" {
		inner = &doc.Argument{Rng: p.pointRange(), Resolved: true}
	} else {
		inner = p.parseArgument([]string{def.Postfix})
		if !p.scan.Accept(def.Postfix) {
			p.emit(message.Expected(p.pointRange(), def.Postfix))
		}
	}
	return &doc.Interpolation{
		Rng: p.scan.RangeFrom(start),
		Def: def,
		Arg: inner,
	}
}

// resolveArgs resolves any still-unresolved arguments. Cloned generated
// nodes arrive with cleared caches so their interpolations re-expand in the
// instantiating context.
func (p *Parser) resolveArgs(args []*doc.Argument) {
	for _, a := range args {
		if !a.Resolved {
			p.resolveArgument(a)
		}
	}
}

// resolveArgument computes the cached textual expansion of an argument. An
// interpolator that declines (or an unresolvable nested argument) leaves
// the argument unresolved; that is not an error by itself.
func (p *Parser) resolveArgument(a *doc.Argument) {
	if a.Resolved {
		return
	}
	var b strings.Builder
	for _, e := range a.Content {
		switch e := e.(type) {
		case *doc.Text:
			b.WriteString(e.Content)
		case *doc.Escaped:
			b.WriteString(e.Content)
		case *doc.Interpolation:
			p.resolveArgument(e.Arg)
			if !e.Arg.Resolved {
				return
			}
			if e.Def.Expand == nil {
				b.WriteString(e.Arg.Expansion)
				continue
			}
			v, ok := e.Def.Expand(e.Arg.Expansion, p.cxt, p.cxt.Immediate())
			if !ok {
				return
			}
			b.WriteString(v)
		}
	}
	a.Expansion = b.String()
	a.Resolved = true
}
