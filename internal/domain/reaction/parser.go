package reaction

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/netmodel/pkg/errors"
)

// Parse reads one equation written in any of the supported model dialects.
//
// Grammar:
//
//	equation    ::= [ compartment ] side sep side
//	sep         ::= WS sepchar { sepchar } WS        sepchar ::= "=" | "<" | ">" | "-"
//	side        ::= term { WS "+" WS term }
//	term        ::= [ coefficient WS ] species
//	coefficient ::= number | "(" number ")"
//	species     ::= name [ [ "_" ] compartment ]
//	compartment ::= "[" tag "]"
//
// A leading compartment applies to every participant that has none of its
// own. Any violation is an ErrCodeEquationMalformed error whose detail is the
// offending equation; callers converting a model treat it as fatal.
func Parse(equation string) (*Reaction, error) {
	p := &parser{equation: equation}
	body := strings.TrimSpace(equation)
	if strings.HasPrefix(body, "[") {
		end := strings.IndexByte(body, ']')
		if end < 0 {
			return nil, p.fail("unterminated leading compartment")
		}
		p.global = body[1:end]
		if p.global == "" {
			return nil, p.fail("empty leading compartment")
		}
		body = body[end+1:]
	}
	p.toks = tokenize(body)
	return p.parseEquation()
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(equation string) *Reaction {
	r, err := Parse(equation)
	if err != nil {
		panic(err)
	}
	return r
}

type parser struct {
	equation string
	global   string
	toks     []token
	pos      int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) fail(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeEquationMalformed, fmt.Sprintf(format, args...)).
		WithDetail(p.equation)
}

func (p *parser) parseEquation() (*Reaction, error) {
	left, err := p.parseSide()
	if err != nil {
		return nil, err
	}
	if t := p.next(); t.kind != tokenSeparator {
		return nil, p.fail("expected side separator, found %s", t.kind)
	}
	right, err := p.parseSide()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return nil, p.fail("unexpected %s %q after right-hand side", t.kind, t.text)
	}
	return &Reaction{Left: left, Right: right, GlobalCompartment: p.global}, nil
}

func (p *parser) parseSide() (Side, error) {
	var side Side
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		side = append(side, term)
		if p.peek().kind != tokenPlus {
			return side, nil
		}
		p.next()
	}
}

// parseTerm consumes the words up to the next '+', separator or end. A term is
// one word (species) or two (coefficient, species); anything else means the
// whole equation is malformed.
func (p *parser) parseTerm() (Participant, error) {
	var words []string
	for p.peek().kind == tokenWord {
		words = append(words, p.next().text)
	}
	switch len(words) {
	case 1:
		return p.parseSpecies(1, words[0])
	case 2:
		coef, err := p.parseCoefficient(words[0])
		if err != nil {
			return Participant{}, err
		}
		return p.parseSpecies(coef, words[1])
	default:
		return Participant{}, p.fail("term %q splits into %d tokens", strings.Join(words, " "), len(words))
	}
}

func (p *parser) parseCoefficient(text string) (float64, error) {
	num := text
	if strings.HasPrefix(num, "(") && strings.HasSuffix(num, ")") {
		num = num[1 : len(num)-1]
	}
	c, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(c, 0) || math.IsNaN(c) {
		return 0, p.fail("invalid coefficient %q", text)
	}
	if c <= 0 {
		return 0, p.fail("coefficient %q must be positive", text)
	}
	return c, nil
}

func (p *parser) parseSpecies(coef float64, text string) (Participant, error) {
	part := Participant{Coefficient: coef, Raw: text, Name: text}
	if strings.HasSuffix(text, "]") {
		open := strings.LastIndexByte(text, '[')
		if open < 0 {
			return Participant{}, p.fail("unbalanced compartment in %q", text)
		}
		part.Compartment = text[open+1 : len(text)-1]
		part.Name = strings.TrimSuffix(text[:open], "_")
		if part.Compartment == "" {
			return Participant{}, p.fail("empty compartment in %q", text)
		}
	}
	if part.Name == "" {
		return Participant{}, p.fail("missing species name in %q", text)
	}
	switch {
	case part.Compartment == "":
		part.Compartment = p.global
	case p.global != "" && part.Compartment != p.global:
		return Participant{}, p.fail("compartment of %q conflicts with leading [%s]", text, p.global)
	}
	return part, nil
}
