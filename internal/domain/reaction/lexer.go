package reaction

import "unicode"

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenWord
	tokenPlus
	tokenSeparator
)

func (k tokenKind) String() string {
	switch k {
	case tokenWord:
		return "word"
	case tokenPlus:
		return "'+'"
	case tokenSeparator:
		return "separator"
	default:
		return "end of equation"
	}
}

type token struct {
	kind tokenKind
	text string
}

// tokenize splits the body of an equation (global compartment already
// removed) into whitespace-delimited tokens. A field made only of the
// characters "=<>-" is the side separator and a lone "+" joins terms; every
// other field is a word. Terms and separators must therefore be surrounded by
// whitespace, which is what lets names such as "glu-L" or "nad+" through.
func tokenize(body string) []token {
	var toks []token
	i := 0
	for i < len(body) {
		for i < len(body) && unicode.IsSpace(rune(body[i])) {
			i++
		}
		if i >= len(body) {
			break
		}
		start := i
		for i < len(body) && !unicode.IsSpace(rune(body[i])) {
			i++
		}
		field := body[start:i]
		switch {
		case field == "+":
			toks = append(toks, token{kind: tokenPlus, text: field})
		case isSeparator(field):
			toks = append(toks, token{kind: tokenSeparator, text: field})
		default:
			toks = append(toks, token{kind: tokenWord, text: field})
		}
	}
	return append(toks, token{kind: tokenEOF})
}

func isSeparator(field string) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '=', '<', '>', '-':
		default:
			return false
		}
	}
	return field != ""
}
