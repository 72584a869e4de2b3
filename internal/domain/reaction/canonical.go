package reaction

import (
	"strings"

	"github.com/turtacn/netmodel/pkg/errors"
)

// Canonicalize resolves rx against res and renders it with the codes of cm.
//
// Terms render as "(coef) ID[cm]", "ID[cm]", "(coef) ID" or "ID"; the
// coefficient is shown when it is not 1. When the retained participants span
// a single compartment its code prefixes the equation once ("[c]A = B") and
// is omitted from the terms. Sides keep their input order and orientation.
//
// An unresolvable reaction yields "" and a nil error. A compartment tag
// missing from cm is an ErrCodeCompartmentUnmapped error.
func Canonicalize(rx *Reaction, res *Resolver, cm *CompartmentMap) (string, error) {
	resolved, ok := res.ResolveReaction(rx)
	if !ok {
		return "", nil
	}
	return Render(resolved, cm)
}

// Render writes an already-resolved reaction in canonical text form.
func Render(rx *Reaction, cm *CompartmentMap) (string, error) {
	tags := rx.Compartments()
	codes := make(map[string]string, len(tags))
	for _, tag := range tags {
		code, ok := cm.Lookup(tag)
		if !ok {
			return "", errors.Newf(errors.ErrCodeCompartmentUnmapped,
				"compartment %q has no allocated code", tag)
		}
		codes[tag] = code
	}
	perTerm := len(tags) > 1

	var sb strings.Builder
	if len(tags) == 1 {
		sb.WriteString("[" + codes[tags[0]] + "]")
	}
	sb.WriteString(renderSide(rx.Left, codes, perTerm))
	sb.WriteString(" = ")
	sb.WriteString(renderSide(rx.Right, codes, perTerm))
	return sb.String(), nil
}

func renderSide(side Side, codes map[string]string, perTerm bool) string {
	terms := make([]string, len(side))
	for i, p := range side {
		term := p.Name
		if perTerm && p.Compartment != "" {
			term += "[" + codes[p.Compartment] + "]"
		}
		if p.Coefficient != 1 {
			term = "(" + formatCoefficient(p.Coefficient) + ") " + term
		}
		terms[i] = term
	}
	return joinTerms(terms)
}
