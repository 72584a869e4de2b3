// Package reaction implements the reaction canonicalization and equivalence
// core: the equation grammar, compartment tag allocation, identifier
// resolution, canonical rendering and the equivalence matcher.
//
// Everything in this package is a pure function of its inputs. Reference
// tables (identifier maps, compartment maps) are passed explicitly; nothing is
// read from process-wide state.
package reaction

import (
	"sort"
	"strconv"
	"strings"
)

// Participant is one term of a reaction side.
type Participant struct {
	// Coefficient is the stoichiometric multiplier. Always > 0.
	Coefficient float64 `json:"coefficient"`
	// Raw is the species token as written, including any compartment suffix
	// (e.g. "glu-L[c]" or "C00254_[cyt]"). It is the exact lookup key used by
	// the Resolver.
	Raw string `json:"raw"`
	// Name is the bare species name with the compartment suffix removed.
	Name string `json:"name"`
	// Compartment is the participant's own tag or, failing that, the reaction's
	// global tag. Empty when the equation carries no compartment at all.
	Compartment string `json:"compartment,omitempty"`
}

// Key returns the compartment-qualified name used for comparisons. Two
// otherwise identical names in different compartments are distinct keys.
func (p Participant) Key() string {
	if p.Compartment == "" {
		return p.Name
	}
	return p.Name + "[" + p.Compartment + "]"
}

// Side is an ordered list of participants.
type Side []Participant

// Names returns the comparison keys of the side in order.
func (s Side) Names() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Key()
	}
	return out
}

// Reaction is a parsed equation.
type Reaction struct {
	Left  Side `json:"left"`
	Right Side `json:"right"`
	// GlobalCompartment is the leading "[tag]" of the equation, if any.
	GlobalCompartment string `json:"global_compartment,omitempty"`
}

// Compartments returns the distinct compartment tags of all participants,
// sorted ascending.
func (r *Reaction) Compartments() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, side := range []Side{r.Left, r.Right} {
		for _, p := range side {
			if p.Compartment == "" {
				continue
			}
			if _, ok := seen[p.Compartment]; ok {
				continue
			}
			seen[p.Compartment] = struct{}{}
			tags = append(tags, p.Compartment)
		}
	}
	sort.Strings(tags)
	return tags
}

// Direction is the relative orientation of two equivalent reactions.
type Direction int

const (
	// DirectionNone accompanies every non-match.
	DirectionNone Direction = 0
	// DirectionForward means both equations are written left-to-right alike.
	DirectionForward Direction = 1
	// DirectionReverse means the second equation is the first one reversed.
	DirectionReverse Direction = -1
)

// String renders the direction as the signed integer used in match records.
func (d Direction) String() string {
	return strconv.Itoa(int(d))
}

// MatchResult is the verdict of comparing two equations.
// Direction is DirectionNone iff Matched is false.
type MatchResult struct {
	Matched   bool      `json:"matched"`
	Direction Direction `json:"direction"`
}

var noMatch = MatchResult{Matched: false, Direction: DirectionNone}

// formatCoefficient prints a coefficient in its shortest decimal form
// ("2", "0.5", "1.32535").
func formatCoefficient(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func joinTerms(terms []string) string {
	return strings.Join(terms, " + ")
}
