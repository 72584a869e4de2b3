package reaction

import (
	"sort"
	"strings"
)

// Match decides whether two equations describe the same transformation up to
// a uniform stoichiometric scale and left/right orientation.
//
// Participant names are compared as written, qualified with their own or the
// equation's leading compartment, so both equations must use one naming
// scheme. Coefficient ratios are compared for exact equality; there is no
// tolerance. When the equations match, Direction is +1 if their left-hand
// sides carry the same names and -1 otherwise; the value is the same for
// Match(a, b) and Match(b, a).
//
// Match never fails: blank or unparseable input is simply not a match.
func Match(a, b string) MatchResult {
	r1, ok := normalize(a)
	if !ok {
		return noMatch
	}
	r2, ok := normalize(b)
	if !ok {
		return noMatch
	}

	s1, s2 := orient(r1), orient(r2)
	for i := range s1 {
		if !equalNames(s1[i], s2[i]) {
			return noMatch
		}
	}

	// Divide in a fixed order so that both argument orders see the same
	// floating-point ratios.
	if compareCoefficients(s1, s2) > 0 {
		s1, s2 = s2, s1
	}
	ratios := make(map[float64]struct{})
	for i := range s1 {
		for j := range s1[i] {
			ratios[s1[i][j].Coefficient/s2[i][j].Coefficient] = struct{}{}
			if len(ratios) > 1 {
				return noMatch
			}
		}
	}

	if equalNames(r1.Left, r2.Left) {
		return MatchResult{Matched: true, Direction: DirectionForward}
	}
	return MatchResult{Matched: true, Direction: DirectionReverse}
}

// Matches is the boolean-only view of Match for callers that do not need the
// orientation.
func Matches(a, b string) bool {
	return Match(a, b).Matched
}

// normalize parses eq and sorts each side by compartment-qualified name. The
// sides keep their original orientation.
func normalize(eq string) (*Reaction, bool) {
	if strings.TrimSpace(eq) == "" {
		return nil, false
	}
	rx, err := Parse(eq)
	if err != nil {
		return nil, false
	}
	return &Reaction{
		Left:              sortedByKey(rx.Left),
		Right:             sortedByKey(rx.Right),
		GlobalCompartment: rx.GlobalCompartment,
	}, true
}

func sortedByKey(s Side) Side {
	out := append(Side(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// orient puts the side whose concatenated names sort first on the left, so
// the comparison does not depend on how the author oriented the equation.
func orient(rx *Reaction) [2]Side {
	if strings.Join(rx.Right.Names(), "") < strings.Join(rx.Left.Names(), "") {
		return [2]Side{rx.Right, rx.Left}
	}
	return [2]Side{rx.Left, rx.Right}
}

func equalNames(a, b Side) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key() != b[i].Key() {
			return false
		}
	}
	return true
}

func compareCoefficients(a, b [2]Side) int {
	for i := range a {
		for j := range a[i] {
			switch {
			case a[i][j].Coefficient < b[i][j].Coefficient:
				return -1
			case a[i][j].Coefficient > b[i][j].Coefficient:
				return 1
			}
		}
	}
	return 0
}
