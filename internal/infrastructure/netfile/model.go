package netfile

import (
	"bufio"
	"io"
	"strings"

	apperrors "github.com/turtacn/netmodel/pkg/errors"
)

const (
	reactionPrefix    = "reaction"
	compartmentPrefix = "compartment"
	metabolitePrefix  = "metabolite"

	// singleCompartmentMarker appears in a reaction line only when the
	// equation opens with a global compartment bracket.
	singleCompartmentMarker = ";["

	maxLineSize = 4 << 20
)

// ModelReaction is one reaction line of a NET model.
type ModelReaction struct {
	ID       string
	Equation string
}

// ReadModelReactions extracts the reaction lines of a NET model
// ("reaction;ID;EQUATION;..."). With singleCompartment set, lines without a
// leading compartment bracket on the equation are skipped. A repeated ID keeps
// the position of its first occurrence and the equation of its last.
func ReadModelReactions(r io.Reader, singleCompartment bool) ([]ModelReaction, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []ModelReaction
	index := make(map[string]int)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if !strings.HasPrefix(line, reactionPrefix) {
			continue
		}
		if singleCompartment && !strings.Contains(line, singleCompartmentMarker) {
			continue
		}
		fields := strings.Split(strings.TrimSpace(line), ";")
		if len(fields) < 3 {
			return nil, apperrors.Newf(apperrors.ErrCodeReadFailed,
				"model line %d: expected reaction;ID;EQUATION, got %q", lineNo, line)
		}
		rx := ModelReaction{ID: fields[1], Equation: fields[2]}
		if i, ok := index[rx.ID]; ok {
			out[i].Equation = rx.Equation
			continue
		}
		index[rx.ID] = len(out)
		out = append(out, rx)
	}
	if err := sc.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeReadFailed, "failed to read model")
	}
	return out, nil
}

// Model is the content of a NET model file in output order.
type Model struct {
	// Compartments are already-joined property columns keyed by output tag.
	Compartments []ModelCompartment
	Reactions    []ModelReaction
	// Biomass is written only when HasBiomass is set.
	Biomass     string
	HasBiomass  bool
	Metabolites []string
}

// ModelCompartment is one row of the compartment section.
type ModelCompartment struct {
	Tag     string
	Columns []string
}

// WriteModel writes m in the NET model layout: the compartment table, the
// model header, the reaction table, the optional biomass reaction, the thermo
// names header and the metabolite list.
func WriteModel(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	lines := make([]string, 0, len(m.Compartments)+len(m.Reactions)+len(m.Metabolites)+16)

	lines = append(lines, ";ID;pH;IS;Potential mV;Volume;")
	for _, c := range m.Compartments {
		lines = append(lines, compartmentPrefix+";"+c.Tag+";"+strings.Join(c.Columns, ";"))
	}

	lines = append(lines, "", ";Model;;;;;", "")

	lines = append(lines, ";Abbreviation;reactions;;;;")
	for _, rx := range m.Reactions {
		lines = append(lines, reactionPrefix+";"+rx.ID+";"+rx.Equation+";;;;")
	}

	if m.HasBiomass {
		lines = append(lines, "", ";Biomass Reaction;", reactionPrefix+";Biomass;"+m.Biomass)
	}

	lines = append(lines, "", "", "Thermo names;;", "")

	lines = append(lines, ";Metabolite (don't change);Name in model")
	for _, id := range m.Metabolites {
		lines = append(lines, metabolitePrefix+";"+id+";"+id)
	}
	lines = append(lines, "")

	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeWriteFailed, "failed to write model")
		}
	}
	if err := bw.Flush(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeWriteFailed, "failed to write model")
	}
	return nil
}
