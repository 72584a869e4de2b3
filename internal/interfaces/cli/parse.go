package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/netmodel/internal/domain/reaction"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse EQUATION...",
		Short: "Show the participants of one or more equations",
		Long: "Parses each equation and lists its participants with coefficient, bare\n" +
			"name and effective compartment. A malformed equation aborts with RXN_001.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make(parsedEquations, 0, len(args))
			for _, eq := range args {
				rx, err := reaction.Parse(eq)
				if err != nil {
					return err
				}
				out = append(out, parsedEquation{Equation: eq, Reaction: rx})
			}
			return PrintResult(cmd, out)
		},
	}
}

type parsedEquation struct {
	Equation string             `json:"equation"`
	Reaction *reaction.Reaction `json:"reaction"`
}

type parsedEquations []parsedEquation

func (p parsedEquations) TableHeaders() []string {
	return []string{"Equation", "Side", "Coefficient", "Name", "Compartment"}
}

func (p parsedEquations) TableRows() [][]string {
	var rows [][]string
	for _, pe := range p {
		for _, s := range []struct {
			label string
			side  reaction.Side
		}{{"left", pe.Reaction.Left}, {"right", pe.Reaction.Right}} {
			for _, part := range s.side {
				rows = append(rows, []string{pe.Equation, s.label, formatNumber(part.Coefficient), part.Name, part.Compartment})
			}
		}
	}
	return rows
}

// String prints each equation followed by its participants, one per line.
func (p parsedEquations) String() string {
	var sb strings.Builder
	for _, pe := range p {
		sb.WriteString(pe.Equation)
		sb.WriteString("\n")
		for _, row := range (parsedEquations{pe}).TableRows() {
			sb.WriteString("\t")
			sb.WriteString(strings.Join(row[1:], "\t"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
