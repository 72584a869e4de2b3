package cli

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/netmodel/internal/domain/reaction"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/netfile"
)

func newCompartmentsCmd() *cobra.Command {
	var fromModel bool

	cmd := &cobra.Command{
		Use:   "compartments FILE...",
		Short: "Show the compartment codes allocated for a model's equations",
		Long: "Counts every [tag] across the equations of the given reaction tables (or\n" +
			"NET models with --model) and prints the single-letter code allocated to\n" +
			"each tag. All files are treated as one model.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompartments(cmd, args, fromModel)
		},
	}
	cmd.Flags().BoolVar(&fromModel, "model", false, "read NET models instead of reaction tables")

	return cmd
}

func runCompartments(cmd *cobra.Command, paths []string, fromModel bool) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := cliCtx.commandContext(cmd)
	defer cancel()

	var equations []string
	for _, path := range paths {
		data, err := readSource(ctx, cmd, cliCtx, path)
		if err != nil {
			return err
		}
		if fromModel {
			rxs, err := netfile.ReadModelReactions(bytes.NewReader(data), false)
			if err != nil {
				return err
			}
			for _, rx := range rxs {
				equations = append(equations, rx.Equation)
			}
			continue
		}
		rxs, err := netfile.ReadReactionTable(bytes.NewReader(data))
		if err != nil {
			return err
		}
		for _, rx := range rxs {
			equations = append(equations, rx.Equation)
		}
	}

	cm, err := reaction.AllocateCompartments(equations)
	if err != nil {
		return err
	}

	counts := make(map[string]int, cm.Len())
	for _, eq := range equations {
		for _, tag := range reaction.ScanTags(eq) {
			counts[tag]++
		}
	}
	if changes := cm.Changes(); changes != nil {
		pairs := make([]string, 0, len(changes))
		for _, c := range changes {
			pairs = append(pairs, c.Old+" --> "+c.New)
		}
		cliCtx.Logger.Info("compartment tags have been changed", logging.Strings("changes", pairs))
	}

	out := make(allocationTable, 0, cm.Len())
	for _, tag := range cm.Tags() {
		code, _ := cm.Lookup(tag)
		out = append(out, allocation{Tag: tag, Code: code, Occurrences: counts[tag]})
	}
	return PrintResult(cmd, out)
}

type allocation struct {
	Tag         string `json:"tag"`
	Code        string `json:"code"`
	Occurrences int    `json:"occurrences"`
}

// allocationTable lists tags in allocation order.
type allocationTable []allocation

func (a allocationTable) TableHeaders() []string { return []string{"Tag", "Code", "Occurrences"} }

func (a allocationTable) TableRows() [][]string {
	rows := make([][]string, 0, len(a))
	for _, al := range a {
		rows = append(rows, []string{al.Tag, al.Code, strconv.Itoa(al.Occurrences)})
	}
	return rows
}

func (a allocationTable) String() string {
	var sb strings.Builder
	for _, row := range a.TableRows() {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}
