package cli

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/netmodel/internal/application/matching"
	"github.com/turtacn/netmodel/internal/domain/reaction"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
)

type matchOptions struct {
	single      bool
	booleanOnly bool
	workers     int
}

func newMatchCmd() *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match MODEL1 MODEL2 [OUTFILE]",
		Short: "Find equivalent reactions between two NET models",
		Long: "Compares every reaction of MODEL1 with every reaction of MODEL2 and writes\n" +
			"one line per equivalent pair: id1, id2 and the relative direction (1 or -1).\n" +
			"Paths may be local files, '-' for stdin/stdout, or minio://bucket/key.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.single, "single", "s", false, "compare only reactions written with a leading compartment")
	f.BoolVar(&opts.booleanOnly, "boolean-only", false, "report pairs without the direction column")
	f.IntVar(&opts.workers, "workers", 0, "concurrent comparison workers (default from config)")

	return cmd
}

func runMatch(cmd *cobra.Command, args []string, opts *matchOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := cliCtx.commandContext(cmd)
	defer cancel()

	svcOpts := matching.Options{
		Workers:           cliCtx.Config.Matching.Workers,
		SingleCompartment: cliCtx.Config.Matching.SingleCompartment || opts.single,
		BooleanOnly:       cliCtx.Config.Matching.BooleanOnly || opts.booleanOnly,
	}
	if opts.workers > 0 {
		svcOpts.Workers = opts.workers
	}

	model1, err := readSource(ctx, cmd, cliCtx, args[0])
	if err != nil {
		return err
	}
	model2, err := readSource(ctx, cmd, cliCtx, args[1])
	if err != nil {
		return err
	}

	svc := matching.NewService(svcOpts, nil, cliCtx.Logger)
	res, err := svc.CompareModels(ctx, bytes.NewReader(model1), bytes.NewReader(model2))
	if err != nil {
		return err
	}

	outfile := stdioPath
	if len(args) == 3 {
		outfile = args[2]
	}
	if isStdout(outfile) {
		switch cliCtx.OutputFormat {
		case formatJSON:
			return printJSON(cmd, res)
		case formatTable:
			return printTable(cmd, recordTable{records: res.Records, booleanOnly: svcOpts.BooleanOnly})
		}
		return svc.WriteRecords(cmd.OutOrStdout(), res.Records)
	}

	var buf bytes.Buffer
	if err := svc.WriteRecords(&buf, res.Records); err != nil {
		return err
	}
	meta := map[string]string{"run-id": res.RunID, "model1": args[0], "model2": args[1]}
	if err := writeDestination(ctx, cmd, cliCtx, outfile, buf.Bytes(), "text/tab-separated-values", meta); err != nil {
		return err
	}
	cliCtx.Logger.Debug("match records written", logging.String("path", outfile), logging.String("run_id", res.RunID))
	PrintSuccess(cmd, fmt.Sprintf("%d equivalent pairs out of %d comparisons written to %s", len(res.Records), res.Comparisons, outfile))
	return nil
}

// recordTable renders match records for --output table.
type recordTable struct {
	records     []matching.Record
	booleanOnly bool
}

func (t recordTable) TableHeaders() []string {
	if t.booleanOnly {
		return []string{"Reaction 1", "Reaction 2"}
	}
	return []string{"Reaction 1", "Reaction 2", "Direction"}
}

func (t recordTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.records))
	for _, rec := range t.records {
		row := []string{rec.ID1, rec.ID2}
		if !t.booleanOnly {
			row = append(row, rec.Direction.String())
		}
		rows = append(rows, row)
	}
	return rows
}

// newCompareCmd compares two equations given on the command line.
func newCompareCmd() *cobra.Command {
	var booleanOnly bool

	cmd := &cobra.Command{
		Use:   "compare EQUATION1 EQUATION2",
		Short: "Decide whether two equations describe the same reaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if booleanOnly {
				return PrintResult(cmd, compareOutput{MatchResult: reaction.MatchResult{Matched: reaction.Matches(args[0], args[1])}, booleanOnly: true})
			}
			return PrintResult(cmd, compareOutput{MatchResult: reaction.Match(args[0], args[1])})
		},
	}
	cmd.Flags().BoolVar(&booleanOnly, "boolean-only", false, "report only the verdict")

	return cmd
}

type compareOutput struct {
	reaction.MatchResult
	booleanOnly bool
}

func (o compareOutput) String() string {
	if o.booleanOnly {
		return strconv.FormatBool(o.Matched) + "\n"
	}
	return strconv.FormatBool(o.Matched) + "\t" + o.Direction.String() + "\n"
}

func (o compareOutput) TableHeaders() []string { return []string{"Matched", "Direction"} }

func (o compareOutput) TableRows() [][]string {
	return [][]string{{strconv.FormatBool(o.Matched), o.Direction.String()}}
}
