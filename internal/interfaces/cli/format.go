package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/netmodel/internal/application/modelformat"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
)

type formatOptions struct {
	metabolites       string
	reactions         string
	compartments      string
	biomass           string
	allowList         string
	outfile           string
	protonID          string
	identifierPattern string
}

func newFormatCmd() *cobra.Command {
	opts := &formatOptions{}

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Build a canonical NET model from reaction and metabolite tables",
		Long: "Resolves every reaction of the reaction table against the metabolite table,\n" +
			"allocates single-letter compartment codes and writes the canonical NET model.\n" +
			"Nothing is written when an equation is malformed or compartments overflow.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.metabolites, "metabolites", "m", "", "metabolite table: name<TAB>identifier (required)")
	f.StringVarP(&opts.reactions, "reactions", "r", "", "reaction table: id<TAB>equation (required)")
	f.StringVar(&opts.compartments, "compartments", "", "compartment table: tag<TAB>pH<TAB>IS<TAB>... (required)")
	f.StringVarP(&opts.biomass, "biomass", "b", "", "file holding the biomass equation")
	f.StringVarP(&opts.allowList, "allow", "a", "", "file listing the reaction IDs to keep, one per line")
	f.StringVarP(&opts.outfile, "outfile", "f", stdioPath, "destination of the NET model")
	f.StringVar(&opts.protonID, "proton-id", "", "identifier elided from reactions (default from config)")
	f.StringVar(&opts.identifierPattern, "identifier-pattern", "", "regular expression accepted identifiers must match (default from config)")
	_ = cmd.MarkFlagRequired("metabolites")
	_ = cmd.MarkFlagRequired("reactions")
	_ = cmd.MarkFlagRequired("compartments")

	return cmd
}

func runFormat(cmd *cobra.Command, opts *formatOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := cliCtx.commandContext(cmd)
	defer cancel()

	svcOpts := modelformat.Options{
		ProtonID:          cliCtx.Config.Canonical.ProtonID,
		IdentifierPattern: cliCtx.Config.Canonical.IdentifierPattern,
	}
	if cmd.Flags().Changed("proton-id") {
		svcOpts.ProtonID = opts.protonID
	}
	if opts.identifierPattern != "" {
		svcOpts.IdentifierPattern = opts.identifierPattern
	}
	svc, err := modelformat.NewService(svcOpts, nil, cliCtx.Logger)
	if err != nil {
		return err
	}

	sources := make(map[string]io.Reader, 5)
	for name, path := range map[string]string{
		"metabolites":  opts.metabolites,
		"reactions":    opts.reactions,
		"compartments": opts.compartments,
		"biomass":      opts.biomass,
		"allow":        opts.allowList,
	} {
		r, err := openOptional(ctx, cmd, cliCtx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		sources[name] = r
	}

	in, err := modelformat.LoadInput(sources["metabolites"], sources["reactions"], sources["compartments"], sources["biomass"], sources["allow"])
	if err != nil {
		return err
	}
	res, err := svc.Format(ctx, in)
	if err != nil {
		return err
	}
	data, err := modelformat.Render(svc, res)
	if err != nil {
		return err
	}

	meta := map[string]string{"run-id": res.RunID}
	if err := writeDestination(ctx, cmd, cliCtx, opts.outfile, data, "text/plain", meta); err != nil {
		return err
	}
	if isStdout(opts.outfile) {
		return nil
	}

	cliCtx.Logger.Debug("model written", logging.String("path", opts.outfile), logging.String("run_id", res.RunID))
	if cliCtx.OutputFormat == formatText {
		PrintSuccess(cmd, fmt.Sprintf("%d reactions written to %s", res.Counts[modelformat.StatusWritten], opts.outfile))
		return nil
	}
	return PrintResult(cmd, formatSummary{res})
}

// openOptional returns a reader over the file at path, or a nil reader when
// path is empty.
func openOptional(ctx context.Context, cmd *cobra.Command, cliCtx *CLIContext, path string) (io.Reader, error) {
	if path == "" {
		return nil, nil
	}
	data, err := readSource(ctx, cmd, cliCtx, path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// formatSummary renders the statistics of a format run.
type formatSummary struct {
	*modelformat.Result
}

func (s formatSummary) TableHeaders() []string { return []string{"Outcome", "Reactions"} }

func (s formatSummary) TableRows() [][]string {
	keys := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(s.Counts[k])})
	}
	return rows
}
