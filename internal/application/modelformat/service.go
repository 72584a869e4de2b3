// Package modelformat turns a model's reaction and metabolite tables into a
// canonical NET model.
package modelformat

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/turtacn/netmodel/internal/domain/reaction"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/netmodel/internal/infrastructure/netfile"
	"github.com/turtacn/netmodel/pkg/errors"
)

// DefaultIdentifierPattern accepts KEGG compound identifiers.
const DefaultIdentifierPattern = `^C[0-9]{5}$`

// Outcome labels recorded per reaction.
const (
	StatusWritten   = "ok"
	StatusDiscarded = "discarded"
	StatusDuplicate = "duplicate"
	StatusFiltered  = "filtered"
)

// bracketPattern matches one compartment bracket, shortest first.
var bracketPattern = regexp.MustCompile(`\[.+?\]`)

// Service defines the model canonicalization operations.
type Service interface {
	// Format builds the complete canonical model in memory. Nothing is
	// written when it fails.
	Format(ctx context.Context, in *Input) (*Result, error)
	// Write renders a formatted model in the NET layout.
	Write(w io.Writer, res *Result) error
}

// Options configures a Service.
type Options struct {
	// ProtonID is elided from canonical reactions; empty disables elision.
	ProtonID string
	// IdentifierPattern filters the metabolite table by identifier. Empty
	// selects DefaultIdentifierPattern.
	IdentifierPattern string
}

// Input holds the parsed source tables of one model.
type Input struct {
	// Metabolites maps participant names to identifiers.
	Metabolites map[string]string
	// Reactions in table order; IDs are unique.
	Reactions    []netfile.TableReaction
	Compartments []netfile.CompartmentRow
	// Biomass is used only when HasBiomass is set.
	Biomass    string
	HasBiomass bool
	// AllowList restricts output to these reaction IDs when non-empty.
	AllowList []string
}

// Result is a fully formatted model plus run statistics.
type Result struct {
	RunID   string               `json:"run_id"`
	Model   *netfile.Model       `json:"-"`
	Changes []reaction.TagChange `json:"changes,omitempty"`
	Tags    map[string]string    `json:"tags"`
	Counts  map[string]int       `json:"counts"`
}

type serviceImpl struct {
	opts       Options
	identifier *regexp.Regexp
	metrics    *prometheus.AppMetrics
	logger     logging.Logger
}

// NewService creates a model canonicalization Service. It fails when the
// identifier pattern does not compile.
func NewService(opts Options, metrics *prometheus.AppMetrics, logger logging.Logger) (Service, error) {
	if opts.IdentifierPattern == "" {
		opts.IdentifierPattern = DefaultIdentifierPattern
	}
	re, err := regexp.Compile(opts.IdentifierPattern)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid identifier pattern").WithDetail(opts.IdentifierPattern)
	}
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{opts: opts, identifier: re, metrics: metrics, logger: logger.Named("modelformat")}, nil
}

func (s *serviceImpl) Format(ctx context.Context, in *Input) (*Result, error) {
	if in == nil {
		return nil, errors.InvalidParam("input is required")
	}
	runID := uuid.NewString()
	log := s.logger.With(logging.String("run_id", runID))
	timer := prometheus.NewTimer(s.metrics.FormatRunDuration.WithLabelValues())

	table := s.filterIdentifiers(in.Metabolites)
	resolver := reaction.NewResolver(table, reaction.WithProtonID(s.opts.ProtonID))

	equations := make([]string, len(in.Reactions))
	for i, rx := range in.Reactions {
		equations[i] = rx.Equation
	}
	cm, err := reaction.AllocateCompartments(equations)
	if err != nil {
		return nil, err
	}
	s.metrics.CompartmentTags.WithLabelValues("model").Set(float64(cm.Len()))
	changes := cm.Changes()
	if len(changes) > 0 {
		pairs := make([]string, len(changes))
		for i, c := range changes {
			pairs[i] = c.Old + " --> " + c.New
		}
		log.Info("compartment tags have been changed", logging.Strings("changes", pairs))
	}

	model := &netfile.Model{}

	for _, row := range in.Compartments {
		code, ok := cm.Lookup(row.Tag)
		if !ok {
			return nil, errors.New(errors.ErrCodeCompartmentUnmapped, "compartment table names an unused tag").WithDetail(row.Tag)
		}
		model.Compartments = append(model.Compartments, netfile.ModelCompartment{Tag: code, Columns: row.Columns})
	}

	counts := map[string]int{}
	reactions, err := s.canonicalReactions(ctx, in, resolver, cm, counts)
	if err != nil {
		return nil, err
	}
	model.Reactions = reactions

	if in.HasBiomass {
		text, err := canonicalText(strings.TrimSpace(in.Biomass), resolver, cm)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "biomass reaction")
		}
		model.Biomass = bracketPattern.ReplaceAllString(text, "")
		model.HasBiomass = true
	}

	model.Metabolites = distinctSorted(table)

	elapsed := timer.ObserveDuration()
	log.Info("model formatted",
		logging.Int("reactions", len(in.Reactions)),
		logging.Int("written", counts[StatusWritten]),
		logging.Int("discarded", counts[StatusDiscarded]),
		logging.Int("duplicates", counts[StatusDuplicate]),
		logging.Int("filtered", counts[StatusFiltered]),
		logging.Int("metabolites", len(model.Metabolites)),
		logging.Duration("elapsed", elapsed))

	return &Result{RunID: runID, Model: model, Changes: changes, Tags: cm.AsMap(), Counts: counts}, nil
}

// canonicalReactions renders reactions in ascending ID order. A reaction
// whose canonical text was already written is skipped, so the first ID in
// sort order wins.
func (s *serviceImpl) canonicalReactions(ctx context.Context, in *Input, res *reaction.Resolver, cm *reaction.CompartmentMap, counts map[string]int) ([]netfile.ModelReaction, error) {
	sorted := append([]netfile.TableReaction(nil), in.Reactions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var allowed map[string]bool
	if len(in.AllowList) > 0 {
		allowed = make(map[string]bool, len(in.AllowList))
		for _, id := range in.AllowList {
			allowed[id] = true
		}
	}

	record := func(status string) {
		counts[status]++
		prometheus.RecordCanonical(s.metrics, status)
	}

	written := make(map[string]bool)
	var out []netfile.ModelReaction
	for _, rx := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "formatting cancelled")
		}
		if allowed != nil && !allowed[rx.ID] {
			record(StatusFiltered)
			continue
		}
		text, err := canonicalText(rx.Equation, res, cm)
		if err != nil {
			prometheus.RecordError(s.metrics, "modelformat", string(errors.GetCode(err)))
			return nil, errors.Wrap(err, errors.CodeUnknown, "reaction "+rx.ID)
		}
		switch {
		case text == "":
			record(StatusDiscarded)
		case written[text]:
			record(StatusDuplicate)
		default:
			written[text] = true
			out = append(out, netfile.ModelReaction{ID: rx.ID, Equation: text})
			record(StatusWritten)
		}
	}
	return out, nil
}

func canonicalText(equation string, res *reaction.Resolver, cm *reaction.CompartmentMap) (string, error) {
	rx, err := reaction.Parse(equation)
	if err != nil {
		return "", err
	}
	return reaction.Canonicalize(rx, res, cm)
}

// filterIdentifiers drops table entries whose identifier does not match the
// configured pattern.
func (s *serviceImpl) filterIdentifiers(table map[string]string) map[string]string {
	out := make(map[string]string, len(table))
	for name, id := range table {
		if s.identifier.MatchString(id) {
			out[name] = id
		}
	}
	return out
}

func distinctSorted(table map[string]string) []string {
	seen := make(map[string]bool, len(table))
	ids := make([]string, 0, len(table))
	for _, id := range table {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *serviceImpl) Write(w io.Writer, res *Result) error {
	if res == nil || res.Model == nil {
		return errors.InvalidParam("formatted model is required")
	}
	return netfile.WriteModel(w, res.Model)
}

// Render returns the NET text of a formatted model.
func Render(svc Service, res *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := svc.Write(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadInput reads the source tables. biomass and allowList may be nil.
// The allow-list holds one reaction ID per line; blank lines are ignored.
func LoadInput(metabolites, reactions, compartments, biomass, allowList io.Reader) (*Input, error) {
	in := &Input{}
	var err error
	if in.Metabolites, err = netfile.ReadMetaboliteTable(metabolites); err != nil {
		return nil, err
	}
	if in.Reactions, err = netfile.ReadReactionTable(reactions); err != nil {
		return nil, err
	}
	if in.Compartments, err = netfile.ReadCompartmentTable(compartments); err != nil {
		return nil, err
	}
	if biomass != nil {
		data, err := io.ReadAll(biomass)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReadFailed, "failed to read biomass reaction")
		}
		in.Biomass, in.HasBiomass = strings.TrimSpace(string(data)), true
	}
	if allowList != nil {
		sc := bufio.NewScanner(allowList)
		for sc.Scan() {
			if id := strings.TrimSpace(sc.Text()); id != "" {
				in.AllowList = append(in.AllowList, id)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeReadFailed, "failed to read allow-list")
		}
	}
	return in, nil
}
