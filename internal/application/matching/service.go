// Package matching compares the reactions of two NET models pairwise and
// reports every equivalent pair.
package matching

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/netmodel/internal/domain/reaction"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/netmodel/internal/infrastructure/netfile"
	"github.com/turtacn/netmodel/pkg/errors"
)

// Metric label values for the comparison mode.
const (
	ModeDirectional = "directional"
	ModeBoolean     = "boolean"
)

// Service defines the comparison operations.
type Service interface {
	// CompareModels reads the reaction lines of two NET models and compares
	// them.
	CompareModels(ctx context.Context, model1, model2 io.Reader) (*Result, error)
	// Compare matches every reaction of set1 against every reaction of set2.
	Compare(ctx context.Context, set1, set2 []netfile.ModelReaction) (*Result, error)
	// WriteRecords writes records one per line as "id1<TAB>id2<TAB>dir", or
	// "id1<TAB>id2" when direction output is disabled.
	WriteRecords(w io.Writer, records []Record) error
}

// Options configures a Service.
type Options struct {
	// Workers bounds the goroutines comparing rows. Values below 1 mean 1.
	Workers int
	// SingleCompartment keeps only reactions whose equation opens with a
	// compartment bracket.
	SingleCompartment bool
	// BooleanOnly selects the boolean-only matcher and drops the direction
	// column.
	BooleanOnly bool
}

// Record is one equivalent pair. Direction is DirectionNone in boolean-only
// mode.
type Record struct {
	ID1       string             `json:"id1"`
	ID2       string             `json:"id2"`
	Direction reaction.Direction `json:"direction"`
}

// Result is the outcome of one comparison run.
type Result struct {
	RunID       string        `json:"run_id"`
	Records     []Record      `json:"records"`
	Comparisons int           `json:"comparisons"`
	Duration    time.Duration `json:"duration"`
}

type serviceImpl struct {
	opts    Options
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewService creates a comparison Service. Nil metrics and logger are
// replaced by no-op implementations.
func NewService(opts Options, metrics *prometheus.AppMetrics, logger logging.Logger) Service {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{opts: opts, metrics: metrics, logger: logger.Named("matching")}
}

func (s *serviceImpl) mode() string {
	if s.opts.BooleanOnly {
		return ModeBoolean
	}
	return ModeDirectional
}

func (s *serviceImpl) CompareModels(ctx context.Context, model1, model2 io.Reader) (*Result, error) {
	set1, err := netfile.ReadModelReactions(model1, s.opts.SingleCompartment)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReadFailed, "failed to read first model")
	}
	set2, err := netfile.ReadModelReactions(model2, s.opts.SingleCompartment)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReadFailed, "failed to read second model")
	}
	return s.Compare(ctx, set1, set2)
}

// Compare enumerates pairs row-major: for each reaction of set1 in order, each
// reaction of set2 in order. Rows are compared concurrently and the records
// are merged by row index, so the output order never depends on Workers.
func (s *serviceImpl) Compare(ctx context.Context, set1, set2 []netfile.ModelReaction) (*Result, error) {
	runID := uuid.NewString()
	log := s.logger.With(logging.String("run_id", runID))
	timer := prometheus.NewTimer(s.metrics.MatchRunDuration.WithLabelValues(s.mode()))

	log.Info("comparison started",
		logging.Int("reactions_1", len(set1)),
		logging.Int("reactions_2", len(set2)),
		logging.Int("workers", s.opts.Workers),
		logging.String("mode", s.mode()))

	rows := make([][]Record, len(set1))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := range set1 {
		if gCtx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rows[i] = s.compareRow(set1[i], set2)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "comparison cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "comparison cancelled")
	}

	records := make([]Record, 0)
	for _, row := range rows {
		records = append(records, row...)
	}

	comparisons := len(set1) * len(set2)
	prometheus.RecordComparisons(s.metrics, s.mode(), comparisons)
	for _, rec := range records {
		prometheus.RecordMatch(s.metrics, directionLabel(rec.Direction))
	}
	elapsed := timer.ObserveDuration()

	log.Info("comparison finished",
		logging.Int("comparisons", comparisons),
		logging.Int("matches", len(records)),
		logging.Duration("elapsed", elapsed))

	return &Result{RunID: runID, Records: records, Comparisons: comparisons, Duration: elapsed}, nil
}

func (s *serviceImpl) compareRow(rx1 netfile.ModelReaction, set2 []netfile.ModelReaction) []Record {
	var out []Record
	for _, rx2 := range set2 {
		if !s.opts.BooleanOnly {
			if res := reaction.Match(rx1.Equation, rx2.Equation); res.Matched {
				out = append(out, Record{ID1: rx1.ID, ID2: rx2.ID, Direction: res.Direction})
			}
			continue
		}
		if reaction.Matches(rx1.Equation, rx2.Equation) {
			out = append(out, Record{ID1: rx1.ID, ID2: rx2.ID})
		}
	}
	return out
}

func (s *serviceImpl) WriteRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		line := rec.ID1 + "\t" + rec.ID2
		if !s.opts.BooleanOnly {
			line += "\t" + rec.Direction.String()
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return errors.Wrap(err, errors.ErrCodeWriteFailed, "failed to write match records")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeWriteFailed, "failed to write match records")
	}
	return nil
}

func directionLabel(d reaction.Direction) string {
	switch d {
	case reaction.DirectionForward:
		return "forward"
	case reaction.DirectionReverse:
		return "reverse"
	default:
		return "unspecified"
	}
}
