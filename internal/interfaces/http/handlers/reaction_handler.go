package handlers

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/netmodel/internal/application/matching"
	"github.com/turtacn/netmodel/internal/domain/reaction"
	"github.com/turtacn/netmodel/internal/infrastructure/database/redis"
	"github.com/turtacn/netmodel/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/netmodel/internal/infrastructure/storage/minio"
	"github.com/turtacn/netmodel/pkg/errors"
)

// ReactionHandler serves equation parsing, pairwise comparison, model
// matching and compartment allocation.
type ReactionHandler struct {
	mu       sync.RWMutex
	defaults matching.Options
	storage  minio.ObjectStorageRepository
	metrics  *prometheus.AppMetrics
	logger   logging.Logger

	cache    redis.Cache
	cacheTTL time.Duration
	events   kafka.RunPublisher
}

// NewReactionHandler creates a ReactionHandler. storage may be nil, in which
// case requests naming minio:// paths are rejected.
func NewReactionHandler(defaults matching.Options, storage minio.ObjectStorageRepository, metrics *prometheus.AppMetrics, logger logging.Logger) *ReactionHandler {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ReactionHandler{defaults: defaults, storage: storage, metrics: metrics, logger: logger, events: kafka.NopRunPublisher{}}
}

// WithResultCache makes Match reuse results of identical requests for ttl.
func (h *ReactionHandler) WithResultCache(c redis.Cache, ttl time.Duration) *ReactionHandler {
	h.cache = c
	h.cacheTTL = ttl
	return h
}

// WithEvents announces every finished match run on p.
func (h *ReactionHandler) WithEvents(p kafka.RunPublisher) *ReactionHandler {
	h.events = p
	return h
}

// SetDefaults replaces the options applied to match requests that do not
// override them. A change drops every cached match result.
func (h *ReactionHandler) SetDefaults(ctx context.Context, opts matching.Options) error {
	h.mu.Lock()
	changed := h.defaults != opts
	h.defaults = opts
	h.mu.Unlock()
	if !changed || h.cache == nil {
		return nil
	}
	n, err := h.cache.DeleteByPrefix(ctx, matching.CacheKeyPrefix)
	if err != nil {
		return err
	}
	h.logger.Info("Match result cache purged", logging.Int("entries", int(n)))
	return nil
}

func (h *ReactionHandler) matchDefaults() matching.Options {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.defaults
}

// RegisterRoutes registers the reaction routes.
func (h *ReactionHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/reactions/parse", h.Parse)
	r.POST("/reactions/compare", h.Compare)
	r.POST("/reactions/match", h.Match)
	r.POST("/compartments/allocate", h.Allocate)
}

// ParseRequest is the body of POST /reactions/parse.
type ParseRequest struct {
	Equation string `json:"equation" binding:"required"`
}

// Parse handles POST /reactions/parse.
func (h *ReactionHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	rx, err := reaction.Parse(req.Equation)
	if err != nil {
		h.metrics.ReactionsParsedTotal.WithLabelValues("malformed").Inc()
		writeAppError(c, h.logger, err)
		return
	}
	h.metrics.ReactionsParsedTotal.WithLabelValues("ok").Inc()
	writeJSON(c, http.StatusOK, rx)
}

// CompareRequest is the body of POST /reactions/compare.
type CompareRequest struct {
	Equation1   string `json:"equation1"`
	Equation2   string `json:"equation2"`
	BooleanOnly bool   `json:"boolean_only"`
}

// Compare handles POST /reactions/compare. Blank or malformed equations are
// a non-match, not an error.
func (h *ReactionHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if req.BooleanOnly {
		prometheus.RecordComparisons(h.metrics, matching.ModeBoolean, 1)
		writeJSON(c, http.StatusOK, reaction.MatchResult{Matched: reaction.Matches(req.Equation1, req.Equation2)})
		return
	}
	prometheus.RecordComparisons(h.metrics, matching.ModeDirectional, 1)
	writeJSON(c, http.StatusOK, reaction.Match(req.Equation1, req.Equation2))
}

// MatchRequest is the body of POST /reactions/match. Each model is given
// either inline as NET text or as a minio:// path.
type MatchRequest struct {
	Model1            string `json:"model1"`
	Model2            string `json:"model2"`
	Model1Path        string `json:"model1_path"`
	Model2Path        string `json:"model2_path"`
	SingleCompartment *bool  `json:"single_compartment"`
	BooleanOnly       *bool  `json:"boolean_only"`
	// OutputPath, when set, also stores the records in NET match format.
	OutputPath string `json:"output_path"`
}

// MatchResponse is the result of POST /reactions/match.
type MatchResponse struct {
	*matching.Result
	OutputPath string `json:"output_path,omitempty"`
	Cached     bool   `json:"cached,omitempty"`
}

// Match handles POST /reactions/match.
func (h *ReactionHandler) Match(c *gin.Context) {
	var req MatchRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	ctx := c.Request.Context()

	opts := h.matchDefaults()
	if req.SingleCompartment != nil {
		opts.SingleCompartment = *req.SingleCompartment
	}
	if req.BooleanOnly != nil {
		opts.BooleanOnly = *req.BooleanOnly
	}

	model1, err := h.source(ctx, "model1", req.Model1, req.Model1Path)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	model2, err := h.source(ctx, "model2", req.Model2, req.Model2Path)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}

	svc := matching.NewService(opts, h.metrics, h.logger)
	res, cached, err := h.compare(ctx, svc, opts, model1, model2)
	if err != nil {
		prometheus.RecordError(h.metrics, "matching", string(errors.GetCode(err)))
		writeAppError(c, h.logger, err)
		return
	}

	if req.OutputPath != "" {
		var buf bytes.Buffer
		if err := svc.WriteRecords(&buf, res.Records); err != nil {
			writeAppError(c, h.logger, err)
			return
		}
		meta := map[string]string{"run-id": res.RunID}
		if err := h.store(ctx, req.OutputPath, buf.Bytes(), "text/tab-separated-values", meta); err != nil {
			writeAppError(c, h.logger, err)
			return
		}
	}

	publishRun(ctx, h.events, h.logger, &kafka.RunEvent{
		RunID:       res.RunID,
		Kind:        kafka.RunKindMatch,
		Comparisons: res.Comparisons,
		Matches:     len(res.Records),
		Cached:      cached,
		OutputPath:  req.OutputPath,
		DurationMs:  res.Duration.Milliseconds(),
	})
	writeJSON(c, http.StatusOK, MatchResponse{Result: res, OutputPath: req.OutputPath, Cached: cached})
}

// compare runs svc over both models, going through the result cache when one
// is configured.
func (h *ReactionHandler) compare(ctx context.Context, svc matching.Service, opts matching.Options, model1, model2 []byte) (*matching.Result, bool, error) {
	run := func(ctx context.Context) (*matching.Result, error) {
		return svc.CompareModels(ctx, bytes.NewReader(model1), bytes.NewReader(model2))
	}
	if h.cache == nil {
		res, err := run(ctx)
		return res, false, err
	}

	var res matching.Result
	hit, err := h.cache.GetOrLoad(ctx, matching.CacheKey(model1, model2, opts), &res, h.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return run(ctx)
	})
	if err != nil {
		return nil, false, err
	}
	prometheus.RecordCacheLookup(h.metrics, hit)
	return &res, hit, nil
}

// AllocateRequest is the body of POST /compartments/allocate.
type AllocateRequest struct {
	Equations []string `json:"equations"`
	// Tags, when set, is allocated directly instead of scanning Equations.
	Tags []string `json:"tags"`
}

// AllocateResponse lists the allocated code of each tag in allocation order.
type AllocateResponse struct {
	Tags    []TagCode            `json:"tags"`
	Changes []reaction.TagChange `json:"changes,omitempty"`
}

// TagCode pairs an original compartment tag with its code.
type TagCode struct {
	Tag  string `json:"tag"`
	Code string `json:"code"`
}

// Allocate handles POST /compartments/allocate.
func (h *ReactionHandler) Allocate(c *gin.Context) {
	var req AllocateRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	var (
		cm  *reaction.CompartmentMap
		err error
	)
	if len(req.Tags) > 0 {
		cm, err = reaction.AllocateTags(req.Tags)
	} else {
		cm, err = reaction.AllocateCompartments(req.Equations)
	}
	if err != nil {
		prometheus.RecordError(h.metrics, "http", string(errors.GetCode(err)))
		writeAppError(c, h.logger, err)
		return
	}
	h.metrics.CompartmentTags.WithLabelValues("request").Set(float64(cm.Len()))

	resp := AllocateResponse{Tags: make([]TagCode, 0, cm.Len()), Changes: cm.Changes()}
	for _, tag := range cm.Tags() {
		code, _ := cm.Lookup(tag)
		resp.Tags = append(resp.Tags, TagCode{Tag: tag, Code: code})
	}
	writeJSON(c, http.StatusOK, resp)
}

// source returns inline text, or fetches path from the object store.
func (h *ReactionHandler) source(ctx context.Context, field, text, path string) ([]byte, error) {
	return fetchSource(ctx, h.storage, h.metrics, field, text, path)
}

func (h *ReactionHandler) store(ctx context.Context, path string, data []byte, contentType string, meta map[string]string) error {
	return storeObject(ctx, h.storage, h.metrics, path, data, contentType, meta)
}

// fetchSource resolves one request input given inline or by minio:// path.
// Setting both is rejected; setting neither yields empty input.
func fetchSource(ctx context.Context, storage minio.ObjectStorageRepository, metrics *prometheus.AppMetrics, field, text, path string) ([]byte, error) {
	switch {
	case path != "" && text != "":
		return nil, errors.InvalidParam(field + " and " + field + "_path are mutually exclusive")
	case path == "":
		return []byte(text), nil
	case !minio.IsObjectURL(path):
		return nil, errors.InvalidParam(field + "_path must be a minio:// URL").WithDetail(path)
	case storage == nil:
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "object storage is not configured")
	}
	data, err := storage.Get(ctx, path)
	prometheus.RecordObjectTransfer(metrics, "get", err)
	return data, err
}

// storeObject writes data to a minio:// path.
func storeObject(ctx context.Context, storage minio.ObjectStorageRepository, metrics *prometheus.AppMetrics, path string, data []byte, contentType string, meta map[string]string) error {
	if !minio.IsObjectURL(path) {
		return errors.InvalidParam("output_path must be a minio:// URL").WithDetail(path)
	}
	if storage == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "object storage is not configured")
	}
	err := storage.Put(ctx, path, data, contentType, meta)
	prometheus.RecordObjectTransfer(metrics, "put", err)
	return err
}
