package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/netmodel/internal/application/modelformat"
	"github.com/turtacn/netmodel/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/netmodel/internal/infrastructure/storage/minio"
)

// ModelHandler builds canonical NET models from uploaded tables.
type ModelHandler struct {
	svc     modelformat.Service
	storage minio.ObjectStorageRepository
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	events  kafka.RunPublisher
}

// NewModelHandler creates a ModelHandler. storage may be nil.
func NewModelHandler(svc modelformat.Service, storage minio.ObjectStorageRepository, metrics *prometheus.AppMetrics, logger logging.Logger) *ModelHandler {
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ModelHandler{svc: svc, storage: storage, metrics: metrics, logger: logger, events: kafka.NopRunPublisher{}}
}

// WithEvents announces every finished format run on p.
func (h *ModelHandler) WithEvents(p kafka.RunPublisher) *ModelHandler {
	h.events = p
	return h
}

// RegisterRoutes registers the model routes.
func (h *ModelHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/models/format", h.Format)
}

// FormatRequest is the body of POST /models/format. Tables are given inline
// as tab-separated text or by minio:// path.
type FormatRequest struct {
	Metabolites      string   `json:"metabolites"`
	MetabolitesPath  string   `json:"metabolites_path"`
	Reactions        string   `json:"reactions"`
	ReactionsPath    string   `json:"reactions_path"`
	Compartments     string   `json:"compartments"`
	CompartmentsPath string   `json:"compartments_path"`
	Biomass          *string  `json:"biomass"`
	AllowList        []string `json:"allow_list"`
	// OutputPath, when set, also stores the model text.
	OutputPath string `json:"output_path"`
}

// FormatResponse carries the model text and run statistics.
type FormatResponse struct {
	*modelformat.Result
	Model      string `json:"model"`
	OutputPath string `json:"output_path,omitempty"`
}

// Format handles POST /models/format.
func (h *ModelHandler) Format(c *gin.Context) {
	var req FormatRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	ctx := c.Request.Context()
	start := time.Now()

	tables := make([][]byte, 3)
	for i, in := range []struct{ field, text, path string }{
		{"metabolites", req.Metabolites, req.MetabolitesPath},
		{"reactions", req.Reactions, req.ReactionsPath},
		{"compartments", req.Compartments, req.CompartmentsPath},
	} {
		data, err := fetchSource(ctx, h.storage, h.metrics, in.field, in.text, in.path)
		if err != nil {
			writeAppError(c, h.logger, err)
			return
		}
		tables[i] = data
	}

	var biomass io.Reader
	if req.Biomass != nil {
		biomass = strings.NewReader(*req.Biomass)
	}
	in, err := modelformat.LoadInput(bytes.NewReader(tables[0]), bytes.NewReader(tables[1]), bytes.NewReader(tables[2]), biomass, nil)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	in.AllowList = req.AllowList

	res, err := h.svc.Format(ctx, in)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}
	text, err := modelformat.Render(h.svc, res)
	if err != nil {
		writeAppError(c, h.logger, err)
		return
	}

	if req.OutputPath != "" {
		meta := map[string]string{"run-id": res.RunID}
		if err := storeObject(ctx, h.storage, h.metrics, req.OutputPath, text, "text/plain", meta); err != nil {
			writeAppError(c, h.logger, err)
			return
		}
	}

	publishRun(ctx, h.events, h.logger, &kafka.RunEvent{
		RunID:      res.RunID,
		Kind:       kafka.RunKindFormat,
		Counts:     res.Counts,
		OutputPath: req.OutputPath,
		DurationMs: time.Since(start).Milliseconds(),
	})
	writeJSON(c, http.StatusOK, FormatResponse{Result: res, Model: string(text), OutputPath: req.OutputPath})
}
