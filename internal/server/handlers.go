package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newsvendor-lab/internal/config"
	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/idhash"
	"newsvendor-lab/internal/metrics"
	"newsvendor-lab/internal/optimizer"
	"newsvendor-lab/internal/reporting"
	"newsvendor-lab/internal/simulation"
	"newsvendor-lab/internal/storage"
)

// Request limits. MaxDays also bounds the total simulated days of one request.
const (
	MaxDays       = 1_000_000
	MaxIterations = 10_000
	MaxCandidates = 1_000
)

// errLimitExceeded marks requests above the request limits.
var errLimitExceeded = errors.New("request exceeds server limits")

// OptimizeRequest is the body of POST /v1/optimize. Omitted fields use configured defaults.
type OptimizeRequest struct {
	Candidates []int             `json:"candidates"`
	SampleDays int               `json:"sample_days"`
	Seed       *uint64           `json:"seed"`
	Economics  *domain.Economics `json:"economics"`
}

// SimulateRequest is the body of POST /v1/simulate.
type SimulateRequest struct {
	Quantity   int               `json:"quantity"`
	Days       int               `json:"days"`
	Iterations int               `json:"iterations"`
	Seed       *uint64           `json:"seed"`
	Economics  *domain.Economics `json:"economics"`
}

// Handler serves the simulation API.
type Handler struct {
	cfg    *config.Config
	store  storage.RunStore
	now    func() time.Time
	logger *zap.Logger
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(cfg *config.Config, store storage.RunStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cfg:    cfg,
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// WithClock sets a custom clock function for deterministic timestamps.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Optimize runs a candidate search and stores the result.
func (h *Handler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if !h.bind(c, &req) {
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = h.cfg.Simulation.Candidates
	}
	days := req.SampleDays
	if days == 0 {
		days = h.cfg.Simulation.SampleDays
	}
	if days > MaxDays || len(candidates) > MaxCandidates || int64(days)*int64(len(candidates)) > MaxDays {
		h.badRequest(c, errLimitExceeded)
		return
	}

	model := h.model(req.Economics)
	seed := h.seed(req.Seed)
	runID := idhash.ComputeRunID(domain.RunKindOptimize, seed, model.Economics, candidates, days, 1)

	if existing, ok := h.existing(c.Request.Context(), runID); ok {
		c.JSON(http.StatusOK, existing)
		return
	}

	opt, err := optimizer.New(model, optimizer.Options{
		Sources: optimizer.SeededSources(seed),
		Workers: h.cfg.Simulation.Workers,
		Logger:  h.logger,
	})
	if err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := opt.Optimize(c.Request.Context(), candidates, days)
	if err != nil {
		if isClientError(err) {
			h.badRequest(c, err)
			return
		}
		h.logger.Error("optimization failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "optimization failed"})
		return
	}

	h.save(c, &domain.RunResult{
		RunID:        runID,
		Kind:         domain.RunKindOptimize,
		Seed:         seed,
		CreatedAt:    h.now(),
		Optimization: result,
	})
}

// Simulate produces a ledger for one quantity and stores it.
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if !h.bind(c, &req) {
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = h.cfg.Simulation.DefaultQuantity
	}
	days := req.Days
	if days == 0 {
		days = h.cfg.Simulation.ReportDays
	}
	iterations := req.Iterations
	if iterations == 0 {
		iterations = 1
	}
	if iterations < 0 {
		h.badRequest(c, simulation.ErrInvalidIterations)
		return
	}
	if days > MaxDays || iterations > MaxIterations || int64(days)*int64(iterations) > MaxDays {
		h.badRequest(c, errLimitExceeded)
		return
	}

	model := h.model(req.Economics)
	seed := h.seed(req.Seed)
	runID := idhash.ComputeRunID(domain.RunKindSimulate, seed, model.Economics, []int{quantity}, days, iterations)

	if existing, ok := h.existing(c.Request.Context(), runID); ok {
		c.JSON(http.StatusOK, existing)
		return
	}

	engine, err := simulation.NewEngine(model, simulation.NewSource(seed, 0))
	if err != nil {
		h.badRequest(c, err)
		return
	}
	ledger, err := engine.Simulate(quantity, days)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	stats, err := metrics.ComputeRunStats(ledger)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	run := &domain.RunResult{
		RunID:     runID,
		Kind:      domain.RunKindSimulate,
		Seed:      seed,
		CreatedAt: h.now(),
		Ledger:    ledger,
		Stats:     stats,
	}

	if iterations > 1 {
		repEngine, err := simulation.NewEngine(model, simulation.NewSource(seed, 1))
		if err != nil {
			h.badRequest(c, err)
			return
		}
		run.Replication, err = repEngine.Replicate(quantity, days, iterations)
		if err != nil {
			h.badRequest(c, err)
			return
		}
	}

	h.save(c, run)
}

// ListRuns returns stored runs, optionally filtered by ?kind=.
func (h *Handler) ListRuns(c *gin.Context) {
	kind := c.Query("kind")
	switch kind {
	case "", domain.RunKindOptimize, domain.RunKindSimulate, domain.RunKindPipeline:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown run kind"})
		return
	}

	runs, err := h.store.List(c.Request.Context(), kind)
	if err != nil {
		h.logger.Error("list runs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	ids := make([]gin.H, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, gin.H{"run_id": r.RunID, "kind": r.Kind, "created_at": r.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"runs": ids})
}

// GetRun returns one stored run.
func (h *Handler) GetRun(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetLedger renders a stored run's ledger as tab-delimited text, or CSV with ?format=csv.
func (h *Handler) GetLedger(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	if run.Ledger == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run has no ledger"})
		return
	}

	switch c.DefaultQuery("format", "text") {
	case "csv":
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(reporting.RenderLedgerCSV(run.Ledger)))
	case "text":
		c.Data(http.StatusOK, "text/tab-separated-values; charset=utf-8", []byte(reporting.RenderLedger(run.Ledger)))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be text or csv"})
	}
}

// bind decodes an optional JSON body. An empty body keeps all defaults.
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) model(econ *domain.Economics) domain.ModelConfig {
	if econ != nil {
		return domain.DefaultModelConfig().WithEconomics(*econ)
	}
	return h.cfg.ModelConfig()
}

// seed prefers the request seed, then the configured seed, then a random one.
func (h *Handler) seed(requested *uint64) uint64 {
	switch {
	case requested != nil:
		return *requested
	case h.cfg.Simulation.Seed != 0:
		return h.cfg.Simulation.Seed
	default:
		return simulation.RandomSeed()
	}
}

func (h *Handler) existing(ctx context.Context, runID string) (*domain.RunResult, bool) {
	run, err := h.store.GetByID(ctx, runID)
	if err != nil {
		return nil, false
	}
	return run, true
}

func (h *Handler) save(c *gin.Context, run *domain.RunResult) {
	if err := h.store.Insert(c.Request.Context(), run); err != nil {
		// A concurrent identical request may have stored it first.
		if errors.Is(err, storage.ErrDuplicateKey) {
			if existing, ok := h.existing(c.Request.Context(), run.RunID); ok {
				c.JSON(http.StatusOK, existing)
				return
			}
		}
		h.logger.Error("store run failed", zap.String("run_id", run.RunID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store run"})
		return
	}

	h.logger.Info("run stored", zap.String("run_id", run.RunID), zap.String("kind", run.Kind))
	c.JSON(http.StatusCreated, run)
}

func (h *Handler) lookup(c *gin.Context) (*domain.RunResult, bool) {
	run, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return nil, false
		}
		h.logger.Error("load run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return nil, false
	}
	return run, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func isClientError(err error) bool {
	return errors.Is(err, optimizer.ErrNoCandidates) ||
		errors.Is(err, simulation.ErrInvalidDays) ||
		errors.Is(err, simulation.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidModel)
}
