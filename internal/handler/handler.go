package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"faraid-engine/internal/engine"
	"faraid-engine/internal/i18n"
	"faraid-engine/internal/metrics"
	"faraid-engine/internal/model"
)

const contentTypeJSON = "application/json"

// Resolver fills in metal rates a request left out.
type Resolver interface {
	Resolve(ctx context.Context, estate model.EstateFinancials) model.EstateFinancials
}

type Options struct {
	DefaultLanguage string
	ResultCacheTTL  time.Duration
	RateLimit       rate.Limit
	RateBurst       int
}

type Handler struct {
	logger   *zap.Logger
	rates    Resolver
	catalog  *i18n.Catalog
	metrics  *metrics.Metrics
	limiter  *rate.Limiter
	results  *cache.Cache
	language string
	scrape   fasthttp.RequestHandler
}

func New(logger *zap.Logger, rates Resolver, catalog *i18n.Catalog, m *metrics.Metrics, opts Options) *Handler {
	ttl := opts.ResultCacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	return &Handler{
		logger:   logger,
		rates:    rates,
		catalog:  catalog,
		metrics:  m,
		limiter:  rate.NewLimiter(limit, opts.RateBurst),
		results:  cache.New(ttl, 2*ttl),
		language: opts.DefaultLanguage,
		scrape:   fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})),
	}
}

// Route dispatches on the request path.
func (h *Handler) Route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/calculate":
		h.HandleCalculation(ctx)
	case "/categories":
		h.HandleCategories(ctx)
	case "/healthz":
		h.HandleHealth(ctx)
	case "/metrics":
		h.scrape(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) HandleCalculation(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if !h.limiter.Allow() {
		h.metrics.IncrementRateLimited()
		writeError(ctx, fasthttp.StatusTooManyRequests, "Too many requests")
		return
	}

	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	locale := h.catalog.Locale(h.requestLanguage(ctx, req.Language))
	req.Language = locale.Tag()

	key, err := cacheKey(&req)
	if err == nil {
		if body, ok := h.results.Get(key); ok {
			h.metrics.IncrementCacheHits()
			writeBody(ctx, fasthttp.StatusOK, body.([]byte))
			return
		}
	}

	start := time.Now()
	req.Estate = h.rates.Resolve(ctx, req.Estate)
	resp := engine.Process(&req)
	locale.Label(resp.CalculationResult.Distribution)
	elapsed := time.Since(start)

	h.metrics.ObserveCalculation(resp, elapsed)
	h.logOutcome(resp, elapsed)

	body, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("encode response failed", zap.Error(err))
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	if key != "" && resp.CalculationMetadata.CalculationOutcome == model.OutcomeSuccess {
		h.results.Set(key, body, cache.DefaultExpiration)
	}
	writeBody(ctx, fasthttp.StatusOK, body)
}

type categoriesResponse struct {
	Language   string              `json:"language"`
	Languages  []string            `json:"languages"`
	Categories []i18n.CategoryView `json:"categories"`
}

func (h *Handler) HandleCategories(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	locale := h.catalog.Locale(h.requestLanguage(ctx, string(ctx.QueryArgs().Peek("lang"))))
	writeJSON(ctx, fasthttp.StatusOK, categoriesResponse{
		Language:   locale.Tag(),
		Languages:  h.catalog.Languages(),
		Categories: locale.Categories(),
	})
}

func (h *Handler) HandleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

// requestLanguage prefers an explicit language, then Accept-Language, then
// the configured default.
func (h *Handler) requestLanguage(ctx *fasthttp.RequestCtx, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if accept := ctx.Request.Header.Peek(fasthttp.HeaderAcceptLanguage); len(accept) > 0 {
		return string(accept)
	}
	return h.language
}

func (h *Handler) logOutcome(resp *model.CalculationResponse, elapsed time.Duration) {
	meta := resp.CalculationMetadata
	fields := []zap.Field{
		zap.String("calculation_id", meta.CalculationID),
		zap.String("outcome", meta.CalculationOutcome),
		zap.Duration("duration", elapsed),
	}
	if dist := resp.CalculationResult.Distribution; dist != nil {
		fields = append(fields, zap.Strings("warnings", dist.Warnings))
	}
	if meta.CalculationOutcome != model.OutcomeSuccess {
		for _, m := range resp.CalculationResult.Messages {
			if m.Level == model.LevelCritical {
				fields = append(fields, zap.String("code", m.Code))
				break
			}
		}
		h.logger.Info("calculation rejected", fields...)
		return
	}
	h.logger.Info("calculation completed", fields...)
}

// cacheKey hashes the canonical encoding of the request. Heir order does not
// matter to the engine, so entries are normalized first.
func cacheKey(req *model.CalculationRequest) (string, error) {
	canonical := *req
	if heirs, err := model.HeirSetFrom(req.Heirs); err == nil {
		canonical.Heirs = heirs.Entries()
	}
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response")
		return
	}
	writeBody(ctx, status, body)
}

func writeBody(ctx *fasthttp.RequestCtx, status int, body []byte) {
	ctx.SetContentType(contentTypeJSON)
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	writeBody(ctx, status, body)
}
