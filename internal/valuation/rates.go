package valuation

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type Metal string

const (
	Gold   Metal = "gold"
	Silver Metal = "silver"
)

const defaultTimeout = 2 * time.Second

type Config struct {
	// BaseURL of the rate registry. Empty means offline: only the
	// fallback rates are used.
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Fallback map[Metal]decimal.Decimal
}

// RateSource looks up per-gram metal prices from a remote registry, caching
// successful lookups and falling back to configured rates on failure.
type RateSource struct {
	baseURL  string
	timeout  time.Duration
	client   Doer
	cache    *cache.Cache
	fallback map[Metal]decimal.Decimal
	logger   *zap.Logger
}

// Doer is the part of *fasthttp.Client the rate source needs.
type Doer interface {
	DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, deadline time.Time) error
}

type Option func(*RateSource)

func WithClient(c Doer) Option {
	return func(s *RateSource) { s.client = c }
}

func NewRateSource(cfg Config, logger *zap.Logger, opts ...Option) *RateSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	fallback := make(map[Metal]decimal.Decimal, len(cfg.Fallback))
	for m, r := range cfg.Fallback {
		fallback[m] = r
	}

	s := &RateSource{
		baseURL:  cfg.BaseURL,
		timeout:  cfg.Timeout,
		// at most one entry per metal, so expired items need no janitor
		cache:    cache.New(ttl, 0),
		fallback: fallback,
		logger:   logger,
		client: &fasthttp.Client{
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxConnsPerHost:     100,
			MaxIdleConnDuration: 90 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type rateResponse struct {
	Metal       Metal           `json:"metal"`
	RatePerGram decimal.Decimal `json:"rate_per_gram"`
}

// Rates resolves the given metals. A metal is missing from the result only
// when neither the registry nor the fallback knows its rate.
func (s *RateSource) Rates(ctx context.Context, metals []Metal) map[Metal]decimal.Decimal {
	result := make(map[Metal]decimal.Decimal, len(metals))

	if s.baseURL == "" {
		for _, m := range metals {
			if r, ok := s.fallback[m]; ok {
				result[m] = r
			}
		}
		return result
	}

	var toFetch []Metal
	for _, m := range metals {
		if r, ok := s.cache.Get(string(m)); ok {
			result[m] = r.(decimal.Decimal)
		} else {
			toFetch = append(toFetch, m)
		}
	}

	if len(toFetch) == 0 {
		return result
	}

	if len(toFetch) == 1 {
		if r, ok := s.lookup(ctx, toFetch[0]); ok {
			result[toFetch[0]] = r
		}
		return result
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, m := range toFetch {
		wg.Add(1)
		go func(metal Metal) {
			defer wg.Done()
			r, ok := s.lookup(ctx, metal)
			if !ok {
				return
			}
			mu.Lock()
			result[metal] = r
			mu.Unlock()
		}(m)
	}
	wg.Wait()

	return result
}

// lookup fetches one rate, caching it on success. Failures fall back to the
// configured rate, which is never cached so the registry is retried.
func (s *RateSource) lookup(ctx context.Context, m Metal) (decimal.Decimal, bool) {
	r, err := s.fetchRate(ctx, m)
	if err == nil {
		s.cache.Set(string(m), r, cache.DefaultExpiration)
		return r, true
	}

	fb, ok := s.fallback[m]
	s.logger.Warn("metal rate lookup failed",
		zap.String("metal", string(m)),
		zap.Bool("fallback", ok),
		zap.Error(err))
	return fb, ok
}

func (s *RateSource) fetchRate(ctx context.Context, m Metal) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.baseURL + "/rates/" + string(m))
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return decimal.Zero, fmt.Errorf("fetch %s rate: %w", m, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return decimal.Zero, fmt.Errorf("fetch %s rate: status %d", m, resp.StatusCode())
	}

	var rr rateResponse
	if err := json.Unmarshal(resp.Body(), &rr); err != nil {
		return decimal.Zero, fmt.Errorf("decode %s rate: %w", m, err)
	}
	if !rr.RatePerGram.IsPositive() {
		return decimal.Zero, fmt.Errorf("registry returned non-positive %s rate %s", m, rr.RatePerGram)
	}
	return rr.RatePerGram, nil
}
