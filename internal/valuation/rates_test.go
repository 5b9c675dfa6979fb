package valuation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"faraid-engine/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRegistry answers rate requests from a fixed table and counts calls.
type fakeRegistry struct {
	mu     sync.Mutex
	rates  map[string]string
	status int
	calls  map[string]int
	err    error
}

func newFakeRegistry(rates map[string]string) *fakeRegistry {
	return &fakeRegistry{rates: rates, status: fasthttp.StatusOK, calls: map[string]int{}}
}

func (f *fakeRegistry) DoDeadline(req *fasthttp.Request, resp *fasthttp.Response, _ time.Time) error {
	path := string(req.URI().Path())
	metal := strings.TrimPrefix(path, "/rates/")

	f.mu.Lock()
	f.calls[metal]++
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	resp.SetStatusCode(f.status)
	if rate, ok := f.rates[metal]; ok {
		resp.SetBodyString(`{"metal":"` + metal + `","rate_per_gram":"` + rate + `"}`)
	} else {
		resp.SetStatusCode(fasthttp.StatusNotFound)
	}
	return nil
}

func (f *fakeRegistry) callCount(metal string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[metal]
}

func newSource(reg *fakeRegistry, fallback map[Metal]decimal.Decimal) *RateSource {
	return NewRateSource(Config{
		BaseURL:  "http://rates.test",
		CacheTTL: time.Minute,
		Fallback: fallback,
	}, zap.NewNop(), WithClient(reg))
}

func TestRatesFetchesConcurrentlyAndCaches(t *testing.T) {
	reg := newFakeRegistry(map[string]string{"gold": "65.10", "silver": "0.82"})
	src := newSource(reg, nil)

	got := src.Rates(context.Background(), []Metal{Gold, Silver})
	require.Len(t, got, 2)
	assert.Equal(t, "65.1", got[Gold].String())
	assert.Equal(t, "0.82", got[Silver].String())

	again := src.Rates(context.Background(), []Metal{Gold, Silver})
	assert.True(t, again[Gold].Equal(got[Gold]))
	assert.Equal(t, 1, reg.callCount("gold"), "second lookup must be served from cache")
	assert.Equal(t, 1, reg.callCount("silver"))
}

func TestRatesFallsBackOnFailure(t *testing.T) {
	reg := newFakeRegistry(nil)
	reg.err = errors.New("connection refused")
	src := newSource(reg, map[Metal]decimal.Decimal{Gold: decimal.NewFromInt(60)})

	got := src.Rates(context.Background(), []Metal{Gold, Silver})

	assert.Equal(t, "60", got[Gold].String())
	_, ok := got[Silver]
	assert.False(t, ok, "no registry rate and no fallback for silver")

	src.Rates(context.Background(), []Metal{Gold})
	assert.Equal(t, 2, reg.callCount("gold"), "fallback values are not cached")
}

func TestRatesRejectsBadRegistryResponses(t *testing.T) {
	reg := newFakeRegistry(map[string]string{"gold": "-3"})
	src := newSource(reg, map[Metal]decimal.Decimal{Gold: decimal.NewFromInt(61)})

	got := src.Rates(context.Background(), []Metal{Gold})
	assert.Equal(t, "61", got[Gold].String())

	reg = newFakeRegistry(map[string]string{"gold": "70"})
	reg.status = fasthttp.StatusServiceUnavailable
	src = newSource(reg, nil)
	assert.Empty(t, src.Rates(context.Background(), []Metal{Gold}))
}

func TestRatesOfflineUsesFallbackOnly(t *testing.T) {
	reg := newFakeRegistry(map[string]string{"gold": "99"})
	src := NewRateSource(Config{Fallback: map[Metal]decimal.Decimal{Silver: decimal.RequireFromString("0.9")}},
		zap.NewNop(), WithClient(reg))

	got := src.Rates(context.Background(), []Metal{Gold, Silver})

	assert.Equal(t, map[Metal]decimal.Decimal{Silver: decimal.RequireFromString("0.9")}, got)
	assert.Zero(t, reg.callCount("gold"))
}

func TestRatesHonoursCancelledContext(t *testing.T) {
	reg := newFakeRegistry(map[string]string{"gold": "65"})
	src := newSource(reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, src.Rates(ctx, []Metal{Gold}))
	assert.Zero(t, reg.callCount("gold"))
}

func TestResolveFillsMissingRates(t *testing.T) {
	reg := newFakeRegistry(map[string]string{"gold": "50", "silver": "1"})
	src := newSource(reg, nil)

	own := decimal.NewFromInt(2)
	estate := model.EstateFinancials{
		Assets: &model.Assets{
			Gold:   &model.MetalHolding{Grams: decimal.NewFromInt(10)},
			Silver: &model.MetalHolding{Grams: decimal.NewFromInt(100), RatePerGram: &own},
		},
	}

	resolved := src.Resolve(context.Background(), estate)

	require.NotNil(t, resolved.Assets.Gold.RatePerGram)
	assert.Equal(t, "50", resolved.Assets.Gold.RatePerGram.String())
	assert.Same(t, &own, resolved.Assets.Silver.RatePerGram, "given rates are kept")
	assert.Nil(t, estate.Assets.Gold.RatePerGram, "the caller's estate is not modified")
	assert.Zero(t, reg.callCount("silver"))

	gross, err := resolved.Gross()
	require.NoError(t, err)
	assert.Equal(t, "700", gross.String())
}

func TestResolveLeavesUnknownRateForEngine(t *testing.T) {
	reg := newFakeRegistry(nil)
	src := newSource(reg, nil)

	estate := model.EstateFinancials{
		Assets: &model.Assets{Gold: &model.MetalHolding{Grams: decimal.NewFromInt(1)}},
	}
	resolved := src.Resolve(context.Background(), estate)

	_, err := resolved.Gross()
	assert.True(t, model.HasCode(err, model.CodeMissingMetalRate))
}
