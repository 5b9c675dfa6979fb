package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"faraid-engine/internal/handler"
	"faraid-engine/internal/i18n"
	"faraid-engine/internal/metrics"
	"faraid-engine/internal/valuation"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calculation HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port != 0 {
			cfg.Port = port
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		catalog, err := i18n.LoadEmbedded()
		if err != nil {
			return err
		}
		h := handler.New(logger, newRateSource(), catalog, metrics.New(), handler.Options{
			DefaultLanguage: cfg.DefaultLanguage,
			ResultCacheTTL:  cfg.ResultCacheTTL,
			RateLimit:       rate.Limit(cfg.RateLimitRPS),
			RateBurst:       cfg.RateLimitBurst,
		})

		server := &fasthttp.Server{
			Handler:      h.Route,
			Name:         "faraid-engine",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			logger.Info("faraid engine starting",
				zap.String("addr", cfg.Addr()),
				zap.Strings("languages", catalog.Languages()),
				zap.Bool("offline_rates", cfg.MetalRatesURL == ""),
			)
			errc <- server.ListenAndServe(cfg.Addr())
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.ShutdownWithContext(shutdownCtx)
	},
}

// newRateSource builds the metal price lookup from the loaded config.
func newRateSource() *valuation.RateSource {
	fallback := map[valuation.Metal]decimal.Decimal{}
	if cfg.GoldRatePerGram.IsPositive() {
		fallback[valuation.Gold] = cfg.GoldRatePerGram
	}
	if cfg.SilverRatePerGram.IsPositive() {
		fallback[valuation.Silver] = cfg.SilverRatePerGram
	}
	return valuation.NewRateSource(valuation.Config{
		BaseURL:  cfg.MetalRatesURL,
		CacheTTL: cfg.RateCacheTTL,
		Fallback: fallback,
	}, logger)
}
