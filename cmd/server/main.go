package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"invoiceguard/internal/lookup"
	lookupmetrics "invoiceguard/internal/lookup/metrics"
	"invoiceguard/internal/platform/config"
	"invoiceguard/internal/platform/httpserver"
	"invoiceguard/internal/platform/logger"
	"invoiceguard/internal/platform/redis"
	"invoiceguard/internal/regulatory"
	"invoiceguard/internal/regulatory/sources"
	httpapi "invoiceguard/internal/transport/http"
	"invoiceguard/internal/validator"
	validatormetrics "invoiceguard/internal/validator/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Compliance logic lives in internal/validator.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var store lookup.Store = lookup.NewMemoryStore()
	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		store = lookup.NewRedisStore(rdb.Client)
		defer rdb.Close()
	}

	cache := lookup.New(store,
		lookup.WithTTL(cfg.CacheTTL),
		lookup.WithNegativeTTL(cfg.NegativeTTL),
		lookup.WithFetchTimeout(cfg.FetchTimeout),
		lookup.WithRetry(cfg.RetryMax, 100*time.Millisecond),
		lookup.WithLogger(log),
		lookup.WithMetrics(lookupmetrics.New()),
	)

	// Reference in-memory sources. Production deployments swap in real
	// clients behind the same interfaces.
	v := validator.New(devSources(), cache,
		validator.WithDeadline(cfg.ValidateDeadline),
		validator.WithLogger(log),
		validator.WithMetrics(validatormetrics.New()),
	)

	handler := httpapi.New(v, log)
	router := httpapi.NewRouter(handler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting invoiceguard", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// devSources builds the fixture-backed regulatory sources used for local runs.
func devSources() regulatory.Sources {
	date := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	rateChange := date("2019-04-01")
	return regulatory.Sources{
		GSTIN: sources.NewGSTINRegistry([]regulatory.GSTINRecord{
			regulatory.ActiveRegistration("27AABCT1234F1ZP", "Tulsi Trading Pvt Ltd"),
			regulatory.InactiveRegistration("29AAACQ9021F1Z3", "Quartz Metals LLP",
				regulatory.RegistrationSuspended, date("2024-03-15"), "returns not filed"),
		}, sources.Fault{}),
		IRN: sources.NewIRNRegistry([]regulatory.IRNRecord{
			{
				IRN:           "a5c12dce7368a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6",
				Status:        regulatory.IRNActive,
				SellerGSTIN:   "27AABCT1234F1ZP",
				BuyerGSTIN:    "29AAACB5671G1Z2",
				InvoiceNumber: "INV-2024-0042",
				InvoiceValue:  590000,
			},
		}, sources.Fault{}),
		Rates: sources.NewRateTable([]regulatory.RateBand{
			{HSNCode: "8471", CGST: 9, SGST: 9, EffectiveFrom: date("2017-07-01"), EffectiveTo: &rateChange},
			{HSNCode: "8471", CGST: 6, SGST: 6, EffectiveFrom: rateChange},
		}, sources.Fault{}),
		Mandate: sources.NewMandateService(map[string]float64{
			"27AABCT1234F1ZP": 120_000_000,
		}, 50_000_000, date("2023-08-01"), sources.Fault{}),
		Filers: sources.NewFilerRegistry([]regulatory.FilerStatus{
			{PAN: "AABCT1234F", EnhancedTDS: false, VerifiedOn: date("2024-04-01")},
		}, sources.Fault{}),
	}
}
