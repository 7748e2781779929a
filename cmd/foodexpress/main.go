package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"FoodExpress/internal/api"
	"FoodExpress/internal/checkout"
	"FoodExpress/internal/config"
	"FoodExpress/internal/kv"
	"FoodExpress/internal/store"
	"FoodExpress/pkg/kit"
)

const (
	service     = "foodexpress"
	openTimeout = 10 * time.Second
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	backend, closeBackend, err := openBackend(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal("open store backend failed", zap.String("backend", cfg.Backend), zap.Error(err))
	}
	defer closeBackend()
	log.Info("store backend ready", zap.String("backend", cfg.Backend))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics := store.NewMetrics(reg)

	origin := store.NewOrigin(backend)
	open := func(name string) *store.Store {
		ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
		defer cancel()

		s, err := store.Open(ctx, origin,
			store.WithName(name),
			store.WithLogger(log),
			store.WithMetrics(storeMetrics),
		)
		if err != nil {
			log.Fatal("open store failed", zap.String("view", name), zap.Error(err))
		}
		return s
	}
	views := api.Views{
		Customer: open("customer"),
		Staff:    open("staff"),
		Admin:    open("admin"),
	}
	defer views.Customer.Close()
	defer views.Staff.Close()
	defer views.Admin.Close()

	hub := api.NewHub(log)
	defer hub.Attach(views.Customer).Unsubscribe()

	carts := checkout.NewCartStore(backend)
	h := api.NewHandler(api.Deps{
		Views: views,
		Carts: carts,
		Checkout: &checkout.Service{
			Store:    views.Customer,
			Carts:    carts,
			Log:      log,
			Location: cfg.Location,
		},
		Hub:                 hub,
		Location:            cfg.Location,
		CheckoutLimitPerMin: cfg.CheckoutLimitPerMin,
	}, api.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log, hub.Close); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openBackend(ctx context.Context, cfg config.Config) (kv.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		s := kv.NewMemStore()
		s.MaxBytes = cfg.MemoryQuotaBytes
		return s, func() {}, nil

	case config.BackendSQLite:
		s, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendPostgres:
		// OpenPostgres creates the kv table itself.
		s, err := kv.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
