package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"dashgate/internal/admin"
	"dashgate/internal/dispatch"
	"dashgate/internal/module"
	modulemetrics "dashgate/internal/module/metrics"
	"dashgate/internal/module/registry"
	moduleresolver "dashgate/internal/module/resolver"
	modulestore "dashgate/internal/module/store"
	"dashgate/internal/modules/catalog"
	"dashgate/internal/platform/config"
	"dashgate/internal/platform/database"
	"dashgate/internal/platform/health"
	"dashgate/internal/platform/httpserver"
	"dashgate/internal/platform/logger"
	"dashgate/internal/platform/middleware"
	"dashgate/internal/platform/telemetry"
	"dashgate/internal/platform/tracer"
	"dashgate/internal/seeder"
	tenantmetrics "dashgate/internal/tenant/metrics"
	tenantresolver "dashgate/internal/tenant/resolver"
	tenantstore "dashgate/internal/tenant/store"
	httptransport "dashgate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Resolution logic lives in the internal packages; everything is constructed
// once here and passed down explicitly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing dashgate",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"module_cache_ttl", cfg.ModuleCacheTTL.String(),
	)

	// Module catalog: one data-driven registration loop.
	reg := registry.New()
	if err := reg.RegisterAll(catalog.Entries()); err != nil {
		log.Error("catalog registration failed", "error", err)
		os.Exit(1)
	}

	source := telemetry.NewStatic()
	host := module.NewHost(log, source)

	// Backing stores: PostgreSQL when configured, seeded memory otherwise.
	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var tenants tenantstore.Store
	var assignments modulestore.AssignmentStore
	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		tenants = tenantstore.NewPostgres(pool.DB())
		assignments = modulestore.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		defer pool.Close()
	} else {
		memTenants := tenantstore.NewInMemory()
		memAssignments := modulestore.NewInMemory()
		if err := seeder.Seed(memTenants, memAssignments, source, log); err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		tenants = memTenants
		assignments = memAssignments
	}

	trace := tracer.NewOTel()

	tenantRes := tenantresolver.New(tenants, tenantresolver.Config{
		JWTSigningKey: []byte(cfg.JWTSigningKey),
		CacheTTL:      cfg.TenantCacheTTL,
		Logger:        log,
		Metrics:       tenantmetrics.New(),
		Tracer:        trace,
	})

	moduleMetrics := modulemetrics.New()
	moduleRes := moduleresolver.New(assignments, reg, host, moduleresolver.Config{
		TTL:     cfg.ModuleCacheTTL,
		Logger:  log,
		Metrics: moduleMetrics,
		Tracer:  trace,
	})

	injector := dispatch.NewInjector(tenantRes, moduleRes, log, nil)
	dispatcher := dispatch.NewHandler(log, moduleMetrics)
	adminHandler := admin.New(moduleRes, tenantRes, reg, log)

	router := httptransport.NewRouter(httptransport.Config{
		AdminToken:     cfg.AdminToken,
		RequestTimeout: cfg.RequestTimeout,
		Metadata:       middleware.NewMetadata(middleware.MetadataConfig{TrustedProxies: cfg.TrustedProxies}),
	}, log, injector, dispatcher, adminHandler, healthHandler)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
