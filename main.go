package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"fitFlowAPI/config"
	"fitFlowAPI/handlers"
	"fitFlowAPI/internal/bootstrap"
	"fitFlowAPI/internal/workers"
	"fitFlowAPI/middleware"

	_ "net/http/pprof"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	bootstrap.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		log.Infoln("Closing store connections...")
		if err := app.Close(); err != nil {
			log.Errorf("Close: %v", err)
		}
	}()

	var registrar handlers.DeviceRegistrar
	if app.Push != nil {
		registrar = app.Push
	}
	set := handlers.NewSet(app.Services, registrar, cfg.ClerkWebhookSecret)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.CleanupVisitors(ctx)

	weekly := workers.NewWeeklyReset(app.Services.CheckIns, cfg.Timezone)
	weekly.Start(ctx)

	r := mux.NewRouter()
	standardRouter := r.PathPrefix("/").Subrouter()

	standardRouter.Use(limiter.Middleware)
	standardRouter.Use(middleware.MonitorMiddleware(app.Metrics))

	metricsHandler := promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})
	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(metricsHandler))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret)(http.DefaultServeMux))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := app.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "fitflow-api"}`))
	}).Methods("GET")

	standardRouter.HandleFunc("/webhooks/clerk", set.Webhook.HandleClerkWebhook).Methods("POST")

	// API V1: everything below requires a bearer token
	api := standardRouter.PathPrefix("/api/v1").Subrouter()
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(app.Verifier, cfg.RequireVerifiedEmail))
	set.RegisterProtected(protected)

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length", "Content-Disposition"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := ":" + cfg.Port
	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infoln("Got shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}
	weekly.Wait()

	log.Infoln("Server shutdown complete")
}
