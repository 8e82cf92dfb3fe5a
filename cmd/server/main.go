package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wifiscope/internal/activity"
	"github.com/RMahshie/wifiscope/internal/analyzer"
	"github.com/RMahshie/wifiscope/internal/api"
	"github.com/RMahshie/wifiscope/internal/config"
	"github.com/RMahshie/wifiscope/internal/render"
	"github.com/RMahshie/wifiscope/internal/scanner"
	"github.com/RMahshie/wifiscope/pkg/models"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Server.Env != "dev" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.Server.LogLevel).Msg("Unknown log level, keeping info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Scanner backend
	backend, err := scanner.New(scanner.Options{
		Backend:    cfg.Scanner.Backend,
		Interface:  cfg.Scanner.Interface,
		ReplayFile: cfg.Scanner.ReplayFile,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Scanner.Backend).Msg("Failed to initialize scanner backend")
	}

	activityLog := activity.NewLog(cfg.Cycle.LogCapacity)
	svc := analyzer.NewAnalyzerService(backend.Scanner, backend.Connection, activityLog, analyzer.Options{
		Band:          cfg.Cycle.DefaultBand,
		PostScanDelay: cfg.Cycle.PostScanDelay,
		Pacing:        cfg.Cycle.Pacing,
		MaxBackoff:    cfg.Cycle.MaxBackoff,
		AxisSamples:   cfg.Plot.AxisSamples,
	})

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn := svc.Connection(startCtx)
	startCancel()
	log.Info().Str("ssid", conn.SSID).Str("ip", conn.IP).Msg("Connection detected")

	if cfg.Cycle.AutoOnStart {
		svc.StartAuto()
	}

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Wifiscope API", "1.0.0")
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = "1.0.0"
		resp.Body.Time = time.Now()
		return resp, nil
	})

	// Compression stays off the websocket route, which needs the raw connection
	router.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Get("/api/openapi.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			spec, err := humaAPI.OpenAPI().MarshalJSON()
			if err != nil {
				http.Error(w, "Failed to generate OpenAPI spec", http.StatusInternalServerError)
				return
			}
			_, _ = w.Write(spec)
		})
	})

	api.RegisterRoutes(router, humaAPI, svc, render.Options{
		Format: render.FormatPNG,
		Width:  cfg.Plot.Width,
		Height: cfg.Plot.Height,
	}, cfg.Server.AllowedOrigins)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("backend", backend.Scanner.Name()).Msg("Starting Wifiscope server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Shutdown does not track hijacked websocket connections; closing the
	// service ends those streams and waits for in-flight scans.
	svc.Close()

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
