package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-gallery/internal/cache"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/filesystem"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/handlers"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/media"
	"photo-gallery/internal/memory"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/middleware"
	"photo-gallery/internal/startup"
	"photo-gallery/internal/workers"

	"github.com/gorilla/mux"
)

const (
	shutdownTimeout   = 30 * time.Second
	collectorInterval = time.Minute
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}
	limit := config.ApplyMemoryLimit()

	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	metrics.InitializeMetrics()
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	vipsReady := false
	if config.VipsEnabled {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using imaging: %v", err)
		} else {
			vipsReady = true
		}
	}
	startup.LogEngineInit(config, vipsReady, limit)

	variants := cache.NewMemory()
	monitor := memory.NewMonitor(config.MonitorConfig(), memory.WithRetained(func() int64 {
		return variants.Stats().Bytes
	}))
	monitor.Start()

	svc := gallery.NewService(
		catalog.New(config.AlbumDir),
		media.NewEngine(config.EngineOptions()),
		variants,
		gallery.WithDimensions(config.ListingDimensions),
		gallery.WithTransformWorkers(config.TransformWorkers),
		gallery.WithListingWorkers(workers.ForIO(16)),
		gallery.WithBackpressure(monitor),
	)

	h := handlers.New(svc, variants, config)
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	app := &server{
		http: &http.Server{
			Addr:              ":" + config.Port,
			Handler:           buildHandler(router, config),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		monitor: monitor,
	}

	if config.MetricsEnabled {
		app.collector = metrics.NewCollector(variants, collectorInterval)
		app.collector.Start()

		app.metrics = newMetricsServer(config.MetricsPort, h.MetricsHandler())
		go func() {
			if err := app.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	done := make(chan struct{})
	go handleShutdown(app, done)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Server error: %v", err)
	}

	// ListenAndServe returns as soon as Shutdown begins; in-flight requests
	// and the remaining steps finish before the process exits.
	<-done
}

// setupRouter registers the gallery routes. Paths are matched in their
// encoded form so album and photo names reach the handlers undecoded.
func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter().UseEncodedPath()

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	r.HandleFunc("/list", h.ListAlbums).Methods(http.MethodGet, http.MethodHead).Name("list")
	r.HandleFunc("/album/{name}", h.GetAlbum).Methods(http.MethodGet, http.MethodHead).Name("album")
	r.HandleFunc("/photo/{album}/{photo}", h.GetPhoto).Methods(http.MethodGet, http.MethodHead).Name("photo")

	for _, path := range []string{"/album", "/album/", "/photo", "/photo/", "/photo/{album}", "/photo/{album}/"} {
		r.HandleFunc(path, h.MissingName).Methods(http.MethodGet, http.MethodHead)
	}

	r.PathPrefix("/").HandlerFunc(h.Echo).Name("echo")

	return r
}

// buildHandler wraps the router in the middleware chain, outermost first:
// CORS, request ID, access log, metrics, compression, route case folding.
func buildHandler(router http.Handler, config *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	handler := middleware.Compression(middleware.DefaultCompressionConfig())(middleware.CaseInsensitiveRoutes(router))
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.RequestID(handler)
	return middleware.CORS(handler)
}

func newMetricsServer(port string, handler http.Handler) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", handler)

	return &http.Server{
		Addr:              ":" + port,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

// server holds everything that has to be stopped on shutdown.
type server struct {
	http      *http.Server
	metrics   *http.Server
	collector *metrics.Collector
	monitor   *memory.Monitor
}

func handleShutdown(app *server, done chan<- struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	app.shutdown(sig.String(), shutdownTimeout)
	close(done)
}

// shutdown drains the application server, then stops the metrics server,
// collector, memory monitor and libvips. It returns once every step has
// finished or timed out.
func (s *server) shutdown(reason string, timeout time.Duration) {
	startup.LogShutdownInitiated(reason)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Releases transforms waiting on memory so their requests can finish.
	s.monitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := s.http.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if s.metrics != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := s.metrics.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	if s.collector != nil {
		s.collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	media.ShutdownVips()
	startup.LogShutdownComplete()
}
