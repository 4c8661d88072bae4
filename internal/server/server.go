// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/invoice-extractor/internal/cache"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// Options wires the handler's collaborators.
type Options struct {
	Config   common.ServerConfig
	Cache    cache.Cache
	Version  string
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// NewHandler builds the gin engine serving the API.
func NewHandler(proc Processor, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := opts.Cache
	if c == nil {
		c = cache.Nop{}
	}
	var reg prometheus.Registerer
	if opts.Registry != nil {
		reg = opts.Registry
	}
	h := &Handler{
		proc:    proc,
		cache:   c,
		cfg:     opts.Config,
		version: opts.Version,
		logger:  logger,
		metrics: newHTTPMetrics(reg),
	}

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestContext(logger, h.metrics), corsHandler(opts.Config.AllowedOrigins))

	r.GET("/", h.info)
	r.GET("/health", h.health)
	r.POST("/api/v1/process-pdf", h.processPDF)
	if opts.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	return r
}

// New returns an http.Server with the configured timeouts.
func New(proc Processor, opts Options) *http.Server {
	return &http.Server{
		Addr:         opts.Config.HTTPAddr,
		Handler:      NewHandler(proc, opts),
		ReadTimeout:  opts.Config.ReadTimeout,
		WriteTimeout: opts.Config.WriteTimeout,
	}
}
