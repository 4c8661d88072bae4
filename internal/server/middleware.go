package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

const requestIDHeader = "X-Request-ID"

// requestContext tags each request with an ID and a scoped logger, logs
// its completion and turns handler panics into a 500 envelope.
func requestContext(logger *slog.Logger, m *httpMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		reqLogger := logger.With("request_id", id)
		ctx := common.WithRequestID(c.Request.Context(), id)
		ctx = common.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			if p := recover(); p != nil {
				reqLogger.Error("http.panic", "panic", p)
				abortWithError(c, reqLogger, common.ErrInternal)
			}
			d := time.Since(start)
			status := c.Writer.Status()
			m.observe(c.FullPath(), status, d)
			reqLogger.Info("http.request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", status,
				"duration_ms", d.Milliseconds(),
			)
		}()
		c.Next()
	}
}

// corsHandler runs rs/cors in front of the routes. Preflight requests are
// answered by cors itself and stop here.
func corsHandler(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cc := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
	return func(c *gin.Context) {
		cc.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.Abort()
			return
		}
		c.Next()
	}
}
