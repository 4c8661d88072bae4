package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("OCR_LANGUAGES", "rus, eng ,deu")
	t.Setenv("OCR_PAGE_TIMEOUT", "15s")
	t.Setenv("FORCE_OCR", "true")
	t.Setenv("CACHE_BACKEND", "Memory")

	cfg := LoadConfig()
	assert.Equal(t, ":9000", cfg.Server.HTTPAddr)
	assert.Equal(t, []string{"rus", "eng", "deu"}, cfg.OCR.Languages)
	assert.Equal(t, 15*time.Second, cfg.OCR.PageTimeout)
	assert.True(t, cfg.Extract.ForceOCR)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_BadValuesFallBack(t *testing.T) {
	t.Setenv("OCR_DPI", "lots")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 2*time.Minute, cfg.Server.RequestTimeout)
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Pipeline.Workers = 0
	cfg.Cache.Backend = "disk"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "PIPELINE_WORKERS")
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrInvalidDocument, http.StatusBadRequest},
		{ErrEmptyDocument, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", ErrIncompleteExtraction), http.StatusBadRequest},
		{NewAppError("X", "y", ErrUnsupportedMedia), http.StatusUnsupportedMediaType},
		{NewAppError("X", "y", ErrPayloadTooLarge), http.StatusRequestEntityTooLarge},
		{ErrRecognitionUnavailable, http.StatusInternalServerError},
		{ErrRecognitionTimeout, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Файл пустой", PublicMessage(NewAppError("EMPTY_DOCUMENT", "Файл пустой", ErrEmptyDocument)))
	msg := PublicMessage(NewAppError("RECOGNITION_UNAVAILABLE", "exec: tesseract not in /opt/bin", ErrRecognitionUnavailable))
	assert.NotContains(t, msg, "/opt/bin")
}

func TestContextHelpers(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	def := slog.Default()
	assert.Same(t, def, LoggerFromContext(context.Background(), def))
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, LoggerFromContext(WithLogger(ctx, l), def))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf).Info("hidden")
	assert.Zero(t, buf.Len())

	NewLogger(LogConfig{Level: "debug", Format: "text"}, &buf).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), "k=v")
}
