package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/cache"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

const uploadField = "file"

// multipartOverhead is the slack allowed on top of the file size for
// multipart boundaries and headers.
const multipartOverhead = 64 << 10

// Processor runs one document through extraction.
type Processor interface {
	Process(ctx context.Context, doc entity.Document) (pipeline.Result, error)
}

// Handler serves the extraction API.
type Handler struct {
	proc    Processor
	cache   cache.Cache
	cfg     common.ServerConfig
	version string
	logger  *slog.Logger
	metrics *httpMetrics
}

func (h *Handler) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "invoice-extractor",
		"version": h.version,
		"status":  "running",
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// processPDF accepts a multipart upload and answers with the record
// envelope.
func (h *Handler) processPDF(c *gin.Context) {
	logger := common.LoggerFromContext(c.Request.Context(), h.logger)

	doc, err := h.readUpload(c)
	if err != nil {
		abortWithError(c, logger, err)
		return
	}

	key := doc.ContentHash()
	if body, ok := h.cache.Get(c.Request.Context(), key); ok {
		h.metrics.cache(true)
		logger.Info("http.cache.hit", "hash", key)
		c.Data(http.StatusOK, jsonContentType, body)
		return
	}
	h.metrics.cache(false)

	ctx := c.Request.Context()
	if h.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.RequestTimeout)
		defer cancel()
	}
	res, err := h.proc.Process(ctx, doc)
	if err != nil {
		abortWithError(c, logger, err)
		return
	}

	body, err := successBody(res.Record)
	if err != nil {
		abortWithError(c, logger, common.NewAppError("INTERNAL_ERROR", "encode response", err))
		return
	}
	h.cache.Set(c.Request.Context(), key, body)
	logger.Info("http.process.ok", "hash", key, "pages", len(res.Report.Pages), "ocr_pages", res.Report.OCRPages)
	c.Data(http.StatusOK, jsonContentType, body)
}

func (h *Handler) readUpload(c *gin.Context) (entity.Document, error) {
	limit := h.cfg.MaxUploadBytes
	if limit <= 0 {
		limit = constants.MaxUploadBytesDefault
	}
	tooLarge := common.NewAppError("PAYLOAD_TOO_LARGE",
		fmt.Sprintf("Файл слишком большой. Максимальный размер: %d МБ", limit>>20), common.ErrPayloadTooLarge)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	header, err := c.FormFile(uploadField)
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return entity.Document{}, tooLarge
		case errors.Is(err, http.ErrMissingFile):
			return entity.Document{}, common.NewAppError("INVALID_INPUT", "Поле file обязательно", errors.Join(common.ErrInvalidInput, err))
		default:
			return entity.Document{}, common.NewAppError("INVALID_INPUT", "Ошибка при чтении файла", errors.Join(common.ErrInvalidInput, err))
		}
	}
	if form := c.Request.MultipartForm; form != nil {
		defer form.RemoveAll()
	}

	if !constants.IsPDFUpload(header.Filename, header.Header.Get("Content-Type")) {
		return entity.Document{}, common.NewAppError("UNSUPPORTED_MEDIA", "Поддерживаются только PDF файлы", common.ErrUnsupportedMedia)
	}
	if header.Size > limit {
		return entity.Document{}, tooLarge
	}

	file, err := header.Open()
	if err != nil {
		return entity.Document{}, common.NewAppError("INVALID_INPUT", "Ошибка при чтении файла", errors.Join(common.ErrInvalidInput, err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return entity.Document{}, common.NewAppError("INVALID_INPUT", "Ошибка при чтении файла", errors.Join(common.ErrInvalidInput, err))
	}
	if int64(len(data)) > limit {
		return entity.Document{}, tooLarge
	}
	if len(data) == 0 {
		return entity.Document{}, common.NewAppError("EMPTY_DOCUMENT", "Файл пустой", common.ErrEmptyDocument)
	}
	return entity.NewDocument(data), nil
}
