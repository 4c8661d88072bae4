package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

const (
	statusSuccess   = "success"
	statusError     = "error"
	jsonContentType = "application/json; charset=utf-8"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorEnvelope struct {
	Status    string `json:"status"`
	Detail    string `json:"detail"`
	ErrorCode int    `json:"error_code"`
}

// successBody renders the success payload; it is also what the cache stores.
func successBody(data any) ([]byte, error) {
	return json.Marshal(successEnvelope{Status: statusSuccess, Data: data})
}

// abortWithError maps err onto the failure envelope. 500-class details are
// logged, never sent.
func abortWithError(c *gin.Context, logger *slog.Logger, err error) {
	code := common.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		logger.Error("http.request.failed", "status", code, "err", err)
	} else {
		logger.Info("http.request.rejected", "status", code, "err", err)
	}
	c.AbortWithStatusJSON(code, errorEnvelope{
		Status:    statusError,
		Detail:    common.PublicMessage(err),
		ErrorCode: code,
	})
}
