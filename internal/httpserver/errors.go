package httpserver

import (
	"context"
	"errors"
	"net/http"

	"foodtruck-ordering/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

var clientErrors = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrItemUnavailable, http.StatusBadRequest, "item_unavailable"},
	{domain.ErrInvalidModifiers, http.StatusBadRequest, "invalid_modifiers"},
	{domain.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{domain.ErrIndexOutOfRange, http.StatusBadRequest, "index_out_of_range"},
	{domain.ErrValidation, http.StatusBadRequest, "validation"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
}

// writeError maps service errors onto HTTP responses. Unknown errors are
// logged and hidden behind a 500.
func (h *handlers) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Code: "validation", Fields: verr.Fields})
		return
	}
	for _, ce := range clientErrors {
		if errors.Is(err, ce.target) {
			c.JSON(ce.status, errorResponse{Error: err.Error(), Code: ce.code})
			return
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		h.logger.Warn("request timed out", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "temporarily unavailable, retry", Code: "transient"})
		return
	}
	_ = c.Error(err)
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "validation"})
}
