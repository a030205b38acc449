package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buybackScope/internal/model"
)

// SnapshotBuilder is the view-building capability the handlers depend on.
type SnapshotBuilder interface {
	BuildRobot(ctx context.Context) (*model.RobotResponse, error)
	BuildPrice(ctx context.Context, token common.Address) (*model.PriceResponse, error)
}

// Handler serves the two read endpoints.
type Handler struct {
	builder      SnapshotBuilder
	defaultToken common.Address
	log          *zap.Logger
}

// NewHandler creates a Handler. A nil logger is replaced with a no-op logger.
func NewHandler(builder SnapshotBuilder, defaultToken common.Address, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{builder: builder, defaultToken: defaultToken, log: log}
}

// GetPrice handles GET /price?token=<address>.
func (h *Handler) GetPrice(c *gin.Context) {
	tokenParam := c.Query("token")
	var token common.Address
	switch {
	case tokenParam != "":
		if !common.IsHexAddress(tokenParam) {
			h.fail(c, http.StatusInternalServerError, "invalid token address: "+tokenParam)
			return
		}
		token = common.HexToAddress(tokenParam)
	case h.defaultToken != (common.Address{}):
		token = h.defaultToken
	default:
		// No query parameter and no configured default is a deployment
		// problem, not client error.
		h.fail(c, http.StatusInternalServerError, "missing token parameter, e.g. /price?token=0x... (no default token configured)")
		return
	}

	resp, err := h.builder.BuildPrice(c.Request.Context(), token)
	if err != nil {
		h.fail(c, priceStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetRobot handles GET /robot.
func (h *Handler) GetRobot(c *gin.Context) {
	resp, err := h.builder.BuildRobot(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) fail(c *gin.Context, status int, message string) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("error", message),
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Warn("request failed", fields...)
	}
	c.JSON(status, model.ErrorResponse{OK: false, Error: message})
}

// priceStatus maps a price-view error to its HTTP status code.
func priceStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrPairNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNoLiquidity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidOracleAnswer):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
