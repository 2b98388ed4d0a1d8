package balance

import (
	"net/http"
	"strconv"

	balanceerrors "go-leave-ledger/internal/balance/errors"
	"go-leave-ledger/internal/shared/apperror"
	"go-leave-ledger/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("balance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetForEmployee serves the balance report, one year when ?year= is given,
// every known year otherwise.
func (h *Handler) GetForEmployee(c *gin.Context) {
	employeeID := c.Param("id")

	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1900 || y > 9999 {
			httpErr := apperror.ToHTTP(balanceerrors.ErrInvalidYear)
			response.Error(c, http.StatusBadRequest, httpErr.Code, httpErr.Message, nil)
			return
		}
		year = &y
	}

	resp, err := h.service.GetBalances(c.Request.Context(), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
