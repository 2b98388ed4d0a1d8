package leave

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, idempotency gin.HandlerFunc) {
	leaves := r.Group("/leaves")
	{
		leaves.GET("", handler.GetAll)
		leaves.GET("/:id", handler.GetById)
		leaves.POST("", idempotency, handler.Submit)
		leaves.POST("/:id/approve", idempotency, handler.Approve)
		leaves.POST("/:id/reject", idempotency, handler.Reject)
		leaves.POST("/:id/cancel", idempotency, handler.Cancel)
	}
}
