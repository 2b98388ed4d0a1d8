package balance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.GET("/employees/:id/leave-balances", handler.GetForEmployee)
}
