package job

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	jobs := r.Group("/jobs")
	{
		jobs.GET("", handler.GetAll)
		jobs.GET("/:id", handler.GetById)
		jobs.POST("", handler.Create)
		jobs.PUT("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
	}
}
