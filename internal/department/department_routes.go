package department

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	depts := r.Group("/departments")
	{
		depts.GET("", handler.GetAll)
		depts.GET("/:id", handler.GetById)
		depts.POST("", handler.Create)
		depts.PUT("/:id", handler.Update)
		depts.DELETE("/:id", handler.Delete)
	}
}
