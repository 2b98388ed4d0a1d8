package employee

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	empls := r.Group("/employees")
	{
		empls.GET("", handler.GetAll)
		empls.GET("/options", handler.GetOptions)
		empls.GET("/:id", handler.GetById)
		empls.POST("", handler.Create)
		empls.PUT("/:id", handler.Update)
		empls.DELETE("/:id", handler.Delete)
	}
}
