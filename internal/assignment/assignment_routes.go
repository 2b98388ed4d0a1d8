package assignment

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	assignments := r.Group("/assignments")
	{
		assignments.POST("", handler.Assign)
		assignments.GET("/:id", handler.GetById)
		assignments.POST("/:id/terminate", handler.Terminate)
	}

	r.GET("/employees/:id/assignments", handler.ListByEmployee)
	r.GET("/jobs/:id/assignments", handler.ListByJob)
}
