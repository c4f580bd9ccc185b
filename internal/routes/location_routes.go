package routes

import (
	"truck_logger/internal/controllers"

	"github.com/gin-gonic/gin"
)

func LocationRoutes(r *gin.Engine) {
	locations := r.Group("/api/locations")
	{
		locations.GET("/search", controllers.SearchLocations)
	}
}
