package routes

import (
	"truck_logger/internal/controllers"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine) {
	trips := r.Group("/api/trips")
	{
		trips.POST("/", controllers.CreateTrip)
		trips.GET("/", controllers.ListTrips)
		trips.GET("/:id", controllers.GetTrip)
		trips.DELETE("/:id", controllers.DeleteTrip)
	}
}
