package routes

import (
	"truck_logger/internal/controllers"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine) {
	driver := r.Group("/api/drivers")
	{
		driver.POST("/", controllers.CreateDriver)
		driver.GET("/", controllers.ListDrivers)
		driver.GET("/:id", controllers.GetDriver)
		driver.PUT("/:id", controllers.UpdateDriver)
	}
}
