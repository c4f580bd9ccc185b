package routes

import (
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery + request logging before any routes are registered
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger(
		ginlog.WithLogger(func(_ *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().Str("service", "truck_logger").Logger()
		}),
	))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	TripRoutes(r)
	DriverRoutes(r)
	LocationRoutes(r)

	return r
}
