package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SearchLocations proxies autocomplete queries to the geocoding service.
// Short queries come back as an empty list without an upstream call.
func SearchLocations(c *gin.Context) {
	query := c.Query("q")

	results, err := Geocoder.Search(c.Request.Context(), query)
	if err != nil {
		logrus.WithError(err).WithField("query", query).Error("SearchLocations: geocoding failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Geocoding service unavailable"})
		return
	}
	c.JSON(http.StatusOK, results)
}
