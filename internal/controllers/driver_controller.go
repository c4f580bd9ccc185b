package controllers

import (
	"errors" // Import errors for gorm.ErrRecordNotFound
	"net/http"
	"strconv" // For parsing IDs

	"gorm.io/gorm"

	logrus "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"truck_logger/internal/config"
	"truck_logger/internal/models"
)

// updateDriverInput defines the fields a client can send to update a driver profile.
type updateDriverInput struct {
	Name          *string `json:"name"`
	Carrier       *string `json:"carrier"`
	TruckNumber   *string `json:"truck_number"`
	LicenseNumber *string `json:"license_number"`
}

// CreateDriver registers a driver profile used on log-sheet headers.
// Duplicate truck numbers are rejected with 409.
func CreateDriver(c *gin.Context) {
	var input struct {
		Name          string `json:"name" binding:"required"`
		Carrier       string `json:"carrier"`
		TruckNumber   string `json:"truck_number" binding:"required"`
		LicenseNumber string `json:"license_number"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver := models.Driver{
		Name:          input.Name,
		Carrier:       input.Carrier,
		TruckNumber:   input.TruckNumber,
		LicenseNumber: input.LicenseNumber,
	}

	if err := config.DB.Create(&driver).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "truck number already registered"})
			return
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "truck number already registered"})
			return
		}
		logrus.WithError(err).Error("CreateDriver: could not create driver")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create driver: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"driver": driver})
}

// ListDrivers returns all registered driver profiles.
func ListDrivers(c *gin.Context) {
	var drivers []models.Driver
	if err := config.DB.Order("name ASC").Find(&drivers).Error; err != nil {
		logrus.WithError(err).Error("ListDrivers: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list drivers"})
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// GetDriver returns one driver with their saved trips.
func GetDriver(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID format."})
		return
	}

	var driver models.Driver
	if err := config.DB.Preload("Trips").First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load driver"})
		return
	}
	c.JSON(http.StatusOK, driver)
}

// UpdateDriver patches a driver profile.
func UpdateDriver(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID format."})
		return
	}

	var driver models.Driver
	if err := config.DB.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load driver"})
		return
	}

	var input updateDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.Carrier != nil {
		driver.Carrier = *input.Carrier
	}
	if input.TruckNumber != nil {
		driver.TruckNumber = *input.TruckNumber
	}
	if input.LicenseNumber != nil {
		driver.LicenseNumber = *input.LicenseNumber
	}

	if err := config.DB.Save(&driver).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "truck number already registered"})
			return
		}
		logrus.WithError(err).Error("UpdateDriver: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update driver"})
		return
	}
	c.JSON(http.StatusOK, driver)
}
