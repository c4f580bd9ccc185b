package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"truck_logger/internal/config"
	"truck_logger/internal/hos"
	"truck_logger/internal/models"
	"truck_logger/internal/routing"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// TripResponse mirrors models.Trip but carries Geometry as a GeoJSON string
// for API output.
type TripResponse struct {
	ID               uint           `json:"ID"`
	CreatedAt        time.Time      `json:"CreatedAt"`
	UpdatedAt        time.Time      `json:"UpdatedAt"`
	DeletedAt        gorm.DeletedAt `json:"DeletedAt,omitempty"`
	CurrentLocation  string         `json:"current_location"`
	PickupLocation   string         `json:"pickup_location"`
	DropoffLocation  string         `json:"dropoff_location"`
	CurrentCycleUsed float64        `json:"current_cycle_used"`
	CurrentLat       float64        `json:"current_lat"`
	CurrentLng       float64        `json:"current_lng"`
	PickupLat        float64        `json:"pickup_lat"`
	PickupLng        float64        `json:"pickup_lng"`
	DropoffLat       float64        `json:"dropoff_lat"`
	DropoffLng       float64        `json:"dropoff_lng"`
	TransportType    string         `json:"transport_type"`
	DistanceMiles    float64        `json:"distance_miles"`
	DrivingHours     float64        `json:"driving_hours"`
	Geometry         string         `json:"geometry"` // GeoJSON LineString
	Driver           *models.Driver `json:"driver,omitempty"`
}

// toTripResponse converts a models.Trip to a TripResponse
func toTripResponse(trip models.Trip) TripResponse {
	jsonGeom, _ := convertWKBToGeoJSON(trip.Geometry)
	return TripResponse{
		ID:               trip.ID,
		CreatedAt:        trip.CreatedAt,
		UpdatedAt:        trip.UpdatedAt,
		DeletedAt:        trip.DeletedAt,
		CurrentLocation:  trip.CurrentLocation,
		PickupLocation:   trip.PickupLocation,
		DropoffLocation:  trip.DropoffLocation,
		CurrentCycleUsed: trip.CurrentCycleUsed,
		CurrentLat:       trip.CurrentLat,
		CurrentLng:       trip.CurrentLng,
		PickupLat:        trip.PickupLat,
		PickupLng:        trip.PickupLng,
		DropoffLat:       trip.DropoffLat,
		DropoffLng:       trip.DropoffLng,
		TransportType:    trip.TransportType,
		DistanceMiles:    trip.DistanceMiles,
		DrivingHours:     trip.DrivingHours,
		Geometry:         jsonGeom,
		Driver:           trip.Driver,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal(raw, &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// tripPlan rebuilds the log-sheet input from a stored trip.
func tripPlan(trip models.Trip) hos.RoutePlan {
	return hos.RoutePlan{
		TotalDistanceMiles: trip.DistanceMiles,
		TotalDrivingHours:  trip.DrivingHours,
		Waypoints: []hos.Waypoint{
			{Name: trip.CurrentLocation},
			{Name: trip.PickupLocation, LegMiles: trip.PickupLegMiles},
			{Name: trip.DropoffLocation, LegMiles: trip.DropoffLegMiles},
		},
	}
}

// CreateTrip geocodes the three locations, computes the driving route,
// derives the HOS log book and persists the trip.
func CreateTrip(c *gin.Context) {
	var input struct {
		CurrentLocation  string  `json:"current_location" binding:"required"`
		PickupLocation   string  `json:"pickup_location" binding:"required"`
		DropoffLocation  string  `json:"dropoff_location" binding:"required"`
		CurrentCycleUsed float64 `json:"current_cycle_used" binding:"min=0,max=70"`
		TransportType    string  `json:"transport_type" binding:"omitempty,oneof=truck van trailer"`
		DriverID         *uint   `json:"driver_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateTrip: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if input.TransportType == "" {
		input.TransportType = "truck"
	}

	ctx := c.Request.Context()

	places := make(map[string][2]float64, 3)
	for _, name := range []string{input.CurrentLocation, input.PickupLocation, input.DropoffLocation} {
		results, err := Geocoder.Search(ctx, name)
		if err != nil {
			logrus.WithError(err).WithField("query", name).Error("CreateTrip: geocoding failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Geocoding service unavailable"})
			return
		}
		if len(results) == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No match for location: " + name})
			return
		}
		places[name] = [2]float64{results[0].Lat, results[0].Lng}
	}

	cur := places[input.CurrentLocation]
	pick := places[input.PickupLocation]
	drop := places[input.DropoffLocation]

	route, err := RoadRouter.Route(ctx, []routing.Point{
		{Lat: cur[0], Lng: cur[1]},
		{Lat: pick[0], Lng: pick[1]},
		{Lat: drop[0], Lng: drop[1]},
	})
	if err != nil {
		if errors.Is(err, routing.ErrNoRoute) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No drivable route between the locations"})
			return
		}
		logrus.WithError(err).Error("CreateTrip: routing failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Routing service unavailable"})
		return
	}

	pickupLeg, dropoffLeg := 0.0, 0.0
	if len(route.Legs) == 2 {
		pickupLeg = route.Legs[0].DistanceMiles
		dropoffLeg = route.Legs[1].DistanceMiles
	}

	trip := models.Trip{
		CurrentLocation:  input.CurrentLocation,
		PickupLocation:   input.PickupLocation,
		DropoffLocation:  input.DropoffLocation,
		CurrentCycleUsed: input.CurrentCycleUsed,
		CurrentLat:       cur[0],
		CurrentLng:       cur[1],
		PickupLat:        pick[0],
		PickupLng:        pick[1],
		DropoffLat:       drop[0],
		DropoffLng:       drop[1],
		TransportType:    input.TransportType,
		DistanceMiles:    route.DistanceMiles,
		DrivingHours:     route.DurationHours,
		PickupLegMiles:   pickupLeg,
		DropoffLegMiles:  dropoffLeg,
		DriverID:         input.DriverID,
	}

	book, err := hos.BuildLogs(tripPlan(trip), input.CurrentCycleUsed)
	if err != nil {
		if errors.Is(err, hos.ErrInvalidInput) || errors.Is(err, hos.ErrDegenerateRoute) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Route cannot produce a log sheet: " + err.Error()})
			return
		}
		logrus.WithError(err).Error("CreateTrip: log synthesis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Log generation failed"})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(route.GeometryGeoJSON)
	if err != nil {
		logrus.WithError(err).Warn("CreateTrip: could not convert route geometry")
	}
	trip.Geometry = wkbGeom

	if input.DriverID != nil {
		var driver models.Driver
		if err := config.DB.First(&driver, *input.DriverID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Driver not found"})
			return
		}
	}

	if err := config.DB.Create(&trip).Error; err != nil {
		logrus.WithError(err).Error("CreateTrip: could not persist trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create trip failed: " + err.Error()})
		return
	}

	if trip.DriverID != nil {
		config.DB.Preload("Driver").First(&trip, trip.ID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"trip": toTripResponse(trip),
		"logs": book,
	})
}

// ListTrips returns all saved trips, newest first.
func ListTrips(c *gin.Context) {
	var trips []models.Trip
	if err := config.DB.Preload("Driver").Order("created_at DESC").Find(&trips).Error; err != nil {
		logrus.WithError(err).Error("ListTrips: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list trips"})
		return
	}

	responses := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		responses = append(responses, toTripResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

// GetTrip returns one trip with its log book recomputed from the stored
// route totals.
func GetTrip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID format"})
		return
	}

	var trip models.Trip
	if err := config.DB.Preload("Driver").First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		logrus.WithError(err).Error("GetTrip: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load trip"})
		return
	}

	var book *hos.LogBook
	book, err = hos.BuildLogs(tripPlan(trip), trip.CurrentCycleUsed)
	if err != nil {
		// A stored trip that no longer yields a log book is a defect, but the
		// trip itself is still worth returning.
		logrus.WithError(err).WithField("trip_id", trip.ID).Error("GetTrip: log synthesis failed")
		book = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"trip": toTripResponse(trip),
		"logs": book,
	})
}

// DeleteTrip removes a saved trip.
func DeleteTrip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID format"})
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load trip"})
		return
	}

	if err := config.DB.Delete(&trip).Error; err != nil {
		logrus.WithError(err).Error("DeleteTrip: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete trip"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": trip.ID})
}
