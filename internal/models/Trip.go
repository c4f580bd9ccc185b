package models

import (
	"gorm.io/gorm"
)

// Trip is one planned run: current location -> pickup -> dropoff, together
// with the computed route totals. Log sheets are never stored; they are
// recomputed wholesale from these totals whenever the trip is read.
type Trip struct {
	gorm.Model

	CurrentLocation  string  `json:"current_location" binding:"required"`
	PickupLocation   string  `json:"pickup_location" binding:"required"`
	DropoffLocation  string  `json:"dropoff_location" binding:"required"`
	CurrentCycleUsed float64 `json:"current_cycle_used"`

	CurrentLat float64 `json:"current_lat"`
	CurrentLng float64 `json:"current_lng"`
	PickupLat  float64 `json:"pickup_lat"`
	PickupLng  float64 `json:"pickup_lng"`
	DropoffLat float64 `json:"dropoff_lat"`
	DropoffLng float64 `json:"dropoff_lng"`

	TransportType string `json:"transport_type"` // "truck", "van" or "trailer"

	// Route totals from the routing service.
	DistanceMiles   float64 `json:"distance_miles"`
	DrivingHours    float64 `json:"driving_hours"`
	PickupLegMiles  float64 `json:"pickup_leg_miles"`
	DropoffLegMiles float64 `json:"dropoff_leg_miles"`

	// Route geometry stored as WKB (LINESTRING); served as GeoJSON.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	// Optional driver profile for the log-sheet header.
	DriverID *uint   `json:"driver_id,omitempty"`
	Driver   *Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
}
