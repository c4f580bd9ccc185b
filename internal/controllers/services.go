package controllers

import (
	"truck_logger/internal/config"
	"truck_logger/internal/geocode"
	"truck_logger/internal/routing"
)

// Shared external-service clients, wired once at startup.
var (
	Geocoder   *geocode.Client
	RoadRouter *routing.Client
)

// InitServices builds the geocoding and routing clients from environment
// variables. Called from main after config is loaded.
func InitServices() {
	Geocoder = geocode.NewClient(
		config.GetEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		config.GetEnv("GEOCODE_USER_AGENT", "truck_logger/1.0 (eld route planner)"),
	)
	RoadRouter = routing.NewClient(
		config.GetEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
	)
}
