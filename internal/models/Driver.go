// internal/models/driver.go
package models

import (
	"gorm.io/gorm"
)

// Driver is the profile printed on a daily log header (driver, carrier,
// truck number). Truck numbers are unique across the fleet.
type Driver struct {
	gorm.Model
	Name          string `json:"name" binding:"required"`
	Carrier       string `json:"carrier"`
	TruckNumber   string `json:"truck_number" gorm:"unique"`
	LicenseNumber string `json:"license_number"`

	Trips []Trip `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"trips,omitempty"`
}
