// Package hos synthesizes FMCSA-styled Hours-of-Service log sheets from a
// computed route. It is pure: no I/O, no clocks, no shared state. The same
// (plan, cycleHoursUsed) input always produces the same segment sequence.
package hos

import "errors"

// Duty statuses as they appear on a paper log grid.
type Status string

const (
	OffDuty          Status = "off_duty"
	SleeperBerth     Status = "sleeper_berth"
	Driving          Status = "driving"
	OnDutyNotDriving Status = "on_duty_not_driving"
)

// Regulatory limits (70-hour/8-day property-carrying ruleset) plus the fixed
// overhead blocks the schedule inserts around them.
const (
	DrivingLimitHours = 11.0 // max driving per duty period
	DutyWindowHours   = 14.0 // max span of a duty period
	RestMinimumHours  = 10.0 // mandatory rest between duty periods
	CycleLimitHours   = 70.0 // rolling 8-day on-duty cap

	preTripRestHours   = 6.0 // day 1 opens off duty until 06:00
	inspectionHours    = 1.0 // pre-trip inspection at each duty start
	waypointDwellHours = 1.0 // pickup/dropoff handling time
	fuelStopHours      = 0.5
	fuelIntervalHours  = 5.0 // driving hours between fuel stops
)

var (
	// ErrInvalidInput marks NaN, infinite or negative route numbers.
	ErrInvalidInput = errors.New("hos: invalid route input")
	// ErrDegenerateRoute marks a distance/duration pair that contradicts itself.
	ErrDegenerateRoute = errors.New("hos: degenerate route")
	// ErrInconsistentSegments marks a segment list whose days do not tile 24h.
	// It is a defect signal, not a user-facing condition.
	ErrInconsistentSegments = errors.New("hos: inconsistent segments")
)

// Waypoint is a named stop on the route, in travel order.
// LegMiles is the road distance from the previous waypoint; zero means
// unknown, in which case waypoints are assumed evenly spaced.
type Waypoint struct {
	Name     string  `json:"name"`
	LegMiles float64 `json:"leg_miles,omitempty"`
}

// RoutePlan is the input contract: the totals of a computed driving route
// plus its ordered waypoints (origin, pickup, dropoff, ...).
type RoutePlan struct {
	TotalDistanceMiles float64    `json:"total_distance_miles"`
	TotalDrivingHours  float64    `json:"total_driving_hours"`
	Waypoints          []Waypoint `json:"waypoints"`
}

// DutySegment is one block on a daily log grid. StartHour/EndHour are
// local-clock offsets within the day; EndHour may be exactly 24.0 at a
// day boundary. Segments within a day are contiguous and tile [0,24).
type DutySegment struct {
	Day           int     `json:"day"`
	StartHour     float64 `json:"start_hour"`
	EndHour       float64 `json:"end_hour"`
	Status        Status  `json:"status"`
	Location      string  `json:"location,omitempty"`
	DurationHours float64 `json:"duration_hours"`
}

// StatusHours accumulates hours per duty status.
type StatusHours map[Status]float64

// Totals carries per-day and whole-trip status sums plus the cycle report.
// CycleExceeded is data, not an error: over-cycle trips still get a schedule
// and the consumer decides how loudly to warn.
type Totals struct {
	PerDay              map[int]StatusHours `json:"per_day"`
	Trip                StatusHours         `json:"trip"`
	CycleHoursRemaining float64             `json:"cycle_hours_remaining"`
	CycleExceeded       bool                `json:"cycle_exceeded"`
}

// LogBook is the full derivation for one trip.
type LogBook struct {
	Segments []DutySegment `json:"segments"`
	Totals   Totals        `json:"totals"`
	Days     int           `json:"days"`
}
