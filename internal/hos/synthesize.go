package hos

import "math"

// eps guards float comparisons when walking the virtual clock.
const eps = 1e-9

// builder appends duty segments along a continuous trip clock (hours since
// midnight of day 1), splitting any block that crosses a day boundary so
// that every day's segments tile [0,24) exactly.
type builder struct {
	segs []DutySegment
	t    float64
}

func (b *builder) emit(status Status, duration float64, location string) {
	for duration > eps {
		day := int(b.t/24) + 1
		start := b.t - float64(day-1)*24
		span := duration
		if left := 24 - start; span > left {
			span = left
		}
		b.segs = append(b.segs, DutySegment{
			Day:           day,
			StartHour:     start,
			EndHour:       start + span,
			Status:        status,
			Location:      location,
			DurationHours: span,
		})
		b.t += span
		duration -= span
	}
}

// Synthesize walks a virtual multi-day clock and allocates the plan's total
// driving time into duty periods bounded by the 11-hour driving limit and the
// 14-hour duty window, separated by 10-hour sleeper-berth rests. Fixed
// overhead blocks are inserted along the way: a 1-hour pre-trip inspection at
// each duty start, a 1-hour dwell at every waypoint arrival after the origin,
// and a half-hour fuel stop after every ~5 driving hours within a duty period.
//
// Violations of the 70-hour cycle are never raised here; cycleHoursUsed is
// accounted by Aggregate, which reports CycleExceeded as data so the caller
// can still render a schedule. The output depends only on the arguments.
func Synthesize(plan RoutePlan, cycleHoursUsed float64) []DutySegment {
	b := &builder{}

	remaining := plan.TotalDrivingHours
	if remaining <= eps {
		// Nothing to drive: a single fully off-duty day.
		b.emit(OffDuty, 24, "")
		return b.segs
	}

	marks, names := waypointMarks(plan)
	driven := 0.0
	nextWp := 1 // the origin needs no arrival dwell

	// Day 1 opens with pre-trip rest so the first wheels-rolling block
	// lands at a realistic morning hour.
	b.emit(OffDuty, preTripRestHours, "")

	for {
		b.emit(OnDutyNotDriving, inspectionHours, lastPassedName(names, marks, driven))
		dutyStart := b.t - inspectionHours
		dutyDriving := 0.0
		sinceFuel := 0.0
		done := false

		for {
			windowLeft := DutyWindowHours - (b.t - dutyStart)

			// Handle a waypoint we have just reached. If the window cannot
			// absorb the dwell, rest first and handle it next duty period.
			if nextWp < len(marks) && driven >= marks[nextWp]-eps {
				if windowLeft < waypointDwellHours-eps {
					break
				}
				b.emit(OnDutyNotDriving, waypointDwellHours, names[nextWp])
				nextWp++
				continue
			}

			if remaining <= eps {
				done = true
				break
			}

			if sinceFuel >= fuelIntervalHours-eps && dutyDriving < DrivingLimitHours-eps {
				if windowLeft < fuelStopHours-eps {
					break
				}
				b.emit(OnDutyNotDriving, fuelStopHours, "Fuel stop")
				sinceFuel = 0
				continue
			}

			chunk := math.Min(remaining, DrivingLimitHours-dutyDriving)
			chunk = math.Min(chunk, windowLeft)
			if chunk <= eps {
				break
			}
			if nextWp < len(marks) {
				chunk = math.Min(chunk, marks[nextWp]-driven)
			}
			chunk = math.Min(chunk, fuelIntervalHours-sinceFuel)

			b.emit(Driving, chunk, legLabel(names, marks, driven))
			driven += chunk
			remaining -= chunk
			dutyDriving += chunk
			sinceFuel += chunk
		}

		if done {
			break
		}
		b.emit(SleeperBerth, RestMinimumHours, "")
	}

	// Fill the remainder of the final day off duty.
	if fill := math.Ceil(b.t/24)*24 - b.t; fill > eps {
		b.emit(OffDuty, fill, "")
	}

	return b.segs
}

// waypointMarks places each waypoint on the driving clock by cumulative
// distance fraction. Per-leg miles are used when the plan carries them
// (routing legs do); otherwise waypoints are assumed evenly spaced.
func waypointMarks(plan RoutePlan) ([]float64, []string) {
	n := len(plan.Waypoints)
	names := make([]string, n)
	for i, wp := range plan.Waypoints {
		names[i] = wp.Name
	}
	marks := make([]float64, n)
	if n < 2 {
		return marks, names
	}

	totalLegs := 0.0
	haveLegs := true
	for i := 1; i < n; i++ {
		if plan.Waypoints[i].LegMiles <= 0 {
			haveLegs = false
			break
		}
		totalLegs += plan.Waypoints[i].LegMiles
	}

	cum := 0.0
	for i := 1; i < n; i++ {
		var frac float64
		if haveLegs {
			cum += plan.Waypoints[i].LegMiles
			frac = cum / totalLegs
		} else {
			frac = float64(i) / float64(n-1)
		}
		marks[i] = frac * plan.TotalDrivingHours
	}
	// Pin the last waypoint to the exact total so the dropoff dwell always
	// fires once the driving allocation is exhausted.
	marks[n-1] = plan.TotalDrivingHours
	return marks, names
}

// lastPassedName is the name of the most recent waypoint at or behind the
// current driving position; empty when the plan has no waypoints.
func lastPassedName(names []string, marks []float64, driven float64) string {
	name := ""
	for i := range marks {
		if marks[i] <= driven+eps {
			name = names[i]
		}
	}
	return name
}

// legLabel renders "from → to" for the leg currently being driven.
func legLabel(names []string, marks []float64, driven float64) string {
	if len(names) == 0 {
		return ""
	}
	from := 0
	for i := range marks {
		if marks[i] <= driven+eps {
			from = i
		}
	}
	if from+1 >= len(names) {
		return names[from]
	}
	return names[from] + " → " + names[from+1]
}
