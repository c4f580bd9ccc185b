package hos

import (
	"fmt"
	"math"
)

// tileTolerance is the float slack allowed when checking that a day's
// segments sum to exactly 24 hours.
const tileTolerance = 1e-6

// Aggregate sums segment durations per status, per day and for the whole
// trip, and reports the position against the 70-hour/8-day cycle.
//
// It signals ErrInconsistentSegments when a segment's duration disagrees with
// its clock span or when any day's hours do not sum to 24 — both are internal
// defects of the producer, never expected at runtime.
func Aggregate(segments []DutySegment, cycleHoursUsed float64) (Totals, error) {
	perDay := make(map[int]StatusHours)
	trip := make(StatusHours)
	maxDay := 0

	for i, s := range segments {
		if s.Day < 1 {
			return Totals{}, fmt.Errorf("%w: segment %d has day %d", ErrInconsistentSegments, i, s.Day)
		}
		if math.Abs((s.EndHour-s.StartHour)-s.DurationHours) > tileTolerance {
			return Totals{}, fmt.Errorf("%w: segment %d duration %.6f does not match span %.6f-%.6f",
				ErrInconsistentSegments, i, s.DurationHours, s.StartHour, s.EndHour)
		}
		if perDay[s.Day] == nil {
			perDay[s.Day] = make(StatusHours)
		}
		perDay[s.Day][s.Status] += s.DurationHours
		trip[s.Status] += s.DurationHours
		if s.Day > maxDay {
			maxDay = s.Day
		}
	}

	for day := 1; day <= maxDay; day++ {
		sum := 0.0
		for _, h := range perDay[day] {
			sum += h
		}
		if math.Abs(sum-24) > tileTolerance {
			return Totals{}, fmt.Errorf("%w: day %d sums to %.6f hours", ErrInconsistentSegments, day, sum)
		}
	}

	onDuty := trip[Driving] + trip[OnDutyNotDriving]
	remaining := CycleLimitHours - onDuty - cycleHoursUsed
	if remaining < 0 {
		remaining = 0
	}
	if remaining > CycleLimitHours {
		remaining = CycleLimitHours
	}

	return Totals{
		PerDay:              perDay,
		Trip:                trip,
		CycleHoursRemaining: remaining,
		CycleExceeded:       cycleHoursUsed+onDuty > CycleLimitHours+eps,
	}, nil
}

// BuildLogs is the whole pipeline: Normalize -> Synthesize -> Aggregate.
func BuildLogs(plan RoutePlan, cycleHoursUsed float64) (*LogBook, error) {
	if math.IsNaN(cycleHoursUsed) || math.IsInf(cycleHoursUsed, 0) || cycleHoursUsed < 0 {
		return nil, fmt.Errorf("%w: cycle hours used %v", ErrInvalidInput, cycleHoursUsed)
	}
	if _, _, err := Normalize(plan.TotalDistanceMiles, plan.TotalDrivingHours); err != nil {
		return nil, err
	}

	segments := Synthesize(plan, cycleHoursUsed)
	totals, err := Aggregate(segments, cycleHoursUsed)
	if err != nil {
		return nil, err
	}

	days := 0
	for _, s := range segments {
		if s.Day > days {
			days = s.Day
		}
	}

	return &LogBook{Segments: segments, Totals: totals, Days: days}, nil
}
