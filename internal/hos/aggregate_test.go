package hos

import (
	"errors"
	"math"
	"testing"
)

func TestAggregateTotals(t *testing.T) {
	segments := []DutySegment{
		{Day: 1, StartHour: 0, EndHour: 6, Status: OffDuty, DurationHours: 6},
		{Day: 1, StartHour: 6, EndHour: 7, Status: OnDutyNotDriving, DurationHours: 1},
		{Day: 1, StartHour: 7, EndHour: 18, Status: Driving, DurationHours: 11},
		{Day: 1, StartHour: 18, EndHour: 24, Status: SleeperBerth, DurationHours: 6},
	}

	totals, err := Aggregate(segments, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := totals.PerDay[1][Driving]; got != 11 {
		t.Errorf("day 1 driving = %v, want 11", got)
	}
	if got := totals.Trip[OnDutyNotDriving]; got != 1 {
		t.Errorf("trip on-duty-not-driving = %v, want 1", got)
	}
	// 70 - 11 - 1 - 10
	if got := totals.CycleHoursRemaining; math.Abs(got-48) > 1e-9 {
		t.Errorf("cycle hours remaining = %v, want 48", got)
	}
	if totals.CycleExceeded {
		t.Error("cycle should not be exceeded")
	}
}

// A hand-crafted day that sums to 23 hours must be rejected loudly.
func TestAggregateInconsistentDay(t *testing.T) {
	segments := []DutySegment{
		{Day: 1, StartHour: 0, EndHour: 12, Status: OffDuty, DurationHours: 12},
		{Day: 1, StartHour: 12, EndHour: 23, Status: Driving, DurationHours: 11},
	}
	_, err := Aggregate(segments, 0)
	if !errors.Is(err, ErrInconsistentSegments) {
		t.Fatalf("err = %v, want ErrInconsistentSegments", err)
	}
}

func TestAggregateDurationMismatch(t *testing.T) {
	segments := []DutySegment{
		{Day: 1, StartHour: 0, EndHour: 24, Status: OffDuty, DurationHours: 23},
	}
	_, err := Aggregate(segments, 0)
	if !errors.Is(err, ErrInconsistentSegments) {
		t.Fatalf("err = %v, want ErrInconsistentSegments", err)
	}
}

func TestAggregateCycleClamp(t *testing.T) {
	segments := []DutySegment{
		{Day: 1, StartHour: 0, EndHour: 10, Status: OffDuty, DurationHours: 10},
		{Day: 1, StartHour: 10, EndHour: 21, Status: Driving, DurationHours: 11},
		{Day: 1, StartHour: 21, EndHour: 24, Status: OnDutyNotDriving, DurationHours: 3},
	}

	totals, err := Aggregate(segments, 65)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.CycleHoursRemaining != 0 {
		t.Errorf("cycle hours remaining = %v, want clamp to 0", totals.CycleHoursRemaining)
	}
	if !totals.CycleExceeded {
		t.Error("expected CycleExceeded")
	}
}

func TestBuildLogsRejectsBadInput(t *testing.T) {
	if _, err := BuildLogs(RoutePlan{TotalDistanceMiles: math.NaN(), TotalDrivingHours: 5}, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := BuildLogs(RoutePlan{TotalDistanceMiles: 100, TotalDrivingHours: 0}, 0); !errors.Is(err, ErrDegenerateRoute) {
		t.Errorf("err = %v, want ErrDegenerateRoute", err)
	}
	if _, err := BuildLogs(testPlan(500, 9), -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative cycle: err = %v, want ErrInvalidInput", err)
	}
}
