package hos

import (
	"math"
	"reflect"
	"testing"
)

func testPlan(miles, hours float64) RoutePlan {
	return RoutePlan{
		TotalDistanceMiles: miles,
		TotalDrivingHours:  hours,
		Waypoints: []Waypoint{
			{Name: "Dallas, TX"},
			{Name: "Houston, TX"},
			{Name: "Chicago, IL"},
		},
	}
}

func absHour(s DutySegment) float64 {
	return float64(s.Day-1)*24 + s.StartHour
}

func isRest(s Status) bool {
	return s == OffDuty || s == SleeperBerth
}

// dutyPeriod is a reconstructed on-duty span between rest runs.
type dutyPeriod struct {
	driving float64
	start   float64 // first on-duty segment start, absolute hours
	end     float64 // last on-duty segment end, absolute hours
}

func dutyPeriods(segments []DutySegment) []dutyPeriod {
	var periods []dutyPeriod
	open := false
	for _, s := range segments {
		if isRest(s.Status) {
			open = false
			continue
		}
		if !open {
			periods = append(periods, dutyPeriod{start: absHour(s)})
			open = true
		}
		p := &periods[len(periods)-1]
		if s.Status == Driving {
			p.driving += s.DurationHours
		}
		p.end = absHour(s) + s.DurationHours
	}
	return periods
}

// restRuns returns the lengths of contiguous off-duty/sleeper runs that fall
// between on-duty activity (leading pre-trip rest and the trailing day fill
// are not mandatory rests).
func interiorRestRuns(segments []DutySegment) []float64 {
	var runs []float64
	run := 0.0
	seenDuty := false
	for _, s := range segments {
		if isRest(s.Status) {
			run += s.DurationHours
			continue
		}
		if run > 0 && seenDuty {
			runs = append(runs, run)
		}
		run = 0
		seenDuty = true
	}
	return runs
}

func checkDayCoverage(t *testing.T, segments []DutySegment) {
	t.Helper()
	sums := map[int]float64{}
	for _, s := range segments {
		if s.StartHour < 0 || s.EndHour > 24+1e-9 {
			t.Fatalf("segment outside day bounds: %+v", s)
		}
		if math.Abs((s.EndHour-s.StartHour)-s.DurationHours) > 1e-9 {
			t.Fatalf("segment duration mismatch: %+v", s)
		}
		sums[s.Day] += s.DurationHours
	}
	for day, sum := range sums {
		if math.Abs(sum-24) > 1e-6 {
			t.Errorf("day %d covers %.9f hours, want 24", day, sum)
		}
	}
}

func TestSynthesizeDayCoverage(t *testing.T) {
	for _, hours := range []float64{0.5, 3, 8, 11, 14, 19.5, 25, 40, 77.25} {
		segments := Synthesize(testPlan(hours*55, hours), 0)
		checkDayCoverage(t, segments)
	}
}

func TestSynthesizeDrivingCap(t *testing.T) {
	for _, hours := range []float64{9, 11, 19.5, 25, 60} {
		for _, p := range dutyPeriods(Synthesize(testPlan(hours*55, hours), 0)) {
			if p.driving > DrivingLimitHours+1e-9 {
				t.Errorf("hours=%v: duty period drives %.4f, cap is %v", hours, p.driving, DrivingLimitHours)
			}
		}
	}
}

func TestSynthesizeDutyWindowCap(t *testing.T) {
	for _, hours := range []float64{9, 14, 19.5, 25, 60} {
		for _, p := range dutyPeriods(Synthesize(testPlan(hours*55, hours), 0)) {
			if span := p.end - p.start; span > DutyWindowHours+1e-9 {
				t.Errorf("hours=%v: duty window spans %.4f, cap is %v", hours, span, DutyWindowHours)
			}
		}
	}
}

func TestSynthesizeRestMinimum(t *testing.T) {
	for _, hours := range []float64{12, 19.5, 25, 60} {
		for _, run := range interiorRestRuns(Synthesize(testPlan(hours*55, hours), 0)) {
			if run < RestMinimumHours-1e-9 {
				t.Errorf("hours=%v: interior rest run of %.4f hours, minimum is %v", hours, run, RestMinimumHours)
			}
		}
	}
}

func TestSynthesizeConservation(t *testing.T) {
	for _, hours := range []float64{0.5, 7.75, 11, 19.5, 25, 43.2} {
		total := 0.0
		for _, s := range Synthesize(testPlan(hours*55, hours), 0) {
			if s.Status == Driving {
				total += s.DurationHours
			}
		}
		if math.Abs(total-hours) > 1e-6 {
			t.Errorf("driving total %.9f, want %v", total, hours)
		}
	}
}

func TestSynthesizeDeterminism(t *testing.T) {
	plan := testPlan(1247, 19.5)
	a := Synthesize(plan, 12)
	b := Synthesize(plan, 12)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different segment sequences")
	}
}

func TestSynthesizeZeroDriving(t *testing.T) {
	segments := Synthesize(testPlan(0, 0), 5)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	s := segments[0]
	if s.Day != 1 || s.Status != OffDuty || s.StartHour != 0 || s.EndHour != 24 {
		t.Fatalf("unexpected segment: %+v", s)
	}
	totals, err := Aggregate(segments, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Trip[Driving] != 0 {
		t.Errorf("trip driving = %v, want 0", totals.Trip[Driving])
	}
}

// The illustrative source trip: Dallas -> Houston -> Chicago, 1247 miles,
// 19h30m of driving, 12 cycle hours already used.
func TestSynthesizeTwoDayScenario(t *testing.T) {
	plan := testPlan(1247, 19.5)
	book, err := BuildLogs(plan, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if book.Days != 2 {
		t.Fatalf("days = %d, want 2", book.Days)
	}
	if got := book.Totals.Trip[Driving]; math.Abs(got-19.5) > 1e-6 {
		t.Errorf("trip driving = %v, want 19.5", got)
	}

	longRest := false
	for _, run := range interiorRestRuns(book.Segments) {
		if run >= RestMinimumHours-1e-9 {
			longRest = true
		}
	}
	if !longRest {
		t.Error("expected at least one rest run of 10+ hours")
	}

	want := CycleLimitHours - 19.5 - book.Totals.Trip[OnDutyNotDriving] - 12
	if want < 0 {
		want = 0
	}
	if got := book.Totals.CycleHoursRemaining; math.Abs(got-want) > 1e-6 {
		t.Errorf("cycle hours remaining = %v, want %v", got, want)
	}
	if book.Totals.CycleExceeded {
		t.Error("cycle should not be exceeded for this trip")
	}
}

// 25 driving hours cannot fit in two 11-hour duty periods.
func TestSynthesizeThreeDutyPeriods(t *testing.T) {
	segments := Synthesize(testPlan(1500, 25), 0)
	checkDayCoverage(t, segments)

	periods := dutyPeriods(segments)
	if len(periods) != 3 {
		t.Fatalf("duty periods = %d, want 3", len(periods))
	}
	for i, p := range periods {
		if p.driving > DrivingLimitHours+1e-9 {
			t.Errorf("period %d drives %.4f, cap is %v", i, p.driving, DrivingLimitHours)
		}
	}
	for _, run := range interiorRestRuns(segments) {
		if run < RestMinimumHours-1e-9 {
			t.Errorf("interior rest of %.4f hours, minimum is %v", run, RestMinimumHours)
		}
	}

	days := 0
	for _, s := range segments {
		if s.Day > days {
			days = s.Day
		}
	}
	if days < 3 {
		t.Errorf("trip spans %d days, want at least 3", days)
	}
}

func TestSynthesizeCycleExceededFlag(t *testing.T) {
	book, err := BuildLogs(testPlan(1800, 30), 60)
	if err != nil {
		t.Fatalf("over-cycle trips must still produce a schedule: %v", err)
	}
	if !book.Totals.CycleExceeded {
		t.Error("expected CycleExceeded to be set")
	}
	if book.Totals.CycleHoursRemaining != 0 {
		t.Errorf("cycle hours remaining = %v, want 0", book.Totals.CycleHoursRemaining)
	}
	if len(book.Segments) == 0 {
		t.Error("expected a full schedule despite the exceeded cycle")
	}
}

// Waypoints with known leg distances shift the pickup dwell accordingly.
func TestSynthesizeLegMilesPlacement(t *testing.T) {
	plan := RoutePlan{
		TotalDistanceMiles: 1000,
		TotalDrivingHours:  10,
		Waypoints: []Waypoint{
			{Name: "A"},
			{Name: "B", LegMiles: 250},
			{Name: "C", LegMiles: 750},
		},
	}
	segments := Synthesize(plan, 0)

	drivenBeforeDwell := 0.0
	for _, s := range segments {
		if s.Status == Driving {
			drivenBeforeDwell += s.DurationHours
		}
		if s.Status == OnDutyNotDriving && s.Location == "B" {
			break
		}
	}
	// 250 of 1000 miles -> the dwell at B lands after a quarter of the driving.
	if math.Abs(drivenBeforeDwell-2.5) > 1e-6 {
		t.Errorf("driving before pickup dwell = %v, want 2.5", drivenBeforeDwell)
	}
}
