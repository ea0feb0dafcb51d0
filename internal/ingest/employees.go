package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
)

// Roster CSV columns as exported by the staffing site.
const (
	colDate     = "Date"
	colEmployee = "Employee"
	colStart    = "Start"
	colEnd      = "End"
	colHours    = "Hours"
)

var shiftLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LoadStaff reads the roster CSV into ordered StaffMember records. Rows
// without a usable name or shift range are skipped; ids are synthesized as
// EMP001.. in file order when the export carries none.
func LoadStaff(path string) ([]domain.StaffMember, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("roster %s has no data rows", path)
	}

	cols := indexColumns(rows[0])
	var members []domain.StaffMember
	for _, row := range rows[1:] {
		name := field(row, cols, colEmployee)
		if name == "" || strings.Contains(strings.ToUpper(name), "EMPTY") {
			continue
		}

		date := field(row, cols, colDate)
		start, okStart := parseShiftTime(date, field(row, cols, colStart))
		end, okEnd := parseShiftTime(date, field(row, cols, colEnd))
		if !okStart || !okEnd {
			continue
		}
		// Overnight shifts roll the end past midnight.
		if !end.After(start) {
			end = end.Add(24 * time.Hour)
		}

		members = append(members, domain.StaffMember{
			ID:               fmt.Sprintf("EMP%03d", len(members)+1),
			Name:             name,
			ShiftStart:       start,
			ShiftEnd:         end,
			MaxFlightsPerDay: capacityFromHours(field(row, cols, colHours)),
		})
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("roster %s yielded no staff records", path)
	}
	return members, nil
}

// capacityFromHours estimates per-day flight capacity at roughly one flight
// per 2.5 worked hours, clamped to [1, 6]. Missing hours default to 4.
func capacityFromHours(raw string) int {
	hours, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || hours <= 0 {
		return 4
	}
	capacity := int(math.Round(hours / 2.5))
	if capacity < 1 {
		capacity = 1
	}
	if capacity > 6 {
		capacity = 6
	}
	return capacity
}

func parseShiftTime(date, clock string) (time.Time, bool) {
	combined := strings.TrimSpace(date + " " + clock)
	for _, layout := range shiftLayouts {
		if t, err := time.Parse(layout, combined); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
