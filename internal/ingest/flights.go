package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
)

// Flight-log CSV columns. The export repeats FLT# and CTY for the outbound
// leg, so those are resolved positionally (first hit inbound, second
// outbound).
const (
	colFlight    = "FLT#"
	colCity      = "CTY"
	colETA       = "ETA"
	colETD       = "ETD"
	colGate      = "GATE"
	colAircraft  = "A/CH"
	colHeaviness = "HEAVINESS"
)

var clockLayouts = []string{"15:04", "3:04"}

// LoadFlights reads the flight log CSV. HH:MM times are anchored to
// baseDate; a missing heaviness column defaults every flight to Medium.
func LoadFlights(path string, baseDate time.Time) ([]domain.FlightEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open flight log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read flight log: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("flight log %s has no data rows", path)
	}

	header := rows[0]
	flightCols := columnPositions(header, colFlight)
	cityCols := columnPositions(header, colCity)
	cols := indexColumns(header)

	var flights []domain.FlightEvent
	for _, row := range rows[1:] {
		id := positional(row, flightCols, 0)
		if id == "" {
			continue
		}
		eta, okETA := parseClock(baseDate, field(row, cols, colETA))
		etd, okETD := parseClock(baseDate, field(row, cols, colETD))
		if !okETA || !okETD {
			continue
		}
		if !etd.After(eta) {
			etd = etd.Add(24 * time.Hour)
		}

		heaviness := normalizeHeaviness(field(row, cols, colHeaviness))

		flights = append(flights, domain.FlightEvent{
			ID:             id,
			InboundCity:    positional(row, cityCols, 0),
			OutboundFlight: positional(row, flightCols, 1),
			OutboundCity:   positional(row, cityCols, 1),
			ETA:            eta,
			ETD:            etd,
			Gate:           field(row, cols, colGate),
			Aircraft:       field(row, cols, colAircraft),
			Heaviness:      heaviness,
		})
	}
	if len(flights) == 0 {
		return nil, fmt.Errorf("flight log %s yielded no flights", path)
	}
	return flights, nil
}

// ApplyCityHeaviness overrides heaviness per inbound city from the injected
// station rules table.
func ApplyCityHeaviness(flights []domain.FlightEvent, rules map[string]string) {
	if len(rules) == 0 {
		return
	}
	for i := range flights {
		if h, ok := rules[strings.ToUpper(flights[i].InboundCity)]; ok {
			flights[i].Heaviness = normalizeHeaviness(h)
		}
	}
}

func normalizeHeaviness(raw string) domain.Heaviness {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "light":
		return domain.HeavinessLight
	case "heavy":
		return domain.HeavinessHeavy
	default:
		return domain.HeavinessMedium
	}
}

func parseClock(baseDate time.Time, clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(),
				t.Hour(), t.Minute(), 0, 0, baseDate.Location()), true
		}
	}
	return time.Time{}, false
}

func columnPositions(header []string, name string) []int {
	var out []int
	for i, col := range header {
		trimmed := strings.TrimSpace(col)
		if trimmed == name || strings.HasPrefix(trimmed, name+".") {
			out = append(out, i)
		}
	}
	return out
}

func positional(row []string, positions []int, n int) string {
	if n >= len(positions) || positions[n] >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[positions[n]])
}
