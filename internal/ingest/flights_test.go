package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
)

var base = time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)

func TestLoadFlights(t *testing.T) {
	t.Run("resolves the duplicated leg columns positionally", func(t *testing.T) {
		path := writeCSV(t, "flights.csv",
			"FLT#,CTY,ETA,FLT#.1,CTY.1,ETD,GATE,A/CH\n"+
				"UX1001,AMS,06:30,UX1002,MAD,07:15,B12,73H\n")

		flights, err := LoadFlights(path, base)
		require.NoError(t, err)
		require.Len(t, flights, 1)

		f := flights[0]
		require.Equal(t, "UX1001", f.ID)
		require.Equal(t, "AMS", f.InboundCity)
		require.Equal(t, "UX1002", f.OutboundFlight)
		require.Equal(t, "MAD", f.OutboundCity)
		require.Equal(t, base.Add(6*time.Hour+30*time.Minute), f.ETA)
		require.Equal(t, base.Add(7*time.Hour+15*time.Minute), f.ETD)
		require.Equal(t, "B12", f.Gate)
		require.Equal(t, "73H", f.Aircraft)
	})

	t.Run("missing heaviness defaults to medium", func(t *testing.T) {
		path := writeCSV(t, "flights.csv",
			"FLT#,CTY,ETA,FLT#.1,CTY.1,ETD,GATE\n"+
				"UX1001,AMS,06:30,UX1002,MAD,07:15,B12\n")

		flights, err := LoadFlights(path, base)
		require.NoError(t, err)
		require.Equal(t, domain.HeavinessMedium, flights[0].Heaviness)
	})

	t.Run("heaviness column is honored case-insensitively", func(t *testing.T) {
		path := writeCSV(t, "flights.csv",
			"FLT#,CTY,ETA,FLT#.1,CTY.1,ETD,GATE,HEAVINESS\n"+
				"UX1001,AMS,06:30,UX1002,MAD,07:15,B12,light\n"+
				"UX1003,JFK,08:00,UX1004,MAD,09:10,C02,HEAVY\n")

		flights, err := LoadFlights(path, base)
		require.NoError(t, err)
		require.Equal(t, domain.HeavinessLight, flights[0].Heaviness)
		require.Equal(t, domain.HeavinessHeavy, flights[1].Heaviness)
	})

	t.Run("departure before arrival rolls past midnight", func(t *testing.T) {
		path := writeCSV(t, "flights.csv",
			"FLT#,CTY,ETA,FLT#.1,CTY.1,ETD,GATE\n"+
				"UX1001,AMS,23:30,UX1002,MAD,00:20,B12\n")

		flights, err := LoadFlights(path, base)
		require.NoError(t, err)
		require.True(t, flights[0].ETD.After(flights[0].ETA))
	})

	t.Run("rows without an id or time are skipped", func(t *testing.T) {
		path := writeCSV(t, "flights.csv",
			"FLT#,CTY,ETA,FLT#.1,CTY.1,ETD,GATE\n"+
				",AMS,06:30,UX1002,MAD,07:15,B12\n"+
				"UX1003,AMS,garbage,UX1004,MAD,07:15,B12\n"+
				"UX1005,AMS,06:30,UX1006,MAD,07:15,B12\n")

		flights, err := LoadFlights(path, base)
		require.NoError(t, err)
		require.Len(t, flights, 1)
		require.Equal(t, "UX1005", flights[0].ID)
	})
}

func TestApplyCityHeaviness(t *testing.T) {
	flights := []domain.FlightEvent{
		{ID: "UX1001", InboundCity: "jfk", Heaviness: domain.HeavinessMedium},
		{ID: "UX1002", InboundCity: "AMS", Heaviness: domain.HeavinessMedium},
	}

	ApplyCityHeaviness(flights, map[string]string{"JFK": "Heavy"})

	require.Equal(t, domain.HeavinessHeavy, flights[0].Heaviness)
	require.Equal(t, domain.HeavinessMedium, flights[1].Heaviness)
}
