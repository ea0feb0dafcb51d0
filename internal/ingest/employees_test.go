package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadStaff(t *testing.T) {
	t.Run("parses roster rows in order", func(t *testing.T) {
		path := writeCSV(t, "employees.csv",
			"Date,Employee,Start,End,Hours\n"+
				"9/13/2025,\"Vos, Daan\",6:00:00 AM,2:00:00 PM,8\n"+
				"9/13/2025,\"Smit, Lena\",8:30:00 AM,4:30:00 PM,8\n")

		staff, err := LoadStaff(path)
		require.NoError(t, err)
		require.Len(t, staff, 2)

		require.Equal(t, "EMP001", staff[0].ID)
		require.Equal(t, "Vos, Daan", staff[0].Name)
		require.Equal(t, time.Date(2025, 9, 13, 6, 0, 0, 0, time.UTC), staff[0].ShiftStart)
		require.Equal(t, time.Date(2025, 9, 13, 14, 0, 0, 0, time.UTC), staff[0].ShiftEnd)

		require.Equal(t, "EMP002", staff[1].ID)
		require.Equal(t, time.Date(2025, 9, 13, 8, 30, 0, 0, time.UTC), staff[1].ShiftStart)
	})

	t.Run("skips placeholder and broken rows", func(t *testing.T) {
		path := writeCSV(t, "employees.csv",
			"Date,Employee,Start,End,Hours\n"+
				"9/13/2025,EMPTY,6:00:00 AM,2:00:00 PM,8\n"+
				"9/13/2025,,6:00:00 AM,2:00:00 PM,8\n"+
				"9/13/2025,\"Vos, Daan\",not-a-time,2:00:00 PM,8\n"+
				"9/13/2025,\"Smit, Lena\",6:00:00 AM,2:00:00 PM,8\n")

		staff, err := LoadStaff(path)
		require.NoError(t, err)
		require.Len(t, staff, 1)
		require.Equal(t, "Smit, Lena", staff[0].Name)
		require.Equal(t, "EMP001", staff[0].ID)
	})

	t.Run("overnight shifts roll past midnight", func(t *testing.T) {
		path := writeCSV(t, "employees.csv",
			"Date,Employee,Start,End,Hours\n"+
				"9/13/2025,\"Night, Owl\",10:00:00 PM,6:00:00 AM,8\n")

		staff, err := LoadStaff(path)
		require.NoError(t, err)
		require.Len(t, staff, 1)
		require.True(t, staff[0].ShiftEnd.After(staff[0].ShiftStart))
		require.Equal(t, time.Date(2025, 9, 14, 6, 0, 0, 0, time.UTC), staff[0].ShiftEnd)
	})

	t.Run("empty roster is an error", func(t *testing.T) {
		path := writeCSV(t, "employees.csv", "Date,Employee,Start,End,Hours\n")
		_, err := LoadStaff(path)
		require.Error(t, err)
	})
}

func TestCapacityFromHours(t *testing.T) {
	cases := []struct {
		hours string
		want  int
	}{
		{"8", 3},
		{"10", 4},
		{"2", 1},
		{"20", 6},
		{"", 4},
		{"junk", 4},
	}
	for _, tc := range cases {
		require.Equalf(t, tc.want, capacityFromHours(tc.hours), "hours %q", tc.hours)
	}
}
