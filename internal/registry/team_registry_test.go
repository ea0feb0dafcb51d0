package registry

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/roster"
	apperrors "github.com/spec-kit/ramp-scheduler/pkg/util"
)

var shiftDay = time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return shiftDay.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func crew(n int, start, end time.Time) []domain.StaffMember {
	members := make([]domain.StaffMember, 0, n)
	for i := 0; i < n; i++ {
		members = append(members, domain.StaffMember{
			ID:         string(rune('A' + i)),
			Name:       "Member " + string(rune('A'+i)),
			ShiftStart: start,
			ShiftEnd:   end,
		})
	}
	return members
}

func labels() []string {
	return []string{"Alpha", "Bravo", "Charlie", "Delta"}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	return de.Code
}

func TestFormInitialTeams(t *testing.T) {
	instant := at(6, 0)

	t.Run("partitions twelve staff into four teams of three", func(t *testing.T) {
		pool := roster.NewPool(crew(12, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))

		remainder, err := reg.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.NoError(t, err)
		require.Empty(t, remainder)

		seen := make(map[string]int)
		for _, team := range reg.Teams() {
			require.Equal(t, 3, team.Size)
			require.Len(t, team.Members, 3)
			require.Zero(t, team.FlightCount)
			require.Nil(t, team.CurrentFlightID)
			for _, m := range team.Members {
				seen[m.ID]++
			}
		}
		require.Len(t, seen, 12)
		for id, count := range seen {
			require.Equalf(t, 1, count, "member %s placed %d times", id, count)
		}
	})

	t.Run("distributes the extra member to the first team", func(t *testing.T) {
		pool := roster.NewPool(crew(13, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))

		remainder, err := reg.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.NoError(t, err)
		require.Empty(t, remainder)

		sizes := make([]int, 0, 4)
		for _, team := range reg.Teams() {
			sizes = append(sizes, team.Size)
		}
		require.Equal(t, []int{4, 3, 3, 3}, sizes)
	})

	t.Run("five staff forms a single team", func(t *testing.T) {
		pool := roster.NewPool(crew(5, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))

		remainder, err := reg.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.NoError(t, err)
		require.Empty(t, remainder)

		require.Equal(t, 5, reg.Teams()[0].Size)
		for _, team := range reg.Teams()[1:] {
			require.Zero(t, team.Size)
		}
	})

	t.Run("two staff forms a degraded team", func(t *testing.T) {
		pool := roster.NewPool(crew(2, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))

		remainder, err := reg.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.NoError(t, err)
		require.Empty(t, remainder)
		require.Equal(t, 2, reg.Teams()[0].Size)
	})

	t.Run("one person is not enough", func(t *testing.T) {
		pool := roster.NewPool(crew(1, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))

		_, err := reg.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.Error(t, err)
		require.Equal(t, "NO_STAFF_AVAILABLE", domainCode(t, err))
	})

	t.Run("off-shift staff never counts", func(t *testing.T) {
		pool := roster.NewPool(crew(6, at(14, 0), at(22, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))

		_, err := reg.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.Error(t, err)
		require.Equal(t, "NO_STAFF_AVAILABLE", domainCode(t, err))
	})

	t.Run("identical seeds pin the partition", func(t *testing.T) {
		members := crew(12, at(6, 0), at(14, 0))
		pool := roster.NewPool(members)

		first := New(labels(), rand.New(rand.NewSource(42)))
		second := New(labels(), rand.New(rand.NewSource(42)))
		_, err := first.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.NoError(t, err)
		_, err = second.FormInitialTeams(pool, instant, DefaultFormationPolicy())
		require.NoError(t, err)

		for i, team := range first.Teams() {
			require.Equal(t, team.MemberIDs(), second.Teams()[i].MemberIDs())
		}
	})
}

func TestAvailableTeams(t *testing.T) {
	setup := func(t *testing.T) *TeamRegistry {
		t.Helper()
		pool := roster.NewPool(crew(12, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))
		_, err := reg.FormInitialTeams(pool, at(6, 0), DefaultFormationPolicy())
		require.NoError(t, err)
		return reg
	}

	minBreak := 15 * time.Minute

	t.Run("all rested teams offered in label order", func(t *testing.T) {
		reg := setup(t)
		available := reg.AvailableTeams(at(8, 0), minBreak)
		require.Len(t, available, 4)
		require.Equal(t, "Alpha", available[0].Name)
		require.Equal(t, "Delta", available[3].Name)
	})

	t.Run("team on a flight is excluded", func(t *testing.T) {
		reg := setup(t)
		require.True(t, reg.BindFlight("Alpha", "UX1001"))

		available := reg.AvailableTeams(at(8, 0), minBreak)
		require.Len(t, available, 3)
		for _, team := range available {
			require.NotEqual(t, "Alpha", team.Name)
		}
	})

	t.Run("team inside its rest break is excluded", func(t *testing.T) {
		reg := setup(t)
		require.True(t, reg.BindFlight("Bravo", "UX1001"))
		require.True(t, reg.ReleaseFlight("Bravo", at(7, 50)))

		available := reg.AvailableTeams(at(8, 0), minBreak)
		require.Len(t, available, 3)

		available = reg.AvailableTeams(at(8, 5), minBreak)
		require.Len(t, available, 4)
	})

	t.Run("team with a departed member is excluded", func(t *testing.T) {
		reg := setup(t)
		leaver := domain.StaffMember{ID: "Z", Name: "Early Leaver", ShiftStart: at(6, 0), ShiftEnd: at(7, 0)}
		require.True(t, reg.AddMember("Charlie", leaver))

		available := reg.AvailableTeams(at(8, 0), minBreak)
		require.Len(t, available, 3)
		for _, team := range available {
			require.NotEqual(t, "Charlie", team.Name)
		}
	})

	t.Run("inert teams are never offered", func(t *testing.T) {
		pool := roster.NewPool(crew(5, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))
		_, err := reg.FormInitialTeams(pool, at(6, 0), DefaultFormationPolicy())
		require.NoError(t, err)

		available := reg.AvailableTeams(at(8, 0), minBreak)
		require.Len(t, available, 1)
		require.Equal(t, "Alpha", available[0].Name)
	})
}

func TestMembershipMutations(t *testing.T) {
	setup := func(t *testing.T) *TeamRegistry {
		t.Helper()
		pool := roster.NewPool(crew(8, at(6, 0), at(14, 0)))
		reg := New(labels(), rand.New(rand.NewSource(1)))
		_, err := reg.FormInitialTeams(pool, at(6, 0), DefaultFormationPolicy())
		require.NoError(t, err)
		return reg
	}

	t.Run("swap moves the member between teams", func(t *testing.T) {
		reg := setup(t)
		alpha, _ := reg.TeamByName("Alpha")
		bravo, _ := reg.TeamByName("Bravo")
		moving := alpha.Members[0].ID
		alphaBefore, bravoBefore := alpha.Size, bravo.Size

		require.True(t, reg.SwapMember("Alpha", "Bravo", moving))
		require.Equal(t, alphaBefore-1, alpha.Size)
		require.Equal(t, bravoBefore+1, bravo.Size)
		require.False(t, alpha.HasMember(moving))
		require.True(t, bravo.HasMember(moving))
	})

	t.Run("swap is a no-op when the member is elsewhere", func(t *testing.T) {
		reg := setup(t)
		bravo, _ := reg.TeamByName("Bravo")
		stranger := bravo.Members[0].ID

		require.False(t, reg.SwapMember("Alpha", "Bravo", stranger))
	})

	t.Run("swap rejects unknown labels", func(t *testing.T) {
		reg := setup(t)
		alpha, _ := reg.TeamByName("Alpha")
		require.False(t, reg.SwapMember("Alpha", "Echo", alpha.Members[0].ID))
		require.False(t, reg.SwapMember("Echo", "Alpha", alpha.Members[0].ID))
	})

	t.Run("add rejects a duplicate member", func(t *testing.T) {
		reg := setup(t)
		alpha, _ := reg.TeamByName("Alpha")
		require.False(t, reg.AddMember("Alpha", alpha.Members[0]))
	})

	t.Run("replace swaps in place", func(t *testing.T) {
		reg := setup(t)
		alpha, _ := reg.TeamByName("Alpha")
		leaving := alpha.Members[0].ID
		joining := domain.StaffMember{ID: "Z", Name: "Fresh Joiner", ShiftStart: at(8, 0), ShiftEnd: at(16, 0)}
		sizeBefore := alpha.Size

		require.True(t, reg.ReplaceMember("Alpha", leaving, joining))
		require.Equal(t, sizeBefore, alpha.Size)
		require.False(t, alpha.HasMember(leaving))
		require.True(t, alpha.HasMember("Z"))
	})
}

func TestAssignmentLog(t *testing.T) {
	reg := New(labels(), rand.New(rand.NewSource(1)))
	team := "Alpha"

	first := domain.Assignment{ID: "a1", FlightID: "UX1001", TeamName: &team, Success: true}
	require.True(t, reg.RecordAssignment(first))
	require.True(t, reg.HasAssignment("UX1001"))

	dup := domain.Assignment{ID: "a2", FlightID: "UX1001"}
	require.False(t, reg.RecordAssignment(dup))

	log := reg.Assignments()
	require.Len(t, log, 1)
	require.Equal(t, "a1", log[0].ID)
}

func TestFirstTeamBelow(t *testing.T) {
	pool := roster.NewPool(crew(12, at(6, 0), at(14, 0)))
	reg := New(labels(), rand.New(rand.NewSource(1)))
	_, err := reg.FormInitialTeams(pool, at(6, 0), DefaultFormationPolicy())
	require.NoError(t, err)

	suggested := reg.FirstTeamBelow(4)
	require.NotNil(t, suggested)
	require.Equal(t, "Alpha", *suggested)

	require.Nil(t, reg.FirstTeamBelow(3))
}
