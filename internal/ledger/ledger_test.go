package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	apperrors "github.com/spec-kit/ramp-scheduler/pkg/util"
)

func joinPayload(id string) domain.TeamJoinPayload {
	return domain.TeamJoinPayload{
		EmployeeID:   id,
		EmployeeName: "Joiner " + id,
		ShiftStart:   time.Date(2025, 9, 13, 8, 0, 0, 0, time.UTC),
		ShiftEnd:     time.Date(2025, 9, 13, 16, 0, 0, 0, time.UTC),
	}
}

func TestLedgerCreate(t *testing.T) {
	l := New()
	now := time.Date(2025, 9, 13, 8, 30, 0, 0, time.UTC)

	first := l.Create(joinPayload("EMP001"), now)
	second := l.Create(joinPayload("EMP002"), now)

	require.Equal(t, int64(0), first)
	require.Equal(t, int64(1), second)

	pending := l.Pending()
	require.Len(t, pending, 2)
	require.Equal(t, domain.NotificationPending, pending[0].Status)
	require.Equal(t, domain.NotificationTeamJoin, pending[0].Type)
	require.Equal(t, now, pending[0].CreatedAt)
	require.Equal(t, 2, l.PendingCount())
	require.Empty(t, l.History())
}

func TestLedgerApprove(t *testing.T) {
	l := New()
	created := time.Date(2025, 9, 13, 8, 30, 0, 0, time.UTC)
	resolved := created.Add(5 * time.Minute)
	id := l.Create(joinPayload("EMP001"), created)

	t.Run("moves the notification to history", func(t *testing.T) {
		override := "Bravo"
		n, err := l.Approve(id, &override, resolved)
		require.NoError(t, err)
		require.Equal(t, domain.NotificationApproved, n.Status)
		require.NotNil(t, n.ResolvedAt)
		require.Equal(t, resolved, *n.ResolvedAt)
		require.NotNil(t, n.TeamOverride)
		require.Equal(t, "Bravo", *n.TeamOverride)

		require.Zero(t, l.PendingCount())
		require.Len(t, l.History(), 1)
	})

	t.Run("second resolution fails", func(t *testing.T) {
		_, err := l.Approve(id, nil, resolved)
		require.Error(t, err)
		require.Equal(t, "NOTIFICATION_NOT_FOUND", apperrors.ToDomainError(err).Code)

		_, err = l.Reject(id, "late", resolved)
		require.Error(t, err)
		require.Equal(t, "NOTIFICATION_NOT_FOUND", apperrors.ToDomainError(err).Code)
	})
}

func TestLedgerReject(t *testing.T) {
	l := New()
	created := time.Date(2025, 9, 13, 8, 30, 0, 0, time.UTC)
	id := l.Create(joinPayload("EMP001"), created)

	n, err := l.Reject(id, "staffing covered", created.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, domain.NotificationRejected, n.Status)
	require.Equal(t, "staffing covered", n.RejectReason)
	require.Zero(t, l.PendingCount())

	history := l.History()
	require.Len(t, history, 1)
	require.Equal(t, domain.NotificationRejected, history[0].Status)
}

func TestLedgerGetPending(t *testing.T) {
	l := New()
	created := time.Date(2025, 9, 13, 8, 30, 0, 0, time.UTC)
	id := l.Create(joinPayload("EMP001"), created)

	n, err := l.GetPending(id)
	require.NoError(t, err)
	require.Equal(t, id, n.ID)

	_, err = l.GetPending(99)
	require.Error(t, err)
	require.Equal(t, "NOTIFICATION_NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestLedgerReturnsCopies(t *testing.T) {
	l := New()
	created := time.Date(2025, 9, 13, 8, 30, 0, 0, time.UTC)
	l.Create(joinPayload("EMP001"), created)

	pending := l.Pending()
	pending[0].Status = domain.NotificationApproved

	fresh := l.Pending()
	require.Equal(t, domain.NotificationPending, fresh[0].Status)
}
