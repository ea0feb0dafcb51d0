package ledger

import (
	"time"

	"github.com/spec-kit/ramp-scheduler/internal/domain"
	apperrors "github.com/spec-kit/ramp-scheduler/pkg/util"
)

// Ledger exclusively owns notifications: a pending queue plus the history of
// resolved ones. Resolution is terminal; a notification moves from pending
// to history exactly once.
type Ledger struct {
	nextID  int64
	pending []*domain.Notification
	history []*domain.Notification
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Create enqueues a pending notification and returns its id. Ids are
// assigned monotonically starting at 0.
func (l *Ledger) Create(payload domain.NotificationPayload, at time.Time) int64 {
	n := &domain.Notification{
		ID:        l.nextID,
		Type:      payload.Kind(),
		Status:    domain.NotificationPending,
		Payload:   payload,
		CreatedAt: at,
	}
	l.nextID++
	l.pending = append(l.pending, n)
	return n.ID
}

// Pending returns copies of the queued notifications in creation order.
func (l *Ledger) Pending() []domain.Notification {
	out := make([]domain.Notification, 0, len(l.pending))
	for _, n := range l.pending {
		out = append(out, *n)
	}
	return out
}

// History returns copies of resolved notifications in resolution order.
func (l *Ledger) History() []domain.Notification {
	out := make([]domain.Notification, 0, len(l.history))
	for _, n := range l.history {
		out = append(out, *n)
	}
	return out
}

// PendingCount returns the queue length.
func (l *Ledger) PendingCount() int {
	return len(l.pending)
}

// GetPending returns a copy of one queued notification.
func (l *Ledger) GetPending(id int64) (domain.Notification, error) {
	for _, n := range l.pending {
		if n.ID == id {
			return *n, nil
		}
	}
	return domain.Notification{}, apperrors.NewNotificationNotFound(id)
}

// Approve resolves the notification as approved and moves it to history.
// A second resolution attempt fails: the id has left the pending queue.
func (l *Ledger) Approve(id int64, teamOverride *string, at time.Time) (domain.Notification, error) {
	n, err := l.take(id)
	if err != nil {
		return domain.Notification{}, err
	}
	resolved := at
	n.Status = domain.NotificationApproved
	n.ResolvedAt = &resolved
	n.TeamOverride = teamOverride
	l.history = append(l.history, n)
	return *n, nil
}

// Reject resolves the notification as rejected; no team mutation follows.
func (l *Ledger) Reject(id int64, reason string, at time.Time) (domain.Notification, error) {
	n, err := l.take(id)
	if err != nil {
		return domain.Notification{}, err
	}
	resolved := at
	n.Status = domain.NotificationRejected
	n.ResolvedAt = &resolved
	n.RejectReason = reason
	l.history = append(l.history, n)
	return *n, nil
}

func (l *Ledger) take(id int64) (*domain.Notification, error) {
	for i, n := range l.pending {
		if n.ID == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return n, nil
		}
	}
	return nil, apperrors.NewNotificationNotFound(id)
}
