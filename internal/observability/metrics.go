package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu               sync.Mutex
	requestCount     map[string]int64
	errorCount       map[string]int64
	assignmentsOK    int64
	assignmentsFail  int64
	detectorEmitted  map[string]int64
	resolutionCounts map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:     make(map[string]int64),
		errorCount:       make(map[string]int64),
		detectorEmitted:  make(map[string]int64),
		resolutionCounts: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAssignment tallies one engine outcome.
func (m *Metrics) RecordAssignment(success bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.assignmentsOK++
	} else {
		m.assignmentsFail++
	}
}

// RecordNotification tallies one detector emission per notification type.
func (m *Metrics) RecordNotification(kind string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detectorEmitted[kind]++
}

// RecordResolution tallies one ledger resolution per terminal status.
func (m *Metrics) RecordResolution(status string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutionCounts[status]++
}

// AssignmentCounts returns the accumulated engine totals.
func (m *Metrics) AssignmentCounts() (succeeded, failed int64) {
	if m == nil {
		return 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignmentsOK, m.assignmentsFail
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
