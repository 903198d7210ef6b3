package server

import "sync"

type serverMetrics struct {
	mu            sync.RWMutex
	totalRequests int64
	activeReqs    int64
	succeeded     int64
	rejected      int64
	failed        int64
}

type metricsSnapshot struct {
	total, active, succeeded, rejected, failed int64
}

func (m *serverMetrics) incActive() {
	m.mu.Lock()
	m.activeReqs++
	m.totalRequests++
	m.mu.Unlock()
}

func (m *serverMetrics) decActive() {
	m.mu.Lock()
	m.activeReqs--
	m.mu.Unlock()
}

func (m *serverMetrics) incSucceeded() {
	m.mu.Lock()
	m.succeeded++
	m.mu.Unlock()
}

func (m *serverMetrics) incRejected() {
	m.mu.Lock()
	m.rejected++
	m.mu.Unlock()
}

func (m *serverMetrics) incFailed() {
	m.mu.Lock()
	m.failed++
	m.mu.Unlock()
}

func (m *serverMetrics) snapshot() metricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return metricsSnapshot{
		total:     m.totalRequests,
		active:    m.activeReqs,
		succeeded: m.succeeded,
		rejected:  m.rejected,
		failed:    m.failed,
	}
}
