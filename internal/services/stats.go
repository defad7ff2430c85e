package services

import (
	"sync"
	"time"
)

// RequestStats summarizes the requests a service has made
type RequestStats struct {
	TotalRequests  int
	FailedRequests int
	AverageTime    time.Duration
	LastRequest    time.Time
}

type statsRecorder struct {
	mu        sync.Mutex
	total     int
	failed    int
	totalTime time.Duration
	last      time.Time
}

func (r *statsRecorder) record(started time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	if err != nil {
		r.failed++
	}
	r.totalTime += time.Since(started)
	r.last = started
}

func (r *statsRecorder) snapshot() RequestStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := RequestStats{
		TotalRequests:  r.total,
		FailedRequests: r.failed,
		LastRequest:    r.last,
	}
	if r.total > 0 {
		stats.AverageTime = r.totalTime / time.Duration(r.total)
	}
	return stats
}
