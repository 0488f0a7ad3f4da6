package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// RequestCount returns the total number of requests served so far.
func (mc *MetricsCollector) RequestCount() uint64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.requestCount
}

// ErrorCount returns the total number of failed requests so far.
func (mc *MetricsCollector) ErrorCount() uint64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.errorCount
}

// Uptime reports how long the process has been running.
func (mc *MetricsCollector) Uptime() time.Duration {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return time.Since(mc.systemStartTime)
}

// AverageLatency returns the mean latency recorded for an operation, or zero
// if the operation has never been observed.
func (mc *MetricsCollector) AverageLatency(operationName string) time.Duration {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	samples := mc.operationTimes[operationName]
	if len(samples) == 0 {
		return 0
	}
	var total int64
	for _, ns := range samples {
		total += ns
	}
	return time.Duration(total / int64(len(samples)))
}
