/*
 * Copyright 2025 Vantix Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sync

import (
	stdsync "sync"
	"time"
)

// Metrics collects engine counters for monitoring.
type Metrics interface {
	RecordPush(terminalID string, succeeded, attempted int, duration time.Duration)
	RecordPull(terminalID string, records int, duration time.Duration)
	RecordPullFallback(terminalID string)
	RecordUnreachable(terminalID string)
	RecordIDAssignments(count int)
	GetMetrics() map[string]interface{}
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (*NoOpMetrics) RecordPush(string, int, int, time.Duration) {}
func (*NoOpMetrics) RecordPull(string, int, time.Duration)      {}
func (*NoOpMetrics) RecordPullFallback(string)                  {}
func (*NoOpMetrics) RecordUnreachable(string)                   {}
func (*NoOpMetrics) RecordIDAssignments(int)                    {}
func (*NoOpMetrics) GetMetrics() map[string]interface{}         { return map[string]interface{}{} }

// InMemoryMetrics keeps counters in process memory.
type InMemoryMetrics struct {
	mu stdsync.RWMutex

	pushSucceeded map[string]int
	pushAttempted map[string]int
	pushDuration  map[string]time.Duration
	pullRecords   map[string]int
	pullDuration  map[string]time.Duration
	pullFallbacks map[string]int
	unreachable   map[string]int
	idAssignments int
	lastUpdated   time.Time
}

// NewInMemoryMetrics creates an in-memory metrics collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		pushSucceeded: make(map[string]int),
		pushAttempted: make(map[string]int),
		pushDuration:  make(map[string]time.Duration),
		pullRecords:   make(map[string]int),
		pullDuration:  make(map[string]time.Duration),
		pullFallbacks: make(map[string]int),
		unreachable:   make(map[string]int),
	}
}

func (m *InMemoryMetrics) RecordPush(terminalID string, succeeded, attempted int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pushSucceeded[terminalID] += succeeded
	m.pushAttempted[terminalID] += attempted
	m.pushDuration[terminalID] += duration
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordPull(terminalID string, records int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pullRecords[terminalID] += records
	m.pullDuration[terminalID] += duration
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordPullFallback(terminalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pullFallbacks[terminalID]++
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordUnreachable(terminalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unreachable[terminalID]++
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordIDAssignments(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.idAssignments += count
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"push_succeeded": copyIntMap(m.pushSucceeded),
		"push_attempted": copyIntMap(m.pushAttempted),
		"pull_records":   copyIntMap(m.pullRecords),
		"pull_fallbacks": copyIntMap(m.pullFallbacks),
		"unreachable":    copyIntMap(m.unreachable),
		"id_assignments": m.idAssignments,
		"last_updated":   m.lastUpdated,
	}
}

func copyIntMap(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))

	for k, v := range in {
		out[k] = v
	}

	return out
}
