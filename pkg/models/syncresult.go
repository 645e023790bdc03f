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

package models

import "time"

// ErrorKind classifies a per-identity or per-terminal failure.
type ErrorKind string

const (
	ErrorKindUnreachable  ErrorKind = "unreachable_terminal"
	ErrorKindProtocol     ErrorKind = "protocol_error"
	ErrorKindNotAttempted ErrorKind = "not_attempted"
	ErrorKindWriteBack    ErrorKind = "write_back_failure"
	ErrorKindCapture      ErrorKind = "capture_timeout"
)

// SyncResult is the immutable outcome of one orchestration run against one
// terminal. A result is always produced, even when the terminal was never
// reachable (Succeeded=0, Attempted=0).
type SyncResult struct {
	RunID             string               `json:"run_id"`
	TerminalID        string               `json:"terminal_id"`
	Succeeded         int                  `json:"succeeded"`
	Attempted         int                  `json:"attempted"`
	PerIdentityErrors map[string]ErrorKind `json:"per_identity_errors,omitempty"`
	StartedAt         time.Time            `json:"started_at"`
	CompletedAt       time.Time            `json:"completed_at"`
}

// Failed reports whether any targeted identity did not sync.
func (r *SyncResult) Failed() bool {
	return len(r.PerIdentityErrors) > 0 || r.Succeeded < r.Attempted
}

// SyncHistoryEntry is the record forwarded to the HR store's sync-history
// log after each terminal completes.
type SyncHistoryEntry struct {
	Kind         string    `json:"sync_type"`
	TerminalName string    `json:"device_name"`
	Count        int       `json:"employee_count"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	RunID        string    `json:"run_id,omitempty"`
	Timestamp    time.Time `json:"sync_datetime"`
}
