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

// FingerCount is the fixed number of template positions per identity.
const FingerCount = 10

// FingerSlot is one of the ten fixed per-identity template positions.
// Valid=false marks an explicit "no enrolled template" placeholder.
type FingerSlot struct {
	FingerIndex  int    `json:"finger_index"`
	TemplateData []byte `json:"template_data,omitempty"`
	QualityScore int    `json:"quality_score,omitempty"`
	Valid        bool   `json:"valid"`
}

// CanonicalFingerprintRecord is the merged, cache-of-record view of one
// identity's enrollment: the unit persisted locally and pushed to or pulled
// from a terminal.
type CanonicalFingerprintRecord struct {
	IdentityKey string       `json:"identity_key"`
	DisplayName string       `json:"display_name,omitempty"`
	DeviceID    string       `json:"device_id,omitempty"`
	FingerSlots []FingerSlot `json:"finger_slots,omitempty"`

	// Orphaned marks a record pulled from a terminal that has no
	// counterpart in the HR store; kept pending manual reconciliation.
	Orphaned bool `json:"orphaned,omitempty"`
}

// SlotByIndex returns the slot at the given finger index, if present.
func (r *CanonicalFingerprintRecord) SlotByIndex(idx int) (FingerSlot, bool) {
	for _, s := range r.FingerSlots {
		if s.FingerIndex == idx {
			return s, true
		}
	}

	return FingerSlot{}, false
}

// ValidSlotCount counts slots that hold an enrolled template.
func (r *CanonicalFingerprintRecord) ValidSlotCount() int {
	n := 0

	for _, s := range r.FingerSlots {
		if s.Valid && len(s.TemplateData) > 0 {
			n++
		}
	}

	return n
}

// MaterializeSlots expands a sparse slot list to all ten finger indices.
// Missing indices become explicit invalid placeholders with empty payloads;
// terminal mutation APIs are slot-complete, not sparse.
func MaterializeSlots(slots []FingerSlot) []FingerSlot {
	out := make([]FingerSlot, FingerCount)

	for i := range out {
		out[i] = FingerSlot{FingerIndex: i, Valid: false}
	}

	for _, s := range slots {
		if s.FingerIndex < 0 || s.FingerIndex >= FingerCount {
			continue
		}

		if s.Valid && len(s.TemplateData) > 0 {
			out[s.FingerIndex] = s
		}
	}

	return out
}
