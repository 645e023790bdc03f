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
	"context"
	"strconv"

	"github.com/vantix/biosync/pkg/models"
)

// Assignment records one device-ID allocation decision and whether it was
// persisted back to the HR store.
type Assignment struct {
	IdentityKey string `json:"identity_key"`
	DeviceID    int    `json:"device_id"`
	WrittenBack bool   `json:"written_back"`
	Error       string `json:"error,omitempty"`
}

// AllocateMissingIDs assigns a device-facing numeric ID to every identity
// that lacks one. The next free ID is one past the maximum seen across the
// HR identity set and the local cache, so IDs are never reused even after
// an identity is removed; gaps are expected.
//
// Each assignment is written back to the HR store best-effort. A failed
// write-back is reported in the assignment log but does not roll back the
// in-memory value: the identity still shows no ID authoritatively, so the
// allocation is simply redone on the next run.
func (e *Engine) AllocateMissingIDs(
	ctx context.Context,
	identities []models.Identity,
	cache map[string]models.CanonicalFingerprintRecord,
) ([]models.Identity, []Assignment) {
	next := maxDeviceID(identities, cache) + 1

	updated := make([]models.Identity, len(identities))
	copy(updated, identities)

	var assignments []Assignment

	for i := range updated {
		if updated[i].HasDeviceID() {
			continue
		}

		id := next
		next++

		updated[i].DeviceID = strconv.Itoa(id)

		assignment := Assignment{
			IdentityKey: updated[i].IdentityKey,
			DeviceID:    id,
			WrittenBack: true,
		}

		if err := e.hr.UpdateDeviceID(ctx, updated[i].IdentityKey, id); err != nil {
			assignment.WrittenBack = false
			assignment.Error = err.Error()

			e.log.Warn().Err(err).
				Str("identity_key", updated[i].IdentityKey).
				Int("device_id", id).
				Msg("Device ID write-back failed; will be reassigned on next run")
		} else {
			e.log.Info().
				Str("identity_key", updated[i].IdentityKey).
				Int("device_id", id).
				Msg("Assigned device ID")
		}

		assignments = append(assignments, assignment)
	}

	e.metrics.RecordIDAssignments(len(assignments))

	return updated, assignments
}

func maxDeviceID(identities []models.Identity, cache map[string]models.CanonicalFingerprintRecord) int {
	maxID := 0

	for i := range identities {
		if id, ok := identities[i].DeviceIDValue(); ok && id > maxID {
			maxID = id
		}
	}

	for _, rec := range cache {
		if id, err := strconv.Atoi(rec.DeviceID); err == nil && id > maxID {
			maxID = id
		}
	}

	return maxID
}
