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
	"github.com/vantix/biosync/pkg/models"
)

// MergeIntoCache combines a fresh terminal pull with the authoritative HR
// identity list and the existing local cache into a new cache snapshot.
//
// Field ownership: the HR store wins for display name and device ID. A
// non-empty pulled record replaces the cached finger slots wholesale — the
// terminal is ground truth for what is physically enrolled right now — and
// an empty pull leaves the cached slots untouched. Identities pulled from
// a terminal but unknown to HR are kept and flagged orphaned rather than
// dropped, so enrolled biometric data survives pending manual review.
//
// The returned map is a complete snapshot; callers persist it with a full
// atomic rewrite, never an in-place patch.
func (e *Engine) MergeIntoCache(
	pulled map[string]models.CanonicalFingerprintRecord,
	hrIdentities []models.Identity,
	existing map[string]models.CanonicalFingerprintRecord,
) map[string]models.CanonicalFingerprintRecord {
	out := make(map[string]models.CanonicalFingerprintRecord, len(existing)+len(pulled))

	for key, rec := range existing {
		out[key] = rec
	}

	for key, prec := range pulled {
		if len(prec.FingerSlots) == 0 {
			continue
		}

		rec, ok := out[key]
		if !ok {
			rec = models.CanonicalFingerprintRecord{IdentityKey: key}
		}

		rec.FingerSlots = prec.FingerSlots

		if rec.DisplayName == "" {
			rec.DisplayName = prec.DisplayName
		}

		if rec.DeviceID == "" {
			rec.DeviceID = prec.DeviceID
		}

		out[key] = rec
	}

	known := make(map[string]*models.Identity, len(hrIdentities))

	for i := range hrIdentities {
		known[hrIdentities[i].IdentityKey] = &hrIdentities[i]
	}

	for key, rec := range out {
		identity, ok := known[key]
		if !ok {
			if !rec.Orphaned {
				e.log.Warn().
					Str("identity_key", key).
					Msg("Record has no counterpart in the HR store; keeping as orphaned")
			}

			rec.Orphaned = true
			out[key] = rec

			continue
		}

		rec.DisplayName = identity.DisplayName
		rec.DeviceID = identity.DeviceID
		rec.Orphaned = false
		out[key] = rec
	}

	return out
}
