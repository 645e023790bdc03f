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
	"fmt"
	stdsync "sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vantix/biosync/pkg/models"
)

const (
	// fallbackConcurrency bounds simultaneous per-finger reads during the
	// fallback strategy, limiting socket pressure on terminal and caller.
	fallbackConcurrency = 3

	// fallbackCallTimeout bounds one single-template read.
	fallbackCallTimeout = 5 * time.Second

	// fallbackIdentityBudget bounds all ten reads for one identity.
	fallbackIdentityBudget = 30 * time.Second
)

// loadTemplates reads the enrolled templates for the target identities off
// an open session, producing canonical records keyed by identity. The bulk
// strategy costs two device calls total; the per-finger fallback runs only
// when the bulk read fails, for firmware that does not support it. The
// session is never mutated.
func (e *Engine) loadTemplates(
	ctx context.Context,
	sess TerminalSession,
	terminalID string,
	identities []models.Identity,
) (map[string]models.CanonicalFingerprintRecord, error) {
	targets := make([]models.Identity, 0, len(identities))

	for i := range identities {
		if identities[i].HasDeviceID() {
			targets = append(targets, identities[i])
		}
	}

	if len(targets) == 0 {
		return nil, errNoTargets
	}

	records, err := e.loadBulk(ctx, sess, targets)
	if err == nil {
		return records, nil
	}

	e.log.Warn().Err(err).
		Str("terminal_id", terminalID).
		Msg("Bulk template read failed; falling back to per-finger reads")
	e.metrics.RecordPullFallback(terminalID)

	return e.loadPerFinger(ctx, sess, targets)
}

// loadBulk is the fast path: one full template dump plus one user list,
// joined on the terminal's internal handle.
func (e *Engine) loadBulk(
	ctx context.Context,
	sess TerminalSession,
	targets []models.Identity,
) (map[string]models.CanonicalFingerprintRecord, error) {
	templates, err := sess.ReadAllTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("bulk template read failed: %w", err)
	}

	users, err := sess.ReadUserList(ctx)
	if err != nil {
		return nil, fmt.Errorf("user list read failed: %w", err)
	}

	byHandle := make(map[int][]models.TemplateRecord)

	for _, t := range templates {
		byHandle[t.InternalHandle] = append(byHandle[t.InternalHandle], t)
	}

	handleByDeviceID := make(map[int]int, len(users))

	for _, u := range users {
		handleByDeviceID[u.DeviceID] = u.InternalHandle
	}

	out := make(map[string]models.CanonicalFingerprintRecord)

	for i := range targets {
		deviceID, _ := targets[i].DeviceIDValue()

		handle, onDevice := handleByDeviceID[deviceID]
		if !onDevice {
			continue
		}

		slots := make([]models.FingerSlot, 0, models.FingerCount)

		for _, t := range byHandle[handle] {
			if t.FingerIndex < 0 || t.FingerIndex >= models.FingerCount || len(t.TemplateData) == 0 {
				continue
			}

			slots = append(slots, models.FingerSlot{
				FingerIndex:  t.FingerIndex,
				TemplateData: t.TemplateData,
				Valid:        true,
			})
		}

		if len(slots) == 0 {
			continue
		}

		out[targets[i].IdentityKey] = models.CanonicalFingerprintRecord{
			IdentityKey: targets[i].IdentityKey,
			DisplayName: targets[i].DisplayName,
			DeviceID:    targets[i].DeviceID,
			FingerSlots: slots,
		}
	}

	return out, nil
}

// loadPerFinger is the fallback: for each target, up to ten independent
// single-template reads with bounded parallelism. Finger-level failures
// are swallowed as empty slots; an identity with no readable templates is
// logged and skipped, never aborting the remaining identities.
func (e *Engine) loadPerFinger(
	ctx context.Context,
	sess TerminalSession,
	targets []models.Identity,
) (map[string]models.CanonicalFingerprintRecord, error) {
	users, err := sess.ReadUserList(ctx)
	if err != nil {
		return nil, fmt.Errorf("user list read failed: %w", err)
	}

	handleByDeviceID := make(map[int]int, len(users))

	for _, u := range users {
		handleByDeviceID[u.DeviceID] = u.InternalHandle
	}

	out := make(map[string]models.CanonicalFingerprintRecord)

	for i := range targets {
		deviceID, _ := targets[i].DeviceIDValue()

		handle, onDevice := handleByDeviceID[deviceID]
		if !onDevice {
			continue
		}

		slots := e.readIdentityFingers(ctx, sess, handle)
		if len(slots) == 0 {
			e.log.Warn().
				Str("identity_key", targets[i].IdentityKey).
				Int("device_id", deviceID).
				Msg("No fingerprints found on terminal")

			continue
		}

		out[targets[i].IdentityKey] = models.CanonicalFingerprintRecord{
			IdentityKey: targets[i].IdentityKey,
			DisplayName: targets[i].DisplayName,
			DeviceID:    targets[i].DeviceID,
			FingerSlots: slots,
		}
	}

	return out, nil
}

// readIdentityFingers reads all ten finger indices for one handle, at most
// fallbackConcurrency reads in flight, within one overall identity budget.
func (e *Engine) readIdentityFingers(ctx context.Context, sess TerminalSession, handle int) []models.FingerSlot {
	identityCtx, cancel := context.WithTimeout(ctx, fallbackIdentityBudget)
	defer cancel()

	sem := semaphore.NewWeighted(fallbackConcurrency)
	results := make([]models.FingerSlot, models.FingerCount)

	var wg stdsync.WaitGroup

	for idx := 0; idx < models.FingerCount; idx++ {
		if err := sem.Acquire(identityCtx, 1); err != nil {
			// Identity budget exhausted; remaining fingers stay invalid.
			break
		}

		wg.Add(1)

		go func(fingerIndex int) {
			defer wg.Done()
			defer sem.Release(1)

			callCtx, callCancel := context.WithTimeout(identityCtx, fallbackCallTimeout)
			defer callCancel()

			rec, err := sess.ReadTemplate(callCtx, handle, fingerIndex)
			if err != nil || len(rec.TemplateData) == 0 {
				return
			}

			results[fingerIndex] = models.FingerSlot{
				FingerIndex:  fingerIndex,
				TemplateData: rec.TemplateData,
				Valid:        true,
			}
		}(idx)
	}

	wg.Wait()

	slots := make([]models.FingerSlot, 0, models.FingerCount)

	for _, s := range results {
		if s.Valid {
			slots = append(slots, s)
		}
	}

	return slots
}
