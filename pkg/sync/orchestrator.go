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

// Package sync implements the device synchronization and reconciliation
// engine: ID allocation, template loading, cache merging, and the
// per-terminal push/pull orchestration.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

const historyKindPush = "fingerprint_sync_to_terminal"

// PushRecord pairs one identity with its pending finger slots.
type PushRecord struct {
	Identity models.Identity
	Slots    []models.FingerSlot
}

// Engine is the sync orchestrator. Terminals are processed strictly one at
// a time: the transport and protocol state are not safe for concurrent
// multi-terminal use within one run.
type Engine struct {
	hr      HRStore
	open    SessionOpener
	metrics Metrics
	log     logger.Logger
}

// New creates an Engine. A nil metrics collector disables metrics.
func New(hr HRStore, open SessionOpener, metrics Metrics, log logger.Logger) *Engine {
	if metrics == nil {
		metrics = &NoOpMetrics{}
	}

	return &Engine{hr: hr, open: open, metrics: metrics, log: log.WithComponent("sync")}
}

// PushToTerminal syncs the given identities to one terminal. A SyncResult
// is always produced: a terminal that never becomes reachable contributes
// succeeded=0, attempted=0. Per-identity failures are folded into the
// result's error map and never abort the remaining identities.
func (e *Engine) PushToTerminal(ctx context.Context, cfg *models.TerminalConfig, records []PushRecord) *models.SyncResult {
	result := &models.SyncResult{
		RunID:             uuid.NewString(),
		TerminalID:        cfg.TerminalID,
		PerIdentityErrors: make(map[string]models.ErrorKind),
		StartedAt:         time.Now(),
	}

	sess, err := e.open(ctx, cfg)
	if err != nil {
		e.log.Error().Err(err).
			Str("terminal_id", cfg.TerminalID).
			Str("addr", cfg.Addr()).
			Msg("Terminal session failed to open; skipping terminal")
		e.metrics.RecordUnreachable(cfg.TerminalID)

		result.CompletedAt = time.Now()
		e.recordHistory(ctx, cfg, result, fmt.Sprintf("session open failed: %s", err))

		return result
	}

	// The session is closed on every path so the terminal is re-enabled
	// even after a mid-run transport failure.
	defer sess.Close(ctx)

	for i := range records {
		if ctx.Err() != nil {
			e.markNotAttempted(result, records[i:])
			break
		}

		rec := &records[i]
		result.Attempted++

		if err := sess.UpsertIdentity(ctx, &rec.Identity, rec.Slots); err != nil {
			kind := ClassifyError(err)
			result.PerIdentityErrors[rec.Identity.IdentityKey] = kind

			e.log.Error().Err(err).
				Str("identity_key", rec.Identity.IdentityKey).
				Str("terminal_id", cfg.TerminalID).
				Str("error_kind", string(kind)).
				Msg("Identity push failed")

			if kind == models.ErrorKindUnreachable {
				e.markNotAttempted(result, records[i+1:])
				break
			}

			continue
		}

		result.Succeeded++
	}

	result.CompletedAt = time.Now()
	e.metrics.RecordPush(cfg.TerminalID, result.Succeeded, result.Attempted, result.CompletedAt.Sub(result.StartedAt))

	e.log.Info().
		Str("terminal_id", cfg.TerminalID).
		Int("succeeded", result.Succeeded).
		Int("attempted", result.Attempted).
		Msg("Terminal push completed")

	e.recordHistory(ctx, cfg, result,
		fmt.Sprintf("synced %d/%d identities", result.Succeeded, result.Attempted))

	return result
}

// PushToAllTerminals runs PushToTerminal against every enabled terminal in
// turn. A failure at one terminal never blocks the others.
func (e *Engine) PushToAllTerminals(
	ctx context.Context,
	cfgs []models.TerminalConfig,
	records []PushRecord,
) map[string]*models.SyncResult {
	results := make(map[string]*models.SyncResult, len(cfgs))

	for i := range cfgs {
		cfg := &cfgs[i]

		if !cfg.Enabled {
			e.log.Debug().
				Str("terminal_id", cfg.TerminalID).
				Msg("Terminal disabled; skipping")

			continue
		}

		results[cfg.TerminalID] = e.PushToTerminal(ctx, cfg, records)
	}

	return results
}

// PullFromTerminal reads the enrolled templates for the target identities
// off one terminal, returning canonical records keyed by identity. The
// terminal is never mutated.
func (e *Engine) PullFromTerminal(
	ctx context.Context,
	cfg *models.TerminalConfig,
	identities []models.Identity,
) (map[string]models.CanonicalFingerprintRecord, error) {
	started := time.Now()

	sess, err := e.open(ctx, cfg)
	if err != nil {
		e.metrics.RecordUnreachable(cfg.TerminalID)
		return nil, fmt.Errorf("%w: %s: %s", errSessionFailure, cfg.TerminalID, err)
	}

	defer sess.Close(ctx)

	records, err := e.loadTemplates(ctx, sess, cfg.TerminalID, identities)
	if err != nil {
		return nil, err
	}

	e.metrics.RecordPull(cfg.TerminalID, len(records), time.Since(started))

	e.log.Info().
		Str("terminal_id", cfg.TerminalID).
		Int("records", len(records)).
		Msg("Terminal pull completed")

	return records, nil
}

// markNotAttempted flags every remaining identity after a mid-session
// transport failure or cancellation.
func (e *Engine) markNotAttempted(result *models.SyncResult, remaining []PushRecord) {
	for i := range remaining {
		key := remaining[i].Identity.IdentityKey
		if _, seen := result.PerIdentityErrors[key]; !seen {
			result.PerIdentityErrors[key] = models.ErrorKindNotAttempted
		}
	}
}

// recordHistory forwards a sync-history record to the HR store. Forwarding
// failures are logged only; the SyncResult is already computed.
func (e *Engine) recordHistory(ctx context.Context, cfg *models.TerminalConfig, result *models.SyncResult, message string) {
	if e.hr == nil {
		return
	}

	status := "success"
	if result.Failed() || result.Attempted == 0 {
		status = "failed"
	}

	entry := &models.SyncHistoryEntry{
		Kind:         historyKindPush,
		TerminalName: cfg.DisplayLabel(),
		Count:        result.Succeeded,
		Status:       status,
		Message:      message,
		RunID:        result.RunID,
		Timestamp:    time.Now(),
	}

	if err := e.hr.RecordSyncHistory(ctx, entry); err != nil {
		e.log.Error().Err(err).
			Str("terminal_id", cfg.TerminalID).
			Msg("Failed to forward sync history")
	}
}
