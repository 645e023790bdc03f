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

// Package terminal owns the connection lifecycle and mutation protocol for
// exactly one physical biometric terminal at a time.
package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

var (
	ErrTerminalUnreachable = errors.New("terminal unreachable")
	ErrSessionNotReady     = errors.New("terminal session not ready")
	ErrUserNotFound        = errors.New("user not found on terminal")
	ErrMissingDeviceID     = errors.New("identity has no device-facing ID")
)

// State tracks the session lifecycle: Closed -> Open -> Ready -> Closed.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateReady
)

// Session holds one open connection to one terminal. It owns its protocol
// handle exclusively for its lifetime; it is not safe for concurrent use.
// No operation retries internally; retry policy belongs to the caller.
type Session struct {
	cfg   models.TerminalConfig
	proto Protocol
	log   logger.Logger
	state State
}

// Open probes the terminal, performs the protocol handshake, and disables
// terminal mutations so enrollment data cannot change mid-session. Any
// failure leaves nothing open and returns the session to Closed.
func Open(ctx context.Context, cfg *models.TerminalConfig, dial Dialer, log logger.Logger) (*Session, error) {
	if err := Probe(cfg.Addr(), cfg.Timeout.OrDefault(defaultProbeTimeout)); err != nil {
		return nil, err
	}

	proto, err := dial(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("protocol handshake with %s failed: %w", cfg.Addr(), err)
	}

	s := &Session{cfg: *cfg, proto: proto, log: log, state: StateOpen}

	if err := proto.DisableMutations(ctx); err != nil {
		_ = proto.Close()
		s.state = StateClosed

		return nil, fmt.Errorf("failed to disable mutations on %s: %w", cfg.TerminalID, err)
	}

	s.state = StateReady

	log.Info().
		Str("terminal_id", cfg.TerminalID).
		Str("addr", cfg.Addr()).
		Msg("Terminal session ready")

	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Close re-enables terminal mutations and closes the transport. It runs on
// every exit path, including after failed operations, so a terminal is
// never left disabled. Safe to call more than once.
func (s *Session) Close(ctx context.Context) {
	if s.state == StateClosed {
		return
	}

	if err := s.proto.EnableMutations(ctx); err != nil {
		s.log.Error().Err(err).
			Str("terminal_id", s.cfg.TerminalID).
			Msg("Failed to re-enable terminal mutations")
	}

	if err := s.proto.Close(); err != nil {
		s.log.Error().Err(err).
			Str("terminal_id", s.cfg.TerminalID).
			Msg("Failed to close terminal transport")
	}

	s.state = StateClosed
}

// UpsertIdentity creates or replaces the terminal user for this identity
// and pushes all ten finger slots in one call. An existing user with the
// same device ID is deleted first: templates are keyed to the internal
// handle, and delete-then-recreate avoids orphaned slot data.
func (s *Session) UpsertIdentity(ctx context.Context, identity *models.Identity, slots []models.FingerSlot) error {
	if s.state != StateReady {
		return ErrSessionNotReady
	}

	deviceID, ok := identity.DeviceIDValue()
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingDeviceID, identity.IdentityKey)
	}

	existing, err := s.proto.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users on %s: %w", s.cfg.TerminalID, err)
	}

	if _, found := findUser(existing, deviceID); found {
		if err := s.proto.DeleteUser(ctx, deviceID); err != nil {
			return fmt.Errorf("failed to delete existing user %d: %w", deviceID, err)
		}

		s.log.Debug().
			Int("device_id", deviceID).
			Str("identity_key", identity.IdentityKey).
			Msg("Replaced existing terminal user")
	}

	name := TruncateDisplayName(identity.DisplayName)
	privilege := identity.Privilege

	if privilege == "" {
		privilege = models.PrivilegeStandard
	}

	if err := s.proto.SetUser(ctx, deviceID, name, privilege, identity.DevicePassword); err != nil {
		return fmt.Errorf("failed to create user %d: %w", deviceID, err)
	}

	// Template pushes address by the terminal-assigned handle, not the
	// device ID, so the freshly created record must be read back.
	created, err := s.proto.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to re-read users on %s: %w", s.cfg.TerminalID, err)
	}

	user, found := findUser(created, deviceID)
	if !found {
		return fmt.Errorf("%w: device_id %d missing after create", ErrUserNotFound, deviceID)
	}

	// All ten indices go out together; an index absent from this call must
	// not retain a stale template on the terminal.
	full := models.MaterializeSlots(slots)

	if err := s.proto.PushTemplates(ctx, user.InternalHandle, full); err != nil {
		return fmt.Errorf("failed to push templates for user %d: %w", deviceID, err)
	}

	valid := 0

	for _, slot := range full {
		if slot.Valid {
			valid++
		}
	}

	s.log.Info().
		Str("identity_key", identity.IdentityKey).
		Int("device_id", deviceID).
		Int("templates", valid).
		Msg("Pushed identity to terminal")

	return nil
}

// ReadUserList returns every user record currently on the terminal.
func (s *Session) ReadUserList(ctx context.Context) ([]models.TerminalUserRecord, error) {
	if s.state != StateReady {
		return nil, ErrSessionNotReady
	}

	return s.proto.ListUsers(ctx)
}

// ReadAllTemplates bulk-reads every template the terminal holds.
func (s *Session) ReadAllTemplates(ctx context.Context) ([]models.TemplateRecord, error) {
	if s.state != StateReady {
		return nil, ErrSessionNotReady
	}

	return s.proto.ReadAllTemplates(ctx)
}

// ReadTemplate reads one template by internal handle and finger index.
func (s *Session) ReadTemplate(ctx context.Context, internalHandle, fingerIndex int) (models.TemplateRecord, error) {
	if s.state != StateReady {
		return models.TemplateRecord{}, ErrSessionNotReady
	}

	return s.proto.ReadTemplate(ctx, internalHandle, fingerIndex)
}

// DeleteIdentity removes the user with this device ID and its templates.
func (s *Session) DeleteIdentity(ctx context.Context, deviceID int) error {
	if s.state != StateReady {
		return ErrSessionNotReady
	}

	users, err := s.proto.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users on %s: %w", s.cfg.TerminalID, err)
	}

	if _, found := findUser(users, deviceID); !found {
		return fmt.Errorf("%w: device_id %d", ErrUserNotFound, deviceID)
	}

	if err := s.proto.DeleteUser(ctx, deviceID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", deviceID, err)
	}

	s.log.Info().
		Int("device_id", deviceID).
		Str("terminal_id", s.cfg.TerminalID).
		Msg("Deleted user from terminal")

	return nil
}

// WipeAll erases every user and template on the terminal. Destructive;
// confirmation is the caller's responsibility.
func (s *Session) WipeAll(ctx context.Context) error {
	if s.state != StateReady {
		return ErrSessionNotReady
	}

	s.log.Warn().
		Str("terminal_id", s.cfg.TerminalID).
		Msg("Wiping all terminal data")

	return s.proto.ClearData(ctx)
}

func findUser(users []models.TerminalUserRecord, deviceID int) (models.TerminalUserRecord, bool) {
	for _, u := range users {
		if u.DeviceID == deviceID {
			return u, true
		}
	}

	return models.TerminalUserRecord{}, false
}
