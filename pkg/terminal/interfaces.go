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

package terminal

//go:generate mockgen -destination=mock_protocol.go -package=terminal github.com/vantix/biosync/pkg/terminal Protocol

import (
	"context"

	"github.com/vantix/biosync/pkg/models"
)

// Protocol is the vendor-defined wire protocol of one connected terminal.
// Implementations wrap the device firmware API; every call is synchronous
// and bounded by the transport timeout from the terminal config.
type Protocol interface {
	DisableMutations(ctx context.Context) error
	EnableMutations(ctx context.Context) error
	ListUsers(ctx context.Context) ([]models.TerminalUserRecord, error)
	SetUser(ctx context.Context, deviceID int, name string, privilege models.PrivilegeLevel, password string) error
	DeleteUser(ctx context.Context, deviceID int) error
	PushTemplates(ctx context.Context, internalHandle int, slots []models.FingerSlot) error
	ReadAllTemplates(ctx context.Context) ([]models.TemplateRecord, error)
	ReadTemplate(ctx context.Context, internalHandle, fingerIndex int) (models.TemplateRecord, error)
	ClearData(ctx context.Context) error
	Close() error
}

// Dialer performs the protocol handshake against an already-probed
// terminal and returns an open Protocol handle.
type Dialer func(ctx context.Context, cfg *models.TerminalConfig) (Protocol, error)
