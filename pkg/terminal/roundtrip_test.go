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

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantix/biosync/pkg/models"
)

// memoryProtocol is a stateful in-memory terminal: users keyed by device
// ID, templates keyed by (handle, finger index), handles allocated on
// create. Only valid slots are stored, as real firmware does.
type memoryProtocol struct {
	users      map[int]models.TerminalUserRecord
	templates  map[int]map[int][]byte
	nextHandle int
	disabled   bool
	closed     bool
}

func newMemoryProtocol() *memoryProtocol {
	return &memoryProtocol{
		users:      make(map[int]models.TerminalUserRecord),
		templates:  make(map[int]map[int][]byte),
		nextHandle: 1,
	}
}

func (p *memoryProtocol) DisableMutations(context.Context) error {
	p.disabled = true
	return nil
}

func (p *memoryProtocol) EnableMutations(context.Context) error {
	p.disabled = false
	return nil
}

func (p *memoryProtocol) ListUsers(context.Context) ([]models.TerminalUserRecord, error) {
	out := make([]models.TerminalUserRecord, 0, len(p.users))

	for _, u := range p.users {
		out = append(out, u)
	}

	return out, nil
}

func (p *memoryProtocol) SetUser(_ context.Context, deviceID int, name string, privilege models.PrivilegeLevel, password string) error {
	p.users[deviceID] = models.TerminalUserRecord{
		DeviceID:       deviceID,
		InternalHandle: p.nextHandle,
		DisplayName:    name,
		Privilege:      privilege,
		Password:       password,
	}
	p.nextHandle++

	return nil
}

func (p *memoryProtocol) DeleteUser(_ context.Context, deviceID int) error {
	if u, ok := p.users[deviceID]; ok {
		delete(p.templates, u.InternalHandle)
	}

	delete(p.users, deviceID)

	return nil
}

func (p *memoryProtocol) PushTemplates(_ context.Context, internalHandle int, slots []models.FingerSlot) error {
	stored := make(map[int][]byte)

	for _, slot := range slots {
		if slot.Valid && len(slot.TemplateData) > 0 {
			stored[slot.FingerIndex] = slot.TemplateData
		}
	}

	p.templates[internalHandle] = stored

	return nil
}

func (p *memoryProtocol) ReadAllTemplates(context.Context) ([]models.TemplateRecord, error) {
	var out []models.TemplateRecord

	for handle, byIndex := range p.templates {
		for idx, data := range byIndex {
			out = append(out, models.TemplateRecord{
				InternalHandle: handle,
				FingerIndex:    idx,
				TemplateData:   data,
			})
		}
	}

	return out, nil
}

func (p *memoryProtocol) ReadTemplate(_ context.Context, internalHandle, fingerIndex int) (models.TemplateRecord, error) {
	data := p.templates[internalHandle][fingerIndex]

	return models.TemplateRecord{
		InternalHandle: internalHandle,
		FingerIndex:    fingerIndex,
		TemplateData:   data,
	}, nil
}

func (p *memoryProtocol) ClearData(context.Context) error {
	p.users = make(map[int]models.TerminalUserRecord)
	p.templates = make(map[int]map[int][]byte)

	return nil
}

func (p *memoryProtocol) Close() error {
	p.closed = true
	return nil
}

func TestUpsertThenBulkReadRoundTrip(t *testing.T) {
	proto := newMemoryProtocol()
	sess := readySession(proto)

	identity := &models.Identity{
		IdentityKey: "EMP-0042",
		DisplayName: "Le Thi Hoa",
		DeviceID:    "42",
	}

	pushed := []models.FingerSlot{
		{FingerIndex: 1, TemplateData: []byte{0x10, 0x11, 0x12}, Valid: true},
		{FingerIndex: 8, TemplateData: []byte{0x80}, Valid: true},
	}

	require.NoError(t, sess.UpsertIdentity(context.Background(), identity, pushed))

	users, err := sess.ReadUserList(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 42, users[0].DeviceID)

	templates, err := sess.ReadAllTemplates(context.Background())
	require.NoError(t, err)

	// Only the two valid slots read back; invalid placeholders are absent.
	require.Len(t, templates, 2)

	byIndex := make(map[int][]byte)

	for _, tmpl := range templates {
		assert.Equal(t, users[0].InternalHandle, tmpl.InternalHandle)
		byIndex[tmpl.FingerIndex] = tmpl.TemplateData
	}

	assert.Equal(t, []byte{0x10, 0x11, 0x12}, byIndex[1], "payloads survive byte-identical")
	assert.Equal(t, []byte{0x80}, byIndex[8])
}

func TestUpsertTwiceReplacesTemplates(t *testing.T) {
	proto := newMemoryProtocol()
	sess := readySession(proto)

	identity := &models.Identity{IdentityKey: "EMP-0042", DisplayName: "Le Thi Hoa", DeviceID: "42"}

	first := []models.FingerSlot{{FingerIndex: 1, TemplateData: []byte{0x01}, Valid: true}}
	second := []models.FingerSlot{{FingerIndex: 5, TemplateData: []byte{0x05}, Valid: true}}

	require.NoError(t, sess.UpsertIdentity(context.Background(), identity, first))
	require.NoError(t, sess.UpsertIdentity(context.Background(), identity, second))

	templates, err := sess.ReadAllTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 1, "the replace cycle must not leave stale slots behind")
	assert.Equal(t, 5, templates[0].FingerIndex)
}
