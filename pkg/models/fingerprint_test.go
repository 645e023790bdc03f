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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeSlots(t *testing.T) {
	sparse := []FingerSlot{
		{FingerIndex: 2, TemplateData: []byte{0x02}, Valid: true},
		{FingerIndex: 7, TemplateData: []byte{0x07}, Valid: true},
		{FingerIndex: 11, TemplateData: []byte{0xff}, Valid: true}, // out of range
		{FingerIndex: 4, Valid: true},                              // valid flag but no payload
	}

	full := MaterializeSlots(sparse)
	require.Len(t, full, FingerCount)

	for i, slot := range full {
		assert.Equal(t, i, slot.FingerIndex, "slots come back ordered by index")
	}

	assert.True(t, full[2].Valid)
	assert.True(t, full[7].Valid)
	assert.False(t, full[4].Valid, "a payload-less slot is a placeholder")
	assert.False(t, full[0].Valid)
}

func TestMaterializeSlotsEmptyInput(t *testing.T) {
	full := MaterializeSlots(nil)
	require.Len(t, full, FingerCount)

	for _, slot := range full {
		assert.False(t, slot.Valid)
		assert.Empty(t, slot.TemplateData)
	}
}

func TestDeviceIDValue(t *testing.T) {
	tests := []struct {
		name     string
		deviceID string
		expected int
		ok       bool
	}{
		{name: "numeric", deviceID: "42", expected: 42, ok: true},
		{name: "empty", deviceID: "", ok: false},
		{name: "non-numeric", deviceID: "E42", ok: false},
		{name: "zero", deviceID: "0", ok: false},
		{name: "negative", deviceID: "-3", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := Identity{DeviceID: tt.deviceID}

			id, ok := identity.DeviceIDValue()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestValidSlotCount(t *testing.T) {
	rec := CanonicalFingerprintRecord{
		FingerSlots: []FingerSlot{
			{FingerIndex: 0, TemplateData: []byte{0x01}, Valid: true},
			{FingerIndex: 1, Valid: true}, // no payload
			{FingerIndex: 2, TemplateData: []byte{0x02}},
		},
	}

	assert.Equal(t, 1, rec.ValidSlotCount())
}
