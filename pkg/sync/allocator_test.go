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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

func newTestEngine(hr HRStore, open SessionOpener, metrics Metrics) *Engine {
	return New(hr, open, metrics, logger.NewTestLogger())
}

func TestAllocateMissingIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hr := NewMockHRStore(ctrl)
	engine := newTestEngine(hr, nil, nil)

	identities := []models.Identity{
		{IdentityKey: "EMP-0001", DeviceID: "3"},
		{IdentityKey: "EMP-0002"},
		{IdentityKey: "EMP-0003", DeviceID: "not-a-number"},
	}

	// The cache holds a higher ID than any live identity; allocation must
	// start above it so retired IDs are never reused.
	cache := map[string]models.CanonicalFingerprintRecord{
		"EMP-9999": {IdentityKey: "EMP-9999", DeviceID: "17"},
	}

	hr.EXPECT().UpdateDeviceID(gomock.Any(), "EMP-0002", 18).Return(nil)
	hr.EXPECT().UpdateDeviceID(gomock.Any(), "EMP-0003", 19).Return(nil)

	updated, assignments := engine.AllocateMissingIDs(context.Background(), identities, cache)

	require.Len(t, assignments, 2)
	assert.Equal(t, "3", updated[0].DeviceID, "existing IDs stay untouched")
	assert.Equal(t, "18", updated[1].DeviceID)
	assert.Equal(t, "19", updated[2].DeviceID, "non-numeric IDs count as missing")

	seen := make(map[int]bool)

	for _, a := range assignments {
		assert.True(t, a.WrittenBack)
		assert.False(t, seen[a.DeviceID], "assigned IDs must be unique")
		seen[a.DeviceID] = true
	}
}

func TestAllocateMissingIDsNoGapsToFill(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hr := NewMockHRStore(ctrl)
	engine := newTestEngine(hr, nil, nil)

	identities := []models.Identity{
		{IdentityKey: "EMP-0001", DeviceID: "1"},
		{IdentityKey: "EMP-0002", DeviceID: "2"},
	}

	updated, assignments := engine.AllocateMissingIDs(context.Background(), identities, nil)

	assert.Empty(t, assignments)
	assert.Equal(t, identities, updated)
}

func TestAllocateMissingIDsWriteBackFailureTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hr := NewMockHRStore(ctrl)
	engine := newTestEngine(hr, nil, nil)

	identities := []models.Identity{{IdentityKey: "EMP-0001"}, {IdentityKey: "EMP-0002"}}

	hr.EXPECT().UpdateDeviceID(gomock.Any(), "EMP-0001", 1).Return(errors.New("store down"))
	hr.EXPECT().UpdateDeviceID(gomock.Any(), "EMP-0002", 2).Return(nil)

	updated, assignments := engine.AllocateMissingIDs(context.Background(), identities, nil)

	require.Len(t, assignments, 2)
	assert.False(t, assignments[0].WrittenBack)
	assert.NotEmpty(t, assignments[0].Error)
	assert.True(t, assignments[1].WrittenBack)

	// The in-memory value survives so the current run can still push; the
	// allocation is redone on the next run.
	assert.Equal(t, "1", updated[0].DeviceID)
	assert.Equal(t, "2", updated[1].DeviceID)
}

func TestAllocateMissingIDsDoesNotMutateInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hr := NewMockHRStore(ctrl)
	hr.EXPECT().UpdateDeviceID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	engine := newTestEngine(hr, nil, nil)

	identities := []models.Identity{{IdentityKey: "EMP-0001"}}

	_, _ = engine.AllocateMissingIDs(context.Background(), identities, nil)

	assert.Empty(t, identities[0].DeviceID, "caller's slice must not change")
}
