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

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

func TestLoadMissingFileIsEmptyCache(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "fingerprints.json"), logger.NewTestLogger())

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "fingerprints.json")
	store := NewStore(path, logger.NewTestLogger())

	records := map[string]models.CanonicalFingerprintRecord{
		"EMP-0001": {
			IdentityKey: "EMP-0001",
			DisplayName: "Nguyen Van An",
			DeviceID:    "1",
			FingerSlots: []models.FingerSlot{
				{FingerIndex: 1, TemplateData: []byte{0x01, 0x02}, Valid: true},
			},
		},
		"GHOST-1": {IdentityKey: "GHOST-1", Orphaned: true},
	}

	require.NoError(t, store.Save(records))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestSaveReplacesSnapshotAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fingerprints.json")
	store := NewStore(path, logger.NewTestLogger())

	require.NoError(t, store.Save(map[string]models.CanonicalFingerprintRecord{
		"EMP-0001": {IdentityKey: "EMP-0001"},
		"EMP-0002": {IdentityKey: "EMP-0002"},
	}))
	require.NoError(t, store.Save(map[string]models.CanonicalFingerprintRecord{
		"EMP-0003": {IdentityKey: "EMP-0003"},
	}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1, "a save is a full rewrite, not a patch")
	assert.Contains(t, loaded, "EMP-0003")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoadCorruptSnapshotFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fingerprints.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStore(path, logger.NewTestLogger())

	_, err := store.Load()
	assert.Error(t, err, "corrupt data must surface, not silently reset the cache")
}
