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

// Package cache persists the local fingerprint snapshot. Every save is a
// full rewrite of the snapshot file through a temp-file rename, so readers
// never observe a partially written cache.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

const snapshotFileMode = 0o600

// Store reads and writes the fingerprint cache snapshot at a fixed path.
type Store struct {
	path string
	log  logger.Logger
}

// NewStore creates a Store for the given snapshot path.
func NewStore(path string, log logger.Logger) *Store {
	return &Store{path: path, log: log.WithComponent("cache")}
}

// Load reads the current snapshot. A missing file is an empty cache, not
// an error; a corrupt file is an error so stale data is never silently
// replaced.
func (s *Store) Load() (map[string]models.CanonicalFingerprintRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug().Str("path", s.path).Msg("No cache snapshot found; starting empty")
			return make(map[string]models.CanonicalFingerprintRecord), nil
		}

		return nil, fmt.Errorf("failed to read cache snapshot: %w", err)
	}

	records := make(map[string]models.CanonicalFingerprintRecord)

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode cache snapshot %s: %w", s.path, err)
	}

	return records, nil
}

// Save atomically replaces the snapshot with the given records.
func (s *Store) Save(records map[string]models.CanonicalFingerprintRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Chmod(tmpPath, snapshotFileMode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache snapshot: %w", err)
	}

	s.log.Info().
		Str("path", s.path).
		Int("records", len(records)).
		Msg("Cache snapshot written")

	return nil
}
