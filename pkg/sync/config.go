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
	"errors"
	"fmt"
	"time"

	"github.com/vantix/biosync/pkg/hrstore"
	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

const defaultTerminalTimeout = 10 * time.Second

var (
	errMissingHREndpoint   = errors.New("hr_store.endpoint is required")
	errTerminalFields      = errors.New("terminal missing required fields (terminal_id, address, port)")
	errDuplicateTerminalID = errors.New("duplicate terminal_id")
)

// Config is the biosync service configuration, loaded from a JSON file.
// Terminals may be listed inline; when empty, the terminal list is fetched
// from the HR store at startup.
type Config struct {
	HRStore   hrstore.Config          `json:"hr_store"`
	CachePath string                  `json:"cache_path"`
	Terminals []models.TerminalConfig `json:"terminals,omitempty"`
	Logging   logger.Config           `json:"logging,omitempty"`
}

func (c *Config) Validate() error {
	if c.HRStore.Endpoint == "" {
		return errMissingHREndpoint
	}

	if c.CachePath == "" {
		c.CachePath = "data/fingerprints.json"
	}

	seen := make(map[string]struct{}, len(c.Terminals))

	for i := range c.Terminals {
		t := &c.Terminals[i]

		if t.TerminalID == "" || t.Address == "" || t.Port == 0 {
			return fmt.Errorf("terminal %d: %w", i, errTerminalFields)
		}

		if _, dup := seen[t.TerminalID]; dup {
			return fmt.Errorf("%w: %s", errDuplicateTerminalID, t.TerminalID)
		}

		seen[t.TerminalID] = struct{}{}

		if t.Timeout == 0 {
			t.Timeout = models.Duration(defaultTerminalTimeout)
		}
	}

	return nil
}
