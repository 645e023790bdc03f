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

import "fmt"

// TerminalConfig describes one physical biometric terminal. It is
// normalized once at the configuration boundary; the engine never reads
// alternate key spellings.
type TerminalConfig struct {
	TerminalID string   `json:"terminal_id"`
	Name       string   `json:"name,omitempty"`
	Address    string   `json:"address"`
	Port       int      `json:"port"`
	Timeout    Duration `json:"timeout,omitempty"`
	Password   string   `json:"password,omitempty"`
	ForceUDP   bool     `json:"force_udp,omitempty"`
	Enabled    bool     `json:"enabled"`
}

// Addr returns the host:port dial target for the terminal.
func (c *TerminalConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

// DisplayLabel returns a human-facing name for logs and sync history.
func (c *TerminalConfig) DisplayLabel() string {
	if c.Name != "" {
		return c.Name
	}

	return c.TerminalID
}

// TerminalUserRecord is the terminal's own view of an enrolled user.
// InternalHandle is assigned by the terminal on user creation and is
// distinct from DeviceID; template operations address by handle.
type TerminalUserRecord struct {
	DeviceID       int            `json:"device_id"`
	InternalHandle int            `json:"internal_handle"`
	DisplayName    string         `json:"display_name"`
	Privilege      PrivilegeLevel `json:"privilege_level"`
	Password       string         `json:"password,omitempty"`
}

// TemplateRecord is one template as read off a terminal during a bulk read.
type TemplateRecord struct {
	InternalHandle int
	FingerIndex    int
	TemplateData   []byte
}
