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

// Package models defines the shared data types for the biosync engine.
package models

import "strconv"

// PrivilegeLevel is the terminal-side privilege of an enrolled user.
type PrivilegeLevel string

const (
	PrivilegeStandard PrivilegeLevel = "standard"
	PrivilegeAdmin    PrivilegeLevel = "admin"
)

// Identity is one enrollable person as known by the authoritative HR store.
// DeviceID is kept as a string because the HR store stores it as free text;
// use DeviceIDValue to interpret it.
type Identity struct {
	IdentityKey    string         `json:"identity_key"`
	DisplayName    string         `json:"display_name"`
	DeviceID       string         `json:"device_id,omitempty"`
	DevicePassword string         `json:"device_password,omitempty"`
	Privilege      PrivilegeLevel `json:"privilege_level,omitempty"`
}

// DeviceIDValue parses the assigned device-facing numeric ID. ok is false
// when no usable ID is assigned (empty, non-numeric, or non-positive).
func (i *Identity) DeviceIDValue() (int, bool) {
	id, err := strconv.Atoi(i.DeviceID)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// HasDeviceID reports whether the identity carries a usable device-facing ID.
func (i *Identity) HasDeviceID() bool {
	_, ok := i.DeviceIDValue()
	return ok
}
