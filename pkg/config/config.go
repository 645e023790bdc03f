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

// Package config loads JSON configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
)

var errInvalidConfigPtr = errors.New("config must be a non-nil pointer")

// Validator is implemented by config structs that can check themselves.
type Validator interface {
	Validate() error
}

// LoadAndValidate reads a JSON file into dst and runs dst.Validate when
// implemented.
func LoadAndValidate(path string, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errInvalidConfigPtr
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}

	if val, ok := dst.(Validator); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("invalid configuration in '%s': %w", path, err)
		}
	}

	return nil
}
