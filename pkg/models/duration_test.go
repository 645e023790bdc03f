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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "string form", input: `"30s"`, expected: 30 * time.Second},
		{name: "nanosecond number", input: `5000000000`, expected: 5 * time.Second},
		{name: "bad string", input: `"soon"`, wantErr: true},
		{name: "bad type", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, time.Duration(d))
		})
	}
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))

	var back Duration

	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestDurationOrDefault(t *testing.T) {
	assert.Equal(t, 10*time.Second, Duration(0).OrDefault(10*time.Second))
	assert.Equal(t, 3*time.Second, Duration(3*time.Second).OrDefault(10*time.Second))
}
