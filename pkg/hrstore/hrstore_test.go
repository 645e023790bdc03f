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

package hrstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{Endpoint: srv.URL, APIKey: "key", APISecret: "secret"}

	return NewClient(cfg, srv.Client(), logger.NewTestLogger())
}

func TestListIdentities(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token key:secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/resource/Employee", r.URL.Path)

		_, _ = w.Write([]byte(`{"data":[
			{"name":"EMP-0001","employee_name":"Nguyen Van An","attendance_device_id":"1","device_privilege":"admin"},
			{"name":"EMP-0002","employee_name":"Tran Thi Binh"}
		]}`))
	})

	identities, err := client.ListIdentities(context.Background())
	require.NoError(t, err)
	require.Len(t, identities, 2)

	assert.Equal(t, "EMP-0001", identities[0].IdentityKey)
	assert.Equal(t, "1", identities[0].DeviceID)
	assert.Equal(t, models.PrivilegeAdmin, identities[0].Privilege)
	assert.Equal(t, models.PrivilegeStandard, identities[1].Privilege)
	assert.False(t, identities[1].HasDeviceID())
}

func TestListIdentitiesRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.ListIdentities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestListIdentitiesClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.ListIdentities(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpectedStatusCode)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses must not be retried")
}

func TestGetFingerprintsDecodesTemplates(t *testing.T) {
	good := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resource/Employee/EMP-0001", r.URL.Path)

		_, _ = w.Write([]byte(`{"data":{"name":"EMP-0001","custom_fingerprint_data":[
			{"finger_index":1,"template_data":"` + good + `","quality_score":80},
			{"finger_index":2,"template_data":"%%%not-base64%%%"}
		]}}`))
	})

	slots, err := client.GetFingerprints(context.Background(), "EMP-0001")
	require.NoError(t, err)
	require.Len(t, slots, 1, "undecodable payloads are skipped, not fatal")

	assert.Equal(t, 1, slots[0].FingerIndex)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, slots[0].TemplateData)
	assert.True(t, slots[0].Valid)
}

func TestUpdateDeviceID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/resource/Employee/EMP-0001", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body["attendance_device_id"])

		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	require.NoError(t, client.UpdateDeviceID(context.Background(), "EMP-0001", 42))
}

func TestUpdateDeviceIDFailureSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.UpdateDeviceID(context.Background(), "EMP-0001", 42)
	assert.ErrorIs(t, err, errUnexpectedStatusCode, "write-backs are single-shot")
}

func TestRecordSyncHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/resource/Sync History", r.URL.Path)

		var entry models.SyncHistoryEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&entry))
		assert.Equal(t, "fingerprint_sync_to_terminal", entry.Kind)
		assert.Equal(t, 3, entry.Count)

		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	entry := &models.SyncHistoryEntry{
		Kind:         "fingerprint_sync_to_terminal",
		TerminalName: "Lobby",
		Count:        3,
		Status:       "success",
	}

	require.NoError(t, client.RecordSyncHistory(context.Background(), entry))
}

func TestListTerminalsNormalizes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"name":"AM-001","device_name":"Lobby","ip_address":"10.0.0.10","port":4370,"disabled":0},
			{"name":"AM-002","device_name":"Workshop","ip_address":"10.0.0.11","disabled":1},
			{"name":"AM-003","device_name":"No Address"}
		]}`))
	})

	terminals, err := client.ListTerminals(context.Background())
	require.NoError(t, err)
	require.Len(t, terminals, 2, "terminals without an address are skipped")

	assert.Equal(t, "AM-001", terminals[0].TerminalID)
	assert.True(t, terminals[0].Enabled)
	assert.Equal(t, "10.0.0.10:4370", terminals[0].Addr())

	assert.False(t, terminals[1].Enabled)
	assert.Equal(t, 4370, terminals[1].Port, "missing port defaults to the vendor port")
}
