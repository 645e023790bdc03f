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

// Package hrstore is the REST client for the authoritative HR record
// store: employee identities, fingerprint payloads, terminal inventory,
// and the sync-history log.
package hrstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

const (
	defaultTimeout = 15 * time.Second
	maxReadRetries = 3
)

var (
	errUnexpectedStatusCode = errors.New("unexpected status code")
	errIdentityNotFound     = errors.New("identity not found in HR store")
)

// HTTPClient is the transport seam, satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config locates and authenticates against the HR store API.
type Config struct {
	Endpoint  string          `json:"endpoint"`
	APIKey    string          `json:"api_key"`
	APISecret string          `json:"api_secret"`
	Timeout   models.Duration `json:"timeout,omitempty"`
}

// Client talks to the HR store. Read calls retry transient failures with
// exponential backoff; mutations are single-shot so a failed write-back
// stays visible to the caller.
type Client struct {
	config     Config
	httpClient HTTPClient
	log        logger.Logger
}

// NewClient builds a Client. A nil httpClient uses a default http.Client
// bounded by the configured timeout.
func NewClient(config Config, httpClient HTTPClient, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout.OrDefault(defaultTimeout)}
	}

	return &Client{config: config, httpClient: httpClient, log: log.WithComponent("hrstore")}
}

// hrEmployee is the wire shape of one employee record.
type hrEmployee struct {
	Name               string          `json:"name"`
	Employee           string          `json:"employee"`
	EmployeeName       string          `json:"employee_name"`
	AttendanceDeviceID string          `json:"attendance_device_id"`
	DevicePassword     string          `json:"device_password"`
	Privilege          string          `json:"device_privilege"`
	Status             string          `json:"status"`
	Fingerprints       []hrFingerprint `json:"custom_fingerprint_data,omitempty"`
}

// hrFingerprint is one child-table row; template payloads travel base64.
type hrFingerprint struct {
	FingerIndex  int    `json:"finger_index"`
	TemplateData string `json:"template_data"`
	QualityScore int    `json:"quality_score"`
}

type hrTerminal struct {
	Name       string `json:"name"`
	DeviceName string `json:"device_name"`
	IPAddress  string `json:"ip_address"`
	Port       int    `json:"port"`
	Password   string `json:"password"`
	ForceUDP   bool   `json:"force_udp"`
	Disabled   int    `json:"disabled"`
}

// TestConnection verifies the endpoint and credentials with a cheap read.
func (c *Client) TestConnection(ctx context.Context) error {
	params := url.Values{}
	params.Set("limit_page_length", "1")

	var out []hrEmployee

	return c.getJSON(ctx, "/api/resource/Employee", params, &out)
}

// ListIdentities fetches every active employee as an Identity.
func (c *Client) ListIdentities(ctx context.Context) ([]models.Identity, error) {
	params := url.Values{}
	params.Set("fields", `["name","employee","employee_name","attendance_device_id","device_password","device_privilege","status"]`)
	params.Set("filters", `[["status","=","Active"]]`)
	params.Set("limit_page_length", "0")

	var rows []hrEmployee

	if err := c.getJSON(ctx, "/api/resource/Employee", params, &rows); err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}

	identities := make([]models.Identity, 0, len(rows))

	for _, row := range rows {
		identities = append(identities, models.Identity{
			IdentityKey:    row.Name,
			DisplayName:    row.EmployeeName,
			DeviceID:       row.AttendanceDeviceID,
			DevicePassword: row.DevicePassword,
			Privilege:      parsePrivilege(row.Privilege),
		})
	}

	c.log.Info().Int("identities", len(identities)).Msg("Fetched identities from HR store")

	return identities, nil
}

// GetFingerprints returns the enrolled finger slots stored for one
// identity, decoded from their base64 transport encoding.
func (c *Client) GetFingerprints(ctx context.Context, identityKey string) ([]models.FingerSlot, error) {
	var doc hrEmployee

	if err := c.getJSON(ctx, "/api/resource/Employee/"+url.PathEscape(identityKey), nil, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch fingerprints for %s: %w", identityKey, err)
	}

	slots := make([]models.FingerSlot, 0, len(doc.Fingerprints))

	for _, fp := range doc.Fingerprints {
		data, err := base64.StdEncoding.DecodeString(fp.TemplateData)
		if err != nil {
			c.log.Warn().Err(err).
				Str("identity_key", identityKey).
				Int("finger_index", fp.FingerIndex).
				Msg("Skipping fingerprint with undecodable template payload")

			continue
		}

		slots = append(slots, models.FingerSlot{
			FingerIndex:  fp.FingerIndex,
			TemplateData: data,
			QualityScore: fp.QualityScore,
			Valid:        len(data) > 0,
		})
	}

	return slots, nil
}

// SaveFingerprint stores one finger slot on an identity, replacing any
// previous template at the same index.
func (c *Client) SaveFingerprint(ctx context.Context, identityKey string, slot models.FingerSlot) error {
	var doc hrEmployee

	if err := c.getJSON(ctx, "/api/resource/Employee/"+url.PathEscape(identityKey), nil, &doc); err != nil {
		return fmt.Errorf("failed to load identity %s: %w", identityKey, err)
	}

	encoded := base64.StdEncoding.EncodeToString(slot.TemplateData)
	replaced := false

	for i := range doc.Fingerprints {
		if doc.Fingerprints[i].FingerIndex == slot.FingerIndex {
			doc.Fingerprints[i].TemplateData = encoded
			doc.Fingerprints[i].QualityScore = slot.QualityScore
			replaced = true

			break
		}
	}

	if !replaced {
		doc.Fingerprints = append(doc.Fingerprints, hrFingerprint{
			FingerIndex:  slot.FingerIndex,
			TemplateData: encoded,
			QualityScore: slot.QualityScore,
		})
	}

	body := map[string]interface{}{"custom_fingerprint_data": doc.Fingerprints}

	return c.mutateJSON(ctx, http.MethodPut, "/api/resource/Employee/"+url.PathEscape(identityKey), body)
}

// DeleteFingerprint removes the template at one finger index.
func (c *Client) DeleteFingerprint(ctx context.Context, identityKey string, fingerIndex int) error {
	var doc hrEmployee

	if err := c.getJSON(ctx, "/api/resource/Employee/"+url.PathEscape(identityKey), nil, &doc); err != nil {
		return fmt.Errorf("failed to load identity %s: %w", identityKey, err)
	}

	kept := doc.Fingerprints[:0]

	for _, fp := range doc.Fingerprints {
		if fp.FingerIndex != fingerIndex {
			kept = append(kept, fp)
		}
	}

	body := map[string]interface{}{"custom_fingerprint_data": kept}

	return c.mutateJSON(ctx, http.MethodPut, "/api/resource/Employee/"+url.PathEscape(identityKey), body)
}

// UpdateDeviceID writes an allocated device-facing ID back to the HR
// store. Single-shot on purpose; the allocator handles failures.
func (c *Client) UpdateDeviceID(ctx context.Context, identityKey string, deviceID int) error {
	body := map[string]interface{}{"attendance_device_id": fmt.Sprintf("%d", deviceID)}

	if err := c.mutateJSON(ctx, http.MethodPut, "/api/resource/Employee/"+url.PathEscape(identityKey), body); err != nil {
		return fmt.Errorf("failed to update device ID for %s: %w", identityKey, err)
	}

	return nil
}

// RecordSyncHistory appends one entry to the HR store's sync-history log.
func (c *Client) RecordSyncHistory(ctx context.Context, entry *models.SyncHistoryEntry) error {
	return c.mutateJSON(ctx, http.MethodPost, "/api/resource/Sync History", entry)
}

// ListTerminals fetches the terminal inventory, normalized into
// TerminalConfig once, here at the boundary.
func (c *Client) ListTerminals(ctx context.Context) ([]models.TerminalConfig, error) {
	params := url.Values{}
	params.Set("fields", `["name","device_name","ip_address","port","password","force_udp","disabled"]`)
	params.Set("limit_page_length", "0")

	var rows []hrTerminal

	if err := c.getJSON(ctx, "/api/resource/Attendance Machine", params, &rows); err != nil {
		return nil, fmt.Errorf("failed to list terminals: %w", err)
	}

	terminals := make([]models.TerminalConfig, 0, len(rows))

	for _, row := range rows {
		if row.IPAddress == "" {
			c.log.Warn().Str("terminal", row.Name).Msg("Skipping terminal without an address")
			continue
		}

		port := row.Port
		if port == 0 {
			port = 4370
		}

		terminals = append(terminals, models.TerminalConfig{
			TerminalID: row.Name,
			Name:       row.DeviceName,
			Address:    row.IPAddress,
			Port:       port,
			Password:   row.Password,
			ForceUDP:   row.ForceUDP,
			Enabled:    row.Disabled == 0,
		})
	}

	return terminals, nil
}

// getJSON performs an authenticated GET with retry on transient failures
// and unwraps the HR store's {"data": ...} envelope.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	target := c.config.Endpoint + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		c.authorize(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer c.closeBody(resp)

		if resp.StatusCode == http.StatusNotFound {
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", errIdentityNotFound, path))
		}

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, backoff.Permanent(err)
			}

			return nil, err
		}

		return io.ReadAll(resp.Body)
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxReadRetries))
	if err != nil {
		return err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to decode HR store response: %w", err)
	}

	return json.Unmarshal(envelope.Data, out)
}

// mutateJSON performs a single-shot authenticated write.
func (c *Client) mutateJSON(ctx context.Context, method, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", errUnexpectedStatusCode, resp.StatusCode)
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "token "+c.config.APIKey+":"+c.config.APISecret)
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to close response body")
	}
}

func parsePrivilege(raw string) models.PrivilegeLevel {
	if raw == string(models.PrivilegeAdmin) {
		return models.PrivilegeAdmin
	}

	return models.PrivilegeStandard
}
