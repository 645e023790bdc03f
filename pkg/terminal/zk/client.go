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

// Package zk speaks the vendor wire protocol of ZK-family biometric
// terminals over TCP or UDP and satisfies terminal.Protocol.
package zk

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/vantix/biosync/pkg/models"
	"github.com/vantix/biosync/pkg/terminal"
)

const (
	defaultDialTimeout = 10 * time.Second
	udpReadBufferSize  = 16 * 1024
)

// Client is one authenticated protocol connection. Not safe for
// concurrent use; the session layer serializes all calls.
type Client struct {
	conn      net.Conn
	tcp       bool
	timeout   time.Duration
	sessionID uint16
	replyID   uint16
}

var _ terminal.Protocol = (*Client)(nil)

// Dial connects, performs the connect handshake, and authenticates with
// the terminal's comm password when one is configured. It satisfies
// terminal.Dialer.
func Dial(ctx context.Context, cfg *models.TerminalConfig) (terminal.Protocol, error) {
	network := "tcp"
	if cfg.ForceUDP {
		network = "udp"
	}

	timeout := cfg.Timeout.OrDefault(defaultDialTimeout)

	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, network, cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("dial %s %s: %w", network, cfg.Addr(), err)
	}

	c := &Client{conn: conn, tcp: !cfg.ForceUDP, timeout: timeout}

	reply, err := c.roundTrip(ctx, cmdConnect, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect handshake: %w", err)
	}

	c.sessionID = reply.sessionID

	switch reply.command {
	case replyAckOK:
	case replyAckUnauth:
		if err := c.authenticate(ctx, cfg.Password); err != nil {
			_ = conn.Close()
			return nil, err
		}
	default:
		_ = conn.Close()
		return nil, fmt.Errorf("connect handshake: unexpected reply %d", reply.command)
	}

	return c, nil
}

func (c *Client) authenticate(ctx context.Context, password string) error {
	key, err := strconv.ParseUint(password, 10, 32)
	if err != nil {
		return fmt.Errorf("comm password must be numeric: %w", err)
	}

	reply, err := c.roundTrip(ctx, cmdAuth, commKey(uint32(key), c.sessionID))
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if reply.command != replyAckOK {
		return errUnauthorized
	}

	return nil
}

// DisableMutations freezes the terminal UI and on-device enrollment so
// records cannot change underneath the session.
func (c *Client) DisableMutations(ctx context.Context) error {
	return c.simpleCommand(ctx, cmdDisableDevice, nil)
}

// EnableMutations returns the terminal to normal operation.
func (c *Client) EnableMutations(ctx context.Context) error {
	return c.simpleCommand(ctx, cmdEnableDevice, nil)
}

// ListUsers bulk-reads the user table.
func (c *Client) ListUsers(ctx context.Context) ([]models.TerminalUserRecord, error) {
	data, err := c.readTable(ctx, cmdDBRrq, fctUserData)
	if err != nil {
		return nil, fmt.Errorf("read user table: %w", err)
	}

	var users []models.TerminalUserRecord

	for len(data) >= userRecordLen {
		rec := data[:userRecordLen]
		data = data[userRecordLen:]

		deviceID, err := strconv.Atoi(cString(rec[48:72]))
		if err != nil {
			// Users with a non-numeric external ID were not provisioned by
			// this system; skip them.
			continue
		}

		privilege := models.PrivilegeStandard
		if rec[2] != 0 {
			privilege = models.PrivilegeAdmin
		}

		users = append(users, models.TerminalUserRecord{
			DeviceID:       deviceID,
			InternalHandle: int(binary.LittleEndian.Uint16(rec[0:2])),
			DisplayName:    cString(rec[11:35]),
			Privilege:      privilege,
			Password:       cString(rec[3:11]),
		})
	}

	return users, nil
}

// SetUser creates or overwrites the user record for this device ID. The
// terminal assigns the internal handle itself.
func (c *Client) SetUser(ctx context.Context, deviceID int, name string, privilege models.PrivilegeLevel, password string) error {
	rec := make([]byte, userRecordLen)

	// Handle 0 asks the terminal to allocate the next free slot.
	if privilege == models.PrivilegeAdmin {
		rec[2] = 14
	}

	copyPadded(rec[3:11], password)
	copyPadded(rec[11:35], name)
	copyPadded(rec[48:72], strconv.Itoa(deviceID))

	if err := c.simpleCommand(ctx, cmdUserWrq, rec); err != nil {
		return fmt.Errorf("write user %d: %w", deviceID, err)
	}

	return c.simpleCommand(ctx, cmdRefreshData, nil)
}

// DeleteUser removes the user with this device ID and its templates.
func (c *Client) DeleteUser(ctx context.Context, deviceID int) error {
	handle, err := c.handleFor(ctx, deviceID)
	if err != nil {
		return err
	}

	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, uint16(handle))

	if err := c.simpleCommand(ctx, cmdDeleteUser, payload); err != nil {
		return fmt.Errorf("delete user %d: %w", deviceID, err)
	}

	return c.simpleCommand(ctx, cmdRefreshData, nil)
}

// PushTemplates writes all ten finger slots for one internal handle.
// Valid slots are uploaded; invalid slots are deleted on the terminal so
// no stale template survives the push.
func (c *Client) PushTemplates(ctx context.Context, internalHandle int, slots []models.FingerSlot) error {
	for _, slot := range slots {
		if slot.Valid && len(slot.TemplateData) > 0 {
			payload := make([]byte, 4+len(slot.TemplateData))
			binary.LittleEndian.PutUint16(payload[0:2], uint16(internalHandle))
			payload[2] = byte(slot.FingerIndex)
			payload[3] = 1
			copy(payload[4:], slot.TemplateData)

			if err := c.simpleCommand(ctx, cmdUserTempWrq, payload); err != nil {
				return fmt.Errorf("write template %d/%d: %w", internalHandle, slot.FingerIndex, err)
			}

			continue
		}

		payload := make([]byte, 3)
		binary.LittleEndian.PutUint16(payload[0:2], uint16(internalHandle))
		payload[2] = byte(slot.FingerIndex)

		// Deleting an absent template acks OK; no pre-read needed.
		if err := c.simpleCommand(ctx, cmdDeleteUserTemp, payload); err != nil {
			return fmt.Errorf("clear template %d/%d: %w", internalHandle, slot.FingerIndex, err)
		}
	}

	return c.simpleCommand(ctx, cmdRefreshData, nil)
}

// ReadAllTemplates bulk-reads the template table.
func (c *Client) ReadAllTemplates(ctx context.Context) ([]models.TemplateRecord, error) {
	data, err := c.readTable(ctx, cmdDBRrq, fctFingerprint)
	if err != nil {
		return nil, fmt.Errorf("read template table: %w", err)
	}

	var templates []models.TemplateRecord

	for len(data) >= 6 {
		size := int(binary.LittleEndian.Uint16(data[0:2]))
		if size < 6 || size > len(data) {
			return nil, fmt.Errorf("template table corrupt: record size %d of %d remaining", size, len(data))
		}

		templates = append(templates, models.TemplateRecord{
			InternalHandle: int(binary.LittleEndian.Uint16(data[2:4])),
			FingerIndex:    int(data[4]),
			TemplateData:   append([]byte(nil), data[6:size]...),
		})

		data = data[size:]
	}

	return templates, nil
}

// ReadTemplate reads one template by handle and finger index.
func (c *Client) ReadTemplate(ctx context.Context, internalHandle, fingerIndex int) (models.TemplateRecord, error) {
	payload := make([]byte, 3)
	binary.LittleEndian.PutUint16(payload[0:2], uint16(internalHandle))
	payload[2] = byte(fingerIndex)

	reply, err := c.roundTrip(ctx, cmdUserTempRrq, payload)
	if err != nil {
		return models.TemplateRecord{}, fmt.Errorf("read template %d/%d: %w", internalHandle, fingerIndex, err)
	}

	data, err := c.collectData(ctx, reply)
	if err != nil {
		return models.TemplateRecord{}, fmt.Errorf("read template %d/%d: %w", internalHandle, fingerIndex, err)
	}

	return models.TemplateRecord{
		InternalHandle: internalHandle,
		FingerIndex:    fingerIndex,
		TemplateData:   data,
	}, nil
}

// ClearData erases every user and template on the terminal.
func (c *Client) ClearData(ctx context.Context) error {
	if err := c.simpleCommand(ctx, cmdClearData, nil); err != nil {
		return err
	}

	return c.simpleCommand(ctx, cmdRefreshData, nil)
}

// Close sends the exit command and tears down the transport.
func (c *Client) Close() error {
	_, _ = c.roundTrip(context.Background(), cmdExit, nil)
	return c.conn.Close()
}

func (c *Client) handleFor(ctx context.Context, deviceID int) (int, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	for _, u := range users {
		if u.DeviceID == deviceID {
			return u.InternalHandle, nil
		}
	}

	return 0, fmt.Errorf("device_id %d not on terminal", deviceID)
}

// simpleCommand sends one command and requires an OK ack.
func (c *Client) simpleCommand(ctx context.Context, cmd uint16, payload []byte) error {
	reply, err := c.roundTrip(ctx, cmd, payload)
	if err != nil {
		return err
	}

	if reply.command != replyAckOK {
		return fmt.Errorf("%w: command %d reply %d", errAckError, cmd, reply.command)
	}

	return nil
}

// readTable performs a buffered bulk read of one on-device table. Small
// tables arrive inline in the first reply; large ones are staged on the
// terminal and fetched in chunks.
func (c *Client) readTable(ctx context.Context, cmd uint16, fct byte) ([]byte, error) {
	req := make([]byte, 11)
	req[0] = 1
	binary.LittleEndian.PutUint16(req[1:3], cmd)
	binary.LittleEndian.PutUint32(req[3:7], uint32(fct))

	reply, err := c.roundTrip(ctx, cmdDataWrrq, req)
	if err != nil {
		return nil, err
	}

	switch reply.command {
	case replyAckOK:
		// Staged read: payload carries the total size at offset 1.
		if len(reply.payload) < 5 {
			return nil, fmt.Errorf("%w: short buffered-read ack", errShortFrame)
		}

		total := int(binary.LittleEndian.Uint32(reply.payload[1:5]))

		return c.readStaged(ctx, total)
	case replyAckData, cmdData, cmdPrepareData:
		data, err := c.collectData(ctx, reply)
		if err != nil {
			return nil, err
		}

		// Inline table data is prefixed with its own length word.
		if len(data) >= 4 {
			return data[4:], nil
		}

		return data, nil
	default:
		return nil, fmt.Errorf("%w: command %d reply %d", errAckError, cmdDataWrrq, reply.command)
	}
}

// readStaged pulls a staged buffer off the terminal in bounded chunks and
// frees it afterwards.
func (c *Client) readStaged(ctx context.Context, total int) ([]byte, error) {
	const chunkSize = 16 * 1024

	out := make([]byte, 0, total)

	for offset := 0; offset < total; {
		want := total - offset
		if want > chunkSize {
			want = chunkSize
		}

		req := make([]byte, 8)
		binary.LittleEndian.PutUint32(req[0:4], uint32(offset))
		binary.LittleEndian.PutUint32(req[4:8], uint32(want))

		reply, err := c.roundTrip(ctx, cmdReadBuffer, req)
		if err != nil {
			return nil, err
		}

		chunk, err := c.collectData(ctx, reply)
		if err != nil {
			return nil, err
		}

		if len(chunk) == 0 {
			return nil, fmt.Errorf("%w: empty chunk at offset %d", errShortFrame, offset)
		}

		out = append(out, chunk...)
		offset += len(chunk)
	}

	if err := c.simpleCommand(ctx, cmdFreeData, nil); err != nil {
		return nil, err
	}

	// Staged chunks repeat the table's leading length word.
	if len(out) >= 4 {
		return out[4:], nil
	}

	return out, nil
}

// collectData normalizes the three ways a terminal delivers payload data:
// inline in an ack, as a single data frame, or as prepare-data followed by
// data frames and a final ack.
func (c *Client) collectData(ctx context.Context, reply frame) ([]byte, error) {
	switch reply.command {
	case replyAckData, cmdData:
		return reply.payload, nil
	case cmdPrepareData:
		if len(reply.payload) < 4 {
			return nil, fmt.Errorf("%w: short prepare-data", errShortFrame)
		}

		total := int(binary.LittleEndian.Uint32(reply.payload[0:4]))
		out := make([]byte, 0, total)

		for len(out) < total {
			next, err := c.readFrame(ctx)
			if err != nil {
				return nil, err
			}

			if next.command != cmdData {
				return nil, fmt.Errorf("%w: expected data frame, got %d", errAckError, next.command)
			}

			out = append(out, next.payload...)
		}

		// Trailing OK ack closes the transfer.
		final, err := c.readFrame(ctx)
		if err != nil {
			return nil, err
		}

		if final.command != replyAckOK {
			return nil, fmt.Errorf("%w: transfer ended with %d", errAckError, final.command)
		}

		return out, nil
	case replyAckOK:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: reply %d", errAckError, reply.command)
	}
}

// roundTrip frames and sends one command, then reads its reply.
func (c *Client) roundTrip(ctx context.Context, cmd uint16, payload []byte) (frame, error) {
	c.replyID++

	raw := encodeFrame(cmd, c.sessionID, c.replyID, payload)

	if err := c.setDeadline(ctx); err != nil {
		return frame{}, err
	}

	if c.tcp {
		head := make([]byte, tcpHeaderSize)
		copy(head, tcpMagic)
		binary.LittleEndian.PutUint32(head[4:8], uint32(len(raw)))
		raw = append(head, raw...)
	}

	if _, err := c.conn.Write(raw); err != nil {
		return frame{}, fmt.Errorf("write command %d: %w", cmd, err)
	}

	return c.readFrame(ctx)
}

// readFrame reads one frame off the transport.
func (c *Client) readFrame(ctx context.Context) (frame, error) {
	if err := c.setDeadline(ctx); err != nil {
		return frame{}, err
	}

	if !c.tcp {
		buf := make([]byte, udpReadBufferSize)

		n, err := c.conn.Read(buf)
		if err != nil {
			return frame{}, fmt.Errorf("read reply: %w", err)
		}

		return decodeFrame(buf[:n])
	}

	head := make([]byte, tcpHeaderSize)

	if _, err := io.ReadFull(c.conn, head); err != nil {
		return frame{}, fmt.Errorf("read reply header: %w", err)
	}

	if !bytes.Equal(head[:4], tcpMagic) {
		return frame{}, errBadMagic
	}

	size := binary.LittleEndian.Uint32(head[4:8])

	body := make([]byte, size)

	if _, err := io.ReadFull(c.conn, body); err != nil {
		return frame{}, fmt.Errorf("read reply body: %w", err)
	}

	return decodeFrame(body)
}

func (c *Client) setDeadline(ctx context.Context) error {
	deadline := time.Now().Add(c.timeout)

	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	return c.conn.SetDeadline(deadline)
}

// cString trims a fixed-width NUL-padded field.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(bytes.TrimSpace(b))
}

// copyPadded writes s into a fixed-width field, truncating if needed; the
// remainder stays NUL.
func copyPadded(dst []byte, s string) {
	copy(dst, s)
}
