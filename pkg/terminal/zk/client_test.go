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

package zk

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantix/biosync/pkg/models"
)

// fakeTerminal answers protocol frames over TCP the way a real device
// would: one reply frame per command, keyed off the command code.
type fakeTerminal struct {
	ln        net.Listener
	sessionID uint16
	handler   func(f frame) (uint16, []byte)
}

func newFakeTerminal(t *testing.T, handler func(f frame) (uint16, []byte)) *fakeTerminal {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ft := &fakeTerminal{ln: ln, sessionID: 0x55, handler: handler}

	go ft.serve()
	t.Cleanup(func() { _ = ln.Close() })

	return ft
}

func (ft *fakeTerminal) serve() {
	conn, err := ft.ln.Accept()
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	for {
		head := make([]byte, tcpHeaderSize)
		if _, err := io.ReadFull(conn, head); err != nil {
			return
		}

		size := binary.LittleEndian.Uint32(head[4:8])
		body := make([]byte, size)

		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}

		req, err := decodeFrame(body)
		if err != nil {
			return
		}

		reply := replyAckOK

		var payload []byte

		// The connect reply always carries the session ID the client must
		// echo; only later commands go through the test handler.
		if req.command != cmdConnect && ft.handler != nil {
			reply, payload = ft.handler(req)
		}

		raw := encodeFrame(reply, ft.sessionID, req.replyID, payload)
		framed := make([]byte, tcpHeaderSize+len(raw))
		copy(framed, tcpMagic)
		binary.LittleEndian.PutUint32(framed[4:8], uint32(len(raw)))
		copy(framed[tcpHeaderSize:], raw)

		if _, err := conn.Write(framed); err != nil {
			return
		}

		if req.command == cmdExit {
			return
		}
	}
}

func (ft *fakeTerminal) config() *models.TerminalConfig {
	host, portStr, _ := net.SplitHostPort(ft.ln.Addr().String())
	port, _ := strconv.Atoi(portStr)

	return &models.TerminalConfig{
		TerminalID: "fake-1",
		Address:    host,
		Port:       port,
		Timeout:    models.Duration(2 * time.Second),
		Enabled:    true,
	}
}

func TestDialHandshakeAndSimpleCommands(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []uint16
	)

	ft := newFakeTerminal(t, func(f frame) (uint16, []byte) {
		mu.Lock()
		seen = append(seen, f.command)
		mu.Unlock()

		return replyAckOK, nil
	})

	proto, err := Dial(context.Background(), ft.config())
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, proto.DisableMutations(ctx))
	require.NoError(t, proto.EnableMutations(ctx))
	require.NoError(t, proto.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint16{cmdDisableDevice, cmdEnableDevice, cmdExit}, seen)
}

func TestDialPropagatesSessionID(t *testing.T) {
	ft := newFakeTerminal(t, func(f frame) (uint16, []byte) {
		// Reject frames that do not echo the handed-out session ID.
		if f.sessionID != 0x55 {
			return replyAckError, nil
		}

		return replyAckOK, nil
	})

	proto, err := Dial(context.Background(), ft.config())
	require.NoError(t, err)

	require.NoError(t, proto.DisableMutations(context.Background()))
	require.NoError(t, proto.Close())
}

func TestSimpleCommandErrorAck(t *testing.T) {
	ft := newFakeTerminal(t, func(f frame) (uint16, []byte) {
		return replyAckError, nil
	})

	proto, err := Dial(context.Background(), ft.config())
	require.NoError(t, err)

	err = proto.DisableMutations(context.Background())
	assert.ErrorIs(t, err, errAckError)

	require.NoError(t, proto.Close())
}

func TestListUsersParsesRecords(t *testing.T) {
	record := make([]byte, userRecordLen)
	binary.LittleEndian.PutUint16(record[0:2], 5) // internal handle
	record[2] = 14                                // admin
	copy(record[11:35], "Tran Van Binh")
	copy(record[48:72], "42")

	// The inline table payload is prefixed with its own length word.
	table := make([]byte, 4+userRecordLen)
	binary.LittleEndian.PutUint32(table[0:4], uint32(userRecordLen))
	copy(table[4:], record)

	ft := newFakeTerminal(t, func(f frame) (uint16, []byte) {
		if f.command == cmdDataWrrq {
			return replyAckData, table
		}

		return replyAckOK, nil
	})

	proto, err := Dial(context.Background(), ft.config())
	require.NoError(t, err)

	users, err := proto.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	assert.Equal(t, 42, users[0].DeviceID)
	assert.Equal(t, 5, users[0].InternalHandle)
	assert.Equal(t, "Tran Van Binh", users[0].DisplayName)
	assert.Equal(t, models.PrivilegeAdmin, users[0].Privilege)

	require.NoError(t, proto.Close())
}
