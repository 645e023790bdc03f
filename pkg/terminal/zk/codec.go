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
	"encoding/binary"
	"errors"
	"fmt"
)

// Command codes of the terminal wire protocol.
const (
	cmdConnect       uint16 = 1000
	cmdExit          uint16 = 1001
	cmdEnableDevice  uint16 = 1002
	cmdDisableDevice uint16 = 1003
	cmdAuth          uint16 = 1102
	cmdRefreshData   uint16 = 1013

	cmdUserWrq        uint16 = 8
	cmdUserTempRrq    uint16 = 9
	cmdUserTempWrq    uint16 = 10
	cmdClearData      uint16 = 14
	cmdDeleteUser     uint16 = 18
	cmdDeleteUserTemp uint16 = 134

	cmdDBRrq       uint16 = 7
	cmdDataWrrq    uint16 = 1503
	cmdReadBuffer  uint16 = 1504
	cmdFreeData    uint16 = 1502
	cmdPrepareData uint16 = 1500
	cmdData        uint16 = 1501

	replyAckOK     uint16 = 2000
	replyAckError  uint16 = 2001
	replyAckData   uint16 = 2002
	replyAckUnauth uint16 = 2005
)

// Data-table selectors for buffered reads.
const (
	fctUserData    byte = 5
	fctFingerprint byte = 2
)

const (
	headerSize    = 8
	tcpHeaderSize = 8
	userRecordLen = 72
)

// tcpMagic prefixes every frame on the TCP transport.
var tcpMagic = []byte{0x50, 0x50, 0x82, 0x7d}

var (
	errShortFrame   = errors.New("frame shorter than header")
	errBadMagic     = errors.New("bad tcp frame magic")
	errAckError     = errors.New("terminal returned error ack")
	errUnauthorized = errors.New("terminal rejected credentials")
)

// frame is one decoded protocol frame: command or reply code, session and
// reply counters, and the payload that follows the 8-byte header.
type frame struct {
	command   uint16
	sessionID uint16
	replyID   uint16
	payload   []byte
}

// encodeFrame builds the 8-byte header plus payload, with the 16-bit
// ones-complement checksum the terminal expects.
func encodeFrame(command, sessionID, replyID uint16, payload []byte) []byte {
	buf := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint16(buf[0:2], command)
	binary.LittleEndian.PutUint16(buf[4:6], sessionID)
	binary.LittleEndian.PutUint16(buf[6:8], replyID)
	copy(buf[headerSize:], payload)

	binary.LittleEndian.PutUint16(buf[2:4], checksum(buf))

	return buf
}

func decodeFrame(raw []byte) (frame, error) {
	if len(raw) < headerSize {
		return frame{}, fmt.Errorf("%w: %d bytes", errShortFrame, len(raw))
	}

	return frame{
		command:   binary.LittleEndian.Uint16(raw[0:2]),
		sessionID: binary.LittleEndian.Uint16(raw[4:6]),
		replyID:   binary.LittleEndian.Uint16(raw[6:8]),
		payload:   raw[headerSize:],
	}, nil
}

// checksum folds the frame into 16-bit words, wrapping carries, and
// returns the inverted sum. The checksum field itself must be zero when
// this runs.
func checksum(b []byte) uint16 {
	var sum uint32

	for len(b) > 1 {
		sum += uint32(binary.LittleEndian.Uint16(b))
		if sum > 0xffff {
			sum -= 0xffff
		}

		b = b[2:]
	}

	if len(b) == 1 {
		sum += uint32(b[0])
	}

	for sum > 0xffff {
		sum -= 0xffff
	}

	return ^uint16(sum)
}

// commKey derives the CMD_AUTH payload from the shared password and the
// session ID handed out by the connect reply.
func commKey(password uint32, sessionID uint16) []byte {
	var k uint32

	for i := 0; i < 32; i++ {
		k <<= 1
		if password&(1<<uint(i)) != 0 {
			k |= 1
		}
	}

	k += uint32(sessionID)

	var b [4]byte

	binary.LittleEndian.PutUint32(b[:], k)
	b[0] ^= 'Z'
	b[1] ^= 'K'
	b[2] ^= 'S'
	b[3] ^= 'O'

	b[0], b[1], b[2], b[3] = b[2], b[3], b[0], b[1]

	const ticks = 50

	b[0] ^= ticks
	b[1] ^= ticks
	b[2] = ticks
	b[3] ^= ticks

	return b[:]
}
