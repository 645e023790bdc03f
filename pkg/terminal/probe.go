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

package terminal

import (
	"fmt"
	"net"
	"time"
)

// defaultProbeTimeout bounds the pre-flight reachability check. Kept short
// so an offline terminal fails fast, before the protocol handshake.
const defaultProbeTimeout = 5 * time.Second

// Probe opens and immediately closes a bare TCP socket to the terminal.
// It distinguishes "host unreachable" from protocol-level failures.
func Probe(addr string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrTerminalUnreachable, addr, err)
	}

	_ = conn.Close()

	return nil
}
