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

package sync

import (
	"errors"

	"github.com/vantix/biosync/pkg/capture"
	"github.com/vantix/biosync/pkg/models"
	"github.com/vantix/biosync/pkg/terminal"
)

var (
	errNoTargets      = errors.New("no identities with a device-facing ID to pull")
	errSessionFailure = errors.New("terminal session could not be opened")
)

// ClassifyError maps an operation failure onto the error taxonomy carried
// in SyncResult maps. Anything that is not a reachability or capture
// failure is a protocol error: the terminal answered, but not successfully.
func ClassifyError(err error) models.ErrorKind {
	switch {
	case errors.Is(err, terminal.ErrTerminalUnreachable):
		return models.ErrorKindUnreachable
	case errors.Is(err, capture.ErrCaptureTimeout):
		return models.ErrorKindCapture
	default:
		return models.ErrorKindProtocol
	}
}
