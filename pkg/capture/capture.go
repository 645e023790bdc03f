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

// Package capture drives the local fingerprint scanning peripheral to
// produce enrollment templates.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vantix/biosync/pkg/logger"
	"github.com/vantix/biosync/pkg/models"
)

// ErrCaptureTimeout means no finger was presented within the scan window.
// Not a system fault; the caller should re-prompt the operator.
var ErrCaptureTimeout = errors.New("fingerprint capture timed out")

const (
	// scanCount is the number of raw scans merged into one enrollment
	// template, fixed by the vendor merge algorithm.
	scanCount = 3

	// defaultScanTimeout bounds one capture attempt. Human-scale: the
	// operation waits on a person placing a finger on the reader.
	defaultScanTimeout = 30 * time.Second
)

// Device is the vendor capture peripheral: one raw scan at a time, and an
// opaque merge of three raw scans into an enrollment template.
type Device interface {
	CaptureScan(ctx context.Context) ([]byte, error)
	MergeScans(a, b, c []byte) ([]byte, error)
}

// Enroller runs the three-scan enrollment workflow against a Device.
type Enroller struct {
	device      Device
	scanTimeout time.Duration
	log         logger.Logger
}

// NewEnroller builds an Enroller. A zero scanTimeout uses the default.
func NewEnroller(device Device, scanTimeout time.Duration, log logger.Logger) *Enroller {
	if scanTimeout <= 0 {
		scanTimeout = defaultScanTimeout
	}

	return &Enroller{device: device, scanTimeout: scanTimeout, log: log}
}

// Enroll captures three scans of one finger and merges them into a single
// enrollment template. Each capture is bounded by a watchdog deadline even
// when the vendor layer does not honor the context itself.
func (e *Enroller) Enroll(ctx context.Context, fingerIndex int) (models.FingerSlot, error) {
	scans := make([][]byte, 0, scanCount)

	for i := 0; i < scanCount; i++ {
		e.log.Info().
			Int("finger_index", fingerIndex).
			Int("scan", i+1).
			Int("of", scanCount).
			Msg("Waiting for finger placement")

		raw, err := e.captureOne(ctx)
		if err != nil {
			return models.FingerSlot{}, fmt.Errorf("scan %d/%d for finger %d: %w", i+1, scanCount, fingerIndex, err)
		}

		scans = append(scans, raw)
	}

	merged, err := e.device.MergeScans(scans[0], scans[1], scans[2])
	if err != nil {
		return models.FingerSlot{}, fmt.Errorf("failed to merge scans for finger %d: %w", fingerIndex, err)
	}

	e.log.Info().
		Int("finger_index", fingerIndex).
		Int("template_bytes", len(merged)).
		Msg("Enrollment template ready")

	return models.FingerSlot{
		FingerIndex:  fingerIndex,
		TemplateData: merged,
		Valid:        true,
	}, nil
}

// captureOne runs a single scan under the watchdog. The vendor call is
// left to finish in the background on timeout; there is no way to cancel
// it mid-flight.
func (e *Enroller) captureOne(ctx context.Context) ([]byte, error) {
	scanCtx, cancel := context.WithTimeout(ctx, e.scanTimeout)
	defer cancel()

	type scanResult struct {
		raw []byte
		err error
	}

	done := make(chan scanResult, 1)

	go func() {
		raw, err := e.device.CaptureScan(scanCtx)
		done <- scanResult{raw: raw, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}

		return res.raw, nil
	case <-scanCtx.Done():
		return nil, ErrCaptureTimeout
	}
}
