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

// Package logger provides JSON structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls log output for the whole process.
type Config struct {
	Level      string `json:"level,omitempty"`
	Debug      bool   `json:"debug,omitempty"`
	Output     string `json:"output,omitempty"` // "stdout" (default) or "stderr"
	TimeFormat string `json:"time_format,omitempty"`
}

// Logger is the logging interface handed to every component.
type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) Logger
}

type zlogger struct {
	log zerolog.Logger
}

// New builds a Logger from config.
func New(config Config) (Logger, error) {
	var output io.Writer = os.Stdout

	if config.Output == "stderr" {
		output = os.Stderr
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error

		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return nil, err
		}
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	zl := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zlogger{log: zl}, nil
}

func (z *zlogger) Debug() *zerolog.Event { return z.log.Debug() }
func (z *zlogger) Info() *zerolog.Event  { return z.log.Info() }
func (z *zlogger) Warn() *zerolog.Event  { return z.log.Warn() }
func (z *zlogger) Error() *zerolog.Event { return z.log.Error() }
func (z *zlogger) Fatal() *zerolog.Event { return z.log.Fatal() }
func (z *zlogger) With() zerolog.Context { return z.log.With() }

func (z *zlogger) WithComponent(component string) Logger {
	return &zlogger{log: z.log.With().Str("component", component).Logger()}
}

// NewTestLogger creates a no-op logger for tests.
func NewTestLogger() Logger {
	return &zlogger{log: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}
