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
	"strings"
	"unicode"
)

// MaxNameLength is the terminal firmware's display-name limit.
const MaxNameLength = 24

// TruncateDisplayName fits a display name into the terminal's name field.
// Whitespace runs are collapsed first. Names within the limit are kept
// verbatim. Multi-part names over the limit become the uppercased initials
// of all parts but the last, joined, plus the last part; hard-truncated if
// still too long. A single word over the limit is kept verbatim: the
// firmware accepts it and initials would destroy the only searchable part.
func TruncateDisplayName(name string) string {
	normalized := strings.Join(strings.Fields(name), " ")

	if len([]rune(normalized)) <= MaxNameLength {
		return normalized
	}

	parts := strings.Fields(normalized)
	if len(parts) == 1 {
		return normalized
	}

	var b strings.Builder

	for _, part := range parts[:len(parts)-1] {
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
	}

	short := b.String() + " " + parts[len(parts)-1]

	if runes := []rune(short); len(runes) > MaxNameLength {
		short = string(runes[:MaxNameLength])
	}

	return short
}
