// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package teal

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/KillerGasy/ARCs/logging"
)

// commentMarker opens a TEAL line comment.
const commentMarker = "//"

// ConflictingErrorEntryError is returned when two guarded failure opcodes
// assemble to the same bytecode position but carry different diagnostic
// messages, so neither can be kept without discarding the other.
type ConflictingErrorEntryError struct {
	PC       int
	Existing string
	New      string
}

func (e ConflictingErrorEntryError) Error() string {
	return fmt.Sprintf("conflicting error messages for program counter %d: %q != %q", e.PC, e.Existing, e.New)
}

// BuildErrorMap scans TEAL source for failure opcodes (assert and err) guarded
// by a comment on the immediately preceding non-blank line, and maps each
// opcode's bytecode position to the comment's text. An unguarded failure
// opcode produces no entry. Opcodes sharing a bytecode position merge when
// their messages are identical and fail with ConflictingErrorEntryError when
// they differ.
func BuildErrorMap(source string, m SourceMapper, log logging.Logger) (map[int]string, error) {
	if log == nil {
		log = logging.Base()
	}

	scanner := bufio.NewScanner(strings.NewReader(source))
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot scan source: %w", err)
	}

	errmap := make(map[int]string)
	for lineIdx, line := range lines {
		fields := strings.Fields(stripComment(line))
		if len(fields) != 1 {
			continue
		}
		op := fields[0]
		if op != "assert" && op != "err" {
			continue
		}

		message, guarded := guardMessage(lines, lineIdx)
		if !guarded {
			log.Debugf("%s at line %d of %s has no guarding comment", op, lineIdx, m.Name())
			continue
		}

		pc, ok := m.LineToPc(lineIdx)
		if !ok {
			log.Debugf("%s at line %d of %s has no bytecode position", op, lineIdx, m.Name())
			continue
		}

		if existing, ok := errmap[pc]; ok {
			if existing == message {
				continue
			}
			return nil, ConflictingErrorEntryError{PC: pc, Existing: existing, New: message}
		}
		errmap[pc] = message
	}
	return errmap, nil
}

// stripComment drops everything from the comment marker onward.
func stripComment(line string) string {
	if idx := strings.Index(line, commentMarker); idx != -1 {
		return line[:idx]
	}
	return line
}

// guardMessage walks up from the given opcode line to the nearest non-blank
// line and returns its text when that line is a comment.
func guardMessage(lines []string, opLine int) (string, bool) {
	for idx := opLine - 1; idx >= 0; idx-- {
		prev := strings.TrimSpace(lines[idx])
		if prev == "" {
			continue
		}
		if !strings.HasPrefix(prev, commentMarker) {
			return "", false
		}
		return strings.TrimSpace(strings.TrimPrefix(prev, commentMarker)), true
	}
	return "", false
}
