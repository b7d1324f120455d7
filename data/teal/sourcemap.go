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
	"bytes"
	"fmt"
	"strings"

	"github.com/KillerGasy/ARCs/protocol"
)

// sourceMapVersion is currently 3.
// Refer to the full specs of sourcemap here: https://sourcemaps.info/spec.html
const sourceMapVersion = 3
const b64table string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// SourceMapper provides an interface for mapping between a TEAL source file and
// an assembled program.
type SourceMapper interface {
	Name() string
	Version() int
	NumLines() int
	LineToPc(line int) (pc int, ok bool)
	PcToLine(pc int) (line int, ok bool)
}

// AssemblyMap contains details from the source to assembly process, currently
// the map of TEAL source line number to assembled bytecode position.
type AssemblyMap struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	SourceName    string `codec:"name"`
	SourceVersion int    `codec:"version"`

	// LineMap is indexed by zero-based source line. A zero entry marks a
	// line that assembled to no opcode; bytecode position zero is the
	// program version byte and never carries a line mapping.
	LineMap []int `codec:"line_map"`
}

var _ SourceMapper = &AssemblyMap{}

// Name returns the name of the source file the map was assembled from.
func (am *AssemblyMap) Name() string {
	return am.SourceName
}

// Version returns the version of the artifact that produced the map.
func (am *AssemblyMap) Version() int {
	return am.SourceVersion
}

// NumLines returns the number of source lines covered by the map.
func (am *AssemblyMap) NumLines() int {
	return len(am.LineMap)
}

// LineToPc returns the bytecode position of the opcode assembled from the
// given zero-based source line, and false for lines outside the map or
// lines carrying no opcode.
func (am *AssemblyMap) LineToPc(line int) (int, bool) {
	if line < 0 || line >= len(am.LineMap) {
		return 0, false
	}
	pc := am.LineMap[line]
	if pc == 0 {
		return 0, false
	}
	return pc, true
}

// PcToLine returns the source line whose opcode sits at the given bytecode
// position, and false when no line maps there.
func (am *AssemblyMap) PcToLine(pc int) (int, bool) {
	if pc == 0 {
		return 0, false
	}
	for idx, p := range am.LineMap {
		if p == pc {
			return idx, true
		}
	}
	return 0, false
}

// MakeAssemblyMapFromJSON decodes an assembly map document of the form
// {"name": ..., "version": ..., "line_map": [...]}.
func MakeAssemblyMapFromJSON(jsonBytes []byte) (AssemblyMap, error) {
	var am AssemblyMap
	if err := protocol.DecodeJSON(jsonBytes, &am); err != nil {
		return AssemblyMap{}, fmt.Errorf("cannot decode assembly map document: %w", err)
	}
	return am, nil
}

// SourceMap contains details from the source to assembly process in the
// standard source map exchange format. Each semicolon-separated segment of
// the Mappings field describes one bytecode position.
type SourceMap struct {
	Version    int      `codec:"version"`
	File       string   `codec:"file"`
	SourceRoot string   `codec:"sourceRoot"`
	Sources    []string `codec:"sources"`
	Names      []string `codec:"names"`
	// Mapping field is deprecated. Use `Mappings` field instead.
	Mapping  string `codec:"mapping"`
	Mappings string `codec:"mappings"`
}

// EncodeSourceMap renders the assembly map in the standard source map format,
// with one mappings segment per bytecode position. When several lines share a
// bytecode position the earliest line wins.
func (am *AssemblyMap) EncodeSourceMap() SourceMap {
	maxPC := 0
	pcToLine := make(map[int]int, len(am.LineMap))
	for line, pc := range am.LineMap {
		if pc == 0 {
			continue
		}
		if _, ok := pcToLine[pc]; !ok {
			pcToLine[pc] = line
		}
		if pc > maxPC {
			maxPC = pc
		}
	}

	prevSourceLine := 0
	segments := make([]string, maxPC+1)
	for pc := range segments {
		if line, ok := pcToLine[pc]; ok {
			segments[pc] = MakeSourceMapLine(0, 0, line-prevSourceLine, 0)
			prevSourceLine = line
		}
	}

	mappings := strings.Join(segments, ";")
	return SourceMap{
		Version: sourceMapVersion,
		Sources: []string{am.SourceName},
		Names:   []string{}, // TEAL code does not generate any names.
		// Mapping is deprecated, and only for backwards compatibility.
		Mapping:  mappings,
		Mappings: mappings,
	}
}

// MakeSourceMapFromJSON decodes a compiler emitted source map document and
// inverts it into an AssemblyMap usable for line lookups.
func MakeSourceMapFromJSON(jsonBytes []byte) (AssemblyMap, error) {
	var sm SourceMap
	if err := protocol.DecodeJSON(jsonBytes, &sm); err != nil {
		return AssemblyMap{}, fmt.Errorf("cannot decode source map document: %w", err)
	}
	return MakeAssemblyMap(sm)
}

// MakeAssemblyMap inverts a standard form source map into line to pc form.
// When several bytecode positions map to the same line, the line resolves to
// the earliest of them.
func MakeAssemblyMap(sm SourceMap) (AssemblyMap, error) {
	if sm.Version != sourceMapVersion {
		return AssemblyMap{}, fmt.Errorf("unsupported source map version %d", sm.Version)
	}
	mappings := sm.Mappings
	if mappings == "" {
		mappings = sm.Mapping
	}

	type pcLine struct {
		pc   int
		line int
	}
	line := 0
	maxLine := 0
	var pairs []pcLine
	for pc, segment := range strings.Split(mappings, ";") {
		if segment == "" {
			continue
		}
		fields, err := vlqDecode(segment)
		if err != nil {
			return AssemblyMap{}, fmt.Errorf("malformed mappings segment %d: %w", pc, err)
		}
		if len(fields) < 3 {
			return AssemblyMap{}, fmt.Errorf("malformed mappings segment %d: %d fields", pc, len(fields))
		}
		line += fields[2]
		if line < 0 {
			return AssemblyMap{}, fmt.Errorf("mappings segment %d yields negative source line %d", pc, line)
		}
		pairs = append(pairs, pcLine{pc: pc, line: line})
		if line > maxLine {
			maxLine = line
		}
	}

	lineMap := make([]int, maxLine+1)
	for _, pair := range pairs {
		if pair.pc != 0 && lineMap[pair.line] == 0 {
			lineMap[pair.line] = pair.pc
		}
	}

	name := ""
	if len(sm.Sources) > 0 {
		name = sm.Sources[0]
	}
	return AssemblyMap{
		SourceName:    name,
		SourceVersion: sm.Version,
		LineMap:       lineMap,
	}, nil
}

// intToVLQ writes out value to bytes.Buffer
func intToVLQ(v int, buf *bytes.Buffer) {
	v <<= 1
	if v < 0 {
		v = -v
		v |= 1
	}
	for v >= 32 {
		buf.WriteByte(b64table[32|(v&31)])
		v >>= 5
	}
	buf.WriteByte(b64table[v])
}

// MakeSourceMapLine creates source map mapping's line entry
func MakeSourceMapLine(tcol, sindex, sline, scol int) string {
	buf := bytes.NewBuffer(nil)
	intToVLQ(tcol, buf)
	intToVLQ(sindex, buf)
	intToVLQ(sline, buf)
	intToVLQ(scol, buf)
	return buf.String()
}

// vlqDecode decodes a single mappings segment of base64 VLQ values.
func vlqDecode(segment string) ([]int, error) {
	var values []int
	shift := uint(0)
	accum := 0
	inValue := false
	for i := 0; i < len(segment); i++ {
		digit := strings.IndexByte(b64table, segment[i])
		if digit == -1 {
			return nil, fmt.Errorf("invalid base64 digit %q", segment[i])
		}
		accum |= (digit & 31) << shift
		inValue = true
		if digit&32 != 0 {
			shift += 5
			continue
		}
		value := accum >> 1
		if accum&1 != 0 {
			value = -value
		}
		values = append(values, value)
		shift = 0
		accum = 0
		inValue = false
	}
	if inValue {
		return nil, fmt.Errorf("unterminated VLQ value")
	}
	return values, nil
}
