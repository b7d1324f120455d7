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

// Package appspec implements the application specification document: a
// descriptive bundle that lets a client understand a deployed application's
// ABI surface, state schema, user-defined types and error diagnostics
// without out-of-band knowledge.
package appspec

import (
	"fmt"
	"os"
	"strconv"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/KillerGasy/ARCs/config"
	"github.com/KillerGasy/ARCs/data/abi"
	"github.com/KillerGasy/ARCs/data/basics"
	"github.com/KillerGasy/ARCs/protocol"
)

// ApplicationSpec is the root of the document: the contract interface
// descriptor inline at the top level, plus the optional source, schema,
// type, error and state sections. A spec is immutable once parsed;
// recompilation regenerates the whole document rather than patching it.
type ApplicationSpec struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Contract

	Source *SourceSpec      `codec:"source"`
	Schema *SchemaSpec      `codec:"schema"`
	Types  TypeSpec         `codec:"types"`
	Errors ErrorSpec        `codec:"errors"`
	State  *StateAllocation `codec:"state"`

	resolved map[string]abi.Type
}

// SourceSpec carries the compiled programs. The document form is base64.
type SourceSpec struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Approval []byte `codec:"approval"`
	Clear    []byte `codec:"clear"`
}

// ErrorSpec maps a bytecode position to its diagnostic message. JSON
// objects key on strings, so the document form writes the positions as
// strings; the strict codec handle translates at the boundary and the rest
// of the package only ever sees integer keys.
type ErrorSpec map[int]string

func (es ErrorSpec) validate() error {
	pcs := maps.Keys(es)
	slices.Sort(pcs)
	for _, pc := range pcs {
		if pc < 0 {
			return fmt.Errorf("negative program counter %d", pc)
		}
		if err := specHelpStringInvalid(es[pc]); err != nil {
			return fmt.Errorf("message for program counter %d: %w", pc, err)
		}
	}
	return nil
}

// FromJSON parses and validates an application spec document. No partially
// valid spec is ever returned: the document must decode against the field
// grammar, the type namespace must resolve without cycles, the schema must
// fit the platform limits, and every cross reference must land.
func FromJSON(jsonBytes []byte) (*ApplicationSpec, error) {
	var spec ApplicationSpec
	if err := protocol.DecodeJSONStrict(jsonBytes, &spec); err != nil {
		return nil, ParseError{Field: "document", Err: err}
	}

	if err := spec.Types.Validate(); err != nil {
		return nil, ParseError{Field: "types", Err: err}
	}
	resolved, err := spec.Types.ResolveAll()
	if err != nil {
		return nil, ParseError{Field: "types", Err: err}
	}
	spec.resolved = resolved

	if err := spec.Errors.validate(); err != nil {
		return nil, ParseError{Field: "errors", Err: err}
	}
	if err := spec.validateSource(); err != nil {
		return nil, ParseError{Field: "source", Err: err}
	}
	if spec.Schema != nil || spec.State != nil {
		schema := spec.Schema
		if schema == nil {
			// an allocation with no schema still has to fit the caps
			schema = &SchemaSpec{}
		}
		if err := schema.Validate(spec.Types, spec.State); err != nil {
			return nil, ParseError{Field: "schema", Err: err}
		}
	}
	if err := spec.Contract.validate(spec.Types, spec.Schema); err != nil {
		return nil, ParseError{Field: "contract", Err: err}
	}
	return &spec, nil
}

// FromFile reads and parses a document from disk.
func FromFile(filename string) (*ApplicationSpec, error) {
	jsonBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FromJSON(jsonBytes)
}

// Encode renders the spec in its canonical document form.
func (spec *ApplicationSpec) Encode() []byte {
	return protocol.EncodeJSONStrict(spec)
}

func (spec *ApplicationSpec) validateSource() error {
	if spec.Source == nil {
		return nil
	}
	maxLen := config.Consensus.MaxAvailableAppProgramLen()
	if len(spec.Source.Approval) > maxLen {
		return fmt.Errorf("approval program is %d bytes, limit is %d", len(spec.Source.Approval), maxLen)
	}
	if len(spec.Source.Clear) > maxLen {
		return fmt.Errorf("clear state program is %d bytes, limit is %d", len(spec.Source.Clear), maxLen)
	}
	return nil
}

// ResolvedType returns the canonical ABI form of a user-defined type name,
// as resolved when the document was parsed.
func (spec *ApplicationSpec) ResolvedType(name string) (abi.Type, bool) {
	canonical, ok := spec.resolved[name]
	return canonical, ok
}

// DeclaredValue looks up a declared schema entry by scope and entry name.
func (spec *ApplicationSpec) DeclaredValue(scope string, name string) (DeclaredValueSpec, bool) {
	if spec.Schema == nil {
		return DeclaredValueSpec{}, false
	}
	sch := spec.Schema.Global
	if scope == LocalScope {
		sch = spec.Schema.Local
	}
	entry, ok := sch.Declared[name]
	return entry, ok
}

// ErrorMessage returns the diagnostic attached to a bytecode position.
func (spec *ApplicationSpec) ErrorMessage(pc int) (string, bool) {
	message, ok := spec.Errors[pc]
	return message, ok
}

// AllocatedSchemas returns the allocated global and local state schemas,
// zero when the document allocates none.
func (spec *ApplicationSpec) AllocatedSchemas() (global, local basics.StateSchema) {
	if spec.State == nil {
		return
	}
	return spec.State.Global.StateSchema(), spec.State.Local.StateSchema()
}

// sortedKeys returns the map's keys in sorted order, for deterministic
// validation and resolution sweeps.
func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func specRuneInvalid(r rune) bool {
	if 'a' <= r && r <= 'z' {
		return false
	}
	if 'A' <= r && r <= 'Z' {
		return false
	}
	if '0' <= r && r <= '9' {
		return false
	}
	if r == '-' || r == '+' || r == '_' {
		return false
	}
	return true
}

func specStringInvalid(s string) error {
	if s == "" {
		return fmt.Errorf("empty name")
	}
	for _, r := range s {
		if specRuneInvalid(r) {
			return fmt.Errorf("%s contains an invalid rune", strconv.Quote(s))
		}
	}
	return nil
}

func specHelpStringInvalid(s string) error {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("%s is not Unicode printable", strconv.Quote(s))
		}
	}
	return nil
}
