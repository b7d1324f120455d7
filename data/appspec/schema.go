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

package appspec

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/KillerGasy/ARCs/config"
	"github.com/KillerGasy/ARCs/data/abi"
	"github.com/KillerGasy/ARCs/data/basics"
)

// StorageType names the stored shape of a schema value: one of the AVM
// types ("uint64" or "bytes") or any ABI type string, possibly referencing
// user-defined names.
type StorageType string

// The two native AVM storage types.
const (
	AVMUint64 StorageType = "uint64"
	AVMBytes  StorageType = "bytes"
)

// AVMType reports which AVM key counter a value of this storage type
// consumes. ABI values with unsigned semantics at 64 bits or below (uint8
// through uint64, bool, byte) store in uint slots; everything else stores
// as bytes.
func (st StorageType) AVMType(ts TypeSpec) (basics.TealType, error) {
	switch st {
	case AVMUint64:
		return basics.TealUintType, nil
	case AVMBytes:
		return basics.TealBytesType, nil
	}
	resolved, err := ts.ResolveString(string(st))
	if err != nil {
		return basics.TealBytesType, err
	}
	switch resolved.TypeID() {
	case abi.Uint:
		if resolved.BitSize() <= 64 {
			return basics.TealUintType, nil
		}
	case abi.Bool, abi.Byte:
		return basics.TealUintType, nil
	}
	return basics.TealBytesType, nil
}

// DeclaredValueSpec describes one schema value whose key is fixed and known
// when the spec is written.
type DeclaredValueSpec struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type  StorageType `codec:"type"`
	Key   string      `codec:"key"`
	Descr string      `codec:"desc"`
}

// StorageKey returns the key under which the value actually stores,
// defaulting to the entry name when the document omits it.
func (d DeclaredValueSpec) StorageKey(name string) string {
	if d.Key == "" {
		return name
	}
	return d.Key
}

// ToTealValue decodes a raw stored value according to the declared storage
// type. Uint slots hold the canonical 8 byte big-endian form; bytes slots
// pass through verbatim.
func (d DeclaredValueSpec) ToTealValue(ts TypeSpec, raw []byte) (basics.TealValue, error) {
	tt, err := d.Type.AVMType(ts)
	if err != nil {
		return basics.TealValue{}, err
	}
	if tt == basics.TealUintType {
		if len(raw) != 8 {
			return basics.TealValue{}, fmt.Errorf("uint storage value must be 8 bytes, got %d", len(raw))
		}
		return basics.TealValue{Type: basics.TealUintType, Uint: binary.BigEndian.Uint64(raw)}, nil
	}
	if len(raw) > config.Consensus.MaxAppBytesValueLen {
		return basics.TealValue{}, fmt.Errorf("bytes storage value is %d bytes, limit is %d", len(raw), config.Consensus.MaxAppBytesValueLen)
	}
	return basics.TealValue{Type: basics.TealBytesType, Bytes: string(raw)}, nil
}

// ReservedValueSpec describes a family of schema values whose keys are
// computed at runtime. MaxKeys bounds how many such keys may exist at once.
type ReservedValueSpec struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type    StorageType `codec:"type"`
	Descr   string      `codec:"desc"`
	MaxKeys int         `codec:"max_keys"`
}

// Schema is the key layout of one scope: declared entries keyed by a
// friendly name, reserved entries keyed by a synthetic identifier.
type Schema struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Declared map[string]DeclaredValueSpec `codec:"declared"`
	Reserved map[string]ReservedValueSpec `codec:"reserved"`
}

// SchemaSpec carries the two independently scoped schemas.
type SchemaSpec struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Local  Schema `codec:"local"`
	Global Schema `codec:"global"`
}

// AllocatedSchema is the document form of the key counts an application
// requests at creation.
type AllocatedSchema struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	NumUints      uint64 `codec:"num_uints"`
	NumByteSlices uint64 `codec:"num_byte_slices"`
}

// StateSchema converts the allocation into the basics form.
func (as AllocatedSchema) StateSchema() basics.StateSchema {
	return basics.StateSchema{NumUint: as.NumUints, NumByteSlice: as.NumByteSlices}
}

// StateAllocation carries the allocated key counts for both scopes.
type StateAllocation struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Global AllocatedSchema `codec:"global"`
	Local  AllocatedSchema `codec:"local"`
}

// HasEntry reports whether a scope of the schema covers the given key,
// matching declared entries by name or storage key and reserved entries by
// identifier.
func (s *SchemaSpec) HasEntry(scope string, key string) bool {
	sch := s.Global
	if scope == LocalScope {
		sch = s.Local
	}
	for name, decl := range sch.Declared {
		if name == key || decl.StorageKey(name) == key {
			return true
		}
	}
	_, ok := sch.Reserved[key]
	return ok
}

// Validate checks both scopes against the platform limits: well formed
// unique keys, non-negative reservation bounds, and worst-case key totals
// within the allocated schema when one is given, within the scope's
// consensus cap otherwise.
func (s *SchemaSpec) Validate(ts TypeSpec, alloc *StateAllocation) error {
	var localAlloc, globalAlloc *AllocatedSchema
	if alloc != nil {
		localAlloc = &alloc.Local
		globalAlloc = &alloc.Global
	}
	err := validateScope(LocalScope, s.Local, ts, localAlloc, config.Consensus.MaxSchemaEntries(false))
	if err != nil {
		return err
	}
	return validateScope(GlobalScope, s.Global, ts, globalAlloc, config.Consensus.MaxSchemaEntries(true))
}

func validateScope(scope string, sch Schema, ts TypeSpec, alloc *AllocatedSchema, maxEntries uint64) error {
	var used basics.StateSchema
	seenKeys := make(map[string]string, len(sch.Declared))

	for _, name := range sortedKeys(sch.Declared) {
		entry := sch.Declared[name]
		field := fmt.Sprintf("declared entry %s", strconv.Quote(name))
		if err := specStringInvalid(name); err != nil {
			return ValidationError{Scope: scope, Field: "declared entry", Err: err}
		}
		if err := specHelpStringInvalid(entry.Descr); err != nil {
			return ValidationError{Scope: scope, Field: field, Err: err}
		}
		key := entry.StorageKey(name)
		if len(key) > config.Consensus.MaxAppKeyLen {
			return ValidationError{Scope: scope, Field: field,
				Err: fmt.Errorf("key is %d bytes, limit is %d", len(key), config.Consensus.MaxAppKeyLen)}
		}
		if prev, ok := seenKeys[key]; ok {
			return ValidationError{Scope: scope, Field: field,
				Err: fmt.Errorf("key %s already declared by %s", strconv.Quote(key), strconv.Quote(prev))}
		}
		seenKeys[key] = name
		tt, err := entry.Type.AVMType(ts)
		if err != nil {
			return ValidationError{Scope: scope, Field: field, Err: err}
		}
		if tt == basics.TealUintType {
			used.NumUint++
		} else {
			used.NumByteSlice++
		}
	}

	for _, id := range sortedKeys(sch.Reserved) {
		entry := sch.Reserved[id]
		field := fmt.Sprintf("reserved entry %s", strconv.Quote(id))
		if err := specStringInvalid(id); err != nil {
			return ValidationError{Scope: scope, Field: "reserved entry", Err: err}
		}
		if err := specHelpStringInvalid(entry.Descr); err != nil {
			return ValidationError{Scope: scope, Field: field, Err: err}
		}
		if entry.MaxKeys < 0 {
			return ValidationError{Scope: scope, Field: field,
				Err: fmt.Errorf("max_keys %d is negative", entry.MaxKeys)}
		}
		tt, err := entry.Type.AVMType(ts)
		if err != nil {
			return ValidationError{Scope: scope, Field: field, Err: err}
		}
		extra := basics.StateSchema{}
		if tt == basics.TealUintType {
			extra.NumUint = uint64(entry.MaxKeys)
		} else {
			extra.NumByteSlice = uint64(entry.MaxKeys)
		}
		used = used.AddSchema(extra)
	}

	if alloc != nil {
		allocated := alloc.StateSchema()
		total, overflowed := basics.OAdd(allocated.NumUint, allocated.NumByteSlice)
		if overflowed || total > maxEntries {
			return ValidationError{Scope: scope, Field: "allocation",
				Err: fmt.Errorf("allocates %d entries, scope allows %d", total, maxEntries)}
		}
		if used.NumUint > allocated.NumUint {
			return ValidationError{Scope: scope, Field: "schema",
				Err: fmt.Errorf("worst case uses %d uint keys, allocation provides %d", used.NumUint, allocated.NumUint)}
		}
		if used.NumByteSlice > allocated.NumByteSlice {
			return ValidationError{Scope: scope, Field: "schema",
				Err: fmt.Errorf("worst case uses %d byte slice keys, allocation provides %d", used.NumByteSlice, allocated.NumByteSlice)}
		}
	} else if used.NumEntries() > maxEntries {
		return ValidationError{Scope: scope, Field: "schema",
			Err: fmt.Errorf("worst case uses %d keys, scope allows %d", used.NumEntries(), maxEntries)}
	}
	return nil
}
