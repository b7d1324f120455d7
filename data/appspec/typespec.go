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

/*
   This file contains code to adjust the json serialization of the type
   namespace. A user-defined type serializes either as a bare ABI type
   string (an alias) or as an array of [fieldName, abiType] pairs (a
   struct), so TypeDef and StructElement carry their own marshalers
   instead of relying on the default struct shape the codec package
   would emit.
*/

package appspec

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/KillerGasy/ARCs/data/abi"
	"github.com/KillerGasy/ARCs/protocol"
)

// TypeSpec is the namespace of user-defined types, keyed by type name.
// Definitions may reference each other by name; resolution rejects cycles.
type TypeSpec map[string]TypeDef

// StructElement is one named field of a struct definition. Field order is
// semantically load-bearing: the fields form an ABI tuple in declared order.
type StructElement struct {
	FieldName string
	Type      string
}

// MarshalJSON renders the element as the [name, type] document pair.
func (se StructElement) MarshalJSON() ([]byte, error) {
	return protocol.EncodeJSON([]string{se.FieldName, se.Type}), nil
}

// UnmarshalJSON reads the [name, type] document pair.
func (se *StructElement) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := protocol.DecodeJSON(data, &pair); err != nil {
		return fmt.Errorf("struct element must be a [name, type] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("struct element must be a [name, type] pair, got %d elements", len(pair))
	}
	se.FieldName = pair[0]
	se.Type = pair[1]
	return nil
}

// TypeDef is one user-defined type: either an alias for a single ABI type
// string or a struct of ordered named fields. Exactly one variant is set.
type TypeDef struct {
	Fields []StructElement
	Alias  string
}

// MakeAliasDef returns the alias variant of a type definition.
func MakeAliasDef(target string) TypeDef {
	return TypeDef{Alias: target}
}

// MakeStructDef returns the struct variant of a type definition.
func MakeStructDef(fields ...StructElement) TypeDef {
	if fields == nil {
		fields = []StructElement{}
	}
	return TypeDef{Fields: fields}
}

// IsAlias reports whether the definition is the alias variant.
func (td TypeDef) IsAlias() bool {
	return td.Alias != ""
}

// MarshalJSON renders an alias as a bare string and a struct as an array
// of field pairs.
func (td TypeDef) MarshalJSON() ([]byte, error) {
	if td.Alias != "" {
		if td.Fields != nil {
			return nil, fmt.Errorf("type definition carries both an alias and fields")
		}
		return protocol.EncodeJSON(td.Alias), nil
	}
	fields := td.Fields
	if fields == nil {
		fields = []StructElement{}
	}
	return protocol.EncodeJSON(fields), nil
}

// UnmarshalJSON reads either document variant, distinguished by the leading
// token.
func (td *TypeDef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty type definition")
	}
	switch trimmed[0] {
	case '"':
		var alias string
		if err := protocol.DecodeJSON(trimmed, &alias); err != nil {
			return err
		}
		if alias == "" {
			return fmt.Errorf("alias type definition is empty")
		}
		td.Alias = alias
		td.Fields = nil
		return nil
	case '[':
		var fields []StructElement
		if err := protocol.DecodeJSON(trimmed, &fields); err != nil {
			return err
		}
		if fields == nil {
			fields = []StructElement{}
		}
		td.Fields = fields
		td.Alias = ""
		return nil
	default:
		return fmt.Errorf("type definition must be an alias string or a field array")
	}
}

// Validate checks the shape of every definition in the namespace: names must
// be well formed and must not shadow the ABI grammar, aliases must be
// non-empty, and struct fields must carry unique well formed names.
// Resolvability of the referenced types is a separate concern handled by
// ResolveAll.
func (ts TypeSpec) Validate() error {
	for _, name := range sortedKeys(ts) {
		if err := specStringInvalid(name); err != nil {
			return fmt.Errorf("type name: %w", err)
		}
		if _, err := abi.TypeFromString(name); err == nil {
			return fmt.Errorf("type name %s shadows an ABI type", strconv.Quote(name))
		}
		if err := ts[name].validate(); err != nil {
			return fmt.Errorf("type %s: %w", strconv.Quote(name), err)
		}
	}
	return nil
}

func (td TypeDef) validate() error {
	if td.Alias != "" {
		if td.Fields != nil {
			return fmt.Errorf("definition carries both an alias and fields")
		}
		return nil
	}
	if td.Fields == nil {
		return fmt.Errorf("definition has neither an alias nor fields")
	}
	seen := make(map[string]bool, len(td.Fields))
	for i, field := range td.Fields {
		if err := specStringInvalid(field.FieldName); err != nil {
			return fmt.Errorf("field %d name: %w", i, err)
		}
		if field.Type == "" {
			return fmt.Errorf("field %s has an empty type", strconv.Quote(field.FieldName))
		}
		if seen[field.FieldName] {
			return fmt.Errorf("duplicate field name %s", strconv.Quote(field.FieldName))
		}
		seen[field.FieldName] = true
	}
	return nil
}
