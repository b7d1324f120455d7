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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KillerGasy/ARCs/data/abi"
)

// staticArraySuffix matches a type string ending in a fixed array length.
var staticArraySuffix = regexp.MustCompile(`^(.+)\[([1-9][\d]*)]$`)

// resolution is the state of one resolve pass. The stack holds the names
// currently being expanded, in order, so a repeated name is a cycle and the
// stack is its path. It is local to the pass; the TypeSpec is never mutated.
type resolution struct {
	ts    TypeSpec
	stack []string
}

func (r *resolution) resolveName(name string) (abi.Type, error) {
	for _, visiting := range r.stack {
		if visiting != name {
			continue
		}
		path := make([]string, 0, len(r.stack)+1)
		path = append(path, r.stack...)
		path = append(path, name)
		return abi.Type{}, CyclicTypeError{Path: path}
	}

	def, ok := r.ts[name]
	if !ok {
		referencer := ""
		if len(r.stack) > 0 {
			referencer = r.stack[len(r.stack)-1]
		}
		return abi.Type{}, UnresolvedTypeError{Name: name, Referencer: referencer}
	}

	r.stack = append(r.stack, name)
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
	}()

	if def.Alias != "" {
		return r.resolveString(def.Alias)
	}

	elems := make([]abi.Type, len(def.Fields))
	for i, field := range def.Fields {
		elemType, err := r.resolveString(field.Type)
		if err != nil {
			return abi.Type{}, fmt.Errorf("field %s: %w", strconv.Quote(field.FieldName), err)
		}
		elems[i] = elemType
	}
	return abi.MakeTupleType(elems)
}

func (r *resolution) resolveString(typeStr string) (abi.Type, error) {
	// types the ABI grammar parses directly take precedence over
	// user-defined names
	if parsed, err := abi.TypeFromString(typeStr); err == nil {
		return parsed, nil
	}

	switch {
	case strings.HasSuffix(typeStr, "[]"):
		elemType, err := r.resolveString(typeStr[:len(typeStr)-2])
		if err != nil {
			return abi.Type{}, err
		}
		return abi.MakeDynamicArrayType(elemType), nil
	case staticArraySuffix.MatchString(typeStr):
		groups := staticArraySuffix.FindStringSubmatch(typeStr)
		length, err := strconv.ParseUint(groups[2], 10, 16)
		if err != nil {
			return abi.Type{}, fmt.Errorf("array length in %s: %w", strconv.Quote(typeStr), err)
		}
		elemType, err := r.resolveString(groups[1])
		if err != nil {
			return abi.Type{}, err
		}
		return abi.MakeStaticArrayType(elemType, uint16(length)), nil
	case len(typeStr) >= 2 && typeStr[0] == '(' && typeStr[len(typeStr)-1] == ')':
		elemStrs, err := abi.ParseTupleContent(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return abi.Type{}, err
		}
		elems := make([]abi.Type, len(elemStrs))
		for i, elemStr := range elemStrs {
			elemType, err := r.resolveString(elemStr)
			if err != nil {
				return abi.Type{}, err
			}
			elems[i] = elemType
		}
		return abi.MakeTupleType(elems)
	default:
		return r.resolveName(typeStr)
	}
}

// Resolve expands the named user-defined type into its canonical ABI form.
// A struct definition becomes a tuple of its fields in declared order; an
// alias becomes whatever its target resolves to.
func (ts TypeSpec) Resolve(name string) (abi.Type, error) {
	r := resolution{ts: ts}
	return r.resolveName(name)
}

// ResolveString expands an ABI type string that may reference user-defined
// names anywhere a type can appear: as the whole string, an array element,
// or a tuple member.
func (ts TypeSpec) ResolveString(typeStr string) (abi.Type, error) {
	r := resolution{ts: ts}
	return r.resolveString(typeStr)
}

// ResolveAll resolves every name in the namespace, in sorted order so the
// first failure is deterministic, and returns the canonical form of each.
func (ts TypeSpec) ResolveAll() (map[string]abi.Type, error) {
	resolved := make(map[string]abi.Type, len(ts))
	for _, name := range sortedKeys(ts) {
		canonical, err := ts.Resolve(name)
		if err != nil {
			return nil, err
		}
		resolved[name] = canonical
	}
	return resolved, nil
}
