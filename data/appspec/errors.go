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
	"strconv"
	"strings"
)

// ParseError rejects a whole document, carrying the path of the field that
// could not be accepted.
type ParseError struct {
	Field string
	Err   error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying rejection.
func (e ParseError) Unwrap() error {
	return e.Err
}

// UnresolvedTypeError is returned when a type string references a name
// defined neither by the type namespace nor by the ABI grammar.
type UnresolvedTypeError struct {
	Name       string
	Referencer string
}

func (e UnresolvedTypeError) Error() string {
	if e.Referencer == "" {
		return fmt.Sprintf("cannot resolve type name %s", strconv.Quote(e.Name))
	}
	return fmt.Sprintf("cannot resolve type name %s referenced by %s", strconv.Quote(e.Name), strconv.Quote(e.Referencer))
}

// CyclicTypeError is returned when a user-defined type references itself,
// directly or through other definitions. Path lists the definitions in
// resolution order, ending with the repeated name.
type CyclicTypeError struct {
	Path []string
}

func (e CyclicTypeError) Error() string {
	return fmt.Sprintf("cyclic type reference: %s", strings.Join(e.Path, " -> "))
}

// ValidationError rejects a schema or contract cross-reference, carrying the
// scope and field where the violation sits.
type ValidationError struct {
	Scope string
	Field string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Scope, e.Field, e.Err)
}

// Unwrap returns the underlying violation.
func (e ValidationError) Unwrap() error {
	return e.Err
}
