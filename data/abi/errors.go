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

package abi

import "fmt"

// TypeMismatchError is returned when a value's ABI type does not match
// the type an operation requires, for example reading a uint out of a
// bool value or encoding a tuple value whose element count differs from
// its tuple type.
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("value type mismatch: expected %s, actual %s", e.Expected, e.Actual)
}

// EncodingOverflowError is returned when a numeric value, a length or a
// dynamic element offset does not fit the bit width its encoding allows.
type EncodingOverflowError struct {
	Value   string
	BitSize uint16
}

func (e EncodingOverflowError) Error() string {
	return fmt.Sprintf("value %s does not fit in %d bits", e.Value, e.BitSize)
}

// TruncatedDataError is returned by Decode when the input ends before a
// complete value of the target type could be read.
type TruncatedDataError struct {
	Expected int
	Actual   int
}

func (e TruncatedDataError) Error() string {
	return fmt.Sprintf("truncated encoding: expected byte length %d, actual %d", e.Expected, e.Actual)
}

// MalformedOffsetError is returned by Decode when a dynamic element
// offset points outside the input, or when consecutive dynamic segments
// overlap or leave gaps.
type MalformedOffsetError struct {
	Offset   int
	Boundary int
}

func (e MalformedOffsetError) Error() string {
	return fmt.Sprintf("malformed dynamic element offset %d against boundary %d", e.Offset, e.Boundary)
}
