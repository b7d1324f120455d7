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

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strconv"
)

// arrayToTuple casts an array-like ABI Value into an ABI Value of Tuple type.
// This is used in both ABI Encoding and Decoding.
func (v Value) arrayToTuple() (Value, error) {
	var childT []Type
	var valueArr []Value

	switch v.ABIType.abiTypeID {
	case String:
		strValue, err := v.GetString()
		if err != nil {
			return Value{}, err
		}
		strByte := []byte(strValue)

		childT = make([]Type, len(strByte))
		valueArr = make([]Value, len(strByte))

		for i := 0; i < len(strByte); i++ {
			childT[i] = MakeByteType()
			valueArr[i] = MakeByte(strByte[i])
		}
	case Address:
		addr, err := v.GetAddress()
		if err != nil {
			return Value{}, err
		}

		childT = make([]Type, addressByteSize)
		valueArr = make([]Value, addressByteSize)

		for i := 0; i < addressByteSize; i++ {
			childT[i] = MakeByteType()
			valueArr[i] = MakeByte(addr[i])
		}
	case ArrayStatic:
		childT = make([]Type, v.ABIType.staticLength)
		for i := 0; i < int(v.ABIType.staticLength); i++ {
			childT[i] = v.ABIType.childTypes[0]
		}
		valueArr = v.value.([]Value)
	case ArrayDynamic:
		arrayElems := v.value.([]Value)
		childT = make([]Type, len(arrayElems))
		for i := 0; i < len(arrayElems); i++ {
			childT[i] = v.ABIType.childTypes[0]
		}
		valueArr = arrayElems
	default:
		return Value{}, fmt.Errorf("value type not supported to conversion to tuple")
	}

	castedTupleType, err := MakeTupleType(childT)
	if err != nil {
		return Value{}, err
	}

	return Value{
		ABIType: castedTupleType,
		value:   valueArr,
	}, nil
}

// Encode method serialize the ABI value into a byte string of ABI encoding rule.
func (v Value) Encode() ([]byte, error) {
	switch v.ABIType.abiTypeID {
	case Uint:
		bigIntValue, err := v.GetUint()
		if err != nil {
			return nil, err
		}
		// the getter above confirms the value fits in bitSize bits
		buffer := make([]byte, v.ABIType.bitSize/8)
		bigIntValue.FillBytes(buffer)
		return buffer, nil
	case Ufixed:
		ufixedValue, err := v.GetUfixed()
		if err != nil {
			return nil, err
		}
		buffer := make([]byte, v.ABIType.bitSize/8)
		ufixedValue.FillBytes(buffer)
		return buffer, nil
	case Bool:
		boolValue, err := v.GetBool()
		if err != nil {
			return nil, err
		}
		if boolValue {
			return []byte{0x80}, nil
		}
		return []byte{0x00}, nil
	case Byte:
		byteValue, err := v.GetByte()
		if err != nil {
			return nil, err
		}
		return []byte{byteValue}, nil
	case ArrayStatic, Address:
		convertedTuple, err := v.arrayToTuple()
		if err != nil {
			return nil, err
		}
		return tupleEncoding(convertedTuple)
	case ArrayDynamic, String:
		convertedTuple, err := v.arrayToTuple()
		if err != nil {
			return nil, err
		}
		length := len(convertedTuple.ABIType.childTypes)
		lengthEncode := make([]byte, lengthEncodeByteSize)
		binary.BigEndian.PutUint16(lengthEncode, uint16(length))

		encoded, err := tupleEncoding(convertedTuple)
		if err != nil {
			return nil, err
		}
		return append(lengthEncode, encoded...), nil
	case Tuple:
		return tupleEncoding(v)
	default:
		return nil, fmt.Errorf("encoding: unknown type error")
	}
}

// compressMultipleBool compress consecutive bool values into a byte in ABI tuple/array value.
func compressMultipleBool(valueList []Value) (uint8, error) {
	var res uint8 = 0
	if len(valueList) > 8 {
		return 0, fmt.Errorf("value list passed in should be no greater than length 8")
	}
	for i := 0; i < len(valueList); i++ {
		if valueList[i].ABIType.abiTypeID != Bool {
			return 0, TypeMismatchError{Expected: "bool", Actual: valueList[i].ABIType.String()}
		}
		boolVal, err := valueList[i].GetBool()
		if err != nil {
			return 0, err
		}
		if boolVal {
			res |= 1 << uint(7-i)
		}
	}
	return res, nil
}

// tupleEncoding encodes an ABI value of tuple type into an ABI encoded byte string.
func tupleEncoding(v Value) ([]byte, error) {
	if v.ABIType.abiTypeID != Tuple {
		return nil, TypeMismatchError{Expected: "tuple", Actual: v.ABIType.String()}
	}
	tupleElems := v.value.([]Value)
	if len(tupleElems) != len(v.ABIType.childTypes) {
		return nil, TypeMismatchError{
			Expected: v.ABIType.String(),
			Actual:   "tuple value with " + strconv.Itoa(len(tupleElems)) + " elements",
		}
	}

	heads := make([][]byte, len(v.ABIType.childTypes))
	tails := make([][]byte, len(v.ABIType.childTypes))
	isDynamicIndex := make(map[int]bool)

	for i := 0; i < len(v.ABIType.childTypes); i++ {
		if tupleElems[i].ABIType.IsDynamic() {
			headsPlaceholder := []byte{0x00, 0x00}
			heads[i] = headsPlaceholder
			isDynamicIndex[i] = true
			tailEncoding, err := tupleElems[i].Encode()
			if err != nil {
				return nil, err
			}
			tails[i] = tailEncoding
		} else {
			if tupleElems[i].ABIType.abiTypeID == Bool {
				// search previous bool
				before := findBoolLR(v.ABIType.childTypes, i, -1)
				// search after bool
				after := findBoolLR(v.ABIType.childTypes, i, 1)
				// append to heads and tails
				if before%8 != 0 {
					return nil, fmt.Errorf("expected before has number of bool mod 8 = 0")
				}
				if after > 7 {
					after = 7
				}
				compressed, err := compressMultipleBool(tupleElems[i : i+after+1])
				if err != nil {
					return nil, err
				}
				heads[i] = []byte{compressed}
				i += after
			} else {
				encodeTi, err := tupleElems[i].Encode()
				if err != nil {
					return nil, err
				}
				heads[i] = encodeTi
			}
			isDynamicIndex[i] = false
		}
	}

	// adjust heads for dynamic type
	headLength := 0
	for _, headTi := range heads {
		headLength += len(headTi)
	}

	// the offsets pointing into the tail section are 2 bytes each,
	// so the full encoding cannot place a tail beyond 2^16 - 1
	tailCurrLength := 0
	for i := 0; i < len(heads); i++ {
		if isDynamicIndex[i] {
			headValue := headLength + tailCurrLength
			if headValue >= (1 << 16) {
				return nil, EncodingOverflowError{Value: strconv.Itoa(headValue), BitSize: 16}
			}
			binary.BigEndian.PutUint16(heads[i], uint16(headValue))
		}
		tailCurrLength += len(tails[i])
	}

	head, tail := make([]byte, 0), make([]byte, 0)
	for i := 0; i < len(v.ABIType.childTypes); i++ {
		head = append(head, heads[i]...)
		tail = append(tail, tails[i]...)
	}
	return append(head, tail...), nil
}

// Decode takes an ABI encoded byte string and a target ABI type,
// and decodes the bytes into an ABI Value.
func Decode(valueByte []byte, valueType Type) (Value, error) {
	switch valueType.abiTypeID {
	case Uint:
		intByteLen := int(valueType.bitSize / 8)
		if len(valueByte) != intByteLen {
			if len(valueByte) < intByteLen {
				return Value{}, TruncatedDataError{Expected: intByteLen, Actual: len(valueByte)}
			}
			return Value{}, fmt.Errorf("uint%d decode: expected byte length %d, but got byte length %d",
				valueType.bitSize, intByteLen, len(valueByte))
		}
		uintValue := new(big.Int).SetBytes(valueByte)
		return MakeUint(uintValue, valueType.bitSize)
	case Ufixed:
		ufixedByteLen := int(valueType.bitSize / 8)
		if len(valueByte) != ufixedByteLen {
			if len(valueByte) < ufixedByteLen {
				return Value{}, TruncatedDataError{Expected: ufixedByteLen, Actual: len(valueByte)}
			}
			return Value{}, fmt.Errorf("ufixed%dx%d decode: expected byte length %d, but got byte length %d",
				valueType.bitSize, valueType.precision, ufixedByteLen, len(valueByte))
		}
		ufixedNumerator := new(big.Int).SetBytes(valueByte)
		return MakeUfixed(ufixedNumerator, valueType.bitSize, valueType.precision)
	case Bool:
		if len(valueByte) != singleBoolSize {
			if len(valueByte) < singleBoolSize {
				return Value{}, TruncatedDataError{Expected: singleBoolSize, Actual: len(valueByte)}
			}
			return Value{}, fmt.Errorf("bool decode: expected byte length 1, but got byte length %d", len(valueByte))
		}
		switch valueByte[0] {
		case 0x00:
			return MakeBool(false), nil
		case 0x80:
			return MakeBool(true), nil
		default:
			return Value{}, fmt.Errorf("bool decode: 0x%x is not a valid bool encoding", valueByte[0])
		}
	case Byte:
		if len(valueByte) != singleByteSize {
			if len(valueByte) < singleByteSize {
				return Value{}, TruncatedDataError{Expected: singleByteSize, Actual: len(valueByte)}
			}
			return Value{}, fmt.Errorf("byte decode: expected byte length 1, but got byte length %d", len(valueByte))
		}
		return MakeByte(valueByte[0]), nil
	case ArrayStatic:
		childT := make([]Type, valueType.staticLength)
		for i := 0; i < int(valueType.staticLength); i++ {
			childT[i] = valueType.childTypes[0]
		}
		converted, err := MakeTupleType(childT)
		if err != nil {
			return Value{}, err
		}
		tupleDecoded, err := tupleDecoding(valueByte, converted)
		if err != nil {
			return Value{}, err
		}
		tupleDecoded.ABIType = valueType
		return tupleDecoded, nil
	case Address:
		if len(valueByte) != addressByteSize {
			if len(valueByte) < addressByteSize {
				return Value{}, TruncatedDataError{Expected: addressByteSize, Actual: len(valueByte)}
			}
			return Value{}, fmt.Errorf("address decode: expected byte length 32, but got byte length %d", len(valueByte))
		}
		var byteAssign [addressByteSize]byte
		copy(byteAssign[:], valueByte)
		return MakeAddress(byteAssign), nil
	case ArrayDynamic:
		if len(valueByte) < lengthEncodeByteSize {
			return Value{}, TruncatedDataError{Expected: lengthEncodeByteSize, Actual: len(valueByte)}
		}
		dynamicLen := binary.BigEndian.Uint16(valueByte[:lengthEncodeByteSize])
		childT := make([]Type, dynamicLen)
		for i := 0; i < int(dynamicLen); i++ {
			childT[i] = valueType.childTypes[0]
		}
		converted, err := MakeTupleType(childT)
		if err != nil {
			return Value{}, err
		}
		tupleDecoded, err := tupleDecoding(valueByte[lengthEncodeByteSize:], converted)
		if err != nil {
			return Value{}, err
		}
		tupleDecoded.ABIType = valueType
		return tupleDecoded, nil
	case String:
		if len(valueByte) < lengthEncodeByteSize {
			return Value{}, TruncatedDataError{Expected: lengthEncodeByteSize, Actual: len(valueByte)}
		}
		byteLen := int(binary.BigEndian.Uint16(valueByte[:lengthEncodeByteSize]))
		if len(valueByte[lengthEncodeByteSize:]) != byteLen {
			if len(valueByte[lengthEncodeByteSize:]) < byteLen {
				return Value{}, TruncatedDataError{
					Expected: lengthEncodeByteSize + byteLen,
					Actual:   len(valueByte),
				}
			}
			return Value{}, fmt.Errorf("string decode: length prefix %d unmatch with data length %d",
				byteLen, len(valueByte[lengthEncodeByteSize:]))
		}
		return MakeString(string(valueByte[lengthEncodeByteSize:])), nil
	case Tuple:
		return tupleDecoding(valueByte, valueType)
	default:
		return Value{}, fmt.Errorf("decode: unknown type error")
	}
}

// tupleDecoding takes a byte string and an ABI tuple type,
// and decodes the bytes into an ABI tuple value.
func tupleDecoding(valueBytes []byte, valueType Type) (Value, error) {
	dynamicSegments := make([]segment, 0)
	valuePartition := make([][]byte, 0)
	iterIndex := 0

	for i := 0; i < len(valueType.childTypes); i++ {
		if valueType.childTypes[i].IsDynamic() {
			if len(valueBytes[iterIndex:]) < lengthEncodeByteSize {
				return Value{}, TruncatedDataError{
					Expected: iterIndex + lengthEncodeByteSize,
					Actual:   len(valueBytes),
				}
			}
			dynamicIndex := binary.BigEndian.Uint16(valueBytes[iterIndex : iterIndex+lengthEncodeByteSize])
			if len(dynamicSegments) > 0 {
				dynamicSegments[len(dynamicSegments)-1].right = int(dynamicIndex)
			}
			dynamicSegments = append(dynamicSegments, segment{
				left:  int(dynamicIndex),
				right: -1,
			})
			valuePartition = append(valuePartition, nil)
			iterIndex += lengthEncodeByteSize
		} else {
			// if bool ...
			if valueType.childTypes[i].abiTypeID == Bool {
				// search previous bool
				before := findBoolLR(valueType.childTypes, i, -1)
				// search after bool
				after := findBoolLR(valueType.childTypes, i, 1)
				if before%8 != 0 {
					return Value{}, fmt.Errorf("expected before bool number mod 8 == 0")
				}
				if after > 7 {
					after = 7
				}
				if iterIndex >= len(valueBytes) {
					return Value{}, TruncatedDataError{Expected: iterIndex + 1, Actual: len(valueBytes)}
				}
				// parse bool in a byte to multiple byte strings
				for boolIndex := uint(0); boolIndex <= uint(after); boolIndex++ {
					boolMask := 0x80 >> boolIndex
					if valueBytes[iterIndex]&byte(boolMask) > 0 {
						valuePartition = append(valuePartition, []byte{0x80})
					} else {
						valuePartition = append(valuePartition, []byte{0x00})
					}
				}
				i += after
				iterIndex++
			} else {
				// not bool ...
				currLen, err := valueType.childTypes[i].ByteLen()
				if err != nil {
					return Value{}, err
				}
				if iterIndex+currLen > len(valueBytes) {
					return Value{}, TruncatedDataError{Expected: iterIndex + currLen, Actual: len(valueBytes)}
				}
				valuePartition = append(valuePartition, valueBytes[iterIndex:iterIndex+currLen])
				iterIndex += currLen
			}
		}
		if i != len(valueType.childTypes)-1 && iterIndex >= len(valueBytes) {
			return Value{}, TruncatedDataError{Expected: iterIndex + 1, Actual: len(valueBytes)}
		}
	}
	if len(dynamicSegments) > 0 {
		dynamicSegments[len(dynamicSegments)-1].right = len(valueBytes)
		iterIndex = len(valueBytes)
	}
	if iterIndex < len(valueBytes) {
		return Value{}, fmt.Errorf("input byte not fully consumed")
	}

	// check segment indices are valid
	for index, seg := range dynamicSegments {
		if seg.left > seg.right {
			return Value{}, MalformedOffsetError{Offset: seg.left, Boundary: seg.right}
		}
		if index != len(dynamicSegments)-1 && seg.right != dynamicSegments[index+1].left {
			return Value{}, MalformedOffsetError{Offset: dynamicSegments[index+1].left, Boundary: seg.right}
		}
	}

	segIndex := 0
	for i := 0; i < len(valueType.childTypes); i++ {
		if valueType.childTypes[i].IsDynamic() {
			valuePartition[i] = valueBytes[dynamicSegments[segIndex].left:dynamicSegments[segIndex].right]
			segIndex++
		}
	}

	values := make([]Value, 0)
	for i := 0; i < len(valueType.childTypes); i++ {
		valueTi, err := Decode(valuePartition[i], valueType.childTypes[i])
		if err != nil {
			return Value{}, err
		}
		values = append(values, valueTi)
	}
	return Value{
		ABIType: valueType,
		value:   values,
	}, nil
}
