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
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KillerGasy/ARCs/test/partitiontest"
)

func TestEncodeValid(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	// encoding test for uint types, iterating through all uint bitSizes
	// randomly pick 100 valid uint values and check if encoded value matches with expected
	for intSize := 8; intSize <= 512; intSize += 8 {
		upperLimit := new(big.Int).Lsh(big.NewInt(1), uint(intSize))
		for i := 0; i < 100; i++ {
			randomInt, err := rand.Int(rand.Reader, upperLimit)
			a.NoError(err, "cryptographic random int init fail")

			randomIntByte := randomInt.Bytes()
			expected := make([]byte, intSize/8-len(randomIntByte))
			expected = append(expected, randomIntByte...)

			uintValue, err := MakeUint(randomInt, uint16(intSize))
			a.NoError(err, "makeUint Fail")
			uintBytesActual, err := uintValue.Encode()

			a.NoError(err, "encoding from uint type fail")
			a.Equal(expected, uintBytesActual, "encode uint not match with expected")
		}
	}

	// encoding test for ufixed, testing byte padding on a fixed numerator
	ufixedValue, err := MakeUfixed(big.NewInt(12345), 64, 3)
	a.NoError(err, "makeUfixed Fail")
	ufixedBytesActual, err := ufixedValue.Encode()
	a.NoError(err, "encoding from ufixed type fail")
	a.Equal([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x30, 0x39}, ufixedBytesActual)

	// encoding test for address, the encoding is just the 32 byte array itself
	upperLimit := new(big.Int).Lsh(big.NewInt(1), 256)
	for i := 0; i < 100; i++ {
		randomAddrInt, err := rand.Int(rand.Reader, upperLimit)
		a.NoError(err, "cryptographic random int init fail")

		rand256Bytes := randomAddrInt.Bytes()
		addrBytesExpected := make([]byte, addressByteSize-len(rand256Bytes))
		addrBytesExpected = append(addrBytesExpected, rand256Bytes...)

		var addrBytes [addressByteSize]byte
		copy(addrBytes[:], addrBytesExpected)

		addrBytesActual, err := MakeAddress(addrBytes).Encode()
		a.NoError(err, "address encode fail")
		a.Equal(addrBytesExpected, addrBytesActual, "encode addr not match with expected")
	}

	// encoding test for bool values
	boolTrueEncode, err := MakeBool(true).Encode()
	a.NoError(err, "bool encode fail")
	a.Equal([]byte{0x80}, boolTrueEncode)
	boolFalseEncode, err := MakeBool(false).Encode()
	a.NoError(err, "bool encode fail")
	a.Equal([]byte{0x00}, boolFalseEncode)

	// encoding test for single byte
	byteEncode, err := MakeByte(0x41).Encode()
	a.NoError(err, "byte encode fail")
	a.Equal([]byte{0x41}, byteEncode)

	// encoding test for string, 2 byte length prefix then the raw bytes
	stringEncode, err := MakeString("What's up dog").Encode()
	a.NoError(err, "string encode fail")
	a.Equal(append([]byte{0x00, 0x0d}, []byte("What's up dog")...), stringEncode)

	// encoding test for a static tuple of a uint64 and a byte[32]:
	// the encoding is the 8 byte big endian integer immediately
	// followed by the 32 bytes, 40 bytes in total
	hashElems := make([]Value, 32)
	for i := 0; i < 32; i++ {
		hashElems[i] = MakeByte(0xaa)
	}
	hashValue, err := MakeStaticArray(hashElems)
	a.NoError(err, "make byte[32] fail")
	recordValue, err := MakeTuple([]Value{MakeUint64(1), hashValue})
	a.NoError(err, "make tuple fail")
	recordEncode, err := recordValue.Encode()
	a.NoError(err, "tuple encode fail")
	a.Equal(40, len(recordEncode))
	a.Equal([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, recordEncode[:8])
	a.Equal(bytes.Repeat([]byte{0xaa}, 32), recordEncode[8:])

	// encoding test for bool compression in tuples: consecutive bools
	// pack into a single byte from the most significant bit
	packedTuple, err := MakeTuple([]Value{MakeBool(true), MakeBool(true), MakeUint8(5)})
	a.NoError(err, "make tuple fail")
	packedEncode, err := packedTuple.Encode()
	a.NoError(err, "tuple encode fail")
	a.Equal([]byte{0xc0, 0x05}, packedEncode)

	// encoding test for bool static array compression over a byte boundary
	boolArrayElems := make([]Value, 9)
	for i := 0; i < 9; i++ {
		boolArrayElems[i] = MakeBool(true)
	}
	boolArrayValue, err := MakeStaticArray(boolArrayElems)
	a.NoError(err, "make bool[9] fail")
	boolArrayEncode, err := boolArrayValue.Encode()
	a.NoError(err, "bool array encode fail")
	a.Equal([]byte{0xff, 0x80}, boolArrayEncode)

	// encoding test for dynamic array with 2 byte length prefix
	dynamicArrayValue, err := MakeDynamicArray(
		[]Value{MakeUint64(1), MakeUint64(2)},
		MakeUint64(0).ABIType,
	)
	a.NoError(err, "make dynamic array fail")
	dynamicArrayEncode, err := dynamicArrayValue.Encode()
	a.NoError(err, "dynamic array encode fail")
	a.Equal([]byte{
		0x00, 0x02,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02,
	}, dynamicArrayEncode)

	// encoding test for a tuple of 2 strings: 2 offsets into the tail
	// section, then the length prefixed strings themselves
	stringTuple, err := MakeTuple([]Value{MakeString("AB"), MakeString("CD")})
	a.NoError(err, "make tuple fail")
	stringTupleEncode, err := stringTuple.Encode()
	a.NoError(err, "tuple encode fail")
	a.Equal([]byte{
		0x00, 0x04, 0x00, 0x08,
		0x00, 0x02, 0x41, 0x42,
		0x00, 0x02, 0x43, 0x44,
	}, stringTupleEncode)

	// encoding test for a mixed static/dynamic tuple
	mixedTuple, err := MakeTuple([]Value{MakeUint16(513), MakeString("AB")})
	a.NoError(err, "make tuple fail")
	mixedTupleEncode, err := mixedTuple.Encode()
	a.NoError(err, "tuple encode fail")
	a.Equal([]byte{0x02, 0x01, 0x00, 0x04, 0x00, 0x02, 0x41, 0x42}, mixedTupleEncode)

	// encoding test for an empty dynamic array
	emptyDynamicArray, err := MakeDynamicArray([]Value{}, MakeStringType())
	a.NoError(err, "make empty dynamic array fail")
	emptyDynamicArrayEncode, err := emptyDynamicArray.Encode()
	a.NoError(err, "empty dynamic array encode fail")
	a.Equal([]byte{0x00, 0x00}, emptyDynamicArrayEncode)
}

func TestDecodeValid(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	// decoding test for uint64
	uint64Type, err := MakeUintType(64)
	a.NoError(err, "make uint64 type fail")
	uint64Decoded, err := Decode([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00}, uint64Type)
	a.NoError(err, "uint64 decode fail")
	uint64Native, err := uint64Decoded.GetUint64()
	a.NoError(err, "uint64 getter fail")
	a.Equal(uint64(256), uint64Native)

	// decoding test for bool strictness: only 0x00 and 0x80 are valid
	boolDecoded, err := Decode([]byte{0x80}, MakeBoolType())
	a.NoError(err, "bool decode fail")
	boolNative, err := boolDecoded.GetBool()
	a.NoError(err, "bool getter fail")
	a.True(boolNative)
	_, err = Decode([]byte{0x01}, MakeBoolType())
	a.Error(err, "0x01 is not a valid bool encoding")

	// decoding test for string
	stringDecoded, err := Decode(append([]byte{0x00, 0x0d}, []byte("What's up dog")...), MakeStringType())
	a.NoError(err, "string decode fail")
	stringNative, err := stringDecoded.GetString()
	a.NoError(err, "string getter fail")
	a.Equal("What's up dog", stringNative)

	// decoding test for a mixed static/dynamic tuple
	uint16Type, err := MakeUintType(16)
	a.NoError(err, "make uint16 type fail")
	mixedTupleType, err := MakeTupleType([]Type{uint16Type, MakeStringType()})
	a.NoError(err, "make tuple type fail")
	mixedTupleDecoded, err := Decode(
		[]byte{0x02, 0x01, 0x00, 0x04, 0x00, 0x02, 0x41, 0x42},
		mixedTupleType,
	)
	a.NoError(err, "tuple decode fail")
	elem0, err := mixedTupleDecoded.GetValueByIndex(0)
	a.NoError(err, "tuple index fail")
	uint16Native, err := elem0.GetUint16()
	a.NoError(err, "uint16 getter fail")
	a.Equal(uint16(513), uint16Native)
	elem1, err := mixedTupleDecoded.GetValueByIndex(1)
	a.NoError(err, "tuple index fail")
	elem1Native, err := elem1.GetString()
	a.NoError(err, "string getter fail")
	a.Equal("AB", elem1Native)

	// decoding test for packed bools in a static array
	boolArrayType := MakeStaticArrayType(MakeBoolType(), 9)
	boolArrayDecoded, err := Decode([]byte{0xff, 0x80}, boolArrayType)
	a.NoError(err, "bool array decode fail")
	for i := uint16(0); i < 9; i++ {
		boolElem, err := boolArrayDecoded.GetValueByIndex(i)
		a.NoError(err, "bool array index fail")
		boolElemNative, err := boolElem.GetBool()
		a.NoError(err, "bool getter fail")
		a.True(boolElemNative)
	}
}

func TestDecodeInvalid(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	// uint64 encoding cut short
	uint64Type, err := MakeUintType(64)
	a.NoError(err, "make uint64 type fail")
	_, err = Decode([]byte{0x01, 0x02, 0x03}, uint64Type)
	var truncErr TruncatedDataError
	a.ErrorAs(err, &truncErr)
	a.Equal(8, truncErr.Expected)
	a.Equal(3, truncErr.Actual)

	// bool with no data at all
	_, err = Decode(nil, MakeBoolType())
	a.ErrorAs(err, &truncErr)
	a.Equal(1, truncErr.Expected)
	a.Equal(0, truncErr.Actual)

	// string whose length prefix promises more data than present
	_, err = Decode([]byte{0x00, 0x05, 0x41}, MakeStringType())
	a.ErrorAs(err, &truncErr)
	a.Equal(7, truncErr.Expected)
	a.Equal(3, truncErr.Actual)

	// dynamic array with a partial length prefix
	_, err = Decode([]byte{0x00}, MakeDynamicArrayType(MakeByteType()))
	a.ErrorAs(err, &truncErr)
	a.Equal(2, truncErr.Expected)
	a.Equal(1, truncErr.Actual)

	// tuple cut short after the first element
	uint8Type, err := MakeUintType(8)
	a.NoError(err, "make uint8 type fail")
	shortTupleType, err := MakeTupleType([]Type{uint8Type, uint8Type})
	a.NoError(err, "make tuple type fail")
	_, err = Decode([]byte{0x01}, shortTupleType)
	a.ErrorAs(err, &truncErr)

	// tuple with trailing bytes the type does not account for
	singleTupleType, err := MakeTupleType([]Type{uint8Type})
	a.NoError(err, "make tuple type fail")
	_, err = Decode([]byte{0x05, 0xff}, singleTupleType)
	a.Error(err, "trailing bytes must not decode")

	// dynamic element offset pointing beyond the end of the input
	singleStringTupleType, err := MakeTupleType([]Type{MakeStringType()})
	a.NoError(err, "make tuple type fail")
	_, err = Decode([]byte{0x00, 0x10, 0x00, 0x02, 0x41, 0x42}, singleStringTupleType)
	var offsetErr MalformedOffsetError
	a.ErrorAs(err, &offsetErr)
	a.Equal(16, offsetErr.Offset)
	a.Equal(6, offsetErr.Boundary)

	// first offset overlapping into the second dynamic segment
	twoStringTupleType, err := MakeTupleType([]Type{MakeStringType(), MakeStringType()})
	a.NoError(err, "make tuple type fail")
	_, err = Decode([]byte{
		0x00, 0x0d, 0x00, 0x08,
		0x00, 0x02, 0x41, 0x42,
		0x00, 0x02, 0x43, 0x44,
	}, twoStringTupleType)
	a.ErrorAs(err, &offsetErr)
	a.Equal(13, offsetErr.Offset)
	a.Equal(8, offsetErr.Boundary)
}

func TestValueGetters(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	// reading a uint out of a string value reports both type names
	_, err := MakeString("algo").GetUint()
	var mismatchErr TypeMismatchError
	a.ErrorAs(err, &mismatchErr)
	a.Equal("uint", mismatchErr.Expected)
	a.Equal("string", mismatchErr.Actual)

	// a uint16 value does not narrow into a uint8 getter
	_, err = MakeUint16(256).GetUint8()
	a.ErrorAs(err, &mismatchErr)
	a.Equal("uint8", mismatchErr.Expected)
	a.Equal("uint16", mismatchErr.Actual)

	// a uint8 value widens into the uint64 getter
	widened, err := MakeUint8(255).GetUint64()
	a.NoError(err, "widening getter fail")
	a.Equal(uint64(255), widened)

	_, err = MakeBool(true).GetAddress()
	a.ErrorAs(err, &mismatchErr)
	a.Equal("address", mismatchErr.Expected)
	a.Equal("bool", mismatchErr.Actual)
}

func TestUintOverflow(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := require.New(t)

	// 2^64 does not fit in uint64
	tooBig := new(big.Int).Lsh(big.NewInt(1), 64)
	_, err := MakeUint(tooBig, 64)
	var overflowErr EncodingOverflowError
	a.ErrorAs(err, &overflowErr)
	a.Equal(uint16(64), overflowErr.BitSize)
	a.Equal(tooBig.String(), overflowErr.Value)

	// 2^64 - 1 does fit
	largest := new(big.Int).Sub(tooBig, big.NewInt(1))
	largestValue, err := MakeUint(largest, 64)
	a.NoError(err, "make largest uint64 fail")
	largestEncode, err := largestValue.Encode()
	a.NoError(err, "largest uint64 encode fail")
	a.Equal(bytes.Repeat([]byte{0xff}, 8), largestEncode)
}

// drawType generates a random ABI type with composite types nested up to
// the given depth.
func drawType(t *rapid.T, depth int) Type {
	const (
		optUint = iota
		optByte
		optUfixed
		optBool
		optAddress
		optString
		optArrayStatic
		optArrayDynamic
		optTuple
	)
	maxOpt := optString
	if depth > 0 {
		maxOpt = optTuple
	}
	switch rapid.IntRange(0, maxOpt).Draw(t, "typeOption") {
	case optUint:
		bitSize := uint16(rapid.IntRange(1, 64).Draw(t, "uintBitSize")) * 8
		uintType, err := MakeUintType(bitSize)
		if err != nil {
			t.Fatalf("make uint type: %v", err)
		}
		return uintType
	case optByte:
		return MakeByteType()
	case optUfixed:
		bitSize := uint16(rapid.IntRange(1, 64).Draw(t, "ufixedBitSize")) * 8
		precision := uint16(rapid.IntRange(1, 160).Draw(t, "ufixedPrecision"))
		ufixedType, err := MakeUfixedType(bitSize, precision)
		if err != nil {
			t.Fatalf("make ufixed type: %v", err)
		}
		return ufixedType
	case optBool:
		return MakeBoolType()
	case optAddress:
		return MakeAddressType()
	case optString:
		return MakeStringType()
	case optArrayStatic:
		length := uint16(rapid.IntRange(1, 8).Draw(t, "staticArrayLen"))
		return MakeStaticArrayType(drawType(t, depth-1), length)
	case optArrayDynamic:
		return MakeDynamicArrayType(drawType(t, depth-1))
	default:
		numElems := rapid.IntRange(0, 4).Draw(t, "tupleLen")
		elemTypes := make([]Type, numElems)
		for i := 0; i < numElems; i++ {
			elemTypes[i] = drawType(t, depth-1)
		}
		tupleType, err := MakeTupleType(elemTypes)
		if err != nil {
			t.Fatalf("make tuple type: %v", err)
		}
		return tupleType
	}
}

// drawValue generates a random ABI value of the given type.
func drawValue(t *rapid.T, valueType Type) Value {
	switch valueType.abiTypeID {
	case Uint:
		valueBytes := rapid.SliceOfN(rapid.Byte(), 0, int(valueType.bitSize/8)).Draw(t, "uintBytes")
		uintValue, err := MakeUint(new(big.Int).SetBytes(valueBytes), valueType.bitSize)
		if err != nil {
			t.Fatalf("make uint value: %v", err)
		}
		return uintValue
	case Byte:
		return MakeByte(rapid.Byte().Draw(t, "byteValue"))
	case Ufixed:
		valueBytes := rapid.SliceOfN(rapid.Byte(), 0, int(valueType.bitSize/8)).Draw(t, "ufixedBytes")
		ufixedValue, err := MakeUfixed(new(big.Int).SetBytes(valueBytes), valueType.bitSize, valueType.precision)
		if err != nil {
			t.Fatalf("make ufixed value: %v", err)
		}
		return ufixedValue
	case Bool:
		return MakeBool(rapid.Bool().Draw(t, "boolValue"))
	case Address:
		addrBytes := rapid.SliceOfN(rapid.Byte(), addressByteSize, addressByteSize).Draw(t, "addrBytes")
		var addr [addressByteSize]byte
		copy(addr[:], addrBytes)
		return MakeAddress(addr)
	case String:
		strBytes := rapid.SliceOfN(rapid.Byte(), 0, 16).Draw(t, "stringBytes")
		return MakeString(string(strBytes))
	case ArrayStatic:
		elems := make([]Value, valueType.staticLength)
		for i := 0; i < int(valueType.staticLength); i++ {
			elems[i] = drawValue(t, valueType.childTypes[0])
		}
		arrayValue, err := MakeStaticArray(elems)
		if err != nil {
			t.Fatalf("make static array value: %v", err)
		}
		return arrayValue
	case ArrayDynamic:
		length := rapid.IntRange(0, 4).Draw(t, "dynamicArrayLen")
		elems := make([]Value, length)
		for i := 0; i < length; i++ {
			elems[i] = drawValue(t, valueType.childTypes[0])
		}
		arrayValue, err := MakeDynamicArray(elems, valueType.childTypes[0])
		if err != nil {
			t.Fatalf("make dynamic array value: %v", err)
		}
		return arrayValue
	default:
		elems := make([]Value, len(valueType.childTypes))
		for i := 0; i < len(valueType.childTypes); i++ {
			elems[i] = drawValue(t, valueType.childTypes[i])
		}
		tupleValue, err := MakeTuple(elems)
		if err != nil {
			t.Fatalf("make tuple value: %v", err)
		}
		return tupleValue
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t *rapid.T) {
		valueType := drawType(t, 2)
		value := drawValue(t, valueType)

		encoded, err := value.Encode()
		if err != nil {
			t.Fatalf("encode %s value: %v", valueType.String(), err)
		}
		decoded, err := Decode(encoded, valueType)
		if err != nil {
			t.Fatalf("decode %s value: %v", valueType.String(), err)
		}
		if !decoded.ABIType.Equal(valueType) {
			t.Fatalf("decoded type %s unmatch with original type %s",
				decoded.ABIType.String(), valueType.String())
		}
		reEncoded, err := decoded.Encode()
		if err != nil {
			t.Fatalf("re-encode %s value: %v", valueType.String(), err)
		}
		if !bytes.Equal(encoded, reEncoded) {
			t.Fatalf("re-encoded bytes differ for type %s", valueType.String())
		}
	})
}
