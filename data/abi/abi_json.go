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
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/KillerGasy/ARCs/data/basics"
)

// MarshalToJSON converts an ABI Value to a JSON form following the ABI
// conventions: uint/ufixed as numbers, byte arrays as base64 strings,
// addresses as checksummed base32 strings, arrays and tuples as JSON arrays.
func (v Value) MarshalToJSON() ([]byte, error) {
	switch v.ABIType.abiTypeID {
	case Uint:
		bigIntValue, err := v.GetUint()
		if err != nil {
			return nil, err
		}
		return bigIntValue.MarshalJSON()
	case Ufixed:
		numerator, err := v.GetUfixed()
		if err != nil {
			return nil, err
		}
		denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(v.ABIType.precision)), nil)
		return []byte(new(big.Rat).SetFrac(numerator, denom).FloatString(int(v.ABIType.precision))), nil
	case Bool:
		boolValue, err := v.GetBool()
		if err != nil {
			return nil, err
		}
		return json.Marshal(boolValue)
	case Byte:
		byteValue, err := v.GetByte()
		if err != nil {
			return nil, err
		}
		return json.Marshal(byteValue)
	case Address:
		addressValue, err := v.GetAddress()
		if err != nil {
			return nil, err
		}
		return json.Marshal(basics.Address(addressValue).String())
	case ArrayStatic, ArrayDynamic, Tuple:
		elements := v.value.([]Value)
		if v.ABIType.abiTypeID != Tuple && v.ABIType.childTypes[0].abiTypeID == Byte {
			// byte arrays take the base64 string form
			byteArr := make([]byte, len(elements))
			for i := 0; i < len(elements); i++ {
				byteElem, err := elements[i].GetByte()
				if err != nil {
					return nil, err
				}
				byteArr[i] = byteElem
			}
			return json.Marshal(byteArr)
		}
		rawMsgSlice := make([]json.RawMessage, len(elements))
		for i := 0; i < len(elements); i++ {
			rawMsg, err := elements[i].MarshalToJSON()
			if err != nil {
				return nil, err
			}
			rawMsgSlice[i] = rawMsg
		}
		return json.Marshal(rawMsgSlice)
	case String:
		stringValue, err := v.GetString()
		if err != nil {
			return nil, err
		}
		return json.Marshal(stringValue)
	default:
		return nil, fmt.Errorf("cannot infer ABI type for marshalling value to JSON")
	}
}

// UnmarshalFromJSON converts a JSON encoded byte string back to an ABI Value,
// guided by the expected ABI type.
func UnmarshalFromJSON(jsonEncoded []byte, valueType Type) (Value, error) {
	switch valueType.abiTypeID {
	case Uint:
		num := new(big.Int)
		if err := num.UnmarshalJSON(jsonEncoded); err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to uint: %v", string(jsonEncoded), err)
		}
		return MakeUint(num, valueType.bitSize)
	case Ufixed:
		floatTemp := new(big.Rat)
		if err := floatTemp.UnmarshalText(jsonEncoded); err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to ufixed: %v", string(jsonEncoded), err)
		}
		denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(valueType.precision)), nil)
		denomRat := new(big.Rat).SetInt(denom)
		numeratorRat := new(big.Rat).Mul(denomRat, floatTemp)
		if !numeratorRat.IsInt() {
			return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to ufixed: precision out of range", string(jsonEncoded))
		}
		return MakeUfixed(numeratorRat.Num(), valueType.bitSize, valueType.precision)
	case Bool:
		var elem bool
		if err := json.Unmarshal(jsonEncoded, &elem); err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to bool: %v", string(jsonEncoded), err)
		}
		return MakeBool(elem), nil
	case Byte:
		var elem byte
		if err := json.Unmarshal(jsonEncoded, &elem); err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded to byte: %v", err)
		}
		return MakeByte(elem), nil
	case Address:
		var addrStr string
		if err := json.Unmarshal(jsonEncoded, &addrStr); err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded to address string: %v", err)
		}
		addr, err := basics.UnmarshalChecksumAddress(addrStr)
		if err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded address string (%s) to address: %v", addrStr, err)
		}
		return MakeAddress(addr), nil
	case ArrayStatic, ArrayDynamic:
		if valueType.childTypes[0].abiTypeID == Byte && bytes.HasPrefix(jsonEncoded, []byte{'"'}) {
			var byteArr []byte
			if err := json.Unmarshal(jsonEncoded, &byteArr); err != nil {
				return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to bytes: %v", string(jsonEncoded), err)
			}
			if valueType.abiTypeID == ArrayStatic && len(byteArr) != int(valueType.staticLength) {
				return Value{}, fmt.Errorf("length of slice %d != type specific length %d", len(byteArr), valueType.staticLength)
			}
			values := make([]Value, len(byteArr))
			for i := 0; i < len(byteArr); i++ {
				values[i] = MakeByte(byteArr[i])
			}
			if valueType.abiTypeID == ArrayStatic {
				return MakeStaticArray(values)
			}
			return MakeDynamicArray(values, MakeByteType())
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(jsonEncoded, &elems); err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to array: %v", string(jsonEncoded), err)
		}
		if valueType.abiTypeID == ArrayStatic && len(elems) != int(valueType.staticLength) {
			return Value{}, fmt.Errorf("JSON array element number != ABI array elem number")
		}
		values := make([]Value, len(elems))
		for i := 0; i < len(elems); i++ {
			valueTi, err := UnmarshalFromJSON(elems[i], valueType.childTypes[0])
			if err != nil {
				return Value{}, err
			}
			values[i] = valueTi
		}
		if valueType.abiTypeID == ArrayStatic {
			return MakeStaticArray(values)
		}
		return MakeDynamicArray(values, valueType.childTypes[0])
	case String:
		stringEncoded := string(jsonEncoded)
		if bytes.HasPrefix(jsonEncoded, []byte{'"'}) {
			var stringVar string
			if err := json.Unmarshal(jsonEncoded, &stringVar); err != nil {
				return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to string: %v", stringEncoded, err)
			}
			return MakeString(stringVar), nil
		} else if bytes.HasPrefix(jsonEncoded, []byte{'['}) {
			var elems []byte
			if err := json.Unmarshal(jsonEncoded, &elems); err != nil {
				return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to string: %v", stringEncoded, err)
			}
			return MakeString(string(elems)), nil
		} else {
			return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to string", stringEncoded)
		}
	case Tuple:
		var elems []json.RawMessage
		if err := json.Unmarshal(jsonEncoded, &elems); err != nil {
			return Value{}, fmt.Errorf("cannot cast JSON encoded (%s) to array for tuple: %v", string(jsonEncoded), err)
		}
		if len(elems) != int(valueType.staticLength) {
			return Value{}, fmt.Errorf("JSON array element number != ABI tuple elem number")
		}
		values := make([]Value, len(elems))
		for i := 0; i < len(elems); i++ {
			valueTi, err := UnmarshalFromJSON(elems[i], valueType.childTypes[i])
			if err != nil {
				return Value{}, err
			}
			values[i] = valueTi
		}
		return MakeTuple(values)
	default:
		return Value{}, fmt.Errorf("cannot cast JSON encoded %s to ABI value", string(jsonEncoded))
	}
}
