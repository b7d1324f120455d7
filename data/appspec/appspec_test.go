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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/KillerGasy/ARCs/config"
	"github.com/KillerGasy/ARCs/data/abi"
	"github.com/KillerGasy/ARCs/data/basics"
	"github.com/KillerGasy/ARCs/data/teal"
	"github.com/KillerGasy/ARCs/logging"
	"github.com/KillerGasy/ARCs/test/partitiontest"
)

const vaultDocument = `{
  "name": "vault",
  "desc": "Holds deposits until the unlock round.",
  "networks": {
    "wGHE2Pwdvd7S12BL5FaOP20EGYesN73ktiC1qzkkit8=": {"appID": 1234}
  },
  "methods": [
    {
      "name": "deposit",
      "desc": "Add funds under the caller's account.",
      "args": [
        {"type": "pay", "name": "payment"},
        {"type": "Thing", "name": "entry"}
      ],
      "returns": {"type": "uint64", "desc": "new balance"}
    },
    {
      "name": "close",
      "args": [
        {
          "type": "address",
          "name": "to",
          "default": {"source": "global-state", "data": "owner"}
        }
      ],
      "returns": {"type": "void"}
    }
  ],
  "types": {
    "HashDigest": "byte[32]",
    "Thing": [["addr", "address"], ["balance", "uint64"]]
  },
  "schema": {
    "global": {
      "declared": {
        "owner": {"type": "address", "desc": "who may close the vault"},
        "counter": {"type": "uint64", "key": "c"}
      },
      "reserved": {
        "receipts": {"type": "HashDigest", "max_keys": 4}
      }
    },
    "local": {
      "declared": {
        "balance": {"type": "uint64"}
      }
    }
  },
  "state": {
    "global": {"num_uints": 1, "num_byte_slices": 5},
    "local": {"num_uints": 1}
  },
  "errors": {
    "42": "deposits are closed",
    "77": "unlock round not reached"
  },
  "source": {
    "approval": "BoEB",
    "clear": "BoEB"
  }
}`

func TestFromJSONFull(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	spec, err := FromJSON([]byte(vaultDocument))
	a.NoError(err)

	a.Equal("vault", spec.Name)
	a.Len(spec.Methods, 2)
	a.Equal(uint64(1234), spec.Networks["wGHE2Pwdvd7S12BL5FaOP20EGYesN73ktiC1qzkkit8="].AppID)
	a.True(spec.HasMethod("deposit"))
	a.True(spec.HasMethod("close(address)void"))
	a.False(spec.HasMethod("withdraw"))

	thing, ok := spec.ResolvedType("Thing")
	a.True(ok)
	a.Equal("(address,uint64)", thing.String())
	digest, ok := spec.ResolvedType("HashDigest")
	a.True(ok)
	a.Equal("byte[32]", digest.String())
	_, ok = spec.ResolvedType("Nope")
	a.False(ok)

	message, ok := spec.ErrorMessage(42)
	a.True(ok)
	a.Equal("deposits are closed", message)
	_, ok = spec.ErrorMessage(7)
	a.False(ok)

	counter, ok := spec.DeclaredValue(GlobalScope, "counter")
	a.True(ok)
	a.Equal("c", counter.StorageKey("counter"))
	balance, ok := spec.DeclaredValue(LocalScope, "balance")
	a.True(ok)
	a.Equal(AVMUint64, balance.Type)
	_, ok = spec.DeclaredValue(GlobalScope, "balance")
	a.False(ok)

	global, local := spec.AllocatedSchemas()
	a.Equal(basics.StateSchema{NumUint: 1, NumByteSlice: 5}, global)
	a.Equal(basics.StateSchema{NumUint: 1}, local)

	a.Equal([]byte{0x06, 0x81, 0x01}, spec.Source.Approval)
	a.Equal([]byte{0x06, 0x81, 0x01}, spec.Source.Clear)
}

func TestEncodeRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	spec, err := FromJSON([]byte(vaultDocument))
	a.NoError(err)

	encoded := spec.Encode()
	reparsed, err := FromJSON(encoded)
	a.NoError(err)
	a.Equal(encoded, reparsed.Encode())

	diff := cmp.Diff(spec.Contract, reparsed.Contract,
		cmpopts.IgnoreUnexported(Contract{}, NetworkInfo{}, Method{}, Arg{}, Return{}, DefaultArgument{}))
	a.Empty(diff)

	// the document form writes program counters as strings
	a.Contains(string(encoded), `"42"`)
	a.Contains(string(encoded), `"77"`)
}

func TestFromJSONRejects(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	testcases := []struct {
		name     string
		document string
		field    string
		expected string
	}{
		{
			name:     "truncated document",
			document: `{"name": "x"`,
			field:    "document",
			expected: "document",
		},
		{
			name:     "unknown field",
			document: `{"name": "x", "bogus": 1}`,
			field:    "document",
			expected: "document",
		},
		{
			name:     "malformed struct field pair",
			document: `{"name": "x", "types": {"T": [["lonely"]]}}`,
			field:    "document",
			expected: "pair",
		},
		{
			name:     "type shadows the grammar",
			document: `{"name": "x", "types": {"uint64": "byte"}}`,
			field:    "types",
			expected: "shadows an ABI type",
		},
		{
			name:     "type cycle",
			document: `{"name": "x", "types": {"A": "B", "B": "A"}}`,
			field:    "types",
			expected: "cyclic type reference: A -> B -> A",
		},
		{
			name:     "negative program counter",
			document: `{"name": "x", "errors": {"-1": "boom"}}`,
			field:    "errors",
			expected: "negative program counter -1",
		},
		{
			name:     "unprintable error message",
			document: `{"name": "x", "errors": {"3": "bad\u0000msg"}}`,
			field:    "errors",
			expected: "not Unicode printable",
		},
		{
			name:     "schema over reservation",
			document: `{"name": "x", "schema": {"local": {"reserved": {"r": {"type": "uint64", "max_keys": -2}}}}}`,
			field:    "schema",
			expected: "max_keys -2 is negative",
		},
		{
			name:     "allocation over cap without schema",
			document: `{"name": "x", "state": {"global": {"num_uints": 60, "num_byte_slices": 10}}}`,
			field:    "schema",
			expected: "allocates 70 entries, scope allows 64",
		},
		{
			name:     "contract method name",
			document: `{"name": "x", "methods": [{"name": "has space"}]}`,
			field:    "contract",
			expected: "invalid rune",
		},
		{
			name:     "contract unknown arg type",
			document: `{"name": "x", "methods": [{"name": "m", "args": [{"type": "Widget"}]}]}`,
			field:    "contract",
			expected: `cannot resolve type name "Widget"`,
		},
		{
			name:     "default key not in schema",
			document: `{"name": "x", "methods": [{"name": "m", "args": [{"type": "uint64", "default": {"source": "global-state", "data": "gone"}}]}]}`,
			field:    "contract",
			expected: `key "gone" is not in the global schema`,
		},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := require.New(t)
			_, err := FromJSON([]byte(tc.document))
			a.Error(err)
			var perr ParseError
			a.ErrorAs(err, &perr)
			a.Equal(tc.field, perr.Field)
			a.ErrorContains(err, tc.expected)
		})
	}
}

func TestFromJSONSourceTooLong(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	maxLen := config.Consensus.MaxAvailableAppProgramLen()
	oversized := ApplicationSpec{
		Contract: Contract{Name: "x"},
		Source:   &SourceSpec{Approval: make([]byte, maxLen+1)},
	}
	_, err := FromJSON(oversized.Encode())
	var perr ParseError
	a.ErrorAs(err, &perr)
	a.Equal("source", perr.Field)
	a.ErrorContains(err, fmt.Sprintf("approval program is %d bytes, limit is %d", maxLen+1, maxLen))

	oversized = ApplicationSpec{
		Contract: Contract{Name: "x"},
		Source:   &SourceSpec{Clear: make([]byte, maxLen+1)},
	}
	_, err = FromJSON(oversized.Encode())
	a.ErrorAs(err, &perr)
	a.Equal("source", perr.Field)
	a.ErrorContains(err, "clear state program")

	atLimit := ApplicationSpec{
		Contract: Contract{Name: "x"},
		Source:   &SourceSpec{Approval: make([]byte, maxLen)},
	}
	_, err = FromJSON(atLimit.Encode())
	a.NoError(err)
}

func TestDefaultArgumentForms(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	const template = `{
  "name": "x",
  "methods": [
    {"name": "helper", "returns": {"type": "uint64"}},
    {"name": "m", "args": [{"type": "uint64", "default": %s}]}
  ],
  "schema": {"global": {"declared": {"flag": {"type": "uint64"}}}}
}`

	testcases := []struct {
		name     string
		def      string
		expected string
	}{
		{"global state key", `{"source": "global-state", "data": "flag"}`, ""},
		{"wrong scope", `{"source": "local-state", "data": "flag"}`, "is not in the local schema"},
		{"method by name", `{"source": "abi-method", "data": "helper"}`, ""},
		{"method by signature", `{"source": "abi-method", "data": "helper()uint64"}`, ""},
		{"unknown method", `{"source": "abi-method", "data": "missing"}`, "matches no contract method"},
		{"constant string", `{"source": "constant", "data": "fixed"}`, ""},
		{"constant integer", `{"source": "constant", "data": 7}`, ""},
		{"negative constant", `{"source": "constant", "data": -7}`, "constant integer -7 is negative"},
		{"fractional constant", `{"source": "constant", "data": 1.5}`, "string or unsigned integer"},
		{"unknown source", `{"source": "teleport", "data": "x"}`, `unknown source "teleport"`},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := require.New(t)
			document := fmt.Sprintf(template, tc.def)
			_, err := FromJSON([]byte(document))
			if tc.expected == "" {
				a.NoError(err)
				return
			}
			var perr ParseError
			a.ErrorAs(err, &perr)
			a.Equal("contract", perr.Field)
			a.ErrorContains(err, tc.expected)
		})
	}
}

func TestFromFile(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	path := filepath.Join(t.TempDir(), "vault.json")
	a.NoError(os.WriteFile(path, []byte(vaultDocument), 0644))

	spec, err := FromFile(path)
	a.NoError(err)
	a.Equal("vault", spec.Name)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.json"))
	a.Error(err)
}

func TestAccessorsWithoutSections(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	spec, err := FromJSON([]byte(`{"name": "bare"}`))
	a.NoError(err)

	_, ok := spec.ResolvedType("Thing")
	a.False(ok)
	_, ok = spec.DeclaredValue(GlobalScope, "counter")
	a.False(ok)
	_, ok = spec.ErrorMessage(1)
	a.False(ok)
	global, local := spec.AllocatedSchemas()
	a.Equal(basics.StateSchema{}, global)
	a.Equal(basics.StateSchema{}, local)
}

func TestResolvedValueEndToEnd(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	spec, err := FromJSON([]byte(vaultDocument))
	a.NoError(err)
	thing, ok := spec.ResolvedType("Thing")
	a.True(ok)

	var addr [32]byte
	for i := range addr {
		addr[i] = byte(i)
	}
	value, err := abi.MakeTuple([]abi.Value{abi.MakeAddress(addr), abi.MakeUint64(5)})
	a.NoError(err)
	a.True(value.ABIType.Equal(thing))

	encoded, err := value.Encode()
	a.NoError(err)
	a.Len(encoded, 40)
	expected := append([]byte{}, addr[:]...)
	expected = append(expected, 0, 0, 0, 0, 0, 0, 0, 5)
	a.Equal(expected, encoded)

	decoded, err := abi.Decode(encoded, thing)
	a.NoError(err)
	first, err := decoded.GetValueByIndex(0)
	a.NoError(err)
	decodedAddr, err := first.GetAddress()
	a.NoError(err)
	a.Equal(addr, decodedAddr)
	second, err := decoded.GetValueByIndex(1)
	a.NoError(err)
	decodedBalance, err := second.GetUint64()
	a.NoError(err)
	a.Equal(uint64(5), decodedBalance)
}

func TestErrorSpecDocumentKeys(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	spec := ApplicationSpec{
		Contract: Contract{Name: "x"},
		Errors:   ErrorSpec{13: "overdrawn", 200: "no access"},
	}
	encoded := spec.Encode()
	a.Contains(string(encoded), `"13"`)
	a.Contains(string(encoded), `"200"`)
	a.False(strings.Contains(string(encoded), "13:"))

	reparsed, err := FromJSON(encoded)
	a.NoError(err)
	message, ok := reparsed.ErrorMessage(13)
	a.True(ok)
	a.Equal("overdrawn", message)
	message, ok = reparsed.ErrorMessage(200)
	a.True(ok)
	a.Equal("no access", message)
}

func TestErrorTableFromSourceEndToEnd(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()
	a := require.New(t)

	source := "int 1\nint 2\n<\n// Sorry but 2 is not less than 1\nassert\n"
	asm := teal.AssemblyMap{
		SourceName:    "clamp.teal",
		SourceVersion: 6,
		LineMap:       []int{1, 3, 5, 0, 10},
	}
	table, err := teal.BuildErrorMap(source, &asm, logging.TestingLog(t))
	a.NoError(err)

	doc := ApplicationSpec{
		Contract: Contract{Name: "clamp"},
		Errors:   table,
	}
	parsed, err := FromJSON(doc.Encode())
	a.NoError(err)

	message, ok := parsed.ErrorMessage(10)
	a.True(ok)
	a.Equal("Sorry but 2 is not less than 1", message)
	_, ok = parsed.ErrorMessage(11)
	a.False(ok)
}
