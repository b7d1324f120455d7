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

// Scope names for the two independent key/value stores. A key name is
// unique only within its scope.
const (
	GlobalScope = "global"
	LocalScope  = "local"
)

// DefaultArgument sources.
const (
	GlobalStateSource = "global-state"
	LocalStateSource  = "local-state"
	ABIMethodSource   = "abi-method"
	ConstantSource    = "constant"
)

// voidReturnType marks a method with no return value.
const voidReturnType = "void"

// specialArgTypes are the method argument types of the contract interface
// that name transactions and foreign references instead of ABI values.
var specialArgTypes = map[string]bool{
	"txn":    true,
	"pay":    true,
	"keyreg": true,
	"acfg":   true,
	"axfer":  true,
	"afrz":   true,
	"appl":   true,

	"account":     true,
	"asset":       true,
	"application": true,
}

// Contract is the interface descriptor of the application: its methods and
// the networks it is deployed to. The descriptor is owned by the method-call
// machinery; this package reads it for cross-reference validation only.
type Contract struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Name     string                 `codec:"name"`
	Desc     string                 `codec:"desc"`
	Networks map[string]NetworkInfo `codec:"networks"`
	Methods  []Method               `codec:"methods"`
}

// NetworkInfo tells where the contract is deployed on one network, keyed by
// the network's genesis hash in the Networks map.
type NetworkInfo struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	AppID uint64 `codec:"appID"`
}

// Method describes one callable procedure of the contract.
type Method struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Name    string `codec:"name"`
	Desc    string `codec:"desc"`
	Args    []Arg  `codec:"args"`
	Returns Return `codec:"returns"`
}

// Arg describes one method argument. Type is an ABI type string, a
// user-defined type name, or one of the special transaction and reference
// argument types.
type Arg struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type    string           `codec:"type"`
	Name    string           `codec:"name"`
	Desc    string           `codec:"desc"`
	Default *DefaultArgument `codec:"default"`
}

// Return describes the method's return value. The type "void" marks a
// method returning nothing.
type Return struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Type string `codec:"type"`
	Desc string `codec:"desc"`
}

// DefaultArgument tells a caller where to source an argument value it was
// not given explicitly. Data is a schema key for the two state sources, a
// method reference for abi-method, and a literal for constant.
type DefaultArgument struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Source string      `codec:"source"`
	Data   interface{} `codec:"data"`
}

// HasMethod reports whether a method reference names a contract method,
// either by bare name or by the full name(argTypes)returnType form.
func (c *Contract) HasMethod(ref string) bool {
	for _, m := range c.Methods {
		if m.Name == ref || m.signature() == ref {
			return true
		}
	}
	return false
}

// signature renders the name(argTypes)returnType form used by method
// references. Computing call selectors from it is the caller's business.
func (m Method) signature() string {
	argTypes := make([]string, len(m.Args))
	for i, arg := range m.Args {
		argTypes[i] = arg.Type
	}
	ret := m.Returns.Type
	if ret == "" {
		ret = voidReturnType
	}
	return m.Name + "(" + strings.Join(argTypes, ",") + ")" + ret
}

func (c *Contract) validate(ts TypeSpec, schema *SchemaSpec) error {
	if err := specStringInvalid(c.Name); err != nil {
		return fmt.Errorf("Name: %w", err)
	}
	if err := specHelpStringInvalid(c.Desc); err != nil {
		return fmt.Errorf("Desc: %w", err)
	}
	// Network keys are base64 genesis hashes, so the name grammar does not
	// apply to them.
	networks := sortedKeys(c.Networks)
	for _, genesisHash := range networks {
		if genesisHash == "" {
			return fmt.Errorf("Network: empty genesis hash key")
		}
		if err := specHelpStringInvalid(genesisHash); err != nil {
			return fmt.Errorf("Network: %w", err)
		}
	}
	for _, m := range c.Methods {
		if err := m.validate(c, ts, schema); err != nil {
			return fmt.Errorf("Method(%s): %w", strconv.QuoteToASCII(m.Name), err)
		}
	}
	return nil
}

func (m Method) validate(c *Contract, ts TypeSpec, schema *SchemaSpec) error {
	if err := specStringInvalid(m.Name); err != nil {
		return fmt.Errorf("Name: %w", err)
	}
	if err := specHelpStringInvalid(m.Desc); err != nil {
		return fmt.Errorf("Desc: %w", err)
	}
	for i, arg := range m.Args {
		if err := arg.validate(c, ts, schema); err != nil {
			return fmt.Errorf("Arg(%d): %w", i, err)
		}
	}
	// an omitted return type means void, matching the signature rendering
	if m.Returns.Type != voidReturnType && m.Returns.Type != "" {
		if _, err := ts.ResolveString(m.Returns.Type); err != nil {
			return fmt.Errorf("Returns: %w", err)
		}
	}
	if err := specHelpStringInvalid(m.Returns.Desc); err != nil {
		return fmt.Errorf("Returns: %w", err)
	}
	return nil
}

func (arg Arg) validate(c *Contract, ts TypeSpec, schema *SchemaSpec) error {
	if arg.Name != "" {
		if err := specStringInvalid(arg.Name); err != nil {
			return fmt.Errorf("Name: %w", err)
		}
	}
	if !specialArgTypes[arg.Type] {
		if _, err := ts.ResolveString(arg.Type); err != nil {
			return fmt.Errorf("Type: %w", err)
		}
	}
	if err := specHelpStringInvalid(arg.Desc); err != nil {
		return fmt.Errorf("Desc: %w", err)
	}
	if arg.Default != nil {
		if err := arg.Default.validate(c, schema); err != nil {
			return fmt.Errorf("Default: %w", err)
		}
	}
	return nil
}

func (da DefaultArgument) validate(c *Contract, schema *SchemaSpec) error {
	switch da.Source {
	case GlobalStateSource, LocalStateSource:
		key, ok := da.Data.(string)
		if !ok {
			return fmt.Errorf("%s data must be a key string", da.Source)
		}
		scope := GlobalScope
		if da.Source == LocalStateSource {
			scope = LocalScope
		}
		if schema == nil || !schema.HasEntry(scope, key) {
			return fmt.Errorf("key %s is not in the %s schema", strconv.Quote(key), scope)
		}
	case ABIMethodSource:
		ref, ok := da.Data.(string)
		if !ok {
			return fmt.Errorf("%s data must be a method reference", da.Source)
		}
		if !c.HasMethod(ref) {
			return fmt.Errorf("method reference %s matches no contract method", strconv.Quote(ref))
		}
	case ConstantSource:
		switch value := da.Data.(type) {
		case string, uint64, uint:
		case int:
			if value < 0 {
				return fmt.Errorf("constant integer %d is negative", value)
			}
		case int64:
			if value < 0 {
				return fmt.Errorf("constant integer %d is negative", value)
			}
		default:
			return fmt.Errorf("constant data must be a string or unsigned integer, got %T", da.Data)
		}
	default:
		return fmt.Errorf("unknown source %s", strconv.Quote(da.Source))
	}
	return nil
}
