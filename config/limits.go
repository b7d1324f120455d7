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

package config

// ConsensusParams specifies the subset of AVM resource limits that
// application specs are validated against.
type ConsensusParams struct {
	// maximum byte len of application approval program or clear state
	// When MaxExtraAppProgramPages > 0, this is the size of those pages.
	// So two "extra pages" would mean 3*MaxAppProgramLen bytes are available.
	MaxAppProgramLen int

	// extra length for application program in pages. A page is MaxAppProgramLen bytes
	MaxExtraAppProgramPages int

	// maximum length of a key used in an application's global or local
	// key/value store
	MaxAppKeyLen int

	// maximum length of a bytes value used in an application's global or
	// local key/value store
	MaxAppBytesValueLen int

	// maximum number of total key/value pairs allowed by a given
	// LocalStateSchema (and therefore allowed in LocalState)
	MaxLocalSchemaEntries uint64

	// maximum number of total key/value pairs allowed by a given
	// GlobalStateSchema (and therefore allowed in GlobalState)
	MaxGlobalSchemaEntries uint64
}

// Consensus holds the limits enforced by current consensus.
var Consensus = ConsensusParams{
	MaxAppProgramLen:        2048,
	MaxExtraAppProgramPages: 3,
	MaxAppKeyLen:            64,
	MaxAppBytesValueLen:     128,
	MaxLocalSchemaEntries:   16,
	MaxGlobalSchemaEntries:  64,
}

// MaxAvailableAppProgramLen is the maximum total length of an application's
// program, accounting for extra program pages.
func (p ConsensusParams) MaxAvailableAppProgramLen() int {
	return p.MaxAppProgramLen * (1 + p.MaxExtraAppProgramPages)
}

// MaxSchemaEntries returns the cap on total key/value pairs for the global
// or local scope.
func (p ConsensusParams) MaxSchemaEntries(global bool) uint64 {
	if global {
		return p.MaxGlobalSchemaEntries
	}
	return p.MaxLocalSchemaEntries
}
