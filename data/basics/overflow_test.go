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

package basics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KillerGasy/ARCs/test/partitiontest"
)

func TestUnsignedOverflow(t *testing.T) {
	partitiontest.PartitionTest(t)

	u := uint64(math.MaxUint64)

	sum, overflowed := OAdd(u, uint64(0))
	require.False(t, overflowed)
	require.Equal(t, u, sum)

	_, overflowed = OAdd(u, uint64(1))
	require.True(t, overflowed)
}

func TestSaturation(t *testing.T) {
	partitiontest.PartitionTest(t)

	u := uint64(math.MaxUint64)

	require.Equal(t, u, AddSaturate(u, uint64(25)))
	require.Equal(t, uint64(7), AddSaturate(uint64(3), uint64(4)))
}
