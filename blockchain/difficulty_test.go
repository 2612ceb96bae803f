// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/stretchr/testify/require"
)

// TestCalcNextRequiredDifficultyBetweenRetargets checks that a height not
// landing on a retarget boundary must simply carry the parent's bits
// forward, per §4.3's "otherwise h.bits must equal parent.bits" rule.
func TestCalcNextRequiredDifficultyBetweenRetargets(t *testing.T) {
	params := chaincfg.RegressionNetParams
	params.PoWNoRetargeting = false

	parent := &BlockNode{Height: 1, Bits: 0x1d00ffff}
	got, err := calcNextRequiredDifficulty(parent, &params)
	require.NoError(t, err)
	require.Equal(t, parent.Bits, got)
}

// fastRetargetParams returns a copy of the regression network's parameters
// with retargeting enabled and a short four-block window, so a retarget
// boundary can be exercised without building a 2016-block chain.
func fastRetargetParams() chaincfg.Params {
	params := chaincfg.RegressionNetParams
	params.PoWNoRetargeting = false
	params.TargetTimespan = 4 * time.Minute
	params.TargetTimePerBlock = time.Minute
	params.RetargetAdjustmentFactor = 4
	return params
}

// TestAppendBadDifficultyRejected feeds a retarget-boundary header carrying
// the wrong bits and checks the store rejects it with ErrBadDifficulty
// while leaving the chain at its prior height, matching Scenario 2.
func TestAppendBadDifficultyRejected(t *testing.T) {
	params := fastRetargetParams()
	require.Equal(t, int32(4), params.BlocksPerRetarget())

	s := New(&params)
	genesis := s.Tip()

	n1, err := s.Append(childHeader(genesis, 1, 1))
	require.NoError(t, err)
	n2, err := s.Append(childHeader(n1, 1, 1))
	require.NoError(t, err)
	n3, err := s.Append(childHeader(n2, 1, 1))
	require.NoError(t, err)

	wantBits, err := calcNextRequiredDifficulty(n3, &params)
	require.NoError(t, err)

	bad := childHeader(n3, 1, 1)
	bad.Bits = wantBits + 1
	_, err = s.Append(bad)
	rerr, ok := err.(RuleError)
	require.True(t, ok)
	require.Equal(t, ErrBadDifficulty, rerr.ErrorCode)
	require.True(t, s.Tip().Hash.IsEqual(&n3.Hash), "chain must remain at the last good height")

	good := childHeader(n3, 1, 1)
	good.Bits = wantBits
	n4, err := s.Append(good)
	require.NoError(t, err)
	require.True(t, s.Tip().Hash.IsEqual(&n4.Hash))
}
