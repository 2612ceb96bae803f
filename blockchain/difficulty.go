// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/chainhash"
)

var bigOne = big.NewInt(1)

// HashToBig converts a chainhash.Hash into a big.Int treating the hash as a
// little-endian 256 bit unsigned integer, the representation used for
// proof-of-work comparisons.
func HashToBig(hash *chainhash.Hash) *big.Int {
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}
	return new(big.Int).SetBytes(buf[:])
}

// CompactToBig converts a compact representation of a whole number N to a
// big.Int. The representation is similar to IEEE754 floating point
// numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa. They are broken out as follows:
//
//   - the most significant 8 bits represent the unsigned base 256 exponent
//   - bit 23 (the 24th bit) represents the sign bit
//   - the least significant 23 bits represent the mantissa
//
// The formula to calculate N is:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := compact >> 24

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(uint(exponent)-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}

	return bn
}

// BigToCompact converts a whole number N to a compact representation using
// an unsigned 32-bit number. See CompactToBig for details on the format.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CalcWork calculates a work value from difficulty bits. A block's header
// stores its target in compact form; since a lower target equates to higher
// actual difficulty, the accumulated work is the inverse of the target,
// scaled to avoid both division by zero and vanishingly small results.
func CalcWork(bits uint32) *big.Int {
	target := CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}

	denominator := new(big.Int).Add(target, bigOne)
	return new(big.Int).Div(oneLsh256, denominator)
}

var oneLsh256 = new(big.Int).Lsh(bigOne, 256)

// calcNextRequiredDifficulty computes the Bits value the header following
// lastNode must carry, per the retarget rule: every BlocksPerRetarget
// blocks the target is rescaled by the ratio of actual to expected
// timespan, clamped to [min, max] timespan and to the network's proof of
// work limit. Between retarget boundaries the bits must equal the parent's.
func calcNextRequiredDifficulty(lastNode *BlockNode, params *chaincfg.Params) (uint32, error) {
	if params.PoWNoRetargeting {
		return params.PowLimitBits, nil
	}

	nextHeight := lastNode.Height + 1
	if nextHeight%params.BlocksPerRetarget() != 0 {
		return lastNode.Bits, nil
	}

	firstNode := lastNode
	for i := int32(0); i < params.BlocksPerRetarget()-1 && firstNode.Parent != nil; i++ {
		firstNode = firstNode.Parent
	}

	actualTimespan := lastNode.Timestamp - firstNode.Timestamp
	minSpan := params.MinRetargetTimespan()
	maxSpan := params.MaxRetargetTimespan()
	adjustedTimespan := actualTimespan
	if actualTimespan < minSpan {
		adjustedTimespan = minSpan
	} else if actualTimespan > maxSpan {
		adjustedTimespan = maxSpan
	}

	oldTarget := CompactToBig(lastNode.Bits)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(adjustedTimespan))
	targetTimespan := int64(params.TargetTimespan.Seconds())
	newTarget.Div(newTarget, big.NewInt(targetTimespan))

	if newTarget.Cmp(params.PowLimit) > 0 {
		newTarget.Set(params.PowLimit)
	}

	return BigToCompact(newTarget), nil
}
