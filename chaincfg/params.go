// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"math/big"
	"time"

	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// Checkpoint identifies a known-good point in the block chain which header
// sync anchors to: a header chain that forks below a checkpoint's height is
// rejected outright rather than considered as a candidate best chain.
type Checkpoint struct {
	Height    int32
	Hash      *chainhash.Hash
	Timestamp time.Time
}

// Params defines a flokicoin network by its genesis header, proof-of-work
// limits, difficulty retarget behavior, and bootstrap data. A peer session
// and the header-chain engine both consult a *Params to interpret headers
// received over a given network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net is the magic number used to identify the network on the wire.
	Net wire.FlcNet

	// DefaultPort defines the default peer port for the network.
	DefaultPort string

	// DNSSeeds defines a list of DNS seed hosts used to bootstrap a
	// peer address pool when no addresses are otherwise known.
	DNSSeeds []string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// PowLimit defines the highest allowed proof of work value for a
	// block as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// These fields define the block retarget algorithm for the network.
	//
	// TargetTimespan is the desired amount of time it should take to
	// generate the retarget period blocks.
	//
	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	//
	// RetargetAdjustmentFactor is the adjustment factor used to limit the
	// minimum and maximum amount of adjustment that can occur between
	// difficulty retargets.
	TargetTimespan           time.Duration
	TargetTimePerBlock       time.Duration
	RetargetAdjustmentFactor int64

	// ReduceMinDifficulty defines whether the network should reduce the
	// minimum required difficulty after a long period of no blocks. This
	// is the case for the public test network.
	ReduceMinDifficulty bool

	// MinDiffReductionTime is the amount of time after which the minimum
	// required difficulty is reduced if ReduceMinDifficulty is true.
	MinDiffReductionTime time.Duration

	// PoWNoRetargeting defines whether the chain retargets proof of work
	// at all. This is used for the regression test network which uses a
	// constant difficulty.
	PoWNoRetargeting bool

	// EnforceBIP94 indicates whether difficulty retargets after a
	// minimum-difficulty exception must base their target on the first
	// block of the retarget period rather than the immediately preceding
	// block.
	EnforceBIP94 bool

	// Checkpoints ordered from oldest to newest.
	Checkpoints []Checkpoint

	// CoinbaseMaturity is the number of blocks required before newly
	// generated coins (coinbase transactions) can be spent.
	CoinbaseMaturity uint16
}

// BlocksPerRetarget returns the number of blocks before a difficulty
// retarget takes place.
func (p *Params) BlocksPerRetarget() int32 {
	return int32(p.TargetTimespan / p.TargetTimePerBlock)
}

// MinRetargetTimespan returns the minimum amount of time a retarget period
// can take, clamped to one quarter of TargetTimespan.
func (p *Params) MinRetargetTimespan() int64 {
	return int64(p.TargetTimespan / p.RetargetAdjustmentFactor / time.Second)
}

// MaxRetargetTimespan returns the maximum amount of time a retarget period
// can take, clamped to four times TargetTimespan.
func (p *Params) MaxRetargetTimespan() int64 {
	return int64(p.TargetTimespan * time.Duration(p.RetargetAdjustmentFactor) / time.Second)
}

// LastCheckpointBefore returns the highest checkpoint whose timestamp does
// not exceed t, or nil if Checkpoints is empty or every checkpoint postdates
// t. Nothing in this module calls it: blockchain.NewFromSnapshot skips
// proof-of-work verification for every header it loads without consulting
// checkpoints.
func (p *Params) LastCheckpointBefore(t time.Time) *Checkpoint {
	var best *Checkpoint
	for i := range p.Checkpoints {
		cp := &p.Checkpoints[i]
		if cp.Timestamp.After(t) {
			continue
		}
		if best == nil || cp.Height > best.Height {
			best = cp
		}
	}
	return best
}

var bigOne = big.NewInt(1)

// mainPowLimit is the highest proof of work value a block's header hash
// can have for the main network. It is the value 2^240 - 1.
var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 240), bigOne)

// regressionPowLimit is the highest proof of work value a block's header
// hash can have for the regression test network. It is the value 2^255 - 1.
var regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:        "mainnet",
	Net:         wire.MainNet,
	DefaultPort: "15213",
	DNSSeeds: []string{
		"seed.spvbridge.io",
	},

	GenesisBlock: &mainGenesisBlock,
	GenesisHash:  &mainGenesisHash,
	PowLimit:     mainPowLimit,
	PowLimitBits: 0x1f00ffff,

	TargetTimespan:           time.Hour * 24 * 14,
	TargetTimePerBlock:       time.Minute * 2,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      false,
	PoWNoRetargeting:         false,
	EnforceBIP94:             false,

	Checkpoints: []Checkpoint{
		{Height: 0, Hash: &mainGenesisHash, Timestamp: mainGenesisBlock.Header.Timestamp},
	},

	CoinbaseMaturity: 100,
}

// RegressionNetParams defines the network parameters for the regression
// test network. Difficulty never retargets, making it suitable for
// deterministic header-chain tests.
var RegressionNetParams = Params{
	Name:        "regtest",
	Net:         wire.RegTest,
	DefaultPort: "25213",
	DNSSeeds:    []string{},

	GenesisBlock: &regTestGenesisBlock,
	GenesisHash:  &regTestGenesisHash,
	PowLimit:     regressionPowLimit,
	PowLimitBits: 0x207fffff,

	TargetTimespan:           time.Hour * 24 * 14,
	TargetTimePerBlock:       time.Minute * 2,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      true,
	MinDiffReductionTime:     time.Minute * 4,
	PoWNoRetargeting:         true,

	Checkpoints: nil,

	CoinbaseMaturity: 100,
}

// TestNet3Params defines the network parameters for the public test
// network (version 3).
var TestNet3Params = Params{
	Name:        "testnet3",
	Net:         wire.TestNet3,
	DefaultPort: "35213",
	DNSSeeds: []string{
		"testnet-seed.spvbridge.io",
	},

	GenesisBlock: &testNet3GenesisBlock,
	GenesisHash:  &testNet3GenesisHash,
	PowLimit:     mainPowLimit,
	PowLimitBits: 0x1f00ffff,

	TargetTimespan:           time.Hour * 24 * 14,
	TargetTimePerBlock:       time.Minute * 2,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      true,
	MinDiffReductionTime:     time.Minute * 4,
	PoWNoRetargeting:         false,

	Checkpoints: []Checkpoint{
		{Height: 0, Hash: &testNet3GenesisHash, Timestamp: testNet3GenesisBlock.Header.Timestamp},
	},

	CoinbaseMaturity: 100,
}

// SimNetParams defines the network parameters for the locally simulated
// test network used by integration tests.
var SimNetParams = Params{
	Name:        "simnet",
	Net:         wire.SimNet,
	DefaultPort: "45213",
	DNSSeeds:    []string{},

	GenesisBlock: &simNetGenesisBlock,
	GenesisHash:  &simNetGenesisHash,
	PowLimit:     regressionPowLimit,
	PowLimitBits: 0x207fffff,

	TargetTimespan:           time.Hour * 24 * 14,
	TargetTimePerBlock:       time.Minute * 2,
	RetargetAdjustmentFactor: 4,
	PoWNoRetargeting:         true,

	Checkpoints: nil,

	CoinbaseMaturity: 100,
}

var (
	registeredNets = make(map[wire.FlcNet]*Params)
)

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&RegressionNetParams)
	mustRegister(&TestNet3Params)
	mustRegister(&SimNetParams)
}

// ErrDuplicateNet describes an error where the parameters for a flokicoin
// network could not be set due to the network already being a standard
// network or previously registered.
var ErrDuplicateNet = errors.New("duplicate flokicoin network")

// Register registers the network parameters for a flokicoin network so
// that subsequent lookups by magic number (e.g. from a version message)
// can resolve back to a Params. Most callers want one of the predefined
// sets above; Register exists for a privately operated network.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = params
	return nil
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic(err)
	}
}

// ParamsForNet returns the registered Params for the given network magic,
// or nil if no network was registered under that magic.
func ParamsForNet(net wire.FlcNet) *Params {
	return registeredNets[net]
}
