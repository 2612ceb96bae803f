// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bloom implements the BIP 0037 bloom filter an SPV client uploads
// to a peer, and the partial merkle tree a peer returns in exchange: a
// compact proof that a block contains (or does not contain) the
// transactions the filter matched.
package bloom

import (
	"math"
	"sync"

	"github.com/spaolacci/murmur3"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// ln2Squared is used in the optimal-size calculation below.
const ln2Squared = math.Ln2 * math.Ln2

// Filter defines a bloom filter an SPV client builds locally from the
// outputs and addresses it cares about and uploads to a remote peer via a
// filterload message, refining it afterward with filteradd.
//
// Like the teacher's header-chain engine, a Filter serializes access to its
// mutable bit array behind a single mutex rather than relying on callers to
// coordinate: filteradd arrives from the external wallet collaborator while
// a peer session may concurrently read the filter to test an inbound tx.
type Filter struct {
	mtx sync.Mutex
	msg wire.MsgFilterLoad
}

// NewFilter creates a new bloom filter sized for elements entries at the
// given false positive rate, tweaked with a caller-supplied nonce so two
// peers cannot correlate filters uploaded by the same client.
func NewFilter(elements, tweak uint32, fpRate float64, updateType wire.BloomUpdateType) *Filter {
	dataLen := calcFilterSize(elements, fpRate)
	hashFuncs := calcHashFuncs(elements, dataLen)

	data := make([]byte, dataLen)
	return &Filter{
		msg: wire.MsgFilterLoad{
			Filter:    data,
			HashFuncs: hashFuncs,
			Tweak:     tweak,
			Flags:     updateType,
		},
	}
}

// LoadFilter builds a Filter around a MsgFilterLoad received on the wire,
// the shape a relay-side peer needs when testing inbound inventory against
// a counterparty's filter.
func LoadFilter(msg *wire.MsgFilterLoad) *Filter {
	return &Filter{msg: *msg}
}

func calcFilterSize(elements uint32, fpRate float64) uint32 {
	if elements == 0 {
		elements = 1
	}
	size := uint32(-1 * float64(elements) * math.Log(fpRate) / ln2Squared / 8)
	if size > wire.MaxFilterLoadFilterSize {
		size = wire.MaxFilterLoadFilterSize
	}
	if size == 0 {
		size = 1
	}
	return size
}

func calcHashFuncs(elements, dataLen uint32) uint32 {
	n := uint32(float64(dataLen*8) / float64(elements) * math.Ln2)
	if n > wire.MaxFilterLoadHashFuncs {
		n = wire.MaxFilterLoadHashFuncs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// hash computes the BIP 0037 hash of data for the given round index: a
// murmur3 hash seeded with hashIndex*0xFBA4C795 + Tweak, reduced modulo the
// filter's bit count.
func (f *Filter) hash(hashIndex uint32, data []byte) uint32 {
	seed := hashIndex*0xfba4c795 + f.msg.Tweak
	h := murmur3.Sum32WithSeed(data, seed)
	return h % uint32(len(f.msg.Filter)*8)
}

// matches reports whether data is present in the filter. Must be called
// with the mutex held.
func (f *Filter) matches(data []byte) bool {
	if len(f.msg.Filter) == 0 {
		return false
	}
	for i := uint32(0); i < f.msg.HashFuncs; i++ {
		idx := f.hash(i, data)
		if f.msg.Filter[idx/8]&(1<<(idx%8)) == 0 {
			return false
		}
	}
	return true
}

// Matches reports whether data is present in the filter.
func (f *Filter) Matches(data []byte) bool {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.matches(data)
}

// add sets data's bits in the filter. Must be called with the mutex held.
func (f *Filter) add(data []byte) {
	if len(f.msg.Filter) == 0 {
		return
	}
	for i := uint32(0); i < f.msg.HashFuncs; i++ {
		idx := f.hash(i, data)
		f.msg.Filter[idx/8] |= 1 << (idx % 8)
	}
}

// Add inserts data into the filter, mirroring the effect a filteradd
// message has on the copy of the filter held by a remote peer.
func (f *Filter) Add(data []byte) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.add(data)
}

// AddHash inserts a block or transaction id into the filter.
func (f *Filter) AddHash(hash *chainhash.Hash) {
	f.Add(hash[:])
}

// MsgFilterLoad returns the wire message to upload this filter to a peer.
func (f *Filter) MsgFilterLoad() *wire.MsgFilterLoad {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	cp := f.msg
	cp.Filter = append([]byte(nil), f.msg.Filter...)
	return &cp
}

// MatchTxAndUpdate reports whether tx is relevant to the filter (any
// output script, input previous outpoint, input signature script, or the
// tx id itself matches), and -- per the filter's BloomUpdateType -- adds
// the outpoints of any matched output back into the filter so a later
// spend of that output is also matched without a fresh filterload round
// trip.
func (f *Filter) MatchTxAndUpdate(tx *wire.MsgTx) bool {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	matched := false

	txHash := tx.TxHash()
	if f.matches(txHash[:]) {
		matched = true
	}

	for i, out := range tx.TxOut {
		if !f.matches(out.PkScript) {
			continue
		}
		matched = true

		if f.msg.Flags == wire.BloomUpdateNone {
			continue
		}
		if f.msg.Flags == wire.BloomUpdateP2PubkeyOnly && !isPubkeyLike(out.PkScript) {
			continue
		}

		outpoint := outpointBytes(txHash, uint32(i))
		f.add(outpoint)
	}

	for _, in := range tx.TxIn {
		outpoint := outpointBytes(in.PreviousOutPoint.Hash, in.PreviousOutPoint.Index)
		if f.matches(outpoint) {
			matched = true
			continue
		}
		if f.matches(in.SignatureScript) {
			matched = true
		}
	}

	return matched
}

func outpointBytes(hash [32]byte, index uint32) []byte {
	b := make([]byte, 36)
	copy(b, hash[:])
	b[32] = byte(index)
	b[33] = byte(index >> 8)
	b[34] = byte(index >> 16)
	b[35] = byte(index >> 24)
	return b
}

// isPubkeyLike is a coarse heuristic for BloomUpdateP2PubkeyOnly: it
// accepts an output script of exactly 25, 35 or 67 bytes (the lengths of a
// pay-to-pubkey-hash script and of compressed and uncompressed
// pay-to-pubkey scripts) and rejects every other length. The script's
// opcodes are not inspected.
func isPubkeyLike(pkScript []byte) bool {
	return len(pkScript) == 25 || len(pkScript) == 35 || len(pkScript) == 67
}
