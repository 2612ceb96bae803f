// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"crypto/rand"
	mrand "math/rand"
	"strconv"
	"sync"

	"github.com/aead/siphash"
	"github.com/spvbridge/spvd/wire"
)

// Bucket counts follow the connection manager's address bucketing scheme:
// candidate (new) addresses and addresses the coordinator has actually
// connected to (tried) live in separate, siphash-bucketed tables so a
// flood of addresses from one source cannot crowd out diversity.
const (
	newBucketCount   = 1024
	triedBucketCount = 64
)

// AddrManager buckets candidate peer addresses deterministically by a
// per-process secret siphash key, the same defense the connection manager's
// full address manager uses against deliberate bucket-flooding: an
// attacker who doesn't know the key cannot choose which bucket an address
// they control lands in.
type AddrManager struct {
	key [siphash.KeySize]byte

	mu           sync.Mutex
	newBuckets   [newBucketCount]map[string]*wire.NetAddress
	triedBuckets [triedBucketCount]map[string]*wire.NetAddress
}

// NewAddrManager creates an empty manager with a freshly generated bucket
// key.
func NewAddrManager() *AddrManager {
	am := &AddrManager{}
	if _, err := rand.Read(am.key[:]); err != nil {
		// crypto/rand failure leaves the key zeroed, which only makes
		// bucket placement predictable; it does not break correctness.
		logger.Warnf("addrmgr: failed to seed bucket key: %v", err)
	}
	for i := range am.newBuckets {
		am.newBuckets[i] = make(map[string]*wire.NetAddress)
	}
	for i := range am.triedBuckets {
		am.triedBuckets[i] = make(map[string]*wire.NetAddress)
	}
	return am
}

func (a *AddrManager) bucketIndex(na *wire.NetAddress, count uint64) uint64 {
	h := siphash.Sum64([]byte(na.IP.String()), &a.key)
	return h % count
}

func addrKey(na *wire.NetAddress) string {
	return na.IP.String() + ":" + strconv.Itoa(int(na.Port))
}

// AddAddress records a candidate address in the new table, keyed by a
// siphash bucket so placement cannot be chosen by whoever supplied it.
func (a *AddrManager) AddAddress(na *wire.NetAddress) {
	idx := a.bucketIndex(na, newBucketCount)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.newBuckets[idx][addrKey(na)] = na
}

// MarkTried moves na from the new table into the tried table, recording
// that a connection to it actually succeeded.
func (a *AddrManager) MarkTried(na *wire.NetAddress) {
	newIdx := a.bucketIndex(na, newBucketCount)
	triedIdx := a.bucketIndex(na, triedBucketCount)
	key := addrKey(na)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.newBuckets[newIdx], key)
	a.triedBuckets[triedIdx][key] = na
}

// GetAddress returns a random candidate address from the new table, or nil
// if none are known.
func (a *AddrManager) GetAddress() *wire.NetAddress {
	a.mu.Lock()
	defer a.mu.Unlock()

	var candidates []*wire.NetAddress
	for _, bucket := range a.newBuckets {
		for _, na := range bucket {
			candidates = append(candidates, na)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[mrand.Intn(len(candidates))]
}

// Count reports how many addresses are known across both tables.
func (a *AddrManager) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, b := range a.newBuckets {
		n += len(b)
	}
	for _, b := range a.triedBuckets {
		n += len(b)
	}
	return n
}
