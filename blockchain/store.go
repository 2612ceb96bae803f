// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain implements SPV header-chain validation: accepting a
// new header against its parent, recomputing the difficulty retarget,
// tracking the active chain's tip, and reorganizing onto a better fork when
// one appears. It holds no transaction data and performs no script or UTXO
// validation; that is the line an SPV client draws against a full node.
package blockchain

import (
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spvbridge/spvd/chaincfg"
	"github.com/spvbridge/spvd/chainhash"
	"github.com/spvbridge/spvd/wire"
)

// maxFutureBlockTime is how far a header's timestamp may lie beyond the
// local clock before it is rejected as malformed.
const maxFutureBlockTime = 2 * time.Hour

// Subscriber receives notifications as the active chain changes. A
// download coordinator registers itself to learn which blocks it must now
// fetch, and a relay service to learn which transactions it previously
// flagged are now confirmed.
type Subscriber interface {
	// Connected is called once, in increasing height order, for every
	// node that joins the active chain.
	Connected(node *BlockNode)

	// Disconnected is called once, in decreasing height order, for
	// every node that leaves the active chain during a reorganization.
	Disconnected(node *BlockNode)

	// Reorganized is called once a reorganization completes, naming the
	// old tip, the new tip, and their lowest common ancestor.
	Reorganized(oldTip, newTip, commonAncestor *BlockNode)
}

// Store is the single-writer, in-memory header chain index. Callers append
// headers one at a time; the store decides whether each extends the active
// chain, starts or extends a side chain, or must be rejected outright.
//
// A Store is safe for concurrent use: reads (Tip, BlockLocator, NodeByHash) take
// a read lock, and the single Append writer path takes a write lock for the
// shortest span that correctness allows.
type Store struct {
	params *chaincfg.Params

	mu          sync.RWMutex
	nodes       map[chainhash.Hash]*BlockNode
	tip         *BlockNode
	subscribers []Subscriber
}

// New creates a Store seeded with params' genesis block as the sole node of
// the active chain.
func New(params *chaincfg.Params) *Store {
	genesis := newBlockNode(&params.GenesisBlock.Header, 0)
	s := &Store{
		params: params,
		nodes:  make(map[chainhash.Hash]*BlockNode),
		tip:    genesis,
	}
	s.nodes[genesis.Hash] = genesis
	return s
}

// Subscribe registers sub to receive future chain events. It is not
// retroactive: sub is not notified about nodes already in the chain.
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// Tip returns the node at the head of the current active chain.
func (s *Store) Tip() *BlockNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tip
}

// NodeByHash returns the node for the given block id, or nil if unknown.
func (s *Store) NodeByHash(hash chainhash.Hash) *BlockNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes[hash]
}

// HaveHeader reports whether a header with the given id is already stored,
// on the active chain or a side chain.
func (s *Store) HaveHeader(hash chainhash.Hash) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[hash]
	return ok
}

// Append validates and inserts a single header. It returns the resulting
// node on success, or a nil node and a RuleError when the header is
// rejected. ErrOrphan is the
// one rejection a caller should treat as recoverable: the coordinator
// should fetch the missing parent chain and retry.
func (s *Store) Append(h *wire.BlockHeader) (*BlockNode, error) {
	hash := h.BlockHash()

	s.mu.Lock()
	if _, ok := s.nodes[hash]; ok {
		s.mu.Unlock()
		return nil, ruleError(ErrAlreadyKnown, "header "+hash.String()+" already known")
	}

	parent, ok := s.nodes[h.PrevBlock]
	if !ok {
		s.mu.Unlock()
		return nil, ruleError(ErrOrphan, "header "+hash.String()+" has unknown parent "+h.PrevBlock.String())
	}

	node := newChildBlockNode(h, parent)

	if err := s.checkHeaderLocked(h, node, parent); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.nodes[hash] = node

	oldTip := s.tip
	var reorg bool
	if node.WorkSum.Cmp(oldTip.WorkSum) > 0 {
		reorg = true
		s.tip = node
	}
	s.mu.Unlock()

	if reorg {
		s.applyReorg(oldTip, node)
	}

	return node, nil
}

// checkHeaderLocked validates proof of work, timestamp, difficulty, and
// checkpoint rules for a header about to be linked to parent. Callers must
// hold s.mu for writing.
func (s *Store) checkHeaderLocked(h *wire.BlockHeader, node, parent *BlockNode) error {
	target := CompactToBig(h.Bits)
	if target.Sign() <= 0 || target.Cmp(s.params.PowLimit) > 0 {
		return ruleError(ErrBadProofOfWork, "header target out of range for "+node.Hash.String())
	}
	if HashToBig(&node.Hash).Cmp(target) > 0 {
		return ruleError(ErrBadProofOfWork, "header hash does not meet its target: "+node.Hash.String())
	}

	if node.Timestamp <= parent.medianTimePast() {
		return ruleError(ErrBadTimestamp, "header timestamp not after median time past: "+node.Hash.String())
	}
	if time.Unix(node.Timestamp, 0).After(time.Now().Add(maxFutureBlockTime)) {
		return ruleError(ErrBadTimestamp, "header timestamp too far in the future: "+node.Hash.String())
	}

	expectedBits, err := calcNextRequiredDifficulty(parent, s.params)
	if err != nil {
		return ruleError(ErrBadDifficulty, err.Error())
	}
	if h.Bits != expectedBits {
		return ruleError(ErrBadDifficulty, "header bits does not match required difficulty for "+node.Hash.String())
	}

	for _, cp := range s.params.Checkpoints {
		if cp.Height == node.Height && !node.Hash.IsEqual(cp.Hash) {
			return ruleError(ErrCheckpointMismatch, "header at checkpointed height "+node.Hash.String()+" does not match checkpoint")
		}
	}

	return nil
}

// applyReorg walks back from oldTip and newTip to their lowest common
// ancestor and fires Disconnected events (in decreasing height order) for
// the blocks leaving the active chain followed by Connected events (in
// increasing height order) for the new active suffix, then a single
// Reorganized summary event.
func (s *Store) applyReorg(oldTip, newTip *BlockNode) {
	ancestor := lowestCommonAncestor(oldTip, newTip)

	logger.Infof("REORGANIZE: old tip %s height %d, new tip %s height %d, ancestor %s height %d",
		oldTip.Hash, oldTip.Height, newTip.Hash, newTip.Height, ancestor.Hash, ancestor.Height)
	logger.Tracef("reorg detail: %s", spew.Sdump(struct{ OldTip, NewTip, Ancestor *BlockNode }{oldTip, newTip, ancestor}))

	s.mu.RLock()
	subs := append([]Subscriber(nil), s.subscribers...)
	s.mu.RUnlock()

	if ancestor == oldTip {
		// Direct extension of the active chain; no blocks are
		// disconnected, only the new suffix connects.
		for _, n := range chainSuffix(ancestor, newTip) {
			for _, sub := range subs {
				sub.Connected(n)
			}
		}
		return
	}

	for n := oldTip; n != ancestor; n = n.Parent {
		for _, sub := range subs {
			sub.Disconnected(n)
		}
	}

	connectSuffix := chainSuffix(ancestor, newTip)
	for _, n := range connectSuffix {
		for _, sub := range subs {
			sub.Connected(n)
		}
	}

	for _, sub := range subs {
		sub.Reorganized(oldTip, newTip, ancestor)
	}
}

// lowestCommonAncestor finds the highest node reachable from both a and b
// by following parent links.
func lowestCommonAncestor(a, b *BlockNode) *BlockNode {
	for a.Height > b.Height {
		a = a.Parent
	}
	for b.Height > a.Height {
		b = b.Parent
	}
	for a != b {
		a = a.Parent
		b = b.Parent
	}
	return a
}

// chainSuffix returns the nodes strictly after ancestor through tip,
// ordered from lowest height to highest.
func chainSuffix(ancestor, tip *BlockNode) []*BlockNode {
	var suffix []*BlockNode
	for n := tip; n != ancestor; n = n.Parent {
		suffix = append(suffix, n)
	}
	for i, j := 0, len(suffix)-1; i < j; i, j = i+1, j-1 {
		suffix[i], suffix[j] = suffix[j], suffix[i]
	}
	return suffix
}

// BlockLocator builds a sparse, exponentially-spaced list of block ids
// descending from the active tip, used to ask a peer for headers it has
// that the local store does not. Step doubles after the first ten entries
// so the locator stays compact even for a chain millions of blocks deep.
func (s *Store) BlockLocator() []*chainhash.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockLocatorFromLocked(s.tip)
}

func (s *Store) blockLocatorFromLocked(start *BlockNode) []*chainhash.Hash {
	var locator []*chainhash.Hash

	step := int32(1)
	node := start
	for node != nil {
		hash := node.Hash
		locator = append(locator, &hash)

		if node.Height == 0 {
			break
		}

		height := node.Height - step
		if len(locator) >= 10 {
			step *= 2
		}
		node = node.ancestorAt(maxInt32(height, 0))
	}

	return locator
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
