// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command spvd is a standalone SPV node: it tracks the best header chain
// from a small pool of peers, downloads and verifies the filtered blocks
// and partial merkle trees matching a caller-supplied bloom filter, and
// relays the results over an optional local websocket feed. It wires
// together every package in this module the way the reference full node's
// flokicoind.go wires together its own subsystems, minus the components
// this client deliberately omits -- full block/UTXO validation, mempool,
// and mining.
package main

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spvbridge/spvd/blockchain"
	"github.com/spvbridge/spvd/bloom"
	"github.com/spvbridge/spvd/peer"
	"github.com/spvbridge/spvd/rpc"
	"github.com/spvbridge/spvd/spvsync"
	"github.com/spvbridge/spvd/storage/leveldb"
	"github.com/spvbridge/spvd/wire"
)

// filterAdapter renames bloom.Filter's MsgFilterLoad to satisfy
// peer.FilterProvider, whose FilterLoadMsg name predates this filter
// package and was never reconciled with it.
type filterAdapter struct{ f *bloom.Filter }

func (a filterAdapter) FilterLoadMsg() *wire.MsgFilterLoad {
	return a.f.MsgFilterLoad()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename)); err != nil {
		return fmt.Errorf("failed to init log rotator: %v", err)
	}
	setLogLevel(cfg.LogLevel)

	dbPath := filepath.Join(cfg.DataDir, "chain.db")
	store, err := leveldb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open chain database: %v", err)
	}
	defer store.Close()

	chain, err := loadChainStore(cfg, store)
	if err != nil {
		return fmt.Errorf("failed to load chain: %v", err)
	}

	subscriber := buildSubscriber(cfg)

	syncCfg := spvsync.Config{
		ChainParams: cfg.chainParams,
		Persister:   store,
		MaxPeers:    cfg.MaxPeers,
	}
	coordinator := spvsync.NewCoordinator(syncCfg, chain, subscriber)
	coordinator.Run()
	defer coordinator.Stop()

	filter := bloom.NewFilter(1000, randomTweak(), cfg.FilterFalsePositiveRate, wire.BloomUpdateAll)

	addrs, err := collectPeerAddrs(cfg)
	if err != nil {
		return fmt.Errorf("failed to gather peer addresses: %v", err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("no peer addresses available: specify --addpeer or enable DNS seeding")
	}

	dialed := 0
	for _, addr := range addrs {
		if dialed >= cfg.MaxPeers {
			break
		}
		if err := dialPeer(cfg, coordinator, chain, filter, addr); err != nil {
			peerLog.Warnf("failed to dial %s: %v", addr, err)
			continue
		}
		dialed++
	}
	if dialed == 0 {
		return fmt.Errorf("failed to connect to any peer")
	}

	rpcLog.Infof("spvd started on %s, connected to %d peer(s)", netName(cfg.chainParams), dialed)

	<-interruptListener()
	return nil
}

// buildSubscriber always includes the log subscriber, and additionally
// starts and wires a websocket notifier when --rpclisten is set.
func buildSubscriber(cfg *config) spvsync.ChainSubscriber {
	subs := fanoutSubscriber{logSubscriber{}}

	if cfg.RPCListen != "" {
		notifier := rpc.NewNotifier()
		go func() {
			rpcLog.Infof("listening for websocket notifications on %s", cfg.RPCListen)
			if err := http.ListenAndServe(cfg.RPCListen, notifier); err != nil {
				rpcLog.Errorf("rpc listener stopped: %v", err)
			}
		}()
		subs = append(subs, notifier)
	}

	return subs
}

// loadChainStore rebuilds the header chain from the persisted snapshot if
// one exists, falling back to a fresh genesis-anchored Store on a first
// run or an empty database.
func loadChainStore(cfg *config, store *leveldb.Store) (*blockchain.Store, error) {
	iter, err := store.LoadChain()
	if err != nil {
		return nil, err
	}

	restored, err := blockchain.NewFromSnapshot(cfg.chainParams, iter)
	if err != nil {
		return nil, err
	}
	if restored.Tip().Height > 0 {
		syncLog.Infof("resumed chain from snapshot at height %d", restored.Tip().Height)
		return restored, nil
	}

	syncLog.Infof("no snapshot found, starting from genesis")
	return blockchain.New(cfg.chainParams), nil
}

// collectPeerAddrs returns the explicitly configured peers plus, unless
// disabled, every address resolved from the active network's DNS seeds.
func collectPeerAddrs(cfg *config) ([]string, error) {
	addrs := append([]string(nil), cfg.AddPeers...)

	if cfg.DisableDNSSeed {
		return addrs, nil
	}
	for _, seed := range cfg.chainParams.DNSSeeds {
		hosts, err := net.LookupHost(seed)
		if err != nil {
			peerLog.Warnf("dns seed %s lookup failed: %v", seed, err)
			continue
		}
		for _, h := range hosts {
			addrs = append(addrs, net.JoinHostPort(h, cfg.chainParams.DefaultPort))
		}
	}
	return addrs, nil
}

// dialPeer opens a TCP connection to addr, starts an outbound session, and
// registers it with the coordinator once constructed. The handshake and
// any subsequent bloom filter upload happen asynchronously inside the
// session's own goroutines (§5); dialPeer does not wait for either.
func dialPeer(cfg *config, coordinator *spvsync.Coordinator, chain *blockchain.Store, filter *bloom.Filter, addr string) error {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return err
	}

	peerCfg := peer.Config{
		ChainParams:           cfg.chainParams,
		Services:              0,
		DownloadBlocks:        true,
		BloomFilteringEnabled: true,
		Filter:                filterAdapter{filter},
		BestHeight:            func() int32 { return chain.Tip().Height },
		Listener:              coordinator.EventListenerFor(addr),
	}

	p := peer.NewOutboundPeer(peerCfg, conn)
	p.Start()
	coordinator.AddPeer(p)
	return nil
}

func randomTweak() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint32(time.Now().UnixNano())
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
