// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"

	rotator "github.com/jrick/logrotate/rotator"

	"github.com/spvbridge/spvd/blockchain"
	"github.com/spvbridge/spvd/bloom"
	"github.com/spvbridge/spvd/log"
	"github.com/spvbridge/spvd/peer"
	"github.com/spvbridge/spvd/rpc"
	"github.com/spvbridge/spvd/spvsync"
	"github.com/spvbridge/spvd/storage/leveldb"
	"github.com/spvbridge/spvd/wire"
)

// logRotator rotates the log file spvd writes to, once initLogRotator has
// been called.
var logRotator *rotator.Rotator

var backend = log.NewBackend(os.Stdout)

var (
	wireLog  = backend.Logger("WIRE")
	chainLog = backend.Logger("CHAN")
	bloomLog = backend.Logger("BLOM")
	peerLog  = backend.Logger("PEER")
	syncLog  = backend.Logger("SYNC")
	storeLog = backend.Logger("STOR")
	rpcLog   = backend.Logger("RPCS")
)

// subsystemLoggers maps each package's logger so setLogLevel can adjust
// them all from a single --debuglevel flag.
var subsystemLoggers = map[string]log.Logger{
	"WIRE": wireLog,
	"CHAN": chainLog,
	"BLOM": bloomLog,
	"PEER": peerLog,
	"SYNC": syncLog,
	"STOR": storeLog,
	"RPCS": rpcLog,
}

func init() {
	wire.UseLogger(wireLog)
	blockchain.UseLogger(chainLog)
	bloom.UseLogger(bloomLog)
	peer.UseLogger(peerLog)
	spvsync.UseLogger(syncLog)
	leveldb.UseLogger(storeLog)
	rpc.UseLogger(rpcLog)
}

// initLogRotator initializes the logging rotator to write logs to
// logFile and creates the directory if it doesn't already exist. It
// replaces the package's stdout-only backend writer with an io.Writer
// that fans out to both stdout and the rotator, matching the reference
// daemon's logging setup.
func initLogRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return err
	}

	logRotator = r
	backend.SetWriter(io.MultiWriter(os.Stdout, logWriter{}))
	return nil
}

// logWriter implements io.Writer by forwarding to logRotator, so the
// backend can be constructed before the rotator exists and still pick it
// up transparently once initLogRotator runs.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

// setLogLevel sets the logging level for every subsystem logger.
func setLogLevel(levelString string) {
	level, ok := log.LevelFromString(levelString)
	if !ok {
		return
	}
	for _, l := range subsystemLoggers {
		l.SetLevel(level)
	}
}
