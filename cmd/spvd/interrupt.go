// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"
)

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// interruptListener returns a channel that is closed when the first
// interrupt signal (SIGINT, or SIGTERM on platforms that define it) is
// received. A second signal exits the process immediately with status 1.
func interruptListener() <-chan struct{} {
	c := make(chan struct{})
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, interruptSignals...)

		<-sigs
		rpcLog.Info("received interrupt, shutting down")
		close(c)

		// A second signal forces an immediate, ungraceful exit.
		<-sigs
		os.Exit(1)
	}()
	return c
}
