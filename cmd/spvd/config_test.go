// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spvbridge/spvd/chaincfg"
)

func TestNetName(t *testing.T) {
	require.Equal(t, "mainnet", netName(&chaincfg.MainNetParams))
	require.Equal(t, "testnet", netName(&chaincfg.TestNet3Params))
	require.Equal(t, "regtest", netName(&chaincfg.RegressionNetParams))
	require.Equal(t, "simnet", netName(&chaincfg.SimNetParams))
}

func TestNormalizeAddresses(t *testing.T) {
	addrs := normalizeAddresses([]string{"1.2.3.4", "5.6.7.8:9999"}, "15213")
	require.Equal(t, []string{"1.2.3.4:15213", "5.6.7.8:9999"}, addrs)
}

func TestCleanAndExpandPath(t *testing.T) {
	require.Equal(t, "a/b", cleanAndExpandPath("a/b/"))
}
