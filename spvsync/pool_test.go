// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeerPoolBackoffDoublesAndCaps(t *testing.T) {
	cfg := Config{BaseBackoff: time.Second, MaxBackoff: 4 * time.Second}
	cfg.setDefaults()
	p := NewPeerPool(cfg)

	now := time.Now()
	d1 := p.MarkFailed("1.2.3.4:25212", now)
	require.Equal(t, time.Second, d1)

	d2 := p.MarkFailed("1.2.3.4:25212", now)
	require.Equal(t, 2*time.Second, d2)

	d3 := p.MarkFailed("1.2.3.4:25212", now)
	require.Equal(t, 4*time.Second, d3)

	// Capped at MaxBackoff from here on.
	d4 := p.MarkFailed("1.2.3.4:25212", now)
	require.Equal(t, 4*time.Second, d4)
}

func TestPeerPoolEligibleRespectsBackoffWindow(t *testing.T) {
	cfg := Config{BaseBackoff: time.Minute, MaxBackoff: time.Minute}
	cfg.setDefaults()
	p := NewPeerPool(cfg)

	now := time.Now()
	p.MarkFailed("1.2.3.4:25212", now)

	require.False(t, p.Eligible("1.2.3.4:25212", now.Add(time.Second)))
	require.True(t, p.Eligible("1.2.3.4:25212", now.Add(2*time.Minute)))
}

func TestPeerPoolResetBackoffClearsState(t *testing.T) {
	cfg := Config{}
	cfg.setDefaults()
	p := NewPeerPool(cfg)

	now := time.Now()
	p.MarkFailed("1.2.3.4:25212", now)
	p.ResetBackoff("1.2.3.4:25212")
	require.True(t, p.Eligible("1.2.3.4:25212", now))
}

func TestPeerPoolElectDownloadPeerEmpty(t *testing.T) {
	cfg := Config{}
	cfg.setDefaults()
	p := NewPeerPool(cfg)
	require.Nil(t, p.ElectDownloadPeer())
}
