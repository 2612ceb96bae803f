// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

// State identifies where a Peer sits in its connection lifecycle (§4.4):
//
//	Connecting --(socket open)--> Handshaking
//	Handshaking --(version+verack both ways)--> Connected
//	any --(socket error | protocol error | timeout)--> Disconnected
type State int32

const (
	StateConnecting State = iota
	StateHandshaking
	StateConnected
	StateDisconnected
)

var stateStrings = map[State]string{
	StateConnecting:   "Connecting",
	StateHandshaking:  "Handshaking",
	StateConnected:    "Connected",
	StateDisconnected: "Disconnected",
}

// String returns the State in human-readable form.
func (s State) String() string {
	if str, ok := stateStrings[s]; ok {
		return str
	}
	return "Unknown"
}
