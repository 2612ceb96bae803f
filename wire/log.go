// Copyright (c) 2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/spvbridge/spvd/log"

// logger is a logger that is initialized with no output filters.  This
// means the package will not perform any logging by default until the
// caller requests it. The resumable frame decoder uses it to record
// resync events at trace level without requiring every caller to observe
// them through a return value.
var logger log.Logger = log.Disabled

// DisableLog disables all library log output.  Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	logger = log.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(l log.Logger) {
	logger = l
}
