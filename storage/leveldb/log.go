// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import "github.com/spvbridge/spvd/log"

// logger is initialized with no output filters; callers get no logging
// until UseLogger is invoked.
var logger log.Logger = log.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	logger = log.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(l log.Logger) {
	logger = l
}
