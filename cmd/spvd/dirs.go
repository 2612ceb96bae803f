// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appDataDir returns the default application data directory for the
// running OS, following the same per-platform convention as the reference
// daemon's chainutil.AppDataDir: %LOCALAPPDATA% on Windows, Library/Application
// Support on macOS, ~/appname on Plan 9, and ~/.appname elsewhere.
func appDataDir(appName string, roaming bool) string {
	if appName == "" || appName == "." {
		return "."
	}

	appName = strings.TrimPrefix(appName, ".")
	appNameUpper := strings.ToUpper(appName[:1]) + appName[1:]
	appNameLower := strings.ToLower(appName[:1]) + appName[1:]

	switch runtime.GOOS {
	case "windows":
		env := "LOCALAPPDATA"
		if roaming {
			env = "APPDATA"
		}
		if dir := os.Getenv(env); dir != "" {
			return filepath.Join(dir, appNameUpper)
		}
		return filepath.Join(".", appNameUpper)

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(".", appNameUpper)
		}
		return filepath.Join(home, "Library", "Application Support", appNameUpper)

	case "plan9":
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(".", appNameLower)
		}
		return filepath.Join(home, appNameLower)

	default:
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(".", appNameLower)
		}
		return filepath.Join(home, "."+appNameLower)
	}
}

// splitHostPort wraps net.SplitHostPort so config.go doesn't need to import
// net directly just for address normalization.
func splitHostPort(addr string) (string, string, error) {
	return net.SplitHostPort(addr)
}
