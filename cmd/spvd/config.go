// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/spvbridge/spvd/chaincfg"
)

const (
	defaultConfigFilename = "spvd.conf"
	defaultDataDirname    = "data"
	defaultLogFilename    = "spvd.log"
	defaultLogLevel       = "info"
	defaultMaxPeers       = 8
)

var (
	defaultHomeDir    = appDataDir("spvd", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, "logs")
)

// config defines the command line and config file options spvd accepts.
// The shape and two-pass parsing strategy below follow the reference
// daemon's own configuration loader.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir    string `short:"b" long:"datadir" description:"Directory to store headers and partial merkle trees"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	LogLevel   string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`

	TestNet3       bool `long:"testnet" description:"Connect to testnet"`
	RegressionTest bool `long:"regtest" description:"Connect to the regression test network"`
	SimNet         bool `long:"simnet" description:"Connect to the simulation test network"`

	AddPeers       []string `short:"a" long:"addpeer" description:"Add a peer to connect with at startup"`
	MaxPeers       int      `long:"maxpeers" description:"Max number of outbound peers to dial at startup"`
	DisableDNSSeed bool     `long:"nodnsseed" description:"Disable DNS seeding for peers"`

	FilterFalsePositiveRate float64 `long:"filterfprate" description:"False positive rate for the uploaded bloom filter"`

	RPCListen string `long:"rpclisten" description:"Host:port to serve websocket chain notifications on (empty disables)"`

	chainParams *chaincfg.Params
}

// normalizeAddresses appends the network's default peer port to any
// address in addrs that does not already specify one.
func normalizeAddresses(addrs []string, defaultPort string) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if _, _, err := splitHostPort(a); err != nil {
			a = a + ":" + defaultPort
		}
		out = append(out, a)
	}
	return out
}

// loadConfig reads command line flags and, unless overridden, an ini-style
// configuration file, the same two-pass approach (pre-parse for
// --configfile, then an ini pass, then a final command-line pass so flags
// take precedence) the reference CLI's loader uses.
func loadConfig() (*config, error) {
	cfg := config{
		ConfigFile: defaultConfigFile,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		LogLevel:   defaultLogLevel,
		MaxPeers:   defaultMaxPeers,
	}

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := preParser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			return nil, err
		}
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			return nil, fmt.Errorf("error parsing config file: %v", err)
		}
	}

	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	numNets := 0
	cfg.chainParams = &chaincfg.MainNetParams
	if cfg.TestNet3 {
		numNets++
		cfg.chainParams = &chaincfg.TestNet3Params
	}
	if cfg.RegressionTest {
		numNets++
		cfg.chainParams = &chaincfg.RegressionNetParams
	}
	if cfg.SimNet {
		numNets++
		cfg.chainParams = &chaincfg.SimNetParams
	}
	if numNets > 1 {
		return nil, fmt.Errorf("the testnet, regtest, and simnet params can't be used together -- choose one")
	}

	funcName := "loadConfig"
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	// Each network gets its own subdirectory so switching --testnet on
	// and off never mixes header chains from different networks.
	cfg.DataDir = filepath.Join(cfg.DataDir, netName(cfg.chainParams))
	cfg.LogDir = filepath.Join(cfg.LogDir, netName(cfg.chainParams))

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("%s: %v", funcName, err)
	}
	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		return nil, fmt.Errorf("%s: %v", funcName, err)
	}

	cfg.AddPeers = normalizeAddresses(cfg.AddPeers, cfg.chainParams.DefaultPort)

	if cfg.FilterFalsePositiveRate <= 0 {
		cfg.FilterFalsePositiveRate = 0.0001
	}

	return &cfg, nil
}

// netName mirrors the reference daemon's network-to-directory-name mapping.
func netName(params *chaincfg.Params) string {
	switch params {
	case &chaincfg.TestNet3Params:
		return "testnet"
	case &chaincfg.RegressionNetParams:
		return "regtest"
	case &chaincfg.SimNetParams:
		return "simnet"
	default:
		return "mainnet"
	}
}

func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}
