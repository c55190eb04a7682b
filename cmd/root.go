// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// SPI connection flags
	spiBus   string
	resetPin string

	// Serial bridge connection flags
	portName string
	baudRate int

	// WebSocket bridge connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Parameter model flags
	rpm         float64
	startFrac   float64
	endFrac     float64
	facets      int
	motors      int
	fMotor      float64
	laserHz     float64
	ticksMove   uint64
	spinupS     float64
	stableS     float64
	backward    bool
	singleLine  bool
	singleFacet bool
)

var rootCmd = &cobra.Command{
	Use:   "scanctl",
	Short: "Polygon laser scanner controller",
	Long: `scanctl drives a polygon laser scanner's motion and scanline
hardware over a fixed 9-byte command/word wire protocol.

Connection modes:
  SPI:    --spi-bus <name> [--reset-pin <gpio>]
  Serial: --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --ws-url ws://host/path [--ws-username user]

For WebSocket authentication, the password is read from the
SCANCTL_WS_PASSWORD environment variable, or prompted interactively if
not set. There is intentionally no --password flag, to avoid leaking
credentials in shell history.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&spiBus, "spi-bus", "", "Local SPI bus name (empty selects the first available)")
	rootCmd.PersistentFlags().StringVar(&resetPin, "reset-pin", "", "GPIO pin name to pulse on open (SPI only)")

	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial bridge device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial bridge only)")

	rootCmd.PersistentFlags().StringVar(&wsURL, "ws-url", "", "WebSocket bridge URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "ws-username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().Float64Var(&rpm, "rpm", 2000, "Polygon rotation speed")
	rootCmd.PersistentFlags().Float64Var(&startFrac, "start", 0.35, "Active window start fraction of a facet")
	rootCmd.PersistentFlags().Float64Var(&endFrac, "end", 0.7, "Active window end fraction of a facet")
	rootCmd.PersistentFlags().IntVar(&facets, "facets", 4, "Polygon facet count")
	rootCmd.PersistentFlags().IntVar(&motors, "motors", 3, "Motor count")
	rootCmd.PersistentFlags().Float64Var(&fMotor, "f-motor", 1_000_000, "Motor sample frequency in Hz")
	rootCmd.PersistentFlags().Float64Var(&laserHz, "laser-hz", 40_000, "Laser bit clock in Hz")
	rootCmd.PersistentFlags().Uint64Var(&ticksMove, "ticks-move", 10_000, "Maximum ticks per move segment")
	rootCmd.PersistentFlags().Float64Var(&spinupS, "spinup", 10, "Spin-up wait, seconds")
	rootCmd.PersistentFlags().Float64Var(&stableS, "stable", 1.125, "Stable-sync wait, seconds")
	rootCmd.PersistentFlags().BoolVar(&backward, "backward", false, "Transmit scanline bits MSB-first instead of LSB-first")
	rootCmd.PersistentFlags().BoolVar(&singleLine, "single-line", false, "Hold one scanline pattern until stop instead of streaming the bits file")
	rootCmd.PersistentFlags().BoolVar(&singleFacet, "single-facet", false, "Expose only one polygon facet per rotation; pace scanline submission to one per facets syncs")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
