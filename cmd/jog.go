// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var jogStep uint64

var jogCmd = &cobra.Command{
	Use:   "jog",
	Short: "Interactive arrow-key jog control",
	Long: `Puts the terminal in raw mode and submits a small single-motor move
on each arrow-key press: left/right move the first motor by -/+
--step ticks at a constant velocity (c0 only; c1=c2=0). Any other key
exits.

This has no analogue in the original host tooling; it is a convenience
wrapper the terminal-handling stack already in this module (used
elsewhere for the WebSocket bridge's password prompt) makes natural to
add.`,
	RunE: runJog,
}

func init() {
	rootCmd.AddCommand(jogCmd)
	jogCmd.Flags().Uint64Var(&jogStep, "step", 200, "Ticks moved per arrow-key press")
}

const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
)

func runJog(cmd *cobra.Command, args []string) error {
	s, connInfo, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Println("Arrow keys jog motor 0. Any other key exits.")

	fd := int(syscall.Stdin)
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	ctx := context.Background()
	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return nil
		}

		var coef int64
		switch {
		case n == 3 && buf[0] == keyEscape && buf[1] == '[' && buf[2] == 'C': // right
			coef = int64(jogStep)
		case n == 3 && buf[0] == keyEscape && buf[1] == '[' && buf[2] == 'D': // left
			coef = -int64(jogStep)
		case buf[0] == keyCtrlC:
			return nil
		default:
			return nil
		}

		coefs := make([][3]int64, s.Params().Motors)
		coefs[0] = [3]int64{coef, 0, 0}

		term.Restore(fd, oldState)
		err = s.Move(ctx, 1, coefs)
		oldState, _ = term.MakeRaw(fd)
		if err != nil {
			term.Restore(fd, oldState)
			fmt.Fprintf(os.Stderr, "\r\nmove error: %v\r\n", err)
			return nil
		}
	}
}
