// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	moveTicks uint64
	moveCoefs []string
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Submit a move instruction",
	Long: `Builds and submits a MOVE instruction spanning --ticks ticks, one
--coef triple per motor (repeatable, in motor order). Segmentation
against --ticks-move and Nyquist rejection are handled transparently
by the dispatcher.

Example, two motors:
  scanctl move --ticks 25000 --coef 0,0,0 --coef 100,0,0`,
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().Uint64Var(&moveTicks, "ticks", 0, "Total tick count of the move")
	moveCmd.Flags().StringArrayVar(&moveCoefs, "coef", nil, "c0,c1,c2 for one motor; repeat per motor in order")
	moveCmd.MarkFlagRequired("ticks")
	moveCmd.MarkFlagRequired("coef")
}

func parseCoefTriple(s string) ([3]int64, error) {
	var out [3]int64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("expected c0,c1,c2, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return out, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

func runMove(cmd *cobra.Command, args []string) error {
	coefs := make([][3]int64, len(moveCoefs))
	for i, s := range moveCoefs {
		c, err := parseCoefTriple(s)
		if err != nil {
			return fmt.Errorf("--coef: %w", err)
		}
		coefs[i] = c
	}

	s, connInfo, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()
	fmt.Printf("Connection: %s\n", connInfo)

	if err := s.Move(context.Background(), moveTicks, coefs); err != nil {
		fmt.Fprintf(os.Stderr, "move error: %v\n", err)
		os.Exit(2)
	}
	fmt.Println("move submitted")
	return nil
}
