// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "One-shot read of device state and motor positions",
	Long: `Opens the selected transport, issues a single read_state exchange
and one read_position exchange per motor, prints the result, and exits.

Exit codes:
  0 - status read successfully
  2 - connection or device error`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, connInfo, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()

	fmt.Printf("scanctl - Status\n")
	fmt.Printf("Connection: %s\n\n", connInfo)

	status, pins, err := s.ReadState(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "read_state error: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("State:\n")
	fmt.Printf("  version:        %d\n", status.Version())
	fmt.Printf("  executing:      %v\n", status.Executing())
	fmt.Printf("  memory_full:    %v\n", status.MemoryFull())
	fmt.Printf("  parse_error:    %v\n", status.ParseError())
	fmt.Printf("  dispatch_error: %v\n", status.DispatchError())
	fmt.Printf("  pins:           0x%X\n\n", pins)

	positions, err := s.ReadPosition(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "read_position error: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Positions:\n")
	for i, p := range positions {
		fmt.Printf("  motor %d: %d\n", i, p)
	}

	return nil
}
