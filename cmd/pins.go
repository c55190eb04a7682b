// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kbw/scanctl/pkg/wire"
	"github.com/spf13/cobra"
)

var (
	pinPolygon bool
	pinLaser0  bool
	pinLaser1  bool
)

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Submit a pin-vector instruction",
	Long:  `Sets the polygon motor enable and laser pins in one PIN instruction.`,
	RunE:  runPins,
}

func init() {
	rootCmd.AddCommand(pinsCmd)
	pinsCmd.Flags().BoolVar(&pinPolygon, "polygon", false, "Enable the polygon motor")
	pinsCmd.Flags().BoolVar(&pinLaser0, "laser0", false, "Enable laser channel 0")
	pinsCmd.Flags().BoolVar(&pinLaser1, "laser1", false, "Enable laser channel 1")
}

func runPins(cmd *cobra.Command, args []string) error {
	s, connInfo, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()
	fmt.Printf("Connection: %s\n", connInfo)

	vector := wire.PinVector(pinPolygon, pinLaser0, pinLaser1)
	if err := s.SetPins(context.Background(), vector); err != nil {
		fmt.Fprintf(os.Stderr, "pins error: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("pins set: 0x%02X\n", vector)
	return nil
}
