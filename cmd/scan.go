// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbw/scanctl/pkg/wire"
	"github.com/spf13/cobra"
)

var bitsFile string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a full scan lifecycle against a bitmap file",
	Long: `Enables the polygon motor, waits spinup_s for the motor to reach
speed, then polls read_state for the photodiode-sync bit until stable_s
elapses. Once stable, reads --bits-file one line of bits_per_line bits
at a time (one non-whitespace '0'/'1' byte per bit) and streams them as
LASERLINE instructions, marking the last line final, then stops the
polygon motor.

With --single-line, only the file's first line is submitted; the
device repeats that pattern until stop instead of the host streaming
further lines. With --single-facet, the host paces submission of
successive lines to one per facets facet-sync pulses, matching the
device's per-rotation facet gating.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&bitsFile, "bits-file", "", "Path to a bit-per-line text file ('0'/'1' per bit, one line per scanline)")
	scanCmd.MarkFlagRequired("bits-file")
}

// syncBit reports whether the photodiode-sync bit of a read_state
// reply word is set. Bit 0 is used here, matching the auxiliary pin
// snapshot's lowest bit convention used elsewhere in this package.
func syncBit(word uint64) bool {
	return word&1 != 0
}

func runScan(cmd *cobra.Command, args []string) error {
	s, connInfo, err := OpenSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection error: %v\n", err)
		os.Exit(2)
	}
	defer s.Close()
	fmt.Printf("Connection: %s\n", connInfo)

	f, err := os.Open(bitsFile)
	if err != nil {
		return fmt.Errorf("open bits file: %w", err)
	}
	defer f.Close()

	ctx := context.Background()
	p := s.Params()

	fmt.Printf("enabling polygon motor\n")
	if err := s.SetPins(ctx, wire.PinVector(true, false, false)); err != nil {
		return fmt.Errorf("pins: %w", err)
	}

	fmt.Printf("spin-up: waiting %.3fs\n", p.SpinupS)
	time.Sleep(time.Duration(p.SpinupS * float64(time.Second)))

	fmt.Printf("waiting for facet sync (stable_s=%.3fs)\n", p.StableS)
	if err := s.WaitStable(ctx, p.StableS, syncBit); err != nil {
		s.SetPins(ctx, 0)
		return fmt.Errorf("sync: %w", err)
	}

	lines, err := readBitLines(f, int(p.BitsPerLine()))
	if err != nil {
		s.SetPins(ctx, 0)
		return err
	}

	if p.SingleLine {
		if err := s.Scanline(ctx, lines[0], false); err != nil {
			s.SetPins(ctx, 0)
			return fmt.Errorf("scanline: %w", err)
		}
		fmt.Printf("single-line mode: holding pattern (%d additional lines in file ignored)\n", len(lines)-1)
	} else {
		for i, bits := range lines {
			if i > 0 {
				if err := s.WaitFacetSync(ctx, p.FacetSyncsPerLine(), syncBit); err != nil {
					s.SetPins(ctx, 0)
					return fmt.Errorf("facet sync before scanline %d: %w", i, err)
				}
			}
			final := i == len(lines)-1
			if err := s.Scanline(ctx, bits, final); err != nil {
				s.SetPins(ctx, 0)
				return fmt.Errorf("scanline %d: %w", i, err)
			}
		}
		fmt.Printf("streamed %d scanlines\n", len(lines))
	}

	fmt.Println("stopping")
	if err := s.Stop(ctx); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	fmt.Println("disabling polygon motor")
	if err := s.SetPins(ctx, 0); err != nil {
		return fmt.Errorf("pins (stop): %w", err)
	}
	return nil
}

// readBitLines reads one []bool per non-empty line of r, where each
// byte is '0' or '1'. A line longer than bitsPerLine is rejected by
// scanline.Build; shorter lines are padded with zero bits there too.
func readBitLines(r io.Reader, bitsPerLine int) ([][]bool, error) {
	scanner := bufio.NewScanner(r)
	var lines [][]bool
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}
		bits := make([]bool, len(text))
		for i, c := range text {
			switch c {
			case '1':
				bits[i] = true
			case '0':
				bits[i] = false
			default:
				return nil, fmt.Errorf("bits file: unexpected character %q", c)
			}
		}
		lines = append(lines, bits)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read bits file: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("bits file: no scanlines")
	}
	return lines, nil
}
