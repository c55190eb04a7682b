// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kbw/scanctl/pkg/tracelog"
	"github.com/kbw/scanctl/pkg/wire"
	"github.com/spf13/cobra"
)

var (
	traceOut    string
	tracePollMs int
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Record a CBOR frame trace while polling device state",
	Long: `Continuously issues read_state exchanges against the device and
records every frame/reply pair to --out as a CBOR entry stream, for
offline replay against pkg/tracelog.Player in tests or diagnostics.

Press Ctrl+C to stop.`,
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().StringVar(&traceOut, "out", "trace.cbor", "Output trace file")
	traceCmd.Flags().IntVar(&tracePollMs, "poll-ms", 100, "Milliseconds between read_state polls")
}

func runTrace(cmd *cobra.Command, args []string) error {
	t, connInfo, err := OpenTransport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection error: %v\n", err)
		os.Exit(2)
	}
	defer t.Close()
	fmt.Printf("Connection: %s\n", connInfo)

	out, err := os.Create(traceOut)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer out.Close()

	rec := tracelog.NewRecorder(t, out)
	fmt.Printf("recording to %s, polling every %dms (Ctrl+C to stop)\n", traceOut, tracePollMs)

	ctx := context.Background()
	for {
		reply, err := rec.Exchange(ctx, wire.Frame{Command: wire.CmdRead})
		if err != nil {
			log.Printf("exchange error: %v", err)
			return nil
		}
		fmt.Printf("status=0x%02X word=0x%016X\n", byte(reply.Status), reply.Word)
		time.Sleep(time.Duration(tracePollMs) * time.Millisecond)
	}
}
