// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// scanctl drives a polygon laser scanner's motion and scanline
// hardware over a fixed command/word wire protocol.
package main

import (
	"fmt"
	"os"

	"github.com/kbw/scanctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
