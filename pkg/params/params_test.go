// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package params

import "testing"

func TestNew_ScanlineGeometry(t *testing.T) {
	// rpm=2400, facets=4, F_MOTOR=1e6, start=0.35, end=0.85 ->
	// ticks_per_facet=6250, window=3125; ticks_per_half_step=5 ->
	// bits_per_line=625, words_per_line=10.
	p, err := New(Parameters{
		RPM:       2400,
		StartFrac: 0.35,
		EndFrac:   0.85,
		Facets:    4,
		FMotor:    1_000_000,
		TicksMove: 10_000,
		Motors:    3,
		LaserHz:   200_000,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.TicksPerFacet() != 6250 {
		t.Errorf("TicksPerFacet() = %d, want 6250", p.TicksPerFacet())
	}
	if p.WindowTicks() != 3125 {
		t.Errorf("WindowTicks() = %d, want 3125", p.WindowTicks())
	}
	if p.TicksPerHalfStep() != 5 {
		t.Errorf("TicksPerHalfStep() = %d, want 5", p.TicksPerHalfStep())
	}
	if p.BitsPerLine() != 625 {
		t.Errorf("BitsPerLine() = %d, want 625", p.BitsPerLine())
	}
	if p.WordsPerLine() != 10 {
		t.Errorf("WordsPerLine() = %d, want 10", p.WordsPerLine())
	}
}

func TestNew_WindowUnaligned(t *testing.T) {
	_, err := New(Parameters{
		RPM:       2400,
		StartFrac: 0.35,
		EndFrac:   0.85,
		Facets:    4,
		FMotor:    1_000_000,
		TicksMove: 10_000,
		Motors:    3,
		LaserHz:   333_333, // ticks_per_half_step=3, 3125 % 3 != 0
	})
	if err == nil {
		t.Fatal("expected WindowUnaligned-style rejection")
	}
}

func TestNew_Validation(t *testing.T) {
	base := Defaults()

	tests := []struct {
		name string
		mod  func(*Parameters)
	}{
		{"start >= end", func(p *Parameters) { p.StartFrac, p.EndFrac = 0.7, 0.35 }},
		{"start not positive", func(p *Parameters) { p.StartFrac = 0 }},
		{"end not below one", func(p *Parameters) { p.EndFrac = 1 }},
		{"zero facets", func(p *Parameters) { p.Facets = 0 }},
		{"zero rpm", func(p *Parameters) { p.RPM = 0 }},
		{"zero motors", func(p *Parameters) { p.Motors = 0 }},
		{"ticks_move overflow", func(p *Parameters) { p.TicksMove = maxTicksMove + 1 }},
		{"zero f_motor", func(p *Parameters) { p.FMotor = 0 }},
		{"zero laser_hz", func(p *Parameters) { p.LaserHz = 0 }},
		{"single_facet with one facet", func(p *Parameters) { p.SingleFacet, p.Facets = true, 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mod(&p)
			if _, err := New(p); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDefaults_Valid(t *testing.T) {
	if _, err := New(Defaults()); err != nil {
		t.Fatalf("Defaults() should validate cleanly: %v", err)
	}
}

func TestFacetSyncsPerLine(t *testing.T) {
	base := Defaults()

	p, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.FacetSyncsPerLine(); got != 1 {
		t.Errorf("FacetSyncsPerLine() = %d, want 1 (single_facet off)", got)
	}

	single := base
	single.SingleFacet = true
	p, err = New(single)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := p.FacetSyncsPerLine(), single.Facets; got != want {
		t.Errorf("FacetSyncsPerLine() = %d, want %d (one per facets syncs)", got, want)
	}
}
