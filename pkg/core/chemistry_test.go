package core

import (
	"math"
	"testing"
)

func TestNeutralMass(t *testing.T) {
	tests := []struct {
		name   string
		mz     float64
		charge int
		want   float64
	}{
		{"[M+H]+", 195.0877, 1, 195.0877 - ProtonMass},
		{"[M-H]-", 205.1234, -1, 205.1234 + ProtonMass},
		{"[M+2H]2+", 300.0, 2, 600.0 - 2*ProtonMass},
		{"no charge", 300.0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NeutralMass(tt.mz, tt.charge)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NeutralMass(%v, %d) = %.6f, want %.6f", tt.mz, tt.charge, got, tt.want)
			}
		})
	}
}

func TestRoundFloat(t *testing.T) {
	if got := RoundFloat(194.080376, 3); got != 194.08 {
		t.Errorf("RoundFloat() = %v, want 194.08", got)
	}
}
