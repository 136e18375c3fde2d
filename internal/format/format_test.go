package format

import (
	"strings"
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"microseconds", 500 * time.Microsecond, "500µs"},
		{"milliseconds", 250 * time.Millisecond, "250ms"},
		{"seconds", 2 * time.Second, "2s"},
		{"sub-microsecond", 100 * time.Nanosecond, "0µs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatExecutionDuration(tt.duration); got != tt.want {
				t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		width    int
		contains string
	}{
		{"zero", 0.0, 10, "  0.0%"},
		{"half", 0.5, 10, " 50.0%"},
		{"full", 1.0, 10, "100.0%"},
		{"clamped above", 1.5, 10, "100.0%"},
		{"clamped below", -0.5, 10, "  0.0%"},
		{"indeterminate", IndeterminateFraction, 10, "?%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProgressBar(tt.fraction, tt.width)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("ProgressBar(%v, %d) = %q, want it to contain %q", tt.fraction, tt.width, got, tt.contains)
			}
		})
	}

	t.Run("full bar has no gap", func(t *testing.T) {
		got := ProgressBar(1.0, 8)
		if !strings.Contains(got, strings.Repeat("=", 8)) {
			t.Errorf("expected a fully filled bar, got %q", got)
		}
	})

	t.Run("minimum width enforced", func(t *testing.T) {
		got := ProgressBar(0.5, 0)
		if got == "" {
			t.Error("expected non-empty bar for width 0")
		}
	})
}

func TestFormatFraction(t *testing.T) {
	if got := FormatFraction(0.25); got != "25.0%" {
		t.Errorf("FormatFraction(0.25) = %q, want \"25.0%%\"", got)
	}
	if got := FormatFraction(IndeterminateFraction); got != "?" {
		t.Errorf("FormatFraction(indeterminate) = %q, want \"?\"", got)
	}
}
