package model

import "testing"

func TestParseCPU(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"500m", 0.5},
		{"2", 2},
		{"1500m", 1.5},
		{"0.25", 0.25},
	}
	for _, tt := range tests {
		got, err := ParseCPU(tt.in)
		if err != nil {
			t.Fatalf("ParseCPU(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCPU(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseCPU("lots"); err == nil {
		t.Errorf("expected error for invalid quantity")
	}
}

func TestParseMemoryMB(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"512Mi", 512},
		{"1Gi", 1024},
		{"256M", 244},
	}
	for _, tt := range tests {
		got, err := ParseMemoryMB(tt.in)
		if err != nil {
			t.Fatalf("ParseMemoryMB(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMemoryMB(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
