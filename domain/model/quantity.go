package model

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"
)

// ParseCPU converts a CPU quantity to cores ("500m" -> 0.5, "2" -> 2). Empty input is 0.
func ParseCPU(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("parse cpu %q: %w", s, err)
	}
	return float64(q.MilliValue()) / 1000, nil
}

// ParseMemoryMB converts a memory quantity to mebibytes ("512Mi" -> 512, "1Gi" -> 1024). Empty input is 0.
func ParseMemoryMB(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("parse memory %q: %w", s, err)
	}
	return QuantityMB(q), nil
}

// QuantityMB converts a parsed memory quantity to mebibytes, rounding down.
func QuantityMB(q resource.Quantity) int64 {
	return q.Value() / (1024 * 1024)
}

// QuantityCores converts a parsed CPU quantity to cores.
func QuantityCores(q resource.Quantity) float64 {
	return float64(q.MilliValue()) / 1000
}
