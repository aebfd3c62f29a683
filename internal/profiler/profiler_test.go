package profiler

import (
	"testing"
	"time"

	"github.com/Pragadeesh-19/replidb/internal/schema"
)

func TestExtractNumericValue(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		dt   schema.DataType
		raw  any
		want float64
	}{
		{"float64", schema.Float, float64(3.5), 3.5},
		{"float32", schema.Float, float32(2.5), 2.5},
		{"int64", schema.Integer, int64(42), 42},
		{"int32", schema.Integer, int32(7), 7},
		{"int", schema.Integer, 9, 9},
		{"bytes", schema.Float, []byte("12.5"), 12.5},
		{"string", schema.Float, "8", 8},
		{"time.Time", schema.Timestamp, ts, float64(ts.Unix())},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractNumericValue(tc.dt, tc.raw)
			if err != nil {
				t.Fatalf("extractNumericValue(%v) error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("extractNumericValue(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestExtractNumericValueUnsupported(t *testing.T) {
	if _, err := extractNumericValue(schema.Float, true); err == nil {
		t.Fatal("expected error for unsupported type, got nil")
	}
}

func TestExtractNumericValueBadString(t *testing.T) {
	if _, err := extractNumericValue(schema.Float, "not-a-number"); err == nil {
		t.Fatal("expected error for unparseable string, got nil")
	}
}

func TestExtractCategoricalValue(t *testing.T) {
	ts := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		raw  any
		want string
	}{
		{"string", "hello", "hello"},
		{"bytes", []byte("world"), "world"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"time.Time", ts, ts.Format(time.RFC3339)},
		{"int fallback", 99, "99"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractCategoricalValue(tc.raw)
			if got != tc.want {
				t.Errorf("extractCategoricalValue(%v) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
