package correlation

import (
	"math"
	"testing"
)

func TestBuilderIdenticalRowsYieldUnitCorrelation(t *testing.T) {
	b := NewBuilder([]string{"x", "y"})
	for i := 0; i < 50; i++ {
		v := float64(i)
		b.AddSample([]float64{v, v})
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := m.At(0, 1); math.Abs(got-1) > 1e-9 {
		t.Errorf("correlation of identical columns = %v, want ~1", got)
	}
	if got := m.At(0, 0); math.Abs(got-1) > 1e-9 {
		t.Errorf("diagonal = %v, want 1", got)
	}
}

func TestBuilderMatrixIsSymmetricAndBounded(t *testing.T) {
	b := NewBuilder([]string{"a", "b", "c"})
	vals := [][]float64{
		{1, 5, 2}, {2, 3, 9}, {3, 8, 1}, {4, 1, 4}, {5, 6, 7}, {6, 2, 3},
	}
	for _, row := range vals {
		b.AddSample(row)
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	for i := 0; i < m.Dim; i++ {
		for j := 0; j < m.Dim; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > 1e-9 {
				t.Errorf("matrix not symmetric at (%d,%d): %v vs %v", i, j, m.At(i, j), m.At(j, i))
			}
			if m.At(i, j) > 1+1e-9 || m.At(i, j) < -1-1e-9 {
				t.Errorf("entry (%d,%d) = %v out of [-1,1]", i, j, m.At(i, j))
			}
		}
	}
}

func TestBuilderConstantColumnIsZeroed(t *testing.T) {
	b := NewBuilder([]string{"constant", "varies"})
	for i := 0; i < 20; i++ {
		b.AddSample([]float64{42, float64(i)})
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got := m.At(0, 1); got != 0 {
		t.Errorf("correlation with constant column = %v, want 0", got)
	}
}

func TestBuilderEmptyInputFails(t *testing.T) {
	b := NewBuilder([]string{"x", "y"})
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}

func TestBuilderRaggedInputFails(t *testing.T) {
	b := NewBuilder([]string{"x", "y"})
	b.AddSample([]float64{1, 2})
	b.reservoir.Items[0] = []float64{1, 2, 3} // force a ragged row past AddSample's copy
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for ragged input, got nil")
	}
}

func TestBuilderNoColumnsFails(t *testing.T) {
	b := NewBuilder(nil)
	b.AddSample(nil)
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for zero columns, got nil")
	}
}
