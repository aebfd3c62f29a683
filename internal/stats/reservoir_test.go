package stats

import "testing"

func TestReservoirBelowCapacity(t *testing.T) {
	r := NewReservoir[int](10)
	for i := 0; i < 5; i++ {
		r.Add(i)
	}
	if r.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", r.Len())
	}
	if r.TotalSeen != 5 {
		t.Fatalf("TotalSeen = %d, want 5", r.TotalSeen)
	}
}

func TestReservoirSaturatesAtCapacity(t *testing.T) {
	r := NewReservoir[int](10)
	for i := 0; i < 1000; i++ {
		r.Add(i)
	}
	if r.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", r.Len())
	}
	if r.TotalSeen != 1000 {
		t.Fatalf("TotalSeen = %d, want 1000", r.TotalSeen)
	}
}

func TestReservoirUniformity(t *testing.T) {
	const n, capacity, trials = 200, 20, 4000
	counts := make([]int, n)

	for trial := 0; trial < trials; trial++ {
		r := NewReservoir[int](capacity)
		for i := 0; i < n; i++ {
			r.Add(i)
		}
		for _, v := range r.Items {
			counts[v]++
		}
	}

	expected := float64(trials*capacity) / float64(n)
	for i, c := range counts {
		ratio := float64(c) / expected
		if ratio < 0.7 || ratio > 1.3 {
			t.Errorf("item %d selected %d times, expected ~%.0f (ratio %.2f out of tolerance)", i, c, expected, ratio)
		}
	}
}

func TestNewReservoirDefaultsNonPositiveCapacity(t *testing.T) {
	r := NewReservoir[int](0)
	if r.Capacity != DefaultReservoirCapacity {
		t.Fatalf("Capacity = %d, want %d", r.Capacity, DefaultReservoirCapacity)
	}
}
