package stats

import "testing"

func TestNumericDistributionSumsToSampleCount(t *testing.T) {
	b := NewNumericDistributionBuilder()
	for _, v := range []float64{1, 2, 3, 4, 5, 10, 20, 30, 40, 50} {
		b.AddNumeric(v)
	}
	d := b.Build()

	var total uint64
	for _, f := range d.Histogram.Frequencies {
		total += f
	}
	if total != 10 {
		t.Fatalf("sum(frequencies) = %d, want 10", total)
	}
	if d.Min != 1 || d.Max != 50 {
		t.Fatalf("Min/Max = %v/%v, want 1/50", d.Min, d.Max)
	}
}

func TestNumericDistributionNoSamplesEmitsEmptyHistogram(t *testing.T) {
	b := NewNumericDistributionBuilder()
	d := b.Build()

	if len(d.Histogram.Bins) != 0 {
		t.Fatalf("len(Bins) = %d, want 0", len(d.Histogram.Bins))
	}
	if len(d.Histogram.Frequencies) != 0 {
		t.Fatalf("len(Frequencies) = %d, want 0", len(d.Histogram.Frequencies))
	}
	if d.Histogram.Type != HistogramNumeric {
		t.Fatalf("Type = %v, want %v", d.Histogram.Type, HistogramNumeric)
	}
}

func TestNumericDistributionConstantValueExpandsRange(t *testing.T) {
	b := NewNumericDistributionBuilder()
	for i := 0; i < 5; i++ {
		b.AddNumeric(7)
	}
	d := b.Build()

	if d.Min != 7 || d.Max != 7 {
		t.Fatalf("Min/Max = %v/%v, want 7/7", d.Min, d.Max)
	}
	if len(d.Histogram.Bins) != NumericHistogramBins+1 {
		t.Fatalf("len(Bins) = %d, want %d", len(d.Histogram.Bins), NumericHistogramBins+1)
	}
	if d.Histogram.Bins[len(d.Histogram.Bins)-1] != 8 {
		t.Fatalf("last bin edge = %v, want 8 (constant value expanded by 1)", d.Histogram.Bins[len(d.Histogram.Bins)-1])
	}
}

func TestNumericDistributionNullTracking(t *testing.T) {
	b := NewNumericDistributionBuilder()
	b.AddNumeric(1)
	b.AddNull()
	b.AddNull()
	d := b.Build()

	if d.TotalCount != 3 {
		t.Fatalf("TotalCount = %d, want 3", d.TotalCount)
	}
	if d.NullCount != 2 {
		t.Fatalf("NullCount = %d, want 2", d.NullCount)
	}
}

func TestCategoricalDistributionFrequencies(t *testing.T) {
	b := NewCategoricalDistributionBuilder()
	for i := 0; i < 7; i++ {
		b.AddCategorical("A")
	}
	for i := 0; i < 3; i++ {
		b.AddCategorical("B")
	}
	d := b.Build()

	if d.Histogram.CategoricalFrequencies["A"] != 7 {
		t.Fatalf("freq[A] = %d, want 7", d.Histogram.CategoricalFrequencies["A"])
	}
	if d.Histogram.CategoricalFrequencies["B"] != 3 {
		t.Fatalf("freq[B] = %d, want 3", d.Histogram.CategoricalFrequencies["B"])
	}
	if d.Histogram.Truncated {
		t.Fatalf("Truncated = true, want false (cap not reached)")
	}
	if d.UniqueCount != 2 {
		t.Fatalf("UniqueCount = %d, want 2", d.UniqueCount)
	}
}

func TestCategoricalDistributionTruncatesAtCap(t *testing.T) {
	b := NewCategoricalDistributionBuilder()
	for i := 0; i < MaxUniqueTracking; i++ {
		b.AddCategorical(string(rune('a' + i%26)) + string(rune(i)))
	}
	// One more distinct value past the cap.
	b.AddCategorical("definitely-new-and-past-the-cap")
	d := b.Build()

	if !d.Histogram.Truncated {
		t.Fatalf("Truncated = false, want true after exceeding the distinct-value cap")
	}
}

func TestDistributionNonNullPercentage(t *testing.T) {
	tests := []struct {
		name     string
		dist     Distribution
		expected float64
	}{
		{"empty", Distribution{}, 100},
		{"no nulls", Distribution{TotalCount: 10, NullCount: 0}, 100},
		{"half null", Distribution{TotalCount: 10, NullCount: 5}, 50},
		{"all null", Distribution{TotalCount: 10, NullCount: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dist.NonNullPercentage(); got != tt.expected {
				t.Errorf("NonNullPercentage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBucketIndexBoundaries(t *testing.T) {
	edges := []float64{0, 10, 20, 30}
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{5, 0},
		{9.999, 0},
		{10, 1},
		{15, 1},
		{20, 2},
		{30, 2}, // maximum sample lands in the last bucket
		{25, 2},
	}
	for _, tt := range tests {
		if got := bucketIndex(tt.v, edges); got != tt.want {
			t.Errorf("bucketIndex(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
