package stats

import (
	"encoding/json"
	"sort"
)

// MaxUniqueTracking caps the number of distinct categorical values tracked
// before a column's histogram is marked truncated.
const MaxUniqueTracking = 10_000

// NumericHistogramBins is the number of equal-width buckets built for a
// numeric column's histogram.
const NumericHistogramBins = 100

// HistogramKind distinguishes the two histogram shapes a column can have.
type HistogramKind string

const (
	HistogramNumeric     HistogramKind = "numeric"
	HistogramCategorical HistogramKind = "categorical"
)

// Histogram summarizes the shape of a column's values. Exactly one of the
// numeric or categorical field sets is populated, selected by Type.
type Histogram struct {
	Type HistogramKind

	// Numeric: Bins holds len(Frequencies)+1 edges; bucket i covers
	// [Bins[i], Bins[i+1]), except the last bucket which also includes its
	// upper edge.
	Bins        []float64
	Frequencies []uint64

	// Categorical.
	CategoricalFrequencies map[string]uint64
	Truncated              bool
}

// numericHistogramJSON and categoricalHistogramJSON mirror the genome
// file's tagged-union "frequencies" field, which is an array for a numeric
// histogram and a string-keyed map for a categorical one.
type numericHistogramJSON struct {
	Type        HistogramKind `json:"type"`
	Bins        []float64     `json:"bins"`
	Frequencies []uint64      `json:"frequencies"`
}

type categoricalHistogramJSON struct {
	Type        HistogramKind     `json:"type"`
	Frequencies map[string]uint64 `json:"frequencies"`
	Truncated   bool              `json:"truncated"`
}

// MarshalJSON renders the histogram per the genome file's type discriminator:
// {"type":"numeric","bins":[...],"frequencies":[...]} or
// {"type":"categorical","frequencies":{...},"truncated":bool}.
func (h Histogram) MarshalJSON() ([]byte, error) {
	if h.Type == HistogramCategorical {
		return json.Marshal(categoricalHistogramJSON{
			Type:        HistogramCategorical,
			Frequencies: h.CategoricalFrequencies,
			Truncated:   h.Truncated,
		})
	}
	return json.Marshal(numericHistogramJSON{
		Type:        HistogramNumeric,
		Bins:        h.Bins,
		Frequencies: h.Frequencies,
	})
}

// UnmarshalJSON parses either tagged-union shape based on the "type" field.
func (h *Histogram) UnmarshalJSON(data []byte) error {
	var disc struct {
		Type HistogramKind `json:"type"`
	}
	if err := json.Unmarshal(data, &disc); err != nil {
		return err
	}
	if disc.Type == HistogramCategorical {
		var c categoricalHistogramJSON
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		h.Type = HistogramCategorical
		h.CategoricalFrequencies = c.Frequencies
		h.Truncated = c.Truncated
		h.Bins, h.Frequencies = nil, nil
		return nil
	}
	var n numericHistogramJSON
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	h.Type = HistogramNumeric
	h.Bins = n.Bins
	h.Frequencies = n.Frequencies
	h.CategoricalFrequencies, h.Truncated = nil, false
	return nil
}

// Distribution is the full per-column statistical summary stored in a
// genome: value range, null/total/unique counts, and a histogram.
type Distribution struct {
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	NullCount   uint64    `json:"null_count"`
	TotalCount  uint64    `json:"total_count"`
	UniqueCount uint64    `json:"unique_count"`
	Histogram   Histogram `json:"histogram"`
}

// NonNullPercentage returns the fraction of observed values that were not
// null, as a percentage in [0, 100]. Returns 100 for an empty distribution.
func (d Distribution) NonNullPercentage() float64 {
	if d.TotalCount == 0 {
		return 100
	}
	nonNull := d.TotalCount - d.NullCount
	return float64(nonNull) / float64(d.TotalCount) * 100
}

// DistributionBuilder accumulates observations for one column and produces
// a Distribution. Min/max/null/total counters are exact; the histogram is
// built from a bounded reservoir sample of the values.
type DistributionBuilder struct {
	numeric *Reservoir[float64]
	catFreq map[string]uint64
	catCap  bool // set once a previously-unseen value arrives after the distinct-value cap is reached

	min, max float64
	haveMin  bool

	nullCount  uint64
	totalCount uint64
}

// NewNumericDistributionBuilder creates a builder for a numeric column.
func NewNumericDistributionBuilder() *DistributionBuilder {
	return &DistributionBuilder{numeric: NewReservoir[float64](DefaultReservoirCapacity)}
}

// NewCategoricalDistributionBuilder creates a builder for a text/boolean/uuid column.
func NewCategoricalDistributionBuilder() *DistributionBuilder {
	return &DistributionBuilder{catFreq: make(map[string]uint64)}
}

// AddNull records a null observation.
func (b *DistributionBuilder) AddNull() {
	b.totalCount++
	b.nullCount++
}

// AddNumeric records a non-null numeric observation.
func (b *DistributionBuilder) AddNumeric(v float64) {
	b.totalCount++
	if !b.haveMin {
		b.min, b.max = v, v
		b.haveMin = true
	} else {
		if v < b.min {
			b.min = v
		}
		if v > b.max {
			b.max = v
		}
	}
	b.numeric.Add(v)
}

// AddCategorical records a non-null categorical observation.
func (b *DistributionBuilder) AddCategorical(v string) {
	b.totalCount++
	if _, tracked := b.catFreq[v]; tracked || len(b.catFreq) < MaxUniqueTracking {
		b.catFreq[v]++
		return
	}
	b.catCap = true
}

// Build finalizes the distribution. For numeric builders it constructs an
// equal-width histogram over the reservoir sample; for categorical builders
// it emits the frequency map directly, marking it truncated if a new
// distinct value arrived after the distinct value cap was reached.
func (b *DistributionBuilder) Build() Distribution {
	if b.numeric != nil {
		return b.buildNumeric()
	}
	return b.buildCategorical()
}

func (b *DistributionBuilder) buildNumeric() Distribution {
	d := Distribution{
		Min:         b.min,
		Max:         b.max,
		NullCount:   b.nullCount,
		TotalCount:  b.totalCount,
		UniqueCount: uint64(len(distinctFloats(b.numeric.Items))),
	}

	if len(b.numeric.Items) == 0 {
		d.Histogram = Histogram{Type: HistogramNumeric, Bins: []float64{}, Frequencies: []uint64{}}
		return d
	}

	lo, hi := b.min, b.max
	if lo == hi {
		// Constant-value column: expand to a unit-width range so binning
		// has somewhere to put the single value.
		hi = lo + 1.0
	}

	edges := make([]float64, NumericHistogramBins+1)
	width := (hi - lo) / float64(NumericHistogramBins)
	for i := range edges {
		edges[i] = lo + width*float64(i)
	}
	edges[NumericHistogramBins] = hi // avoid float drift on the last edge

	freqs := make([]uint64, NumericHistogramBins)
	for _, v := range b.numeric.Items {
		idx := bucketIndex(v, edges)
		freqs[idx]++
	}

	d.Histogram = Histogram{
		Type:        HistogramNumeric,
		Bins:        edges,
		Frequencies: freqs,
	}
	return d
}

// bucketIndex finds which bucket v falls into given bucket edges
// [e0,e1,...,eN]. Bucket i covers [e_i, e_{i+1}); values at or above the
// final edge (including the maximum observed value) go to the last bucket.
func bucketIndex(v float64, edges []float64) int {
	n := len(edges) - 1
	if v >= edges[n] {
		return n - 1
	}
	// binary search for the rightmost edge <= v
	i := sort.SearchFloat64s(edges, v)
	if i >= len(edges) || edges[i] != v {
		i--
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}

func (b *DistributionBuilder) buildCategorical() Distribution {
	return Distribution{
		NullCount:   b.nullCount,
		TotalCount:  b.totalCount,
		UniqueCount: uint64(len(b.catFreq)),
		Histogram: Histogram{
			Type:                   HistogramCategorical,
			CategoricalFrequencies: b.catFreq,
			Truncated:              b.catCap,
		},
	}
}

func distinctFloats(vals []float64) map[float64]struct{} {
	set := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}
