package synthesis

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/Pragadeesh-19/replidb/internal/stats"
)

// sampleCategorical picks a value from a categorical distribution's
// frequency map using cumulative-weight selection. Map keys are sorted
// first so the cumulative-weight table (and therefore the draw) is
// reproducible under a fixed seed.
func sampleCategorical(rng *rand.Rand, d stats.Distribution) string {
	freqs := d.Histogram.CategoricalFrequencies
	if len(freqs) == 0 {
		return "unknown"
	}

	keys := make([]string, 0, len(freqs))
	var total uint64
	for k, f := range freqs {
		keys = append(keys, k)
		total += f
	}
	sort.Strings(keys)

	if total == 0 {
		return keys[rng.IntN(len(keys))]
	}

	target := rng.Uint64N(total)
	var cum uint64
	for _, k := range keys {
		cum += freqs[k]
		if target < cum {
			return k
		}
	}
	return keys[len(keys)-1]
}

// sampleNumericWeightedBin picks a bin by cumulative frequency weight, then
// draws uniformly within that bin's range. Used for numeric columns with
// no correlation matrix entry.
func sampleNumericWeightedBin(rng *rand.Rand, d stats.Distribution) float64 {
	h := d.Histogram
	if len(h.Bins) < 2 {
		return 0
	}
	total := sumFrequencies(h.Frequencies)
	if total == 0 {
		return (h.Bins[0] + h.Bins[1]) / 2
	}
	target := rng.Uint64N(total)
	var cum uint64
	for i, f := range h.Frequencies {
		cum += f
		if target < cum {
			lo, hi := h.Bins[i], h.Bins[i+1]
			return lo + rng.Float64()*(hi-lo)
		}
	}
	last := len(h.Frequencies) - 1
	lo, hi := h.Bins[last], h.Bins[last+1]
	return lo + rng.Float64()*(hi-lo)
}

// sampleNumericQuantile performs inverse-CDF sampling on a numeric
// histogram given a quantile in [0,1] produced by the copula. Used for
// numeric columns that participate in a table's correlation matrix.
func sampleNumericQuantile(d stats.Distribution, quantile float64) float64 {
	h := d.Histogram
	if len(h.Bins) < 2 {
		return 0
	}
	total := sumFrequencies(h.Frequencies)
	if total == 0 {
		return (h.Bins[0] + h.Bins[1]) / 2
	}
	target := quantile * float64(total)

	var prev float64
	for i, f := range h.Frequencies {
		fi := float64(f)
		cum := prev + fi
		if target < cum || i == len(h.Frequencies)-1 {
			lo, hi := h.Bins[i], h.Bins[i+1]
			if fi == 0 {
				return (lo + hi) / 2
			}
			frac := (target - prev) / fi
			if frac < 0 {
				frac = 0
			}
			if frac > 1 {
				frac = 1
			}
			return lo + frac*(hi-lo)
		}
		prev = cum
	}
	return d.Max
}

func sumFrequencies(freqs []uint64) uint64 {
	var total uint64
	for _, f := range freqs {
		total += f
	}
	return total
}

// formatNumeric renders a float64 as an integer literal when it has no
// meaningful fractional part and fits in an int64, otherwise as a decimal
// with up to 6 places, trailing zeros and a bare trailing dot trimmed.
func formatNumeric(v float64) string {
	if math.Abs(v-math.Trunc(v)) < 1e-9 && math.Abs(v) < float64(math.MaxInt64) {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}
