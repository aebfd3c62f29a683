// Package profiler streams every row of a table through reservoir-backed
// distribution builders and a joint correlation builder, producing the
// per-column Distribution and optional correlation Matrix that make up one
// table's share of a genome.
package profiler

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Pragadeesh-19/replidb/internal/correlation"
	"github.com/Pragadeesh-19/replidb/internal/errs"
	"github.com/Pragadeesh-19/replidb/internal/schema"
	"github.com/Pragadeesh-19/replidb/internal/stats"
)

// TableResult is one table's contribution to a genome.
type TableResult struct {
	Table         *schema.Table
	Distributions map[string]stats.Distribution // column name -> distribution
	Correlation   *correlation.Matrix           // nil if fewer than 2 numeric columns, fewer than 2 complete joint rows, or the build failed
}

// ProfileTable streams every row of table through per-column distribution
// builders and, if the table has at least two numeric columns, a joint
// correlation builder.
func ProfileTable(db *sql.DB, table *schema.Table) (*TableResult, error) {
	builders := make(map[string]*stats.DistributionBuilder, len(table.Columns))
	var numericCols []string
	for _, col := range table.Columns {
		if col.DataType.IsNumeric() {
			builders[col.Name] = stats.NewNumericDistributionBuilder()
			numericCols = append(numericCols, col.Name)
		} else {
			builders[col.Name] = stats.NewCategoricalDistributionBuilder()
		}
	}

	var corrBuilder *correlation.Builder
	if len(numericCols) >= 2 {
		corrBuilder = correlation.NewBuilder(numericCols)
	}

	colNames := make([]string, len(table.Columns))
	quoted := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		colNames[i] = col.Name
		quoted[i] = `"` + col.Name + `"`
	}

	query := fmt.Sprintf(`SELECT %s FROM "%s"`, strings.Join(quoted, ", "), table.Name)
	rows, err := db.Query(query)
	if err != nil {
		return nil, &errs.SchemaError{Table: table.Name, Err: err}
	}
	defer rows.Close()

	dest := make([]any, len(colNames))
	for i := range dest {
		dest[i] = new(any)
	}

	numericIndex := make(map[string]int, len(numericCols))
	for i, name := range numericCols {
		numericIndex[name] = i
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, &errs.RowDecodeError{Table: table.Name, Err: err}
		}

		jointRow := make([]float64, len(numericCols))
		rowHasNullNumeric := false

		for i, col := range table.Columns {
			raw := *(dest[i].(*any))
			b := builders[col.Name]

			if raw == nil {
				b.AddNull()
				if _, isNumeric := numericIndex[col.Name]; isNumeric {
					rowHasNullNumeric = true
				}
				continue
			}

			if col.DataType.IsNumeric() {
				v, err := extractNumericValue(col.DataType, raw)
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: skipping unreadable value in %s.%s: %v\n", table.Name, col.Name, err)
					rowHasNullNumeric = true
					continue
				}
				b.AddNumeric(v)
				if idx, ok := numericIndex[col.Name]; ok {
					jointRow[idx] = v
				}
			} else {
				b.AddCategorical(extractCategoricalValue(raw))
			}
		}

		if corrBuilder != nil && !rowHasNullNumeric {
			corrBuilder.AddSample(jointRow)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.RowDecodeError{Table: table.Name, Err: err}
	}

	distributions := make(map[string]stats.Distribution, len(builders))
	for name, b := range builders {
		distributions[name] = b.Build()
	}

	result := &TableResult{Table: table, Distributions: distributions}

	if corrBuilder != nil && corrBuilder.SampleCount() >= 2 {
		m, err := corrBuilder.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: table %s proceeding without correlation: %v\n", table.Name, err)
		} else {
			result.Correlation = m
		}
	}

	return result, nil
}

// extractNumericValue converts a scanned driver value into a float64.
// Timestamps are converted to epoch seconds, consistent with how they are
// stored in distributions and later reconstituted at synthesis time.
func extractNumericValue(dt schema.DataType, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, fmt.Errorf("parsing numeric value %q: %w", string(v), err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing numeric value %q: %w", v, err)
		}
		return f, nil
	case time.Time:
		return float64(v.Unix()), nil
	default:
		return 0, fmt.Errorf("unsupported numeric value of type %T", raw)
	}
}

// extractCategoricalValue renders any scanned value as its string form for
// categorical frequency tracking.
func extractCategoricalValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// ProfileAll profiles every table in tables with up to `parallel` tables
// in flight at once, bounded by a buffered semaphore plus a WaitGroup
// rather than spawning one goroutine per table unconditionally.
func ProfileAll(db *sql.DB, tables []*schema.Table, parallel int) (map[string]*TableResult, error) {
	if parallel <= 0 {
		parallel = 10
	}

	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	results := make([]*TableResult, len(tables))
	errsOut := make([]error, len(tables))

	for i, t := range tables {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, t *schema.Table) {
			defer wg.Done()
			defer func() { <-sem }()
			r, err := ProfileTable(db, t)
			results[i] = r
			errsOut[i] = err
		}(i, t)
	}
	wg.Wait()

	out := make(map[string]*TableResult, len(tables))
	for i, t := range tables {
		if errsOut[i] != nil {
			return nil, fmt.Errorf("profiling table %s: %w", t.Name, errsOut[i])
		}
		out[t.Name] = results[i]
	}
	return out, nil
}
