// Package synthesis generates new rows from a genome: tables are generated
// in dependency order with the same row count each, primary keys and foreign keys
// are synthesized to keep referential integrity, and regular columns are
// drawn from each column's distribution, correlated through a Gaussian
// copula where a table's correlation matrix makes that possible.
package synthesis

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/Pragadeesh-19/replidb/internal/copula"
	"github.com/Pragadeesh-19/replidb/internal/correlation"
	"github.com/Pragadeesh-19/replidb/internal/depgraph"
	"github.com/Pragadeesh-19/replidb/internal/errs"
	"github.com/Pragadeesh-19/replidb/internal/genome"
	"github.com/Pragadeesh-19/replidb/internal/progress"
	"github.com/Pragadeesh-19/replidb/internal/schema"
)

// Config controls one generation run.
type Config struct {
	DefaultRows         int
	Seed                *uint64
	StrictFKEnforcement bool
}

// KeyStore holds the primary key values generated so far for each
// "table.column", so downstream foreign keys can sample from them.
type KeyStore map[string][]string

func keyStoreKey(table, column string) string { return table + "." + column }

// Synthesizer generates rows for every table in a genome, in an order
// that respects foreign key dependencies.
type Synthesizer struct {
	genome *genome.DatabaseGenome
	order  []string
	rng    *rand.Rand
}

// New builds a Synthesizer, computing the table execution order up front
// so a circular dependency is reported before any row is generated.
func New(g *genome.DatabaseGenome, cfg Config) (*Synthesizer, error) {
	order, err := depgraph.Resolve(g.Tables)
	if err != nil {
		return nil, fmt.Errorf("resolving table order: %w", err)
	}

	var rng *rand.Rand
	if cfg.Seed != nil {
		var key [32]byte
		for i := 0; i < 8; i++ {
			key[i] = byte(*cfg.Seed >> (8 * i))
		}
		rng = rand.New(rand.NewChaCha8(key))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Synthesizer{genome: g, order: order, rng: rng}, nil
}

// ExecutionOrder returns the table generation order computed at construction.
func (s *Synthesizer) ExecutionOrder() []string {
	return append([]string(nil), s.order...)
}

// TableOutput is the fully rendered COPY-format body for one table.
type TableOutput struct {
	Table    string
	Columns  []string
	RowCount int
	Rows     [][]any // each entry is a formatted string, or nil for NULL
}

// Result holds the generated output for every table, in execution order.
type Result struct {
	Tables []TableOutput
}

// Generate produces rows for every table in execution order.
func (s *Synthesizer) Generate(cfg Config) (*Result, error) {
	keys := make(KeyStore)
	result := &Result{}

	for _, tableName := range s.order {
		table := s.genome.Tables[tableName]

		targetRows := cfg.DefaultRows
		if targetRows <= 0 {
			targetRows = 1000
		}

		out, err := s.generateTable(table, targetRows, cfg.StrictFKEnforcement, keys)
		if err != nil {
			return nil, fmt.Errorf("generating table %s: %w", tableName, err)
		}
		result.Tables = append(result.Tables, out)
	}

	return result, nil
}

func (s *Synthesizer) generateTable(table *schema.Table, rowCount int, strict bool, keys KeyStore) (TableOutput, error) {
	var cop *copula.Copula
	var corrMatrix *correlation.Matrix
	if m, ok := s.genome.GetCorrelation(table.Name); ok {
		c, err := copula.New(m)
		if err != nil {
			return TableOutput{}, &errs.NotPositiveDefiniteError{Table: table.Name, Err: err}
		}
		cop = c
		corrMatrix = m
		fmt.Fprintf(os.Stderr, "table %s: correlating columns %v via copula\n", table.Name, cop.Columns())
	}

	// Validate foreign key preconditions before generating any row.
	for _, fk := range table.ForeignKeys {
		if fk.TargetTable == table.Name {
			continue // self-reference, resolved against this table's own rows
		}
		parentKey := keyStoreKey(fk.TargetTable, fk.TargetColumn)
		if len(keys[parentKey]) == 0 {
			col, _ := table.Column(fk.SourceColumn)
			if strict || !col.IsNullable {
				return TableOutput{}, &errs.MissingParentError{
					Table: table.Name, Column: fk.SourceColumn, ParentTable: fk.TargetTable,
				}
			}
			fmt.Fprintf(os.Stderr, "warning: %s.%s references %s with no available keys, emitting NULL\n",
				table.Name, fk.SourceColumn, fk.TargetTable)
		}
	}

	counter := newPKCounter()
	var selfKeys []string // this table's own PK values generated so far, for self-referencing FKs

	out := TableOutput{Table: table.Name, RowCount: rowCount}
	for _, col := range table.Columns {
		out.Columns = append(out.Columns, col.Name)
	}

	for rowIdx := 0; rowIdx < rowCount; rowIdx++ {
		var quantiles []float64
		if cop != nil {
			quantiles = cop.GenerateCorrelatedUniforms(s.rng)
		}

		row := make([]any, len(table.Columns))
		var rowPKValue string

		for i, col := range table.Columns {
			fk := findForeignKey(table, col.Name)

			switch {
			case fk != nil && fk.TargetTable == table.Name:
				if len(selfKeys) == 0 {
					if rowIdx == 0 {
						row[i] = nil
						continue
					}
					if !col.IsNullable {
						return TableOutput{}, &errs.MissingParentError{
							Table: table.Name, Column: col.Name, ParentTable: table.Name,
						}
					}
					row[i] = nil
					continue
				}
				row[i] = selfKeys[s.rng.IntN(len(selfKeys))]

			case fk != nil:
				parentKey := keyStoreKey(fk.TargetTable, fk.TargetColumn)
				vals := keys[parentKey]
				if len(vals) == 0 {
					row[i] = nil
					continue
				}
				row[i] = vals[s.rng.IntN(len(vals))]

			case col.IsPrimaryKey:
				v := s.synthesizePK(col, counter)
				row[i] = v
				rowPKValue = v

			default:
				v, err := s.synthesizeValue(table.Name, col, corrMatrix, quantiles)
				if err != nil {
					return TableOutput{}, err
				}
				row[i] = v
			}
		}

		if rowPKValue != "" {
			selfKeys = append(selfKeys, rowPKValue)
		}

		out.Rows = append(out.Rows, row)

		if rowIdx%1000 == 0 || rowIdx == rowCount-1 {
			progress.Bar(table.Name, int64(rowIdx+1), int64(rowCount))
		}
	}
	progress.Done(table.Name, rowCount)

	// Publish this table's primary key values for downstream foreign keys.
	for _, pkCol := range table.PrimaryKeys() {
		idx := columnIndex(table, pkCol)
		vals := make([]string, 0, len(out.Rows))
		for _, row := range out.Rows {
			if row[idx] != nil {
				vals = append(vals, row[idx].(string))
			}
		}
		keys[keyStoreKey(table.Name, pkCol)] = vals
	}

	return out, nil
}

func (s *Synthesizer) synthesizePK(col schema.Column, counter *pkCounter) string {
	switch col.DataType {
	case schema.UUID:
		return newUUID(s.rng)
	default:
		return fmt.Sprintf("%d", counter.Next())
	}
}

// synthesizeValue draws a value for a regular (non-PK, non-FK) column.
func (s *Synthesizer) synthesizeValue(tableName string, col schema.Column, corrMatrix *correlation.Matrix, quantiles []float64) (any, error) {
	dist, ok := s.genome.GetDistribution(tableName, col.Name)
	if !ok {
		return nil, &errs.MissingDistributionError{Table: tableName, Column: col.Name}
	}

	if col.IsNullable && dist.TotalCount > 0 {
		nullProb := float64(dist.NullCount) / float64(dist.TotalCount)
		if s.rng.Float64() < nullProb {
			return nil, nil
		}
	}

	if !col.DataType.IsNumeric() {
		return sampleCategorical(s.rng, dist), nil
	}

	var v float64
	idx := -1
	if corrMatrix != nil {
		idx = corrMatrix.ColumnIndex(col.Name)
	}
	if idx >= 0 && idx < len(quantiles) {
		v = sampleNumericQuantile(dist, quantiles[idx])
	} else {
		v = sampleNumericWeightedBin(s.rng, dist)
	}

	if col.DataType == schema.Timestamp {
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339), nil
	}
	return formatNumeric(v), nil
}

func findForeignKey(table *schema.Table, column string) *schema.ForeignKey {
	for i, fk := range table.ForeignKeys {
		if fk.SourceColumn == column {
			return &table.ForeignKeys[i]
		}
	}
	return nil
}

func columnIndex(table *schema.Table, name string) int {
	for i, c := range table.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
