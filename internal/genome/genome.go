// Package genome holds the DatabaseGenome container: the serialized
// statistical summary of a profiled database (per-column distributions
// plus per-table correlation matrices) that the synthesiser reads back to
// generate new rows.
package genome

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Pragadeesh-19/replidb/internal/correlation"
	"github.com/Pragadeesh-19/replidb/internal/errs"
	"github.com/Pragadeesh-19/replidb/internal/schema"
	"github.com/Pragadeesh-19/replidb/internal/stats"
)

const defaultVersion = "1.0.0"

// DatabaseGenome is the full statistical summary of a scanned database.
// Tables is keyed by table name for O(1) lookup throughout the rest of the
// codebase; on the wire (see genomeJSON) it is an ordered array instead.
type DatabaseGenome struct {
	Version        string
	CreatedAt      string
	SourceDatabase string
	Tables         map[string]*schema.Table
	Distributions  map[string]stats.Distribution
	Correlations   map[string]*correlation.Matrix
}

// genomeJSON mirrors the genome file's on-disk shape: tables is an ordered
// array of table objects, not an object keyed by name.
type genomeJSON struct {
	Version        string                         `json:"version"`
	CreatedAt      string                         `json:"created_at,omitempty"`
	SourceDatabase string                         `json:"source_database,omitempty"`
	Tables         []*schema.Table                `json:"tables"`
	Distributions  map[string]stats.Distribution  `json:"distributions"`
	Correlations   map[string]*correlation.Matrix `json:"correlations"`
}

// New creates an empty genome with the given source database name.
func New(sourceDatabase string) *DatabaseGenome {
	return &DatabaseGenome{
		Version:        defaultVersion,
		SourceDatabase: sourceDatabase,
		Tables:         make(map[string]*schema.Table),
		Distributions:  make(map[string]stats.Distribution),
		Correlations:   make(map[string]*correlation.Matrix),
	}
}

// MarshalJSON renders the genome in its on-disk shape: tables as a
// name-sorted array rather than the in-memory lookup map.
func (g *DatabaseGenome) MarshalJSON() ([]byte, error) {
	tables := make([]*schema.Table, 0, len(g.Tables))
	for _, t := range g.Tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	distributions := g.Distributions
	if distributions == nil {
		distributions = map[string]stats.Distribution{}
	}
	correlations := g.Correlations
	if correlations == nil {
		correlations = map[string]*correlation.Matrix{}
	}

	return json.Marshal(genomeJSON{
		Version:        g.Version,
		CreatedAt:      g.CreatedAt,
		SourceDatabase: g.SourceDatabase,
		Tables:         tables,
		Distributions:  distributions,
		Correlations:   correlations,
	})
}

// UnmarshalJSON applies the serde-style defaults the original format
// relies on: version defaults to "1.0.0", and tables/distributions/
// correlations default to empty when absent from older genome files. The
// on-disk array of tables is rekeyed by name into the in-memory map.
func (g *DatabaseGenome) UnmarshalJSON(data []byte) error {
	aux := genomeJSON{Version: defaultVersion}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	g.Version = aux.Version
	g.CreatedAt = aux.CreatedAt
	g.SourceDatabase = aux.SourceDatabase

	g.Tables = make(map[string]*schema.Table, len(aux.Tables))
	for _, t := range aux.Tables {
		g.Tables[t.Name] = t
	}

	g.Distributions = aux.Distributions
	if g.Distributions == nil {
		g.Distributions = make(map[string]stats.Distribution)
	}
	g.Correlations = aux.Correlations
	if g.Correlations == nil {
		g.Correlations = make(map[string]*correlation.Matrix)
	}
	return nil
}

// MakeKey builds the "table.column" key used in the Distributions map.
func MakeKey(table, column string) string {
	return table + "." + column
}

// GetDistribution looks up a column's distribution.
func (g *DatabaseGenome) GetDistribution(table, column string) (stats.Distribution, bool) {
	d, ok := g.Distributions[MakeKey(table, column)]
	return d, ok
}

// GetCorrelation looks up a table's correlation matrix, if any.
func (g *DatabaseGenome) GetCorrelation(table string) (*correlation.Matrix, bool) {
	m, ok := g.Correlations[table]
	return m, ok
}

// GetTable looks up a table's schema.
func (g *DatabaseGenome) GetTable(name string) (*schema.Table, bool) {
	t, ok := g.Tables[name]
	return t, ok
}

// TotalColumns returns the number of distributions recorded across all tables.
func (g *DatabaseGenome) TotalColumns() int {
	return len(g.Distributions)
}

// TotalForeignKeys returns the number of foreign keys across all tables.
func (g *DatabaseGenome) TotalForeignKeys() int {
	n := 0
	for _, t := range g.Tables {
		n += len(t.ForeignKeys)
	}
	return n
}

// SaveToFile writes the genome as indented JSON.
func (g *DatabaseGenome) SaveToFile(path string) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling genome: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing genome file %s: %w", path, err)
	}
	return nil
}

// LoadFromFile reads and parses a genome JSON file.
func LoadFromFile(path string) (*DatabaseGenome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading genome file %s: %w", path, err)
	}
	var g DatabaseGenome
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing genome file %s: %w", path, err)
	}
	return &g, nil
}

// Validate checks internal consistency: every column of every table,
// primary keys included, must have a distribution, and every correlation matrix must
// reference existing numeric columns with a matching dimension. All
// problems found are aggregated into a single error, rather than failing
// on the first one.
func (g *DatabaseGenome) Validate() error {
	var problems []string

	for tableName, table := range g.Tables {
		for _, col := range table.Columns {
			if _, ok := g.GetDistribution(tableName, col.Name); !ok {
				problems = append(problems, fmt.Sprintf("missing distribution for %s.%s", tableName, col.Name))
			}
		}
	}

	for tableName, m := range g.Correlations {
		table, ok := g.Tables[tableName]
		if !ok {
			problems = append(problems, fmt.Sprintf("correlation matrix references unknown table %q", tableName))
			continue
		}
		if len(m.Data) != m.Dim*m.Dim {
			problems = append(problems, fmt.Sprintf("correlation matrix for %s has %d entries, expected %d for dimension %d",
				tableName, len(m.Data), m.Dim*m.Dim, m.Dim))
		}
		if len(m.Columns) != m.Dim {
			problems = append(problems, fmt.Sprintf("correlation matrix for %s lists %d columns but declares dimension %d",
				tableName, len(m.Columns), m.Dim))
		}
		for _, colName := range m.Columns {
			col, ok := table.Column(colName)
			if !ok {
				problems = append(problems, fmt.Sprintf("correlation matrix for %s references unknown column %q", tableName, colName))
				continue
			}
			if !col.DataType.IsNumeric() {
				problems = append(problems, fmt.Sprintf("correlation matrix for %s references non-numeric column %q", tableName, colName))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &errs.ValidationError{Problems: problems}
}
