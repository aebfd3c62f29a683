// Package schema holds the dialect-neutral table metadata produced by
// introspection and consumed by every later stage: profiling, dependency
// ordering, the genome, and synthesis.
package schema

import (
	"encoding/json"
	"fmt"
)

// DataType is the small set of column types this system reasons about.
// Every database-native type introspection encounters is mapped down to
// one of these before anything downstream sees it.
type DataType int

const (
	Integer DataType = iota
	Float
	Text
	Timestamp
	Boolean
	UUID
)

func (d DataType) String() string {
	switch d {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Text:
		return "text"
	case Timestamp:
		return "timestamp"
	case Boolean:
		return "boolean"
	case UUID:
		return "uuid"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// IsNumeric reports whether values of this type are profiled into a
// numeric reservoir (as opposed to a categorical one).
func (d DataType) IsNumeric() bool {
	switch d {
	case Integer, Float, Timestamp:
		return true
	default:
		return false
	}
}

// MarshalJSON renders a DataType as its lowercase name, matching the
// genome file's on-disk convention.
func (d DataType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a DataType from its lowercase name.
func (d *DataType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "integer":
		*d = Integer
	case "float":
		*d = Float
	case "text":
		*d = Text
	case "timestamp":
		*d = Timestamp
	case "boolean":
		*d = Boolean
	case "uuid":
		*d = UUID
	default:
		return fmt.Errorf("schema: unknown data type %q", s)
	}
	return nil
}

// ForeignKey describes a single-column reference from one table to another.
type ForeignKey struct {
	SourceColumn string `json:"source_col"`
	TargetTable  string `json:"target_table"`
	TargetColumn string `json:"target_col"`
}

// Column describes one column of a table as seen by introspection.
type Column struct {
	Name         string   `json:"name"`
	DataType     DataType `json:"data_type"`
	IsNullable   bool     `json:"is_nullable"`
	IsPrimaryKey bool     `json:"is_primary_key"`
}

// Table is a single table's schema: its columns and the foreign keys that
// originate from it.
type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
}

// PrimaryKeys returns the names of this table's primary key columns, in
// column order.
func (t *Table) PrimaryKeys() []string {
	var pks []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pks = append(pks, c.Name)
		}
	}
	return pks
}

// HasForeignKeys reports whether this table declares any foreign keys.
func (t *Table) HasForeignKeys() bool {
	return len(t.ForeignKeys) > 0
}

// Column looks up a column by name, returning false if not found.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
