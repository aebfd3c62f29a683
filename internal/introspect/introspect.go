// Package introspect discovers table schemas from a live Postgres
// database via information_schema, mapping native column types down to
// the DataType enum the rest of the system works with.
package introspect

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/Pragadeesh-19/replidb/internal/schema"
)

// ListTables returns all base table names in the public schema.
func ListTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// IntrospectTable returns the full column and foreign key metadata for a
// single table.
func IntrospectTable(db *sql.DB, tableName string) (*schema.Table, error) {
	columns, err := introspectColumns(db, tableName)
	if err != nil {
		return nil, err
	}

	fks, err := introspectForeignKeys(db, tableName)
	if err != nil {
		return nil, err
	}

	return &schema.Table{Name: tableName, Columns: columns, ForeignKeys: fks}, nil
}

func introspectColumns(db *sql.DB, tableName string) ([]schema.Column, error) {
	rows, err := db.Query(`
		SELECT c.column_name, c.data_type, c.udt_name, c.is_nullable,
		       COALESCE(pk.is_pk, false) AS is_pk
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name, true AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
			  ON tc.constraint_name = kcu.constraint_name
			 AND tc.table_schema = kcu.table_schema
			WHERE tc.table_schema = 'public' AND tc.table_name = $1
			  AND tc.constraint_type = 'PRIMARY KEY'
		) pk ON pk.column_name = c.column_name
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position`, tableName)
	if err != nil {
		return nil, fmt.Errorf("introspecting columns for %s: %w", tableName, err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var name, dataType, udtName, isNullable string
		var isPK bool
		if err := rows.Scan(&name, &dataType, &udtName, &isNullable, &isPK); err != nil {
			return nil, fmt.Errorf("scanning column for %s: %w", tableName, err)
		}
		columns = append(columns, schema.Column{
			Name:         name,
			DataType:     mapSQLTypeToDataType(tableName, name, dataType, udtName),
			IsNullable:   isNullable == "YES",
			IsPrimaryKey: isPK,
		})
	}
	return columns, rows.Err()
}

func introspectForeignKeys(db *sql.DB, tableName string) ([]schema.ForeignKey, error) {
	rows, err := db.Query(`
		SELECT kcu.column_name, ccu.table_name AS target_table, ccu.column_name AS target_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
		WHERE tc.table_schema = 'public' AND tc.table_name = $1
		  AND tc.constraint_type = 'FOREIGN KEY'`, tableName)
	if err != nil {
		return nil, fmt.Errorf("introspecting foreign keys for %s: %w", tableName, err)
	}
	defer rows.Close()

	var fks []schema.ForeignKey
	for rows.Next() {
		var sourceCol, targetTable, targetCol string
		if err := rows.Scan(&sourceCol, &targetTable, &targetCol); err != nil {
			return nil, fmt.Errorf("scanning foreign key for %s: %w", tableName, err)
		}
		fks = append(fks, schema.ForeignKey{
			SourceColumn: sourceCol,
			TargetTable:  targetTable,
			TargetColumn: targetCol,
		})
	}
	return fks, rows.Err()
}

// mapSQLTypeToDataType maps a Postgres data_type/udt_name pair to the
// system's DataType enum. Unrecognized types fall back to Text (anything
// readable as a string can still be profiled and regenerated as opaque
// text) and print a warning so the fallback is visible.
func mapSQLTypeToDataType(tableName, columnName, dataType, udtName string) schema.DataType {
	switch strings.ToLower(dataType) {
	case "integer", "smallint", "bigint":
		return schema.Integer
	case "real", "double precision", "numeric", "decimal":
		return schema.Float
	case "boolean":
		return schema.Boolean
	case "timestamp without time zone", "timestamp with time zone", "date", "time without time zone", "time with time zone":
		return schema.Timestamp
	case "uuid":
		return schema.UUID
	case "character varying", "character", "text":
		return schema.Text
	case "user-defined", "array":
		return mapUDTType(tableName, columnName, udtName)
	default:
		fmt.Fprintf(os.Stderr, "warning: %s.%s: unsupported SQL type %q, mapping to text\n", tableName, columnName, dataType)
		return schema.Text
	}
}

// mapUDTType handles the "USER-DEFINED"/"ARRAY" escape hatch information_schema
// uses for domain types, enums, and array columns — fall back to the
// underlying udt_name, stripping a leading "_" for array element types.
func mapUDTType(tableName, columnName, udtName string) schema.DataType {
	name := strings.TrimPrefix(strings.ToLower(udtName), "_")
	switch name {
	case "int2", "int4", "int8":
		return schema.Integer
	case "float4", "float8", "numeric":
		return schema.Float
	case "bool":
		return schema.Boolean
	case "timestamp", "timestamptz", "date":
		return schema.Timestamp
	case "uuid":
		return schema.UUID
	default:
		fmt.Fprintf(os.Stderr, "warning: %s.%s: unsupported user-defined type %q, mapping to text\n", tableName, columnName, udtName)
		return schema.Text
	}
}
