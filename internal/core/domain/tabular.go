package domain

import "time"

// ColumnKind is the inferred kind of a tabular column.
type ColumnKind string

const (
	ColumnNumeric ColumnKind = "numeric"
	ColumnText    ColumnKind = "text"
)

// TableData is the in-memory form of one delimited tabular file:
// a header row plus data rows aligned to it.
type TableData struct {
	Columns []string
	Rows    [][]string
}

// NumericStats summarizes the non-null values of a numeric column.
type NumericStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// ValueCount is one entry of a text column's most-frequent-values list.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile is a derived, read-only summary of one column.
// It is computed fresh on every analysis and never persisted.
type ColumnProfile struct {
	Name           string        `json:"name"`
	Kind           ColumnKind    `json:"kind"`
	NullCount      int           `json:"null_count"`
	NullPercentage float64       `json:"null_percentage"`
	DistinctCount  int           `json:"distinct_count"`
	Numeric        *NumericStats `json:"numeric_stats,omitempty"`
	TopValues      []ValueCount  `json:"top_values,omitempty"`
}

// FileAnalysis describes one tabular input file without touching the store.
type FileAnalysis struct {
	Path        string          `json:"file_path"`
	SizeBytes   int64           `json:"file_size_bytes"`
	RowCount    int             `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	Columns     []ColumnProfile `json:"columns"`
}

// ConflictPolicy directs how an import treats a pre-existing destination table.
type ConflictPolicy string

const (
	PolicyReplace ConflictPolicy = "replace"
	PolicyAppend  ConflictPolicy = "append"
	PolicyFail    ConflictPolicy = "fail"
)

// ImportResult reports a completed bulk import. RowsImported is always
// re-read from the store after the write, never taken from memory.
type ImportResult struct {
	RunID         string        `json:"run_id"`
	TableName     string        `json:"table_name"`
	RowsImported  int           `json:"rows_imported"`
	ColumnCount   int           `json:"column_count"`
	Columns       []string      `json:"columns"`
	Elapsed       time.Duration `json:"-"`
	ElapsedMs     float64       `json:"elapsed_ms"`
	StoreLocation string        `json:"store_location"`
}
