package sprocgen

import (
	"github.com/google/uuid"
)

// RoutineParameter is a parameter of a stored routine as reported by the RDBMS.
// The RDBMS list is authoritative for names and order.
type RoutineParameter struct {
	Name     string // Parameter name, e.g. "p_usr_id"
	DataType string // Base data type, e.g. "character varying"
	// Descriptor is the full data type including length or precision,
	// e.g. "character varying(40)" or "numeric(10,2)".
	Descriptor string
	Mode       string // IN, INOUT, OUT or VARIADIC
}

// TableColumn is a column of a table as reported by the RDBMS.
type TableColumn struct {
	Name       string
	DataType   string
	Descriptor string
}

// TypeMapping is the host-language (Go) rendering of an RDBMS data type.
type TypeMapping struct {
	Name   string // Go type used in doc comments, e.g. "int32"
	Hint   string // Go type used in wrapper signatures; nullable, e.g. "*int32"
	Import string // Import path the hint needs, empty if none
}

// ParameterInfo is a fully resolved routine parameter.
type ParameterInfo struct {
	Name               string `json:"name"`
	DataTypeDescriptor string `json:"data_type_descriptor"`
	TypeName           string `json:"type_name"`
	TypeHint           string `json:"type_hint"`
	TypeImport         string `json:"type_import,omitempty"`
	Description        string `json:"description"`
}

// WrapperDoc is the documentation payload the wrapper generator renders into
// the doc comment of a wrapper method.
type WrapperDoc struct {
	Description string         `json:"description"`
	Return      string         `json:"return,omitempty"`
	Parameters  []ParameterDoc `json:"parameters"`
}

// ParameterDoc documents one wrapper method parameter.
type ParameterDoc struct {
	Name        string `json:"name"`
	TypeName    string `json:"type_name"`
	Descriptor  string `json:"data_type_descriptor,omitempty"`
	Description string `json:"description"`
}

// RoutineMetadata is the persisted record of a compiled routine.
// It is the sole input of the wrapper generator and the sole artifact compared
// across runs by the staleness check. A record is owned by the compilation run
// that produced it and is not mutated after assembly.
type RoutineMetadata struct {
	ID          uuid.UUID         `json:"id"`
	RoutineName string            `json:"routine_name"`
	RoutineKind string            `json:"routine_kind"`
	Designation string            `json:"designation"`
	TableName   *string           `json:"table_name"`
	Parameters  []ParameterInfo   `json:"parameters"`
	Columns     []string          `json:"columns"`
	Fields      []string          `json:"fields"`
	ColumnTypes []string          `json:"column_types"`
	Timestamp   int64             `json:"timestamp"`
	Replace     map[string]string `json:"replace"`
	Doc         WrapperDoc        `json:"doc"`
}

// Routine kinds.
const (
	RoutineKindFunction  = "function"
	RoutineKindProcedure = "procedure"
)
