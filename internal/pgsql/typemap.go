package pgsql

import (
	"strconv"
	"strings"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

const (
	importTime   = "time"
	importPgtype = "github.com/jackc/pgx/v5/pgtype"
	importUUID   = "github.com/google/uuid"
)

// goType is the Go rendering of a PostgreSQL type. Types whose zero value
// cannot stand for NULL are passed by pointer in wrapper signatures.
type goType struct {
	name     string
	nullable bool // The Go type itself represents NULL
	imp      string
}

var typeMap = map[string]goType{
	"smallint":         {name: "int16"},
	"integer":          {name: "int32"},
	"bigint":           {name: "int64"},
	"real":             {name: "float32"},
	"double precision": {name: "float64"},
	"numeric":          {name: "pgtype.Numeric", nullable: true, imp: importPgtype},
	"money":            {name: "string"},
	"boolean":          {name: "bool"},

	"character":         {name: "string"},
	"character varying": {name: "string"},
	"text":              {name: "string"},
	"name":              {name: "string"},
	"citext":            {name: "string"},
	"USER-DEFINED":      {name: "string"},

	"bytea": {name: "[]byte", nullable: true},
	"json":  {name: "any", nullable: true},
	"jsonb": {name: "any", nullable: true},
	"ARRAY": {name: "[]any", nullable: true},
	"uuid":  {name: "uuid.UUID", imp: importUUID},
	"inet":  {name: "string"},
	"cidr":  {name: "string"},

	"date":                        {name: "time.Time", imp: importTime},
	"timestamp without time zone": {name: "time.Time", imp: importTime},
	"timestamp with time zone":    {name: "time.Time", imp: importTime},
	"time without time zone":      {name: "pgtype.Time", nullable: true, imp: importPgtype},
	"time with time zone":         {name: "string"},
	"interval":                    {name: "pgtype.Interval", nullable: true, imp: importPgtype},
}

// TypeMap maps PostgreSQL data types onto Go types.
type TypeMap struct{}

// NewTypeMap creates a TypeMap.
func NewTypeMap() *TypeMap {
	return &TypeMap{}
}

// MapType returns the Go rendering of the data type of p. Unknown types map to any.
func (TypeMap) MapType(p sprocgen.RoutineParameter) sprocgen.TypeMapping {
	t, ok := typeMap[p.DataType]
	if !ok {
		t, ok = typeMap[strings.ToLower(p.DataType)]
	}
	if !ok {
		return sprocgen.TypeMapping{Name: "any", Hint: "any"}
	}

	hint := t.name
	if !t.nullable {
		hint = "*" + t.name
	}
	return sprocgen.TypeMapping{Name: t.name, Hint: hint, Import: t.imp}
}

// Descriptor renders a data type with its length or precision, e.g.
// "character varying(40)" or "numeric(10,2)". Nil modifiers are omitted.
func Descriptor(dataType string, length, precision, scale *int32) string {
	switch dataType {
	case "character", "character varying", "bit", "bit varying":
		if length != nil {
			return dataType + "(" + strconv.Itoa(int(*length)) + ")"
		}
	case "numeric":
		if precision != nil && scale != nil {
			return dataType + "(" + strconv.Itoa(int(*precision)) + "," + strconv.Itoa(int(*scale)) + ")"
		}
		if precision != nil {
			return dataType + "(" + strconv.Itoa(int(*precision)) + ")"
		}
	}
	return dataType
}

var _ sprocgen.TypeMapper = TypeMap{}
