package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

func int32Ptr(v int32) *int32 { return &v }

func TestTypeMap_MapType(t *testing.T) {
	tests := []struct {
		dataType string
		want     sprocgen.TypeMapping
	}{
		{"integer", sprocgen.TypeMapping{Name: "int32", Hint: "*int32"}},
		{"bigint", sprocgen.TypeMapping{Name: "int64", Hint: "*int64"}},
		{"character varying", sprocgen.TypeMapping{Name: "string", Hint: "*string"}},
		{"boolean", sprocgen.TypeMapping{Name: "bool", Hint: "*bool"}},
		{"bytea", sprocgen.TypeMapping{Name: "[]byte", Hint: "[]byte"}},
		{"jsonb", sprocgen.TypeMapping{Name: "any", Hint: "any"}},
		{"timestamp with time zone", sprocgen.TypeMapping{Name: "time.Time", Hint: "*time.Time", Import: "time"}},
		{"numeric", sprocgen.TypeMapping{Name: "pgtype.Numeric", Hint: "pgtype.Numeric", Import: "github.com/jackc/pgx/v5/pgtype"}},
		{"uuid", sprocgen.TypeMapping{Name: "uuid.UUID", Hint: "*uuid.UUID", Import: "github.com/google/uuid"}},
		{"INTEGER", sprocgen.TypeMapping{Name: "int32", Hint: "*int32"}},
		{"tsvector", sprocgen.TypeMapping{Name: "any", Hint: "any"}},
	}

	m := NewTypeMap()
	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MapType(sprocgen.RoutineParameter{Name: "p", DataType: tt.dataType}))
		})
	}
}

func TestDescriptor(t *testing.T) {
	tests := []struct {
		dataType            string
		length, prec, scale *int32
		want                string
	}{
		{"character varying", int32Ptr(40), nil, nil, "character varying(40)"},
		{"character varying", nil, nil, nil, "character varying"},
		{"character", int32Ptr(1), nil, nil, "character(1)"},
		{"numeric", nil, int32Ptr(10), int32Ptr(2), "numeric(10,2)"},
		{"numeric", nil, int32Ptr(10), nil, "numeric(10)"},
		{"numeric", nil, nil, nil, "numeric"},
		{"integer", nil, int32Ptr(32), int32Ptr(0), "integer"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Descriptor(tt.dataType, tt.length, tt.prec, tt.scale))
	}
}
