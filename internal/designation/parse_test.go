package designation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		keyword  string
		argument string
		want     Spec
	}{
		{name: "none", keyword: "none", want: None{}},
		{name: "log", keyword: "log", want: Log{}},
		{name: "singleton0", keyword: "singleton0", want: Singleton0{}},
		{name: "singleton1 upper case", keyword: "SINGLETON1", want: Singleton1{}},
		{name: "row0", keyword: "row0", want: Row0{}},
		{name: "row1", keyword: "Row1", want: Row1{}},
		{name: "rows", keyword: "rows", want: Rows{}},
		{name: "function", keyword: "function", want: Function{}},
		{name: "multi", keyword: "multi", want: Multi{}},
		{name: "rows_with_key", keyword: "rows_with_key", argument: "id", want: RowsWithKey{Columns: []string{"id"}}},
		{name: "rows_with_index", keyword: "rows_with_index", argument: "dept, role", want: RowsWithIndex{Columns: []string{"dept", "role"}}},
		{name: "bulk_insert", keyword: "bulk_insert", argument: "orders id,name", want: BulkInsert{Table: "orders", Columns: []string{"id", "name"}}},
		{name: "bulk_insert schema table", keyword: "BULK_INSERT", argument: "app.orders  id", want: BulkInsert{Table: "app.orders", Columns: []string{"id"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			des, err := Parse(tt.keyword, tt.argument)
			require.NoError(t, err)
			assert.Equal(t, tt.want, des)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		keyword  string
		argument string
		wantKind error
	}{
		{name: "bulk_insert without columns", keyword: "bulk_insert", argument: "orders", wantKind: sprocgen.ErrMalformedBulkInsert},
		{name: "bulk_insert without argument", keyword: "bulk_insert", wantKind: sprocgen.ErrMalformedBulkInsert},
		{name: "bulk_insert empty column", keyword: "bulk_insert", argument: "orders id,,name", wantKind: sprocgen.ErrMalformedBulkInsert},
		{name: "rows_with_key without columns", keyword: "rows_with_key", wantKind: sprocgen.ErrMalformedColumns},
		{name: "rows_with_index trailing comma", keyword: "rows_with_index", argument: "dept,", wantKind: sprocgen.ErrMalformedColumns},
		{name: "rows_with_index spaces only", keyword: "rows_with_index", argument: "dept role", wantKind: sprocgen.ErrMalformedColumns},
		{name: "argument to rows", keyword: "rows", argument: "id", wantKind: sprocgen.ErrUnexpectedArgument},
		{name: "argument to none", keyword: "none", argument: "x y", wantKind: sprocgen.ErrUnexpectedArgument},
		{name: "unknown keyword", keyword: "rowz", wantKind: sprocgen.ErrUnknownDesignation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.keyword, tt.argument)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestKeyword_RoundTrip(t *testing.T) {
	for _, keyword := range Keywords() {
		argument := ""
		switch keyword {
		case KeywordRowsWithKey, KeywordRowsWithIndex:
			argument = "id"
		case KeywordBulkInsert:
			argument = "t id"
		}

		des, err := Parse(keyword, argument)
		require.NoError(t, err, keyword)
		assert.Equal(t, keyword, des.Keyword())
	}
}

func TestColumnsAndTable(t *testing.T) {
	bulk := BulkInsert{Table: "orders", Columns: []string{"id"}}
	require.NotNil(t, Table(bulk))
	assert.Equal(t, "orders", *Table(bulk))
	assert.Equal(t, []string{"id"}, Columns(bulk))

	assert.Nil(t, Table(Rows{}))
	assert.Nil(t, Columns(Rows{}))
	assert.Equal(t, []string{"a", "b"}, Columns(RowsWithIndex{Columns: []string{"a", "b"}}))
}

func TestFromMetadata(t *testing.T) {
	table := "orders"

	des, err := FromMetadata(&sprocgen.RoutineMetadata{Designation: "bulk_insert", TableName: &table, Columns: []string{"id", "name"}})
	require.NoError(t, err)
	assert.Equal(t, BulkInsert{Table: "orders", Columns: []string{"id", "name"}}, des)

	des, err = FromMetadata(&sprocgen.RoutineMetadata{Designation: "rows_with_key", Columns: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, RowsWithKey{Columns: []string{"a", "b"}}, des)

	des, err = FromMetadata(&sprocgen.RoutineMetadata{Designation: "row1"})
	require.NoError(t, err)
	assert.Equal(t, Row1{}, des)

	_, err = FromMetadata(&sprocgen.RoutineMetadata{Designation: "bulk_insert"})
	assert.ErrorIs(t, err, sprocgen.ErrMalformedBulkInsert)
}
