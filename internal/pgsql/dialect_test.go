package pgsql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

func TestDialect_IsRoutineStart(t *testing.T) {
	d := NewDialect()

	for _, line := range []string{
		"create function tst_a()",
		"CREATE OR REPLACE FUNCTION tst_a(p int)",
		"  create procedure tst_b()",
		"create or  replace\tprocedure tst_b",
	} {
		assert.True(t, d.IsRoutineStart(line), line)
	}
	for _, line := range []string{
		"-- create function tst_a()",
		"create table tst_a (id int);",
		"create functional_index",
		" * create function in a doc block",
	} {
		assert.False(t, d.IsRoutineStart(line), line)
	}
}

func TestDialect_IsBodyStart(t *testing.T) {
	d := NewDialect()

	for _, line := range []string{
		"as $$",
		"AS $body$",
		"$$",
		"returns int as $$",
		"begin",
		"  BEGIN",
	} {
		assert.True(t, d.IsBodyStart(line), line)
	}
	for _, line := range []string{
		"language plpgsql",
		"returns setof users",
		"-- type: rows",
		"beginning",
	} {
		assert.False(t, d.IsBodyStart(line), line)
	}
}

func TestDialect_RoutineSignature(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantName string
		wantKind string
		wantOK   bool
	}{
		{"function", "create or replace function tst_get_user(p_id int)\nreturns int", "tst_get_user", sprocgen.RoutineKindFunction, true},
		{"procedure", "CREATE PROCEDURE tst_archive ()\nlanguage sql", "tst_archive", sprocgen.RoutineKindProcedure, true},
		{"schema qualified", "create function app.tst_get_user(p_id int)", "tst_get_user", sprocgen.RoutineKindFunction, true},
		{"quoted", `create function "app"."tst_get_user"(p_id int)`, "tst_get_user", sprocgen.RoutineKindFunction, true},
		{"name on next line", "/** doc */\ncreate or replace function\n  tst_split\n(p int)", "tst_split", sprocgen.RoutineKindFunction, true},
		{"no routine", "select 1;", "", "", false},
		{"no parameter list", "create function tst_broken returns int", "", "", false},
	}

	d := NewDialect()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, kind, ok := d.RoutineSignature(strings.Split(tt.source, "\n"))

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}
