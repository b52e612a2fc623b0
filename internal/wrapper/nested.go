package wrapper

import (
	"fmt"
	"strconv"
	"strings"
)

// leafKind is what the innermost level of a nested index holds.
type leafKind int

const (
	leafRow  leafKind = iota // a single row; the last row of a key tuple wins
	leafRows                 // the rows of a key tuple in arrival order
)

// NestedIndexBuilder emits the code grouping rows into nested maps, one level
// per column. Level i is keyed by the value of column i; a level is created
// the first time its key combination is seen and reused afterwards. Key values
// pass through the function emitted by EmitKeyFunc, so byte slices, arrays
// and json values can serve as keys.
//
// For the columns [dept, role] and a list leaf it emits:
//
//	ret := map[any]map[any][]map[string]any{}
//	for _, row := range rows {
//		k1, k2 := nestKey(row["dept"]), nestKey(row["role"])
//		if l1, ok := ret[k1]; ok {
//			if leaf, ok := l1[k2]; ok {
//				l1[k2] = append(leaf, row)
//			} else {
//				l1[k2] = []map[string]any{row}
//			}
//		} else {
//			ret[k1] = map[any][]map[string]any{k2: []map[string]any{row}}
//		}
//	}
type NestedIndexBuilder struct {
	columns []string
	leaf    leafKind
}

// NewKeyBuilder returns a builder whose leaf is a single row.
func NewKeyBuilder(columns []string) NestedIndexBuilder {
	return NestedIndexBuilder{columns: columns, leaf: leafRow}
}

// NewIndexBuilder returns a builder whose leaf is a list of rows.
func NewIndexBuilder(columns []string) NestedIndexBuilder {
	return NestedIndexBuilder{columns: columns, leaf: leafRows}
}

// Type returns the Go type of the built structure.
func (b NestedIndexBuilder) Type() string {
	return b.levelType(0)
}

// Build emits code reading "rows" and leaving the structure in "ret".
func (b NestedIndexBuilder) Build(s *CodeStore) error {
	n := len(b.columns)
	if n == 0 {
		return fmt.Errorf("nested index needs at least one column")
	}

	s.Linef("ret := %s{}", b.levelType(0))
	s.Open("for _, row := range rows")
	b.keyStep(s)

	if n == 1 {
		// No intermediate levels.
		b.leafStep(s, 0)
		s.Close()
		return nil
	}

	for i := 0; i < n-1; i++ {
		s.Open("if %s, ok := %s[%s]; ok", level(i+1), level(i), b.key(i))
	}
	b.leafStep(s, n-1)
	for i := n - 2; i >= 0; i-- {
		s.Else()
		s.Linef("%s[%s] = %s", level(i), b.key(i), b.literal(i+1))
		s.Close()
	}

	s.Close()
	return nil
}

// keyStep emits the key variables of the current row.
func (b NestedIndexBuilder) keyStep(s *CodeStore) {
	vars := make([]string, len(b.columns))
	exprs := make([]string, len(b.columns))
	for i, column := range b.columns {
		vars[i] = b.key(i)
		exprs[i] = keyFunc + "(row[" + strconv.Quote(column) + "])"
	}
	s.Linef("%s := %s", strings.Join(vars, ", "), strings.Join(exprs, ", "))
}

// leafStep emits the update of the innermost level, held in level(i).
func (b NestedIndexBuilder) leafStep(s *CodeStore, i int) {
	container, key := level(i), b.key(i)

	if b.leaf == leafRow {
		s.Linef("%s[%s] = row", container, key)
		return
	}

	s.Open("if leaf, ok := %s[%s]; ok", container, key)
	s.Linef("%s[%s] = append(leaf, row)", container, key)
	s.Else()
	s.Linef("%s[%s] = %s", container, key, b.leafValue())
	s.Close()
}

// levelType returns the type of level j; level len(columns) is the leaf.
func (b NestedIndexBuilder) levelType(j int) string {
	return strings.Repeat("map[any]", len(b.columns)-j) + b.leafType()
}

// literal returns a composite literal of level j holding the current row.
func (b NestedIndexBuilder) literal(j int) string {
	if j == len(b.columns) {
		return b.leafValue()
	}
	return fmt.Sprintf("%s{%s: %s}", b.levelType(j), b.key(j), b.literal(j+1))
}

func (b NestedIndexBuilder) leafType() string {
	if b.leaf == leafRow {
		return "map[string]any"
	}
	return "[]map[string]any"
}

func (b NestedIndexBuilder) leafValue() string {
	if b.leaf == leafRow {
		return "row"
	}
	return "[]map[string]any{row}"
}

// key returns the variable holding the key of level i.
func (b NestedIndexBuilder) key(i int) string {
	return "k" + strconv.Itoa(i+1)
}

// level returns the variable holding level i.
func level(i int) string {
	if i == 0 {
		return "ret"
	}
	return "l" + strconv.Itoa(i)
}

// keyFunc is the function the built code converts key values with.
const keyFunc = "nestKey"

// EmitKeyFunc emits the key conversion function the code of every
// NestedIndexBuilder calls. A file holding built code needs it once.
func EmitKeyFunc(s *CodeStore) {
	s.AddImport("fmt")
	s.AddImport("reflect")

	s.Linef("// %s returns v as a map key. Byte slices become strings and values", keyFunc)
	s.Line("// of incomparable types, such as arrays and json, their formatted text.")
	s.Open("func %s(v any) any", keyFunc)
	s.Open("if v == nil")
	s.Line("return nil")
	s.Close()
	s.Open("if b, ok := v.([]byte); ok")
	s.Line("return string(b)")
	s.Close()
	s.Open("if !reflect.TypeOf(v).Comparable()")
	s.Line("return fmt.Sprint(v)")
	s.Close()
	s.Line("return v")
	s.Close()
}
