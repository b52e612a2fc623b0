// Package designation resolves the designation type of a stored routine: the
// shape its result is returned in by the generated wrapper.
//
// A designation is declared either with a legacy pragma between the routine
// header and its body:
//
//	create function tst_users(p_cmp_id int)
//	-- type: rows_with_index cmp_id,usr_role
//	returns setof tst_user as $$
//
// or with a @type tag in the DocBlock:
//
//	/**
//	 * @type rows_with_index cmp_id,usr_role
//	 */
//
// The legacy pragma takes precedence; when it is present the @type tag is not
// evaluated at all.
package designation

// Designation keywords.
const (
	KeywordNone          = "none"
	KeywordLog           = "log"
	KeywordSingleton0    = "singleton0"
	KeywordSingleton1    = "singleton1"
	KeywordRow0          = "row0"
	KeywordRow1          = "row1"
	KeywordRows          = "rows"
	KeywordRowsWithKey   = "rows_with_key"
	KeywordRowsWithIndex = "rows_with_index"
	KeywordBulkInsert    = "bulk_insert"
	KeywordFunction      = "function"
	KeywordMulti         = "multi"
)

// Spec is the designation of a routine. The set of implementations is closed;
// switch on the concrete type to handle each variant.
type Spec interface {
	// Keyword returns the lower-cased designation keyword.
	Keyword() string

	designation()
}

// None: the routine returns nothing; the wrapper returns the affected row count.
type None struct{}

// Log: the routine emits messages; the wrapper logs them and returns their count.
type Log struct{}

// Singleton0: a single value that may be absent.
type Singleton0 struct{}

// Singleton1: exactly one value.
type Singleton1 struct{}

// Row0: a single row that may be absent.
type Row0 struct{}

// Row1: exactly one row.
type Row1 struct{}

// Rows: any number of rows.
type Rows struct{}

// RowsWithKey: rows nested by the values of Columns; the leaf is a single row.
type RowsWithKey struct {
	Columns []string
}

// RowsWithIndex: rows nested by the values of Columns; the leaf is the list of rows.
type RowsWithIndex struct {
	Columns []string
}

// BulkInsert: rows streamed into Table. Columns are the keys of the row maps
// fed to the table columns in order.
type BulkInsert struct {
	Table   string
	Columns []string
}

// Function: a stored function whose return value is passed through.
type Function struct{}

// Multi: multiple result sets.
type Multi struct{}

func (None) Keyword() string          { return KeywordNone }
func (Log) Keyword() string           { return KeywordLog }
func (Singleton0) Keyword() string    { return KeywordSingleton0 }
func (Singleton1) Keyword() string    { return KeywordSingleton1 }
func (Row0) Keyword() string          { return KeywordRow0 }
func (Row1) Keyword() string          { return KeywordRow1 }
func (Rows) Keyword() string          { return KeywordRows }
func (RowsWithKey) Keyword() string   { return KeywordRowsWithKey }
func (RowsWithIndex) Keyword() string { return KeywordRowsWithIndex }
func (BulkInsert) Keyword() string    { return KeywordBulkInsert }
func (Function) Keyword() string      { return KeywordFunction }
func (Multi) Keyword() string         { return KeywordMulti }

func (None) designation()          {}
func (Log) designation()           {}
func (Singleton0) designation()    {}
func (Singleton1) designation()    {}
func (Row0) designation()          {}
func (Row1) designation()          {}
func (Rows) designation()          {}
func (RowsWithKey) designation()   {}
func (RowsWithIndex) designation() {}
func (BulkInsert) designation()    {}
func (Function) designation()      {}
func (Multi) designation()         {}

// Keywords returns all designation keywords.
func Keywords() []string {
	return []string{
		KeywordNone, KeywordLog, KeywordSingleton0, KeywordSingleton1,
		KeywordRow0, KeywordRow1, KeywordRows, KeywordRowsWithKey,
		KeywordRowsWithIndex, KeywordBulkInsert, KeywordFunction, KeywordMulti,
	}
}

// Columns returns the key, index or bulk insert columns of des, or nil.
func Columns(des Spec) []string {
	switch s := des.(type) {
	case RowsWithKey:
		return s.Columns
	case RowsWithIndex:
		return s.Columns
	case BulkInsert:
		return s.Columns
	default:
		return nil
	}
}

// Table returns the bulk insert table of des, or nil.
func Table(des Spec) *string {
	if s, ok := des.(BulkInsert); ok {
		table := s.Table
		return &table
	}
	return nil
}
