package pgsql

// Catalog queries. Unqualified routine and table names are resolved through
// the search path of the session, the way PostgreSQL resolves them when the
// routine source is executed.

const (
	// queryOverloads lists every routine named $1 in the search path.
	queryOverloads = `
		SELECT p.oid::regprocedure::text, p.prokind::text
		FROM pg_catalog.pg_proc p
		JOIN pg_catalog.pg_namespace n ON n.oid = p.pronamespace
		WHERE p.proname::text = $1::text
		  AND n.nspname = ANY (current_schemas(false))
		  AND p.prokind IN ('f', 'p')
	`

	// queryRoutineExists reports whether a routine named $1 is in the search path.
	queryRoutineExists = `
		SELECT EXISTS (
			SELECT 1
			FROM pg_catalog.pg_proc p
			JOIN pg_catalog.pg_namespace n ON n.oid = p.pronamespace
			WHERE p.proname::text = $1::text
			  AND n.nspname = ANY (current_schemas(false))
		)
	`

	// queryRoutineParameters lists the input parameters of the first routine
	// named $1 in the search path, in declaration order. Unnamed parameters
	// are named after their position.
	queryRoutineParameters = `
		WITH target AS (
			SELECT r.specific_schema, r.specific_name
			FROM information_schema.routines r
			WHERE r.routine_name::text = $1::text
			  AND r.routine_schema::name = ANY (current_schemas(false))
			ORDER BY array_position(current_schemas(false), r.routine_schema::name)
			LIMIT 1
		)
		SELECT coalesce(p.parameter_name::text, '$' || p.ordinal_position::text),
		       p.data_type::text,
		       p.parameter_mode::text,
		       p.character_maximum_length::int,
		       p.numeric_precision::int,
		       p.numeric_scale::int
		FROM information_schema.parameters p
		JOIN target t ON t.specific_schema = p.specific_schema AND t.specific_name = p.specific_name
		WHERE p.parameter_mode IN ('IN', 'INOUT')
		ORDER BY p.ordinal_position
	`

	// queryTableColumns lists the columns of the first table named $2 in
	// schema $1, or in the search path (temporary schema included) if $1 is empty.
	queryTableColumns = `
		WITH target AS (
			SELECT c.table_schema
			FROM information_schema.columns c
			WHERE c.table_name::text = $2::text
			  AND (c.table_schema::text = $1::text OR ($1::text = '' AND c.table_schema::name = ANY (current_schemas(true))))
			ORDER BY array_position(current_schemas(true), c.table_schema::name)
			LIMIT 1
		)
		SELECT c.column_name::text,
		       c.data_type::text,
		       c.character_maximum_length::int,
		       c.numeric_precision::int,
		       c.numeric_scale::int
		FROM information_schema.columns c
		JOIN target t ON t.table_schema = c.table_schema
		WHERE c.table_name::text = $2::text
		ORDER BY c.ordinal_position
	`

	// queryColumnTypes lists every column of the tables in the search path.
	queryColumnTypes = `
		SELECT c.table_schema::text,
		       c.table_name::text,
		       c.column_name::text,
		       c.data_type::text,
		       c.character_maximum_length::int,
		       c.numeric_precision::int,
		       c.numeric_scale::int
		FROM information_schema.columns c
		WHERE c.table_schema::name = ANY (current_schemas(false))
		ORDER BY array_position(current_schemas(false), c.table_schema::name) DESC, c.table_name, c.ordinal_position
	`
)
