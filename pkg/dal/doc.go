// Package dal is the runtime of the data layers generated by sprocgen.
//
// A generated data layer embeds *DataLayer and calls one Execute method per
// wrapper, chosen by the designation type of the routine:
//
//	none, log          ExecuteNone, ExecuteLog         row count
//	singleton0/1       ExecuteSingleton0/1             single value
//	row0/1             ExecuteRow0/1                   single row
//	rows               ExecuteRows                     list of rows
//	rows_with_key      ExecuteRows + nested maps       row per key tuple
//	rows_with_index    ExecuteRows + nested maps       rows per key tuple
//	multi              ExecuteMulti                    list of result sets
//	function           ExecuteFunction                 return value
//	bulk_insert        ExecuteBulk                     row count
//
// DataLayer works on anything that can run queries and begin transactions:
// *pgxpool.Pool, *pgx.Conn or pgx.Tx.
//
// # Usage
//
//	pool, _ := pgxpool.New(ctx, connString)
//	db := datalayer.NewDataLayer(dal.New(pool))
//	users, err := db.TstUsers(ctx, &companyID)
package dal
