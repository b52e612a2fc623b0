// Package metastore persists routine metadata records between runs.
//
// The records live in one JSON file (sprocgen.metadata.json by default),
// keyed by lower-cased routine name. The file is both the input of the
// wrapper generator and the baseline of the staleness check: a routine whose
// record is still current is not reloaded into the database.
//
// Magic placeholders (__FILE__, __ROUTINE__, __DIR__, __LINE__) are bound
// per routine by the compiler and are never written to the file.
//
// Saving goes through checksum.Writer, so an unchanged record set leaves the
// file untouched.
package metastore
