// Package services orchestrates a sprocgen build.
//
// A build has two stages:
//
//  1. Load: every routine source of the project is compiled. The pure phase
//     (reading the source, substituting placeholders, parsing the doc block
//     and resolving the designation) runs concurrently with a bounded
//     errgroup. The database phase (staleness check, loading the routine,
//     reading back its parameters and bulk insert columns) then runs in
//     source order on a single connection. The metadata records of the
//     compiled routines are saved; records of routines whose sources
//     disappeared are pruned, and with DropObsolete the routines are dropped.
//
//  2. Wrapper: the data layer is generated from the saved metadata records.
//
// Files are written through checksum.Writer, so unchanged outputs keep their
// modification time.
//
// A routine that fails to compile does not stop the build; Load reports all
// failures together as sprocgen.ErrCompileFailed and Build then skips the
// wrapper.
package services
