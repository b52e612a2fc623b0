// Package scanner discovers stored routine sources.
//
// A routine source is a file with the configured extension (".psql" by
// default) anywhere below the source directory. The file stem is the routine
// name, so two files with the same stem are rejected before any routine is
// compiled.
//
// The scanner works through filesystem.FileSystemProvider, so tests run
// against the in-memory filesystem.
package scanner
