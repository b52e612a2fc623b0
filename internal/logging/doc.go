// Package logging provides concrete implementations of the sprocgen.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes messages to stderr, styled with lipgloss when stderr is a terminal
//   - ZapLogger: Writes structured JSON records through go.uber.org/zap (CI pipelines)
//   - NullLogger: Discards all messages (useful for testing)
//
// ConsoleLogger and ZapLogger also implement sprocgen.SQLLogger and print a
// rejected statement with the failing line highlighted.
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
