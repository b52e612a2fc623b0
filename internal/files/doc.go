// Package files groups the file handling sub-packages:
//   - filesystem: filesystem abstraction (OS and in-memory)
//   - scanner: routine source discovery
//
// # Usage
//
//	fileScanner := scanner.NewScanner(".psql")
//	sources, err := fileScanner.ScanDirectory("./psql")
package files
