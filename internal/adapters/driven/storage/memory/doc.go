// Package memory provides in-memory implementations of the driven storage
// ports. Nothing survives the process; the testing profile and unit tests
// use these instead of SQLite and the TOML file.
package memory
