// Package history persists finished and in-flight organizer runs, with their
// action records, in a SQLite database under the log directory.
package history
