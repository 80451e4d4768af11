// Package report defines the structured records produced from organizer
// output: per-line action records and the aggregate run summary.
package report
