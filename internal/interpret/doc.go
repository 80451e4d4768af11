// Package interpret classifies raw organizer output lines into action records.
//
// Interpretation is line-oriented and stateful only in rule attribution: a
// rule header line sets the rule name inherited by subsequent records until
// the next header or end of stream. Every input line maps to exactly one
// record; lines matching no recognizer degrade to the unknown kind instead of
// being dropped or raising an error.
package interpret
