package interpret

import (
	"strings"

	"curator/internal/report"
)

// Interpreter converts organizer output lines into action records, one record
// per line. Each run owns its own Interpreter; state is limited to the rule
// attribution context and the record sequence counter, so instances are cheap
// and concurrent runs never share state. Lines must be fed in emission order
// from a single goroutine or attribution would be corrupted.
type Interpreter struct {
	simulated bool
	rule      string
	seq       int64
}

// New returns an interpreter for one run. simulated marks every produced
// record as coming from a dry-run invocation.
func New(simulated bool) *Interpreter {
	return &Interpreter{simulated: simulated}
}

// Rule returns the rule name currently attributed to new records. Empty
// before the first header line.
func (it *Interpreter) Rule() string {
	return it.rule
}

// Interpret classifies one raw line. It never fails: lines matching no
// recognizer yield an unknown record carrying the verbatim text.
func (it *Interpreter) Interpret(line string) report.ActionRecord {
	rec := report.ActionRecord{
		Kind:      report.KindUnknown,
		Message:   line,
		Seq:       it.seq,
		Simulated: it.simulated,
	}
	it.seq++

	if name, ok := matchRuleHeader(line); ok {
		it.rule = name
		rec.RuleName = it.rule
		return rec
	}
	rec.RuleName = it.rule

	for _, r := range recognizers {
		groups := r.pattern.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		rec.Kind = r.kind
		switch r.kind {
		case report.KindMove, report.KindCopy, report.KindRename:
			rec.SourcePath = strings.TrimSpace(groups[1])
			rec.DestinationPath = strings.TrimSpace(groups[2])
		case report.KindDelete:
			rec.SourcePath = strings.TrimSpace(groups[1])
		}
		return rec
	}
	return rec
}

// InterpretAll classifies a batch of lines in order. Mostly a convenience for
// tests and offline log inspection; live runs feed Interpret incrementally.
func (it *Interpreter) InterpretAll(lines []string) []report.ActionRecord {
	records := make([]report.ActionRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, it.Interpret(line))
	}
	return records
}
