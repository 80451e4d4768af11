package interpret

import (
	"regexp"
	"strings"

	"curator/internal/report"
)

// recognizer binds one output pattern to a record kind. Recognizers are
// matched in order and their prefixes are mutually exclusive, so the first
// match is the only possible match.
type recognizer struct {
	kind    report.Kind
	pattern *regexp.Regexp
	hasDest bool
}

// ruleHeaderPattern matches the header line the engine prints when a new rule
// starts executing. Both the quoted form (`Rule "Name"`) and the numbered form
// (`Rule #3: Name`) appear in the wild depending on engine version.
var ruleHeaderPattern = regexp.MustCompile(`^\s*Rule\s+(?:"([^"]+)"|#\d+(?::\s*(.+?))?)\s*$`)

var recognizers = []recognizer{
	{
		kind:    report.KindError,
		pattern: regexp.MustCompile(`(?i)^\s*(?:error[:!]|traceback \(most recent call last\))`),
	},
	{
		kind:    report.KindMove,
		pattern: regexp.MustCompile(`(?i)^\s*(?:would\s+move|moving|moved|move)\s+"?(.+?)"?\s+(?:->|to)\s+"?(.+?)"?\s*$`),
		hasDest: true,
	},
	{
		kind:    report.KindCopy,
		pattern: regexp.MustCompile(`(?i)^\s*(?:would\s+copy|copying|copied|copy)\s+"?(.+?)"?\s+(?:->|to)\s+"?(.+?)"?\s*$`),
		hasDest: true,
	},
	{
		kind:    report.KindRename,
		pattern: regexp.MustCompile(`(?i)^\s*(?:would\s+rename|renaming|renamed|rename)\s+"?(.+?)"?\s+(?:->|to)\s+"?(.+?)"?\s*$`),
		hasDest: true,
	},
	{
		kind:    report.KindDelete,
		pattern: regexp.MustCompile(`(?i)^\s*(?:would\s+(?:delete|trash)|deleting|deleted|delete|trashing|trash)\s+"?(.+?)"?\s*$`),
	},
	{
		kind:    report.KindSkip,
		pattern: regexp.MustCompile(`(?i)^\s*skip(?:ped|ping)?\b\s*(?:\((.*)\))?\s*(.*?)\s*$`),
	},
	{
		kind:    report.KindEcho,
		pattern: regexp.MustCompile(`(?i)^\s*(?:-\s*)?(?:echo:|\(echo\))\s*(.*)$`),
	},
}

// matchRuleHeader extracts the rule name from a header line, if any.
func matchRuleHeader(line string) (string, bool) {
	groups := ruleHeaderPattern.FindStringSubmatch(line)
	if groups == nil {
		return "", false
	}
	name := groups[1]
	if name == "" {
		name = groups[2]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		// Numbered header without a name keeps the whole label so the
		// attribution is still distinguishable across rules.
		name = strings.TrimSpace(line)
	}
	return name, true
}
