package report

// Kind classifies a single reported organizer effect or log event.
type Kind string

const (
	KindMove    Kind = "move"
	KindCopy    Kind = "copy"
	KindRename  Kind = "rename"
	KindDelete  Kind = "delete"
	KindEcho    Kind = "echo"
	KindSkip    Kind = "skip"
	KindError   Kind = "error"
	KindUnknown Kind = "unknown"
)

// Kinds lists every record kind in display order.
func Kinds() []Kind {
	return []Kind{KindMove, KindCopy, KindRename, KindDelete, KindEcho, KindSkip, KindError, KindUnknown}
}

// HasDestination reports whether records of this kind carry a destination path.
func (k Kind) HasDestination() bool {
	switch k {
	case KindMove, KindCopy, KindRename:
		return true
	default:
		return false
	}
}

// ActionRecord is one classified line of organizer output. Message always
// preserves the raw line verbatim; Seq is a capture-order sequence number, not
// a wall-clock timestamp.
type ActionRecord struct {
	Kind            Kind
	RuleName        string
	SourcePath      string
	DestinationPath string
	Message         string
	Seq             int64
	Simulated       bool
}
