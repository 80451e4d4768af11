package dedup

import "time"

// Candidate is one file among a group the engine has already determined to be
// duplicates of one another. Callers supply fully populated values; the
// resolver performs no I/O.
type Candidate struct {
	Path      string
	SizeBytes int64
	// CreatedAt is the best available creation signal. On filesystems
	// without birth times the probe falls back to the modification time.
	CreatedAt  time.Time
	ModifiedAt time.Time
	// HasRichMetadata is true when the file carries embedded tag metadata
	// (ID3, Vorbis comments, MP4 atoms and the like).
	HasRichMetadata bool
	// MetadataUnreadable marks candidates whose attributes could not be
	// read at all. They lose every comparison; if the whole group is
	// unreadable the first-discovered candidate is kept.
	MetadataUnreadable bool
	// QualityScore is derived from the other signals, higher preferred.
	// Informational; selection uses the strict priority order.
	QualityScore float64
}

// scoreSizeCap is the size at which the size contribution saturates, roughly
// one point per 10 MiB.
const scoreSizeCap = 10 * 1024 * 1024

// score derives the informational quality score from the candidate signals.
func (c Candidate) score() float64 {
	if c.MetadataUnreadable {
		return 0
	}
	var score float64
	if c.HasRichMetadata {
		score += 5
	}
	sizeScore := float64(c.SizeBytes) / float64(scoreSizeCap)
	if sizeScore > 1 {
		sizeScore = 1
	}
	score += sizeScore
	return score
}
