package dedup

import (
	"errors"
	"strings"
)

// ErrInsufficientData is returned when a resolution is requested for an empty
// candidate group. That is a caller contract violation, not a runtime
// condition; single-element groups resolve trivially.
var ErrInsufficientData = errors.New("duplicate group is empty")

// Resolution is the outcome of resolving one duplicate group.
type Resolution struct {
	Kept Candidate
	// Relocate lists the remaining candidates in their discovery order.
	Relocate []Candidate
}

// Resolve selects the candidate to keep as the original. The priority order
// is fixed: richer embedded metadata outranks size, larger size outranks
// newer creation time, newer creation time outranks lexical path order. The
// path comparison is the final tie-break, making the selection deterministic
// for identical inputs in any permutation.
//
// Candidates whose metadata could not be read lose every comparison; when no
// candidate in the group was readable, the first-discovered one is kept so an
// I/O failure never flags the sole surviving copy for relocation.
func Resolve(group []Candidate) (Resolution, error) {
	if len(group) == 0 {
		return Resolution{}, ErrInsufficientData
	}

	allUnreadable := true
	for _, c := range group {
		if !c.MetadataUnreadable {
			allUnreadable = false
			break
		}
	}

	keptIdx := 0
	if !allUnreadable {
		for i := 1; i < len(group); i++ {
			if preferred(group[i], group[keptIdx]) {
				keptIdx = i
			}
		}
	}

	resolution := Resolution{Kept: group[keptIdx]}
	resolution.Kept.QualityScore = resolution.Kept.score()
	for i, c := range group {
		if i == keptIdx {
			continue
		}
		c.QualityScore = c.score()
		resolution.Relocate = append(resolution.Relocate, c)
	}
	return resolution, nil
}

// preferred reports whether a should be kept over b.
func preferred(a, b Candidate) bool {
	if a.MetadataUnreadable != b.MetadataUnreadable {
		return b.MetadataUnreadable
	}
	if a.HasRichMetadata != b.HasRichMetadata {
		return a.HasRichMetadata
	}
	if a.SizeBytes != b.SizeBytes {
		return a.SizeBytes > b.SizeBytes
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return strings.Compare(a.Path, b.Path) < 0
}
