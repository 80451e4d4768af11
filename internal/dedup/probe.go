package dedup

import (
	"bytes"
	"os"
)

// Collect builds candidates from filesystem metadata for the given paths,
// preserving discovery order. Files whose attributes cannot be read are
// returned with MetadataUnreadable set rather than dropped, so the resolver
// can apply its conservative fallback.
func Collect(paths []string) []Candidate {
	candidates := make([]Candidate, 0, len(paths))
	for _, path := range paths {
		candidates = append(candidates, probe(path))
	}
	return candidates
}

func probe(path string) Candidate {
	candidate := Candidate{Path: path}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		candidate.MetadataUnreadable = true
		return candidate
	}
	candidate.SizeBytes = info.Size()
	candidate.ModifiedAt = info.ModTime()
	// No portable birth time; modification time is the creation signal.
	candidate.CreatedAt = info.ModTime()
	candidate.HasRichMetadata = sniffRichMetadata(path)
	candidate.QualityScore = candidate.score()
	return candidate
}

// Embedded-tag container signatures checked at the start of the file.
var tagSignatures = [][]byte{
	[]byte("ID3"),  // MP3 with ID3v2
	[]byte("fLaC"), // FLAC with Vorbis comments
	[]byte("OggS"), // Ogg container
}

// sniffRichMetadata reports whether the file header indicates an embedded
// metadata container. A short or unreadable header simply means no rich
// metadata; Stat already succeeded, so the candidate stays comparable.
func sniffRichMetadata(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 12)
	n, err := file.Read(header)
	if err != nil || n < 8 {
		return false
	}
	header = header[:n]

	for _, sig := range tagSignatures {
		if bytes.HasPrefix(header, sig) {
			return true
		}
	}
	// MP4 family: size box followed by "ftyp".
	if n >= 8 && bytes.Equal(header[4:8], []byte("ftyp")) {
		return true
	}
	return false
}
