package recognition

// MatchSet is the resolved outcome of one recognition pass: the unique
// accepted student identifiers plus the detected/resolved counts used for
// reporting.
type MatchSet struct {
	// StudentIDs holds the unique accepted identities, ordered by first
	// appearance in the result list.
	StudentIDs []string
	// FacesDetected is the total number of face regions classified.
	FacesDetected int
	// FacesResolved is the number of results accepted before duplicate
	// identities were collapsed.
	FacesResolved int
}

// Unrecognized reports how many detected faces were discarded as candidates
// for manual review.
func (m MatchSet) Unrecognized() int {
	return m.FacesDetected - m.FacesResolved
}

// ResolveMatches filters raw recognition results against a confidence
// threshold and collapses duplicate identities. A result is accepted iff
// its confidence (a distance; lower is stricter) is strictly below the
// threshold and its label resolved to a student. Multiple accepted results
// for the same student, typically overlapping detections of one physical
// face, count once; everything else is discarded for manual review, never
// auto-persisted.
func ResolveMatches(results []Result, threshold float64) MatchSet {
	set := MatchSet{FacesDetected: len(results)}
	seen := make(map[string]bool)

	for _, result := range results {
		if result.StudentID == "" || result.Confidence >= threshold {
			continue
		}
		set.FacesResolved++
		if seen[result.StudentID] {
			continue
		}
		seen[result.StudentID] = true
		set.StudentIDs = append(set.StudentIDs, result.StudentID)
	}

	return set
}
