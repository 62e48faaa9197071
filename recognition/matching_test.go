package recognition

import (
	"image"
	"reflect"
	"testing"
)

func resultAt(label int, confidence float64, studentID string) Result {
	return Result{
		Region:     image.Rect(0, 0, 50, 50),
		Label:      label,
		Confidence: confidence,
		StudentID:  studentID,
	}
}

func TestResolveMatchesThresholdIsStrict(t *testing.T) {
	results := []Result{
		resultAt(0, 69.9, "S001"),
		resultAt(1, 70.0, "S002"),
		resultAt(2, 70.1, "S003"),
	}

	set := ResolveMatches(results, 70.0)

	if !reflect.DeepEqual(set.StudentIDs, []string{"S001"}) {
		t.Errorf("expected only S001 under the threshold, got %v", set.StudentIDs)
	}
	if set.FacesDetected != 3 {
		t.Errorf("expected 3 detected, got %d", set.FacesDetected)
	}
	if set.FacesResolved != 1 {
		t.Errorf("expected 1 resolved, got %d", set.FacesResolved)
	}
	if set.Unrecognized() != 2 {
		t.Errorf("expected 2 unrecognized, got %d", set.Unrecognized())
	}
}

func TestResolveMatchesRejectsUnmappedLabels(t *testing.T) {
	results := []Result{
		resultAt(7, 10.0, ""), // confident but no student mapping
		resultAt(1, 10.0, "S002"),
	}

	set := ResolveMatches(results, 70.0)

	if !reflect.DeepEqual(set.StudentIDs, []string{"S002"}) {
		t.Errorf("expected only the mapped label, got %v", set.StudentIDs)
	}
	if set.Unrecognized() != 1 {
		t.Errorf("expected unmapped label counted as unrecognized, got %d", set.Unrecognized())
	}
}

func TestResolveMatchesCollapsesDuplicates(t *testing.T) {
	// overlapping detections of the same face typically resolve to the
	// same student several times
	results := []Result{
		resultAt(0, 30.0, "S001"),
		resultAt(1, 20.0, "S002"),
		resultAt(0, 25.0, "S001"),
		resultAt(0, 28.0, "S001"),
	}

	set := ResolveMatches(results, 70.0)

	if !reflect.DeepEqual(set.StudentIDs, []string{"S001", "S002"}) {
		t.Errorf("expected first-appearance order [S001 S002], got %v", set.StudentIDs)
	}
	if set.FacesResolved != 4 {
		t.Errorf("resolved count should be pre-collapse, got %d", set.FacesResolved)
	}
	if set.Unrecognized() != 0 {
		t.Errorf("expected 0 unrecognized, got %d", set.Unrecognized())
	}
}

func TestResolveMatchesEmptyInput(t *testing.T) {
	set := ResolveMatches(nil, 70.0)
	if len(set.StudentIDs) != 0 || set.FacesDetected != 0 || set.FacesResolved != 0 {
		t.Errorf("empty input should produce an empty set, got %+v", set)
	}
}

func TestResolveMatchesTighterThresholdAcceptsSubset(t *testing.T) {
	results := []Result{
		resultAt(0, 15.0, "S001"),
		resultAt(1, 45.0, "S002"),
		resultAt(2, 65.0, "S003"),
	}

	loose := ResolveMatches(results, 70.0)
	tight := ResolveMatches(results, 50.0)

	looseSet := make(map[string]bool)
	for _, id := range loose.StudentIDs {
		looseSet[id] = true
	}
	for _, id := range tight.StudentIDs {
		if !looseSet[id] {
			t.Errorf("tighter threshold accepted %s, which the looser threshold rejected", id)
		}
	}
	if tight.FacesResolved > loose.FacesResolved {
		t.Errorf("tightening the threshold should never resolve more faces: %d > %d",
			tight.FacesResolved, loose.FacesResolved)
	}
}
