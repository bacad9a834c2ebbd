package mutate

import (
	"errors"
	"reflect"
	"testing"

	"syllabus-cli/internal/errs"
)

func TestDeleteNode_CascadesAndRenumbers(t *testing.T) {
	cases := []struct {
		id     string
		parent string
	}{
		{"mod-1", "crs-1"},
		{"quiz-1", "les-1"},
		{"opt-a", "qst-1"},
		{"play-1", "crs-1"},
	}
	for _, tc := range cases {
		root := sampleCourse()
		sub, err := SubtreeIDs(root, tc.id)
		if err != nil {
			t.Fatalf("SubtreeIDs: %v", err)
		}
		next, err := DeleteNode(root, tc.id)
		if err != nil {
			t.Fatalf("DeleteNode(%s): %v", tc.id, err)
		}
		if got, want := Count(next), Count(root)-len(sub); got != want {
			t.Fatalf("DeleteNode(%s): count %d; want %d", tc.id, got, want)
		}
		for _, id := range sub {
			if _, ok := FindNode(next, id); ok {
				t.Fatalf("DeleteNode(%s): %s survived", tc.id, id)
			}
		}
		assertDense(t, mustFind(t, next, tc.parent))
		if err := Validate(next); err != nil {
			t.Fatalf("invalid after delete: %v", err)
		}
		assertUnchanged(t, sampleCourse(), root)
	}
}

func TestDeleteNode_RenumbersFormerSiblings(t *testing.T) {
	next, err := DeleteNode(sampleCourse(), "mod-2")
	if err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	c := mustFind(t, next, "crs-1")
	if got, want := childIDs(c), []string{"mod-1", "quiz-2", "play-1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("children %v; want %v", got, want)
	}
	assertDense(t, c)
}

func TestDeleteNode_Errors(t *testing.T) {
	root := sampleCourse()
	if _, err := DeleteNode(root, "crs-1"); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation deleting root, got %v", err)
	}
	if _, err := DeleteNode(root, "nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	assertUnchanged(t, sampleCourse(), root)
}
