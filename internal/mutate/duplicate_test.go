package mutate

import (
	"errors"
	"reflect"
	"testing"

	"syllabus-cli/internal/errs"
)

func TestDuplicateNode_FreshIDsAndSameStructure(t *testing.T) {
	root := sampleCourse()
	original := collectIDs(root)

	res, err := DuplicateNode(root, "mod-1")
	if err != nil {
		t.Fatalf("DuplicateNode: %v", err)
	}
	src := mustFind(t, root, "mod-1")
	cp := mustFind(t, res.Tree, res.NodeID)

	copied, err := SubtreeIDs(res.Tree, res.NodeID)
	if err != nil {
		t.Fatalf("SubtreeIDs: %v", err)
	}
	srcIDs, _ := SubtreeIDs(root, "mod-1")
	if len(copied) != len(srcIDs) {
		t.Fatalf("copy has %d nodes; source %d", len(copied), len(srcIDs))
	}
	for _, id := range copied {
		if original[id] {
			t.Fatalf("copied id %s collides with the original tree", id)
		}
	}

	if cp.Title != "Basics (copy)" {
		t.Fatalf("copy title = %q", cp.Title)
	}
	want := stripIDs(src)
	got := stripIDs(cp)
	want.Title, want.Order = "", 0
	got.Title, got.Order = "", 0
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("copy differs structurally:\n got  %+v\n want %+v", got, want)
	}
	// Descendant titles are copied unchanged.
	if cp.Children[0].Title != "Hello" {
		t.Fatalf("descendant title changed: %q", cp.Children[0].Title)
	}

	parent := mustFind(t, res.Tree, "crs-1")
	last := parent.Children[len(parent.Children)-1]
	if last.ID != res.NodeID || last.Order != len(parent.Children)-1 {
		t.Fatalf("copy not appended last: %+v", childIDs(parent))
	}
	assertDense(t, parent)
	if err := Validate(res.Tree); err != nil {
		t.Fatalf("invalid after duplicate: %v", err)
	}
	assertUnchanged(t, sampleCourse(), root)
}

func TestDuplicateNode_CopyIsIndependent(t *testing.T) {
	res, err := DuplicateNode(sampleCourse(), "quiz-1")
	if err != nil {
		t.Fatalf("DuplicateNode: %v", err)
	}
	cp := mustFind(t, res.Tree, res.NodeID)
	*cp.PassingScore = 5
	if orig := mustFind(t, res.Tree, "quiz-1"); *orig.PassingScore != 70 {
		t.Fatalf("copy shares passingScore with source")
	}
}

func TestDuplicateNode_Errors(t *testing.T) {
	root := sampleCourse()
	if _, err := DuplicateNode(root, "crs-1"); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation for root, got %v", err)
	}
	if _, err := DuplicateNode(root, "ghost"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	assertUnchanged(t, sampleCourse(), root)
}
