package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/logger"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
	"syllabus-cli/internal/perm"
	"syllabus-cli/internal/store"
)

func newDeps(t *testing.T) Deps {
	t.Helper()
	st := store.NewMemoryStore()
	return Deps{
		Store:        st,
		Auth:         perm.NewAuthorizer(st, []string{"admin"}),
		Log:          logger.Nop(),
		HistoryLimit: 3,
	}
}

func title(s string) model.Attrs { return model.Attrs{Title: &s} }

func childIDs(n model.Node) []string {
	out := []string{}
	for _, ch := range n.Children {
		out = append(out, ch.ID)
	}
	return out
}

func TestCreateEditSaveOpen(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)

	s, err := Create(ctx, deps, "alice", title("Go 101"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("fresh course must not be dirty")
	}
	courseID := s.CourseID()

	m1, err := s.AddChild(courseID, model.KindModule, title("Basics"))
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	les, err := s.AddChild(m1, model.KindLesson, model.Attrs{})
	if err != nil {
		t.Fatalf("AddChild(lesson): %v", err)
	}
	if !s.View.IsExpanded(m1) {
		t.Fatalf("new node's ancestors should be revealed")
	}
	if _, err := s.AddChild(les, model.KindPage, title("Intro")); err != nil {
		t.Fatalf("AddChild(page): %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("session must be dirty after edits")
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("Save must clear dirty")
	}

	again, err := Open(ctx, deps, "alice", courseID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !reflect.DeepEqual(again.Tree(), s.Tree()) {
		t.Fatalf("reopened tree differs:\n got  %+v\n want %+v", again.Tree(), s.Tree())
	}
}

func TestScenario_AddDeleteDuplicate(t *testing.T) {
	ctx := context.Background()
	s, err := Create(ctx, newDeps(t), "alice", title("c1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c := s.CourseID()
	m1, _ := s.AddChild(c, model.KindModule, title("m1"))
	m2, _ := s.AddChild(c, model.KindModule, title("m2"))
	if err := s.Delete(m1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	dup, err := s.Duplicate(m2)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	root := s.Tree()
	if got, want := childIDs(root), []string{m2, dup}; !reflect.DeepEqual(got, want) {
		t.Fatalf("children %v; want %v", got, want)
	}
	if root.Children[0].Order != 0 || root.Children[1].Order != 1 || root.Children[1].Title != "m2 (copy)" {
		t.Fatalf("unexpected children: %+v", root.Children)
	}
}

func TestFailedMutationLeavesSessionUntouched(t *testing.T) {
	s, err := Create(context.Background(), newDeps(t), "alice", model.Attrs{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := s.Tree()
	if _, err := s.AddChild(s.CourseID(), model.KindPage, model.Attrs{}); !errors.Is(err, errs.ErrInvalidNesting) {
		t.Fatalf("expected invalid nesting, got %v", err)
	}
	if err := s.Delete(s.CourseID()); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation, got %v", err)
	}
	if !reflect.DeepEqual(before, s.Tree()) || s.Dirty() || s.CanUndo() {
		t.Fatalf("failed mutations changed the session")
	}
}

func TestUndoRedo(t *testing.T) {
	ctx := context.Background()
	s, err := Create(ctx, newDeps(t), "alice", model.Attrs{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c := s.CourseID()
	if err := s.Undo(); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("expected nothing to undo, got %v", err)
	}

	a, _ := s.AddChild(c, model.KindModule, title("a"))
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, _ := s.AddChild(c, model.KindModule, title("b"))
	if !s.Dirty() {
		t.Fatalf("expected dirty")
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := childIDs(s.Tree()); !reflect.DeepEqual(got, []string{a}) {
		t.Fatalf("after undo %v", got)
	}
	if s.Dirty() {
		t.Fatalf("undo back to the saved tree must not be dirty")
	}
	if err := s.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := childIDs(s.Tree()); !reflect.DeepEqual(got, []string{a, b}) {
		t.Fatalf("after redo %v", got)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if _, err := s.AddChild(c, model.KindQuiz, model.Attrs{}); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if s.CanRedo() {
		t.Fatalf("a new mutation must clear redo")
	}
}

func TestUndoHistoryIsBounded(t *testing.T) {
	s, err := Create(context.Background(), newDeps(t), "alice", model.Attrs{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := s.AddChild(s.CourseID(), model.KindModule, model.Attrs{}); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}
	undone := 0
	for s.CanUndo() {
		if err := s.Undo(); err != nil {
			t.Fatalf("Undo: %v", err)
		}
		undone++
	}
	if undone != 3 {
		t.Fatalf("undid %d steps; history limit is 3", undone)
	}
	if got := len(s.Tree().Children); got != 2 {
		t.Fatalf("expected 2 modules left, got %d", got)
	}
}

func TestShiftAndMove(t *testing.T) {
	s, err := Create(context.Background(), newDeps(t), "alice", model.Attrs{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c := s.CourseID()
	m1, _ := s.AddChild(c, model.KindModule, title("m1"))
	m2, _ := s.AddChild(c, model.KindModule, title("m2"))
	q, _ := s.AddChild(c, model.KindQuiz, title("q"))

	if err := s.Shift(q, -1); err != nil {
		t.Fatalf("Shift: %v", err)
	}
	if got := childIDs(s.Tree()); !reflect.DeepEqual(got, []string{m1, q, m2}) {
		t.Fatalf("after shift %v", got)
	}
	if err := s.Shift(m1, -5); err != nil {
		t.Fatalf("Shift past the top: %v", err)
	}
	if err := s.Shift(c, 1); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("expected invalid operation shifting root, got %v", err)
	}

	if err := s.Move(q, m2, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if p, _ := mutate.GetPath(s.Tree(), q); !reflect.DeepEqual(p, []string{c, m2, q}) {
		t.Fatalf("path after move %v", p)
	}
	if err := s.Reorder(c, []string{m2, m1}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if got := childIDs(s.Tree()); !reflect.DeepEqual(got, []string{m2, m1}) {
		t.Fatalf("after reorder %v", got)
	}
}

func TestPermissions(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	s, err := Create(ctx, deps, "alice", model.Attrs{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := s.CourseID()

	if _, err := Open(ctx, deps, "bob", id); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("bob: expected forbidden, got %v", err)
	}
	if _, err := Open(ctx, deps, "admin", id); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if _, err := Open(ctx, deps, "alice", "crs-missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := Create(ctx, deps, " ", model.Attrs{}); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden for empty user, got %v", err)
	}
}

// failingStore rejects every save with a conflict.
type failingStore struct {
	store.AggregateStore
}

func (failingStore) SaveAggregate(context.Context, string, store.CourseDocument) error {
	return errs.Conflict("store.save_aggregate", errors.New("database is locked"))
}

func TestSaveErrorsPropagateUnchanged(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	s, err := Create(ctx, deps, "alice", model.Attrs{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.deps.Store = failingStore{deps.Store}
	if _, err := s.AddChild(s.CourseID(), model.KindModule, model.Attrs{}); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	err = s.Save(ctx)
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("failed save must keep the session dirty")
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	course, err := mutate.NewCourse(title("Imported"))
	if err != nil {
		t.Fatalf("NewCourse: %v", err)
	}
	res, err := mutate.AddChild(course, course.ID, model.KindCodingPlayground, model.Attrs{})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	s, err := Import(ctx, deps, "alice", res.Tree)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if _, err := Import(ctx, deps, "alice", res.Tree); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("second import: expected conflict, got %v", err)
	}
	bad := res.Tree
	bad.Children = []model.Node{{ID: "page-x", Kind: model.KindPage, Title: "P"}}
	bad.ID = "crs-other"
	if _, err := Import(ctx, deps, "alice", bad); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("malformed import: expected validation, got %v", err)
	}
	if s.Tree().Title != "Imported" {
		t.Fatalf("unexpected tree: %+v", s.Tree())
	}
}
