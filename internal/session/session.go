// Package session owns one editing session: a single user working on a single course.
//
// A Session threads the current tree value through the pure operations in package mutate,
// keeps an undo history, and loads and saves through a store.AggregateStore. Sessions are
// not safe for concurrent use.
package session

import (
	"context"
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/logger"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
	"syllabus-cli/internal/perm"
	"syllabus-cli/internal/store"
	"syllabus-cli/internal/viewstate"
)

const DefaultHistoryLimit = 100

// Deps are the collaborators a session talks to.
type Deps struct {
	Store        store.AggregateStore
	Auth         *perm.Authorizer
	Log          *logger.Logger
	HistoryLimit int
}

type snapshot struct {
	tree model.Node
	rev  int
}

type Session struct {
	deps   Deps
	log    *logger.Logger
	userID string

	tree    model.Node
	rev     int
	nextRev int
	saved   int
	undo    []snapshot
	redo    []snapshot

	// View is the outline presentation state. Mutations prune it.
	View *viewstate.State
}

func newSession(deps Deps, userID string, tree model.Node) *Session {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = DefaultHistoryLimit
	}
	s := &Session{
		deps:   deps,
		log:    deps.Log.With("course", tree.ID, "user", userID),
		userID: userID,
		tree:   tree,
		View:   viewstate.New(),
	}
	s.View.Expand(tree.ID)
	s.View.Select(tree, tree.ID)
	return s
}

func checkDeps(op string, deps Deps) error {
	if deps.Store == nil || deps.Auth == nil {
		return errs.New(errs.CodeInternal, op, "session needs a store and an authorizer")
	}
	return nil
}

// Open authorizes userID on courseID and loads the course.
func Open(ctx context.Context, deps Deps, userID, courseID string) (*Session, error) {
	const op = "session.open"
	if err := checkDeps(op, deps); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	courseID = strings.TrimSpace(courseID)
	if err := deps.Auth.ResolveEditableCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}
	doc, err := deps.Store.LoadAggregate(ctx, courseID)
	if err != nil {
		return nil, err
	}
	tree, err := store.FromStorage(doc)
	if err != nil {
		return nil, err
	}
	if tree.ID != courseID {
		return nil, errs.Validation(op, "stored document id "+tree.ID+" does not match course "+courseID)
	}
	s := newSession(deps, userID, tree)
	s.log.Debug("session opened", "nodes", mutate.Count(tree))
	return s, nil
}

// Create starts a new course owned by userID and stores it immediately.
func Create(ctx context.Context, deps Deps, userID string, attrs model.Attrs) (*Session, error) {
	const op = "session.create"
	course, err := mutate.NewCourse(attrs)
	if err != nil {
		return nil, err
	}
	return create(ctx, op, deps, userID, course)
}

// Import stores an existing course tree as a new course owned by userID.
func Import(ctx context.Context, deps Deps, userID string, tree model.Node) (*Session, error) {
	return create(ctx, "session.import", deps, userID, tree)
}

func create(ctx context.Context, op string, deps Deps, userID string, tree model.Node) (*Session, error) {
	if err := checkDeps(op, deps); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errs.Forbidden(op, "no user id")
	}
	doc, err := store.ToStorage(tree)
	if err != nil {
		return nil, err
	}
	if err := deps.Store.CreateAggregate(ctx, userID, doc); err != nil {
		return nil, err
	}
	s := newSession(deps, userID, tree)
	s.log.Info("course created", "op", op, "title", tree.Title)
	return s, nil
}

func (s *Session) Tree() model.Node { return s.tree }
func (s *Session) CourseID() string { return s.tree.ID }
func (s *Session) UserID() string   { return s.userID }

// Dirty reports whether the tree differs from the last stored version.
func (s *Session) Dirty() bool { return s.rev != s.saved }

func (s *Session) CanUndo() bool { return len(s.undo) > 0 }
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// apply runs a pure tree operation. The session tree is replaced only when fn succeeds.
func (s *Session) apply(op, nodeID string, fn func(model.Node) (model.Node, error)) error {
	next, err := fn(s.tree)
	if err != nil {
		s.log.Warn("mutation rejected", "op", op, "node", nodeID, "err", err)
		return err
	}
	s.undo = append(s.undo, snapshot{tree: s.tree, rev: s.rev})
	if over := len(s.undo) - s.deps.HistoryLimit; over > 0 {
		s.undo = append([]snapshot(nil), s.undo[over:]...)
	}
	s.redo = nil
	s.nextRev++
	s.rev = s.nextRev
	s.tree = next
	s.View.Prune(next)
	s.log.Debug("mutation applied", "op", op, "node", nodeID)
	return nil
}

// AddChild appends a node of kind under parentID and returns the new id.
func (s *Session) AddChild(parentID string, kind model.NodeKind, attrs model.Attrs) (string, error) {
	var id string
	err := s.apply("add_child", parentID, func(t model.Node) (model.Node, error) {
		res, err := mutate.AddChild(t, parentID, kind, attrs)
		id = res.NodeID
		return res.Tree, err
	})
	if err != nil {
		return "", err
	}
	s.View.Reveal(s.tree, id)
	return id, nil
}

func (s *Session) Update(nodeID string, attrs model.Attrs) error {
	return s.apply("update_node", nodeID, func(t model.Node) (model.Node, error) {
		return mutate.UpdateNode(t, nodeID, attrs)
	})
}

func (s *Session) Delete(nodeID string) error {
	return s.apply("delete_node", nodeID, func(t model.Node) (model.Node, error) {
		return mutate.DeleteNode(t, nodeID)
	})
}

// Duplicate copies nodeID's subtree and returns the id of the copy.
func (s *Session) Duplicate(nodeID string) (string, error) {
	var id string
	err := s.apply("duplicate_node", nodeID, func(t model.Node) (model.Node, error) {
		res, err := mutate.DuplicateNode(t, nodeID)
		id = res.NodeID
		return res.Tree, err
	})
	return id, err
}

func (s *Session) Reorder(parentID string, orderedIDs []string) error {
	return s.apply("reorder_siblings", parentID, func(t model.Node) (model.Node, error) {
		return mutate.ReorderSiblings(t, parentID, orderedIDs)
	})
}

func (s *Session) MoveSibling(parentID string, from, to int) error {
	return s.apply("move_sibling", parentID, func(t model.Node) (model.Node, error) {
		return mutate.MoveSibling(t, parentID, from, to)
	})
}

// Shift moves nodeID by delta positions among its siblings, clamped to the list bounds.
func (s *Session) Shift(nodeID string, delta int) error {
	const op = "session.shift"
	parent, ok := mutate.FindParent(s.tree, nodeID)
	if !ok {
		if _, found := mutate.FindNode(s.tree, nodeID); found {
			return errs.InvalidOperation(op, "the course root has no siblings")
		}
		return errs.NotFound(op, "node", nodeID)
	}
	from := -1
	for i, ch := range parent.Children {
		if ch.ID == strings.TrimSpace(nodeID) {
			from = i
		}
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(parent.Children)-1 {
		to = len(parent.Children) - 1
	}
	if to == from {
		return nil
	}
	return s.MoveSibling(parent.ID, from, to)
}

func (s *Session) Move(nodeID, newParentID string, index int) error {
	return s.apply("move_node", nodeID, func(t model.Node) (model.Node, error) {
		return mutate.MoveNode(t, nodeID, newParentID, index)
	})
}

// Undo restores the tree as it was before the last mutation.
func (s *Session) Undo() error {
	if len(s.undo) == 0 {
		return errs.InvalidOperation("session.undo", "nothing to undo")
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, snapshot{tree: s.tree, rev: s.rev})
	s.tree, s.rev = prev.tree, prev.rev
	s.View.Prune(s.tree)
	s.log.Debug("undo", "rev", s.rev)
	return nil
}

func (s *Session) Redo() error {
	if len(s.redo) == 0 {
		return errs.InvalidOperation("session.redo", "nothing to redo")
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, snapshot{tree: s.tree, rev: s.rev})
	s.tree, s.rev = next.tree, next.rev
	s.View.Prune(s.tree)
	s.log.Debug("redo", "rev", s.rev)
	return nil
}

// Save re-checks permission, validates the tree and stores it as a whole.
// Store errors are returned unchanged; Dirty is cleared only on success.
func (s *Session) Save(ctx context.Context) error {
	courseID := s.tree.ID
	if err := s.deps.Auth.ResolveEditableCourse(ctx, s.userID, courseID); err != nil {
		s.log.Warn("save refused", "err", err)
		return err
	}
	if err := mutate.Validate(s.tree); err != nil {
		return err
	}
	doc, err := store.ToStorage(s.tree)
	if err != nil {
		return err
	}
	if err := s.deps.Store.SaveAggregate(ctx, courseID, doc); err != nil {
		s.log.Warn("save failed", "err", err)
		return err
	}
	s.saved = s.rev
	s.log.Info("course saved", "nodes", mutate.Count(s.tree))
	return nil
}
