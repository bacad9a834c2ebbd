package mutate

import (
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/siblings"
)

type AddResult struct {
	Tree   model.Node
	NodeID string
}

// NewCourse builds a fresh course root. It is the only way a root is created.
func NewCourse(attrs model.Attrs) (model.Node, error) {
	const op = "mutate.new_course"
	if err := attrs.Check(model.KindCourse); err != nil {
		return model.Node{}, errs.InvalidOperation(op, err.Error())
	}
	n := model.Node{
		ID:     newID(model.KindCourse, map[string]bool{}),
		Kind:   model.KindCourse,
		Title:  "Untitled Course",
		Status: model.StatusDraft,
	}
	return attrs.Apply(n), nil
}

// AddChild appends a new node of kind as the last child of parentID.
func AddChild(root model.Node, parentID string, kind model.NodeKind, attrs model.Attrs) (AddResult, error) {
	const op = "mutate.add_child"
	parentID = strings.TrimSpace(parentID)
	if !kind.Valid() {
		return AddResult{}, errs.InvalidOperation(op, "unknown node kind: "+string(kind))
	}

	path, ok := locate(root, parentID)
	if !ok {
		return AddResult{}, errs.NotFound(op, "node", parentID)
	}
	parent := nodeAt(root, path)
	if !model.IsAllowedChild(parent.Kind, kind) {
		return AddResult{}, errs.InvalidNesting(op, string(parent.Kind), string(kind))
	}
	if err := attrs.Check(kind); err != nil {
		return AddResult{}, errs.InvalidOperation(op, err.Error())
	}

	n := model.Node{
		ID:    newID(kind, collectIDs(root)),
		Kind:  kind,
		Title: "New " + kind.Label(),
	}
	if model.HasStatus(kind) {
		n.Status = model.StatusDraft
	}
	n = attrs.Apply(n)

	next, err := replaceAt(root, path, func(p model.Node) (model.Node, error) {
		children, err := siblings.Append(p.Children, n)
		if err != nil {
			return model.Node{}, err
		}
		p.Children = children
		return p, nil
	})
	if err != nil {
		return AddResult{}, reop(op, err)
	}
	return AddResult{Tree: next, NodeID: n.ID}, nil
}
