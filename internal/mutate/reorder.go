package mutate

import (
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/siblings"
)

// ReorderSiblings rearranges parentID's children to follow orderedIDs, which must be an
// exact permutation of the current child ids.
func ReorderSiblings(root model.Node, parentID string, orderedIDs []string) (model.Node, error) {
	const op = "mutate.reorder_siblings"
	parentID = strings.TrimSpace(parentID)
	path, ok := locate(root, parentID)
	if !ok {
		return model.Node{}, errs.NotFound(op, "node", parentID)
	}
	ids := make([]string, len(orderedIDs))
	for i, id := range orderedIDs {
		ids[i] = strings.TrimSpace(id)
	}
	next, err := replaceAt(root, path, func(p model.Node) (model.Node, error) {
		children, err := siblings.Reorder(p.Children, ids)
		if err != nil {
			return model.Node{}, err
		}
		if len(children) == 0 {
			children = nil
		}
		p.Children = children
		return p, nil
	})
	if err != nil {
		return model.Node{}, reop(op, err)
	}
	return next, nil
}

// MoveSibling moves the child at index from to index to under parentID (one drag gesture).
// It serves outline rows and quiz option lists alike.
func MoveSibling(root model.Node, parentID string, from, to int) (model.Node, error) {
	const op = "mutate.move_sibling"
	parentID = strings.TrimSpace(parentID)
	path, ok := locate(root, parentID)
	if !ok {
		return model.Node{}, errs.NotFound(op, "node", parentID)
	}
	next, err := replaceAt(root, path, func(p model.Node) (model.Node, error) {
		children, err := siblings.Move(p.Children, from, to)
		if err != nil {
			return model.Node{}, err
		}
		p.Children = children
		return p, nil
	})
	if err != nil {
		return model.Node{}, reop(op, err)
	}
	return next, nil
}
