package mutate

import (
	"fmt"
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/siblings"
)

// MoveNode detaches nodeID (with its subtree) and inserts it under newParentID at index.
// index is measured after the node has been removed; a negative index appends.
// Both the old and the new sibling lists are renumbered.
func MoveNode(root model.Node, nodeID, newParentID string, index int) (model.Node, error) {
	const op = "mutate.move_node"
	nodeID = strings.TrimSpace(nodeID)
	newParentID = strings.TrimSpace(newParentID)

	path, ok := locate(root, nodeID)
	if !ok {
		return model.Node{}, errs.NotFound(op, "node", nodeID)
	}
	if len(path) == 0 {
		return model.Node{}, errs.InvalidOperation(op, "the course root cannot be moved")
	}
	targetPath, ok := locate(root, newParentID)
	if !ok {
		return model.Node{}, errs.NotFound(op, "node", newParentID)
	}
	if isPrefix(path, targetPath) {
		return model.Node{}, errs.InvalidOperation(op, "cannot move a node into its own subtree")
	}
	n := nodeAt(root, path)
	target := nodeAt(root, targetPath)
	if !model.IsAllowedChild(target.Kind, n.Kind) {
		return model.Node{}, errs.InvalidNesting(op, string(target.Kind), string(n.Kind))
	}

	detached, err := replaceAt(root, path[:len(path)-1], func(p model.Node) (model.Node, error) {
		children, _, err := siblings.RemoveByID(p.Children, nodeID)
		if err != nil {
			return model.Node{}, err
		}
		p.Children = children
		return p, nil
	})
	if err != nil {
		return model.Node{}, reop(op, err)
	}

	// Paths may have shifted after the removal.
	targetPath, _ = locate(detached, newParentID)
	count := len(nodeAt(detached, targetPath).Children)
	if index < 0 {
		index = count
	}
	if index > count {
		return model.Node{}, errs.InvalidOperation(op, fmt.Sprintf("index %d out of range 0..%d", index, count))
	}

	next, err := replaceAt(detached, targetPath, func(p model.Node) (model.Node, error) {
		children, err := siblings.Insert(p.Children, index, n)
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
