package mutate

import (
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/siblings"
)

const copySuffix = " (copy)"

type DuplicateResult struct {
	Tree   model.Node
	NodeID string
}

// DuplicateNode deep-copies nodeID's subtree with fresh ids everywhere and appends the copy
// as the last sibling under the same parent. Only the top-level title gets the copy suffix.
func DuplicateNode(root model.Node, nodeID string) (DuplicateResult, error) {
	const op = "mutate.duplicate_node"
	nodeID = strings.TrimSpace(nodeID)
	path, ok := locate(root, nodeID)
	if !ok {
		return DuplicateResult{}, errs.NotFound(op, "node", nodeID)
	}
	if len(path) == 0 {
		return DuplicateResult{}, errs.InvalidOperation(op, "the course root cannot be duplicated")
	}

	src := nodeAt(root, path)
	cp := withFreshIDs(src, collectIDs(root))
	cp.Title = src.Title + copySuffix

	next, err := replaceAt(root, path[:len(path)-1], func(p model.Node) (model.Node, error) {
		children, err := siblings.Append(p.Children, cp)
		if err != nil {
			return model.Node{}, err
		}
		p.Children = children
		return p, nil
	})
	if err != nil {
		return DuplicateResult{}, reop(op, err)
	}
	return DuplicateResult{Tree: next, NodeID: cp.ID}, nil
}
