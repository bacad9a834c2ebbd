package mutate

import (
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/siblings"
)

// DeleteNode removes nodeID with its whole subtree and renumbers the former siblings.
func DeleteNode(root model.Node, nodeID string) (model.Node, error) {
	const op = "mutate.delete_node"
	nodeID = strings.TrimSpace(nodeID)
	path, ok := locate(root, nodeID)
	if !ok {
		return model.Node{}, errs.NotFound(op, "node", nodeID)
	}
	if len(path) == 0 {
		return model.Node{}, errs.InvalidOperation(op, "the course root cannot be deleted")
	}
	next, err := replaceAt(root, path[:len(path)-1], func(p model.Node) (model.Node, error) {
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
	return next, nil
}
