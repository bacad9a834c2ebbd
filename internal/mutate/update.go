package mutate

import (
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
)

// UpdateNode applies attrs to nodeID. Id, kind, order and children are never touched.
func UpdateNode(root model.Node, nodeID string, attrs model.Attrs) (model.Node, error) {
	const op = "mutate.update_node"
	nodeID = strings.TrimSpace(nodeID)
	path, ok := locate(root, nodeID)
	if !ok {
		return model.Node{}, errs.NotFound(op, "node", nodeID)
	}
	n := nodeAt(root, path)
	if err := attrs.Check(n.Kind); err != nil {
		return model.Node{}, errs.InvalidOperation(op, err.Error())
	}
	if attrs.IsZero() {
		return root, nil
	}
	return replaceAt(root, path, func(x model.Node) (model.Node, error) {
		return attrs.Apply(x), nil
	})
}
