package mutate

import (
	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
)

// locate returns the child-index path from root to the node with id ([] for the root itself).
func locate(root model.Node, id string) ([]int, bool) {
	if id == "" {
		return nil, false
	}
	if root.ID == id {
		return []int{}, true
	}
	for i := range root.Children {
		if p, ok := locate(root.Children[i], id); ok {
			return append([]int{i}, p...), true
		}
	}
	return nil, false
}

func nodeAt(root model.Node, path []int) model.Node {
	n := root
	for _, i := range path {
		n = n.Children[i]
	}
	return n
}

// replaceAt returns a copy of root where the node at path is replaced by fn's result.
// Only the nodes along path are copied; every other subtree is shared with root.
func replaceAt(root model.Node, path []int, fn func(model.Node) (model.Node, error)) (model.Node, error) {
	if len(path) == 0 {
		return fn(root)
	}
	i := path[0]
	child, err := replaceAt(root.Children[i], path[1:], fn)
	if err != nil {
		return model.Node{}, err
	}
	children := make([]model.Node, len(root.Children))
	copy(children, root.Children)
	children[i] = child
	root.Children = children
	return root, nil
}

// isPrefix reports whether p is a prefix of (or equal to) q.
func isPrefix(p, q []int) bool {
	if len(p) > len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func reop(op string, err error) error {
	return errs.WithOp(err, op)
}
