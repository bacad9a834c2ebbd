package mutate

import (
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
)

func FindNode(root model.Node, id string) (model.Node, bool) {
	path, ok := locate(root, strings.TrimSpace(id))
	if !ok {
		return model.Node{}, false
	}
	return nodeAt(root, path), true
}

// FindParent returns the parent of id. The root has no parent.
func FindParent(root model.Node, id string) (model.Node, bool) {
	path, ok := locate(root, strings.TrimSpace(id))
	if !ok || len(path) == 0 {
		return model.Node{}, false
	}
	return nodeAt(root, path[:len(path)-1]), true
}

// GetSiblings returns the ordered sibling list that contains id (id included).
// The root is its own single-element list.
func GetSiblings(root model.Node, id string) ([]model.Node, error) {
	id = strings.TrimSpace(id)
	path, ok := locate(root, id)
	if !ok {
		return nil, errs.NotFound("mutate.get_siblings", "node", id)
	}
	if len(path) == 0 {
		return []model.Node{root}, nil
	}
	parent := nodeAt(root, path[:len(path)-1])
	return append([]model.Node(nil), parent.Children...), nil
}

// GetPath returns the ids from the root down to id, inclusive.
func GetPath(root model.Node, id string) ([]string, error) {
	id = strings.TrimSpace(id)
	path, ok := locate(root, id)
	if !ok {
		return nil, errs.NotFound("mutate.get_path", "node", id)
	}
	out := make([]string, 0, len(path)+1)
	n := root
	out = append(out, n.ID)
	for _, i := range path {
		n = n.Children[i]
		out = append(out, n.ID)
	}
	return out, nil
}

// Walk visits root and its descendants depth-first in order. Returning false from fn skips
// the visited node's children.
func Walk(root model.Node, fn func(n model.Node, depth int) bool) {
	var walk func(n model.Node, depth int)
	walk = func(n model.Node, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, ch := range n.Children {
			walk(ch, depth+1)
		}
	}
	walk(root, 0)
}

// Count returns the number of nodes in the tree, root included.
func Count(root model.Node) int {
	n := 0
	Walk(root, func(model.Node, int) bool {
		n++
		return true
	})
	return n
}

// SubtreeIDs returns id followed by every descendant id, depth-first.
func SubtreeIDs(root model.Node, id string) ([]string, error) {
	n, ok := FindNode(root, id)
	if !ok {
		return nil, errs.NotFound("mutate.subtree_ids", "node", strings.TrimSpace(id))
	}
	var out []string
	Walk(n, func(x model.Node, _ int) bool {
		out = append(out, x.ID)
		return true
	})
	return out, nil
}
