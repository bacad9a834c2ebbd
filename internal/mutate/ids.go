package mutate

import (
	"fmt"

	"github.com/google/uuid"

	"syllabus-cli/internal/model"
)

// newID returns <prefix>-<8 hex chars> that is not in taken, and records it there.
// Short ids are retried on collision; after that the full uuid is used.
func newID(kind model.NodeKind, taken map[string]bool) string {
	prefix := kind.IDPrefix()
	for i := 0; i < 20; i++ {
		u, err := uuid.NewRandom()
		if err != nil {
			break
		}
		id := prefix + "-" + u.String()[:8]
		if !taken[id] {
			taken[id] = true
			return id
		}
	}
	for {
		id := prefix + "-" + uuid.NewString()
		if !taken[id] {
			taken[id] = true
			return id
		}
	}
}

func collectIDs(root model.Node) map[string]bool {
	out := map[string]bool{}
	Walk(root, func(n model.Node, _ int) bool {
		out[n.ID] = true
		return true
	})
	return out
}

// withFreshIDs returns a deep copy of n where every node in the subtree has a new id.
func withFreshIDs(n model.Node, taken map[string]bool) model.Node {
	out := n.Clone()
	var walk func(x model.Node) model.Node
	walk = func(x model.Node) model.Node {
		x.ID = newID(x.Kind, taken)
		for i := range x.Children {
			x.Children[i] = walk(x.Children[i])
		}
		return x
	}
	return walk(out)
}

func describe(n model.Node) string {
	return fmt.Sprintf("%s %s", n.Kind, n.ID)
}
