// Package viewstate holds outline presentation state (expansion and selection) keyed by
// node id. It never touches course data.
package viewstate

import (
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
)

type State struct {
	Expanded map[string]bool `json:"expanded,omitempty"`
	Selected string          `json:"selected,omitempty"`
	// SelectedPath is the id path from the root to Selected at the time it was selected.
	SelectedPath []string `json:"selectedPath,omitempty"`
}

// Row is one visible line of the flattened outline.
type Row struct {
	Node        model.Node
	Depth       int
	HasChildren bool
	Expanded    bool
}

func New() *State {
	return &State{Expanded: map[string]bool{}}
}

func (s *State) ensure() {
	if s.Expanded == nil {
		s.Expanded = map[string]bool{}
	}
}

func (s *State) IsExpanded(id string) bool { return s.Expanded[id] }

func (s *State) Expand(id string) {
	s.ensure()
	s.Expanded[id] = true
}

func (s *State) Collapse(id string) {
	delete(s.Expanded, id)
}

// Toggle flips the expansion of id and reports the new state.
func (s *State) Toggle(id string) bool {
	if s.Expanded[id] {
		s.Collapse(id)
		return false
	}
	s.Expand(id)
	return true
}

// ExpandAll expands every node of tree that has children.
func (s *State) ExpandAll(tree model.Node) {
	s.ensure()
	mutate.Walk(tree, func(n model.Node, _ int) bool {
		if len(n.Children) > 0 {
			s.Expanded[n.ID] = true
		}
		return true
	})
}

// CollapseAll collapses everything; only the root row stays visible.
func (s *State) CollapseAll() {
	s.Expanded = map[string]bool{}
}

// Select moves the selection to id. Unknown ids are ignored.
func (s *State) Select(tree model.Node, id string) bool {
	path, err := mutate.GetPath(tree, id)
	if err != nil {
		return false
	}
	s.Selected = path[len(path)-1]
	s.SelectedPath = path
	return true
}

// Reveal expands every ancestor of id so its row is visible.
func (s *State) Reveal(tree model.Node, id string) {
	path, err := mutate.GetPath(tree, id)
	if err != nil {
		return
	}
	s.ensure()
	for _, anc := range path[:len(path)-1] {
		s.Expanded[anc] = true
	}
}

// Prune drops state for ids that are no longer in tree. A selection that disappeared moves
// to its nearest surviving ancestor, falling back to the root.
func (s *State) Prune(tree model.Node) {
	present := map[string]bool{}
	mutate.Walk(tree, func(n model.Node, _ int) bool {
		present[n.ID] = true
		return true
	})
	for id := range s.Expanded {
		if !present[id] {
			delete(s.Expanded, id)
		}
	}
	if present[s.Selected] {
		s.Select(tree, s.Selected)
		return
	}
	for i := len(s.SelectedPath) - 1; i >= 0; i-- {
		if present[s.SelectedPath[i]] {
			s.Select(tree, s.SelectedPath[i])
			return
		}
	}
	s.Select(tree, tree.ID)
}

// Rows flattens tree into its visible rows: the root, and the children of every expanded node.
func (s *State) Rows(tree model.Node) []Row {
	var out []Row
	mutate.Walk(tree, func(n model.Node, depth int) bool {
		open := s.Expanded[n.ID]
		out = append(out, Row{Node: n, Depth: depth, HasChildren: len(n.Children) > 0, Expanded: open})
		return open
	})
	return out
}

// SelectedIndex returns the index of the selected row in rows, or -1.
func SelectedIndex(rows []Row, selected string) int {
	for i, r := range rows {
		if r.Node.ID == selected {
			return i
		}
	}
	return -1
}

// MoveSelection moves the selection delta rows up or down within the visible rows,
// clamping at both ends.
func (s *State) MoveSelection(tree model.Node, delta int) {
	rows := s.Rows(tree)
	if len(rows) == 0 {
		return
	}
	i := SelectedIndex(rows, s.Selected)
	if i < 0 {
		i = 0
	} else {
		i += delta
	}
	if i < 0 {
		i = 0
	}
	if i >= len(rows) {
		i = len(rows) - 1
	}
	s.Select(tree, rows[i].Node.ID)
}
