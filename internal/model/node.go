package model

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", fmt.Errorf("unknown status: %q", s)
	}
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyBeginner:
		return DifficultyBeginner, nil
	case DifficultyIntermediate:
		return DifficultyIntermediate, nil
	case DifficultyAdvanced:
		return DifficultyAdvanced, nil
	default:
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
}

// Node is one entry of a course tree. A tree is the Course root Node value.
//
// Nodes are treated as immutable values: tree operations copy the path they edit and
// share everything else, so callers must not modify a Node (or its slices) in place.
type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Title string   `json:"title"`
	Order int      `json:"order"`

	Status        Status     `json:"status,omitempty"`
	Description   string     `json:"description,omitempty"`
	Content       string     `json:"content,omitempty"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	EstimatedTime int        `json:"estimatedTime,omitempty"` // minutes
	Points        int        `json:"points,omitempty"`
	Tags          []string   `json:"tags,omitempty"`

	// Quiz only.
	PassingScore *int `json:"passingScore,omitempty"`
	MaxAttempts  *int `json:"maxAttempts,omitempty"`

	// QuizOption only.
	IsCorrect bool `json:"isCorrect,omitempty"`

	Children []Node `json:"children,omitempty"`
}

func (n Node) SiblingID() string { return n.ID }
func (n Node) SiblingOrder() int { return n.Order }
func (n Node) WithOrder(o int) Node {
	n.Order = o
	return n
}

// Clone returns a deep copy of n and its subtree.
func (n Node) Clone() Node {
	out := n
	out.Tags = cloneStrings(n.Tags)
	out.PassingScore = cloneInt(n.PassingScore)
	out.MaxAttempts = cloneInt(n.MaxAttempts)
	if n.Children != nil {
		out.Children = make([]Node, len(n.Children))
		for i := range n.Children {
			out.Children[i] = n.Children[i].Clone()
		}
	}
	return out
}

func cloneStrings(xs []string) []string {
	if len(xs) == 0 {
		return nil
	}
	return append([]string(nil), xs...)
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr is a small helper for optional int attributes.
func IntPtr(v int) *int { return &v }
