package format

import (
	"fmt"
	"io"
	"strings"

	"syllabus-cli/internal/model"
)

// WriteOutline renders course trees as indented text. Payloads without a text form
// (summaries, documents) fall back to JSON.
//
//	Go 101 [course crs-1] draft
//	  Basics [module mod-1] published
//	    Hello [lesson les-1]
//
// With pretty set, node descriptions are printed under their titles.
func WriteOutline(w io.Writer, v any, pretty bool) error {
	var b strings.Builder
	switch t := v.(type) {
	case model.Node:
		writeTree(&b, t, 0, pretty)
	case *model.Node:
		if t != nil {
			writeTree(&b, *t, 0, pretty)
		}
	case []model.Node:
		for _, n := range t {
			b.WriteString(OutlineLine(n))
			b.WriteByte('\n')
		}
	case []string:
		b.WriteString(strings.Join(t, " > "))
		b.WriteByte('\n')
	case string:
		b.WriteString(t)
		b.WriteByte('\n')
	default:
		return WriteJSON(w, v, pretty)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, n model.Node, depth int, withDescriptions bool) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString(OutlineLine(n))
	b.WriteByte('\n')
	if withDescriptions && strings.TrimSpace(n.Description) != "" {
		for _, line := range strings.Split(strings.TrimSpace(n.Description), "\n") {
			b.WriteString(indent + "  | " + line + "\n")
		}
	}
	for _, ch := range n.Children {
		writeTree(b, ch, depth+1, withDescriptions)
	}
}

// OutlineLine is the one-line text form of a node (children not included).
func OutlineLine(n model.Node) string {
	parts := []string{fmt.Sprintf("%s [%s %s]", n.Title, n.Kind, n.ID)}
	if n.Status != "" {
		parts = append(parts, string(n.Status))
	}
	if n.Difficulty != "" {
		parts = append(parts, string(n.Difficulty))
	}
	if n.EstimatedTime > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", n.EstimatedTime))
	}
	if n.Points > 0 {
		parts = append(parts, fmt.Sprintf("%dpts", n.Points))
	}
	if n.PassingScore != nil {
		parts = append(parts, fmt.Sprintf("pass %d%%", *n.PassingScore))
	}
	if n.MaxAttempts != nil {
		parts = append(parts, fmt.Sprintf("max %d attempts", *n.MaxAttempts))
	}
	if n.Kind == model.KindQuizOption && n.IsCorrect {
		parts = append(parts, "correct")
	}
	if len(n.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(n.Tags, " #"))
	}
	return strings.Join(parts, " ")
}
