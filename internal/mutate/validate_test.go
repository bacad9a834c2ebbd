package mutate

import (
	"errors"
	"testing"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
)

func TestValidate_DetectsBrokenTrees(t *testing.T) {
	cases := []struct {
		name    string
		corrupt func(n *model.Node)
	}{
		{"non-course root", func(n *model.Node) { n.Kind = model.KindModule }},
		{"duplicate id", func(n *model.Node) { n.Children[1].ID = "mod-1" }},
		{"duplicate id across levels", func(n *model.Node) { n.Children[0].Children[1].ID = "quiz-2" }},
		{"gap in orders", func(n *model.Node) { n.Children[3].Order = 7 }},
		{"illegal nesting", func(n *model.Node) {
			n.Children[1].Children = []model.Node{{ID: "page-x", Kind: model.KindPage}}
		}},
		{"foreign attribute", func(n *model.Node) { n.Children[1].IsCorrect = true }},
		{"empty id", func(n *model.Node) { n.Children[2].ID = "" }},
		{"id escaping a directory", func(n *model.Node) { n.Children[0].Children[0].ID = "../../../../escaped" }},
		{"id with a slash", func(n *model.Node) { n.Children[2].ID = "lessons/x" }},
		{"dot id", func(n *model.Node) { n.ID = ".." }},
	}
	for _, tc := range cases {
		root := sampleCourse()
		tc.corrupt(&root)
		if err := Validate(root); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}
