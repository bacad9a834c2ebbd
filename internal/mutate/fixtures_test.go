package mutate

import (
	"reflect"
	"testing"

	"syllabus-cli/internal/model"
)

func sampleCourse() model.Node {
	return model.Node{
		ID: "crs-1", Kind: model.KindCourse, Title: "Go 101", Status: model.StatusDraft,
		Children: []model.Node{
			{
				ID: "mod-1", Kind: model.KindModule, Title: "Basics", Order: 0,
				Status: model.StatusPublished, Tags: []string{"intro"},
				Children: []model.Node{
					{
						ID: "les-1", Kind: model.KindLesson, Title: "Hello", Order: 0, Status: model.StatusDraft,
						Children: []model.Node{
							{ID: "page-1", Kind: model.KindPage, Title: "Welcome", Order: 0, Content: "# Hi"},
							{
								ID: "quiz-1", Kind: model.KindQuiz, Title: "Check", Order: 1, PassingScore: model.IntPtr(70),
								Children: []model.Node{
									{
										ID: "qst-1", Kind: model.KindQuizQuestion, Title: "Pick one", Order: 0, Points: 2,
										Children: []model.Node{
											{ID: "opt-a", Kind: model.KindQuizOption, Title: "A", Order: 0, IsCorrect: true},
											{ID: "opt-b", Kind: model.KindQuizOption, Title: "B", Order: 1},
											{ID: "opt-c", Kind: model.KindQuizOption, Title: "C", Order: 2},
										},
									},
								},
							},
						},
					},
					{ID: "ex-1", Kind: model.KindCodingExercise, Title: "FizzBuzz", Order: 1},
				},
			},
			{ID: "mod-2", Kind: model.KindModule, Title: "Advanced", Order: 1},
			{ID: "quiz-2", Kind: model.KindQuiz, Title: "Final", Order: 2},
			{ID: "play-1", Kind: model.KindCodingPlayground, Title: "Sandbox", Order: 3},
		},
	}
}

func childIDs(n model.Node) []string {
	out := []string{}
	for _, ch := range n.Children {
		out = append(out, ch.ID)
	}
	return out
}

func mustFind(t *testing.T, root model.Node, id string) model.Node {
	t.Helper()
	n, ok := FindNode(root, id)
	if !ok {
		t.Fatalf("node %s not found", id)
	}
	return n
}

func assertDense(t *testing.T, n model.Node) {
	t.Helper()
	for i, ch := range n.Children {
		if ch.Order != i {
			t.Fatalf("children of %s not dense: %s has order %d at index %d", n.ID, ch.ID, ch.Order, i)
		}
	}
}

func assertUnchanged(t *testing.T, before, after model.Node) {
	t.Helper()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("tree changed:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

// stripIDs blanks every id so two subtrees can be compared structurally.
func stripIDs(n model.Node) model.Node {
	n = n.Clone()
	var walk func(x model.Node) model.Node
	walk = func(x model.Node) model.Node {
		x.ID = ""
		for i := range x.Children {
			x.Children[i] = walk(x.Children[i])
		}
		return x
	}
	return walk(n)
}

func TestSampleCourseIsValid(t *testing.T) {
	if err := Validate(sampleCourse()); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	if got := Count(sampleCourse()); got != 13 {
		t.Fatalf("expected 13 nodes, got %d", got)
	}
}
