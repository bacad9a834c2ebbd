package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
)

func sampleDocument() CourseDocument {
	return CourseDocument{
		SchemaVersion: SchemaVersion,
		NodeFields:    NodeFields{ID: "crs-1", Title: "Go 101", Status: "draft", Tags: []string{"go", "intro"}},
		Modules: []ModuleDocument{
			{
				NodeFields: NodeFields{ID: "mod-1", Title: "Basics", Order: 0, Status: "published"},
				Lessons: []LessonDocument{
					{
						NodeFields: NodeFields{ID: "les-1", Title: "Hello", Order: 1, Difficulty: "beginner", EstimatedTime: 15},
						Pages:      []PageDocument{{NodeFields{ID: "page-1", Title: "Welcome", Order: 0, Content: "# Hi"}}},
						Exercises:  []ExerciseDocument{{NodeFields{ID: "ex-2", Title: "Print", Order: 1, Points: 5}}},
					},
				},
				Quizzes:   []QuizDocument{{NodeFields: NodeFields{ID: "quiz-1", Title: "Warmup", Order: 2}}},
				Exercises: []ExerciseDocument{{NodeFields{ID: "ex-1", Title: "FizzBuzz", Order: 0}}},
			},
			{NodeFields: NodeFields{ID: "mod-2", Title: "Advanced", Order: 2}},
		},
		Quizzes: []QuizDocument{
			{
				NodeFields:   NodeFields{ID: "quiz-2", Title: "Final", Order: 1, Status: "draft"},
				PassingScore: model.IntPtr(70),
				MaxAttempts:  model.IntPtr(3),
				Questions: []QuestionDocument{
					{
						NodeFields: NodeFields{ID: "qst-1", Title: "Pick one", Order: 0, Points: 2},
						Options: []OptionDocument{
							{NodeFields: NodeFields{ID: "opt-a", Title: "A", Order: 0}, IsCorrect: true},
							{NodeFields: NodeFields{ID: "opt-b", Title: "B", Order: 1}},
						},
					},
				},
			},
		},
		Playgrounds: []PlaygroundDocument{{NodeFields{ID: "play-1", Title: "Sandbox", Order: 3, Content: "package main"}}},
	}
}

func ids(nodes []model.Node) []string {
	out := []string{}
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestFromStorage_MergesTypedListsByOrder(t *testing.T) {
	root, err := FromStorage(sampleDocument())
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	if got, want := ids(root.Children), []string{"mod-1", "quiz-2", "mod-2", "play-1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("course children %v; want %v", got, want)
	}
	mod1, _ := mutate.FindNode(root, "mod-1")
	if got, want := ids(mod1.Children), []string{"ex-1", "les-1", "quiz-1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("module children %v; want %v", got, want)
	}
	quiz, _ := mutate.FindNode(root, "quiz-2")
	if quiz.Kind != model.KindQuiz || *quiz.PassingScore != 70 || *quiz.MaxAttempts != 3 {
		t.Fatalf("quiz attributes lost: %+v", quiz)
	}
	opt, _ := mutate.FindNode(root, "opt-a")
	if opt.Kind != model.KindQuizOption || !opt.IsCorrect {
		t.Fatalf("option attributes lost: %+v", opt)
	}
	les, _ := mutate.FindNode(root, "les-1")
	if les.Difficulty != model.DifficultyBeginner || les.EstimatedTime != 15 {
		t.Fatalf("lesson attributes lost: %+v", les)
	}
	if err := mutate.Validate(root); err != nil {
		t.Fatalf("loaded tree invalid: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument()
	root, err := FromStorage(doc)
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	back, err := ToStorage(root)
	if err != nil {
		t.Fatalf("ToStorage: %v", err)
	}
	if !reflect.DeepEqual(back, doc) {
		t.Fatalf("round trip changed document:\n got  %+v\n want %+v", back, doc)
	}

	again, err := FromStorage(back)
	if err != nil {
		t.Fatalf("FromStorage(again): %v", err)
	}
	if !reflect.DeepEqual(again, root) {
		t.Fatalf("tree differs after second load")
	}
}

func TestRoundTrip_AfterEdits(t *testing.T) {
	root, err := FromStorage(sampleDocument())
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	res, err := mutate.AddChild(root, "mod-2", model.KindLesson, model.Attrs{})
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	root, err = mutate.MoveNode(res.Tree, "play-1", "crs-1", 0)
	if err != nil {
		t.Fatalf("MoveNode: %v", err)
	}
	doc, err := ToStorage(root)
	if err != nil {
		t.Fatalf("ToStorage: %v", err)
	}
	if doc.Playgrounds[0].Order != 0 || doc.Modules[0].Order != 1 || doc.Quizzes[0].Order != 2 {
		t.Fatalf("interleaving not encoded: %+v", doc)
	}
	if len(doc.Modules[1].Lessons) != 1 || doc.Modules[1].Lessons[0].ID != res.NodeID {
		t.Fatalf("new lesson missing from document")
	}
	loaded, err := FromStorage(doc)
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	if !reflect.DeepEqual(loaded, root) {
		t.Fatalf("edited tree did not survive the round trip")
	}
}

func TestFromStorage_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		corrupt func(d *CourseDocument)
	}{
		{"unknown schema version", func(d *CourseDocument) { d.SchemaVersion = 99 }},
		{"typed list out of order", func(d *CourseDocument) {
			d.Modules[0], d.Modules[1] = d.Modules[1], d.Modules[0]
		}},
		{"gap in merged orders", func(d *CourseDocument) { d.Playgrounds[0].Order = 5 }},
		{"clashing orders across lists", func(d *CourseDocument) { d.Quizzes[0].Order = 0 }},
		{"duplicate id", func(d *CourseDocument) { d.Modules[1].ID = "quiz-1" }},
		{"status on a page", func(d *CourseDocument) {
			d.Modules[0].Lessons[0].Pages[0].Status = "draft"
		}},
		{"passing score out of range", func(d *CourseDocument) { d.Quizzes[0].PassingScore = model.IntPtr(150) }},
		{"options out of order", func(d *CourseDocument) {
			opts := d.Quizzes[0].Questions[0].Options
			opts[0].Order, opts[1].Order = 1, 0
		}},
		{"root order", func(d *CourseDocument) { d.Order = 1 }},
		{"lesson id with separators", func(d *CourseDocument) {
			d.Modules[0].Lessons[0].ID = "../../../../escaped"
		}},
	}
	for _, tc := range cases {
		doc := sampleDocument()
		tc.corrupt(&doc)
		if _, err := FromStorage(doc); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestToStorage_RejectsMalformedTree(t *testing.T) {
	root, err := FromStorage(sampleDocument())
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	root.Children[1].Order = 9
	if _, err := ToStorage(root); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ToStorage(model.Node{ID: "mod-x", Kind: model.KindModule, Title: "M"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for non-course root, got %v", err)
	}
}

func TestToStorage_EmptyCourse(t *testing.T) {
	course, err := mutate.NewCourse(model.Attrs{})
	if err != nil {
		t.Fatalf("NewCourse: %v", err)
	}
	doc, err := ToStorage(course)
	if err != nil {
		t.Fatalf("ToStorage: %v", err)
	}
	if doc.Modules != nil || doc.Quizzes != nil || doc.Playgrounds != nil {
		t.Fatalf("empty lists must be nil: %+v", doc)
	}
	if doc.SchemaVersion != SchemaVersion || doc.ID != course.ID {
		t.Fatalf("unexpected header: %+v", doc)
	}
}

func TestRoundTrip_EmptyListsBecomeNil(t *testing.T) {
	doc := CourseDocument{
		SchemaVersion: SchemaVersion,
		NodeFields:    NodeFields{ID: "crs-1", Title: "Go 101", Status: "draft", Tags: []string{}},
		Modules:       []ModuleDocument{},
	}
	root, err := FromStorage(doc)
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	back, err := ToStorage(root)
	if err != nil {
		t.Fatalf("ToStorage: %v", err)
	}
	if back.Modules != nil || back.Tags != nil {
		t.Fatalf("empty lists must come back nil: %+v", back)
	}
	want, _ := json.Marshal(doc)
	got, _ := json.Marshal(back)
	if !bytes.Equal(want, got) {
		t.Fatalf("JSON differs:\n%s\n%s", want, got)
	}
}
