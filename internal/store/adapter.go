package store

import (
	"fmt"
	"sort"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
	"syllabus-cli/internal/siblings"
)

const (
	opToStorage   = "store.to_storage"
	opFromStorage = "store.from_storage"
)

// ToStorage converts a course tree into its aggregate document.
// Malformed trees are rejected with a validation error. Empty child and tag lists come
// out as nil, so a document that held "modules":[] round-trips to one that is equal as
// JSON but not under reflect.DeepEqual.
func ToStorage(root model.Node) (CourseDocument, error) {
	if err := mutate.Validate(root); err != nil {
		return CourseDocument{}, errs.WithOp(err, opToStorage)
	}
	doc := CourseDocument{SchemaVersion: SchemaVersion, NodeFields: fieldsOf(root)}
	for _, ch := range root.Children {
		switch ch.Kind {
		case model.KindModule:
			doc.Modules = append(doc.Modules, moduleDoc(ch))
		case model.KindQuiz:
			doc.Quizzes = append(doc.Quizzes, quizDoc(ch))
		case model.KindCodingPlayground:
			doc.Playgrounds = append(doc.Playgrounds, PlaygroundDocument{fieldsOf(ch)})
		}
	}
	return doc, nil
}

func moduleDoc(n model.Node) ModuleDocument {
	d := ModuleDocument{NodeFields: fieldsOf(n)}
	for _, ch := range n.Children {
		switch ch.Kind {
		case model.KindLesson:
			d.Lessons = append(d.Lessons, lessonDoc(ch))
		case model.KindQuiz:
			d.Quizzes = append(d.Quizzes, quizDoc(ch))
		case model.KindCodingExercise:
			d.Exercises = append(d.Exercises, ExerciseDocument{fieldsOf(ch)})
		case model.KindCodingPlayground:
			d.Playgrounds = append(d.Playgrounds, PlaygroundDocument{fieldsOf(ch)})
		}
	}
	return d
}

func lessonDoc(n model.Node) LessonDocument {
	d := LessonDocument{NodeFields: fieldsOf(n)}
	for _, ch := range n.Children {
		switch ch.Kind {
		case model.KindPage:
			d.Pages = append(d.Pages, PageDocument{fieldsOf(ch)})
		case model.KindQuiz:
			d.Quizzes = append(d.Quizzes, quizDoc(ch))
		case model.KindCodingExercise:
			d.Exercises = append(d.Exercises, ExerciseDocument{fieldsOf(ch)})
		case model.KindCodingPlayground:
			d.Playgrounds = append(d.Playgrounds, PlaygroundDocument{fieldsOf(ch)})
		}
	}
	return d
}

func quizDoc(n model.Node) QuizDocument {
	d := QuizDocument{
		NodeFields:   fieldsOf(n),
		PassingScore: copyInt(n.PassingScore),
		MaxAttempts:  copyInt(n.MaxAttempts),
	}
	for _, q := range n.Children {
		qd := QuestionDocument{NodeFields: fieldsOf(q)}
		for _, o := range q.Children {
			qd.Options = append(qd.Options, OptionDocument{NodeFields: fieldsOf(o), IsCorrect: o.IsCorrect})
		}
		d.Questions = append(d.Questions, qd)
	}
	return d
}

func fieldsOf(n model.Node) NodeFields {
	return NodeFields{
		ID:            n.ID,
		Title:         n.Title,
		Order:         n.Order,
		Status:        string(n.Status),
		Description:   n.Description,
		Content:       n.Content,
		Difficulty:    string(n.Difficulty),
		EstimatedTime: n.EstimatedTime,
		Points:        n.Points,
		Tags:          copyTags(n.Tags),
	}
}

// FromStorage rebuilds the course tree from an aggregate document, merging each node's
// typed child lists back into one sibling list by order.
//
// Typed lists must be sorted ascending by order and the merged orders must be exactly
// 0..n-1. Unknown schema versions, duplicate ids and attributes a kind cannot carry are
// rejected as well. Empty lists in doc leave nil slices in the tree.
func FromStorage(doc CourseDocument) (model.Node, error) {
	if doc.SchemaVersion != SchemaVersion {
		return model.Node{}, errs.Validation(opFromStorage, fmt.Sprintf("unsupported schema version %d", doc.SchemaVersion))
	}
	root := nodeOf(model.KindCourse, doc.NodeFields)
	c := &children{parent: root.ID}
	collect(c, "modules", doc.Modules, moduleFrom)
	collect(c, "quizzes", doc.Quizzes, quizFrom)
	collect(c, "playgrounds", doc.Playgrounds, playgroundFrom)
	var err error
	if root.Children, err = c.merged(); err != nil {
		return model.Node{}, err
	}
	if err := mutate.Validate(root); err != nil {
		return model.Node{}, errs.WithOp(err, opFromStorage)
	}
	return root, nil
}

func moduleFrom(d ModuleDocument) (model.Node, error) {
	n := nodeOf(model.KindModule, d.NodeFields)
	c := &children{parent: n.ID}
	collect(c, "lessons", d.Lessons, lessonFrom)
	collect(c, "quizzes", d.Quizzes, quizFrom)
	collect(c, "exercises", d.Exercises, exerciseFrom)
	collect(c, "playgrounds", d.Playgrounds, playgroundFrom)
	var err error
	n.Children, err = c.merged()
	return n, err
}

func lessonFrom(d LessonDocument) (model.Node, error) {
	n := nodeOf(model.KindLesson, d.NodeFields)
	c := &children{parent: n.ID}
	collect(c, "pages", d.Pages, pageFrom)
	collect(c, "quizzes", d.Quizzes, quizFrom)
	collect(c, "exercises", d.Exercises, exerciseFrom)
	collect(c, "playgrounds", d.Playgrounds, playgroundFrom)
	var err error
	n.Children, err = c.merged()
	return n, err
}

func quizFrom(d QuizDocument) (model.Node, error) {
	n := nodeOf(model.KindQuiz, d.NodeFields)
	n.PassingScore = copyInt(d.PassingScore)
	n.MaxAttempts = copyInt(d.MaxAttempts)
	c := &children{parent: n.ID}
	collect(c, "questions", d.Questions, questionFrom)
	var err error
	n.Children, err = c.merged()
	return n, err
}

func questionFrom(d QuestionDocument) (model.Node, error) {
	n := nodeOf(model.KindQuizQuestion, d.NodeFields)
	c := &children{parent: n.ID}
	collect(c, "options", d.Options, optionFrom)
	var err error
	n.Children, err = c.merged()
	return n, err
}

func optionFrom(d OptionDocument) (model.Node, error) {
	n := nodeOf(model.KindQuizOption, d.NodeFields)
	n.IsCorrect = d.IsCorrect
	return n, nil
}

func pageFrom(d PageDocument) (model.Node, error) {
	return nodeOf(model.KindPage, d.NodeFields), nil
}

func exerciseFrom(d ExerciseDocument) (model.Node, error) {
	return nodeOf(model.KindCodingExercise, d.NodeFields), nil
}

func playgroundFrom(d PlaygroundDocument) (model.Node, error) {
	return nodeOf(model.KindCodingPlayground, d.NodeFields), nil
}

func nodeOf(kind model.NodeKind, f NodeFields) model.Node {
	return model.Node{
		ID:            f.ID,
		Kind:          kind,
		Title:         f.Title,
		Order:         f.Order,
		Status:        model.Status(f.Status),
		Description:   f.Description,
		Content:       f.Content,
		Difficulty:    model.Difficulty(f.Difficulty),
		EstimatedTime: f.EstimatedTime,
		Points:        f.Points,
		Tags:          copyTags(f.Tags),
	}
}

// children accumulates the typed child lists of one stored node.
type children struct {
	parent string
	nodes  []model.Node
	err    error
}

func collect[D any](c *children, field string, docs []D, conv func(D) (model.Node, error)) {
	if c.err != nil {
		return
	}
	for i, d := range docs {
		n, err := conv(d)
		if err != nil {
			c.err = err
			return
		}
		if i > 0 && n.Order <= c.nodes[len(c.nodes)-1].Order {
			c.err = errs.Validation(opFromStorage, fmt.Sprintf("%s of %s are not sorted by order", field, c.parent))
			return
		}
		c.nodes = append(c.nodes, n)
	}
}

func (c *children) merged() ([]model.Node, error) {
	if c.err != nil {
		return nil, c.err
	}
	if len(c.nodes) == 0 {
		return nil, nil
	}
	sort.SliceStable(c.nodes, func(i, j int) bool { return c.nodes[i].Order < c.nodes[j].Order })
	if !siblings.IsDense(c.nodes) {
		return nil, errs.Validation(opFromStorage, fmt.Sprintf("child orders of %s are not 0..%d", c.parent, len(c.nodes)-1))
	}
	return c.nodes, nil
}

func copyTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return append([]string(nil), tags...)
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
