package publish

import (
	"bytes"
	"fmt"
	"strings"

	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
)

type RenderOptions struct {
	IncludeArchived bool
	// IncludeAnswers marks correct quiz options; otherwise options render unchecked.
	IncludeAnswers bool
}

// RenderCourseMarkdown renders a whole course as one markdown document: metadata, a
// table of contents, then every node as a heading with its body.
func RenderCourseMarkdown(root model.Node, opt RenderOptions) (string, error) {
	if root.Kind != model.KindCourse {
		return "", fmt.Errorf("not a course: %s", root.ID)
	}
	if root.Status == model.StatusArchived && !opt.IncludeArchived {
		return "", fmt.Errorf("course archived (use --include-archived): %s", root.ID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(root.Title))
	writeLn("")
	writeMeta(&buf, root)
	if d := strings.TrimSpace(root.Description); d != "" {
		writeLn(d)
		writeLn("")
	}

	if len(root.Children) > 0 {
		writeLn("## Contents")
		writeLn("")
		for _, ch := range root.Children {
			renderContentsLine(&buf, ch, 0, opt)
		}
		writeLn("")
	}

	for _, ch := range root.Children {
		renderSection(&buf, ch, 2, opt)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// RenderLessonMarkdown renders one lesson (or any other node) as a standalone page.
func RenderLessonMarkdown(root model.Node, nodeID string, opt RenderOptions) (string, error) {
	n, ok := mutate.FindNode(root, nodeID)
	if !ok {
		return "", fmt.Errorf("node not found: %s", nodeID)
	}
	if hidden(n, opt) {
		return "", fmt.Errorf("node archived (use --include-archived): %s", n.ID)
	}
	path, err := mutate.GetPath(root, n.ID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("# " + strings.TrimSpace(n.Title) + "\n\n")
	crumbs := make([]string, 0, len(path)-1)
	for _, id := range path[:len(path)-1] {
		if anc, ok := mutate.FindNode(root, id); ok {
			crumbs = append(crumbs, strings.TrimSpace(anc.Title))
		}
	}
	if len(crumbs) > 0 {
		buf.WriteString("_" + strings.Join(crumbs, " › ") + "_\n\n")
	}
	writeMeta(&buf, n)
	writeBody(&buf, n, opt)
	for _, ch := range n.Children {
		renderSection(&buf, ch, 2, opt)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

func hidden(n model.Node, opt RenderOptions) bool {
	return n.Status == model.StatusArchived && !opt.IncludeArchived
}

func writeMeta(buf *bytes.Buffer, n model.Node) {
	var lines []string
	lines = append(lines, "- ID: "+n.ID)
	if n.Status != "" {
		lines = append(lines, "- Status: "+string(n.Status))
	}
	if n.Difficulty != "" {
		lines = append(lines, "- Difficulty: "+string(n.Difficulty))
	}
	if n.EstimatedTime > 0 {
		lines = append(lines, fmt.Sprintf("- Estimated time: %d min", n.EstimatedTime))
	}
	if n.Points > 0 {
		lines = append(lines, fmt.Sprintf("- Points: %d", n.Points))
	}
	if n.PassingScore != nil {
		lines = append(lines, fmt.Sprintf("- Passing score: %d%%", *n.PassingScore))
	}
	if n.MaxAttempts != nil {
		lines = append(lines, fmt.Sprintf("- Max attempts: %d", *n.MaxAttempts))
	}
	if len(n.Tags) > 0 {
		lines = append(lines, "- Tags: "+strings.Join(n.Tags, ", "))
	}
	buf.WriteString(strings.Join(lines, "\n"))
	buf.WriteString("\n\n")
}

func renderContentsLine(buf *bytes.Buffer, n model.Node, depth int, opt RenderOptions) {
	if hidden(n, opt) || n.Kind == model.KindQuizQuestion {
		return
	}
	fmt.Fprintf(buf, "%s- %s _(%s)_\n", strings.Repeat("  ", depth), strings.TrimSpace(n.Title), strings.ToLower(n.Kind.Label()))
	for _, ch := range n.Children {
		renderContentsLine(buf, ch, depth+1, opt)
	}
}

func renderSection(buf *bytes.Buffer, n model.Node, level int, opt RenderOptions) {
	if hidden(n, opt) {
		return
	}
	if n.Kind == model.KindQuiz {
		renderQuiz(buf, n, level, opt)
		return
	}
	if level > 6 {
		level = 6
	}
	buf.WriteString(strings.Repeat("#", level) + " " + strings.TrimSpace(n.Title))
	if n.Kind != model.KindModule && n.Kind != model.KindLesson && n.Kind != model.KindPage {
		buf.WriteString(" (" + strings.ToLower(n.Kind.Label()) + ")")
	}
	buf.WriteString("\n\n")
	writeBody(buf, n, opt)
	for _, ch := range n.Children {
		renderSection(buf, ch, level+1, opt)
	}
}

func writeBody(buf *bytes.Buffer, n model.Node, opt RenderOptions) {
	if d := strings.TrimSpace(n.Description); d != "" {
		buf.WriteString("> " + strings.ReplaceAll(d, "\n", "\n> ") + "\n\n")
	}
	c := strings.TrimSpace(n.Content)
	if c == "" {
		return
	}
	switch n.Kind {
	case model.KindCodingExercise, model.KindCodingPlayground:
		buf.WriteString("```\n" + c + "\n```\n\n")
	default:
		buf.WriteString(c + "\n\n")
	}
}

func renderQuiz(buf *bytes.Buffer, quiz model.Node, level int, opt RenderOptions) {
	if level > 6 {
		level = 6
	}
	buf.WriteString(strings.Repeat("#", level) + " " + strings.TrimSpace(quiz.Title) + " (quiz)\n\n")
	if quiz.PassingScore != nil {
		fmt.Fprintf(buf, "Passing score: %d%%\n\n", *quiz.PassingScore)
	}
	if d := strings.TrimSpace(quiz.Description); d != "" {
		buf.WriteString(d + "\n\n")
	}
	for i, q := range quiz.Children {
		prompt := strings.TrimSpace(q.Content)
		if prompt == "" {
			prompt = strings.TrimSpace(q.Title)
		}
		fmt.Fprintf(buf, "%d. %s\n", i+1, prompt)
		for _, o := range q.Children {
			box := "[ ]"
			if opt.IncludeAnswers && o.IsCorrect {
				box = "[x]"
			}
			fmt.Fprintf(buf, "   - %s %s\n", box, strings.TrimSpace(o.Title))
		}
	}
	if len(quiz.Children) > 0 {
		buf.WriteString("\n")
	}
}
