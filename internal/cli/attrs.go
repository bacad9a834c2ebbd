package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
)

// attrFlags are the node attribute flags shared by create/add/update. Only flags the
// user actually passed end up in the patch.
type attrFlags struct {
	title         string
	status        string
	description   string
	content       string
	difficulty    string
	estimatedTime int
	points        int
	tags          []string
	passingScore  int
	maxAttempts   int
	correct       bool
}

func (f *attrFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.status, "status", "", "Status: draft|published|archived (course, module, lesson, quiz)")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.content, "content", "", "Content: page markdown, question prompt or starter code")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "Difficulty: beginner|intermediate|advanced")
	cmd.Flags().IntVar(&f.estimatedTime, "estimated-time", 0, "Estimated time in minutes")
	cmd.Flags().IntVar(&f.points, "points", 0, "Points")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "Tags (comma separated; pass --tags= to clear)")
	cmd.Flags().IntVar(&f.passingScore, "passing-score", 0, "Quiz passing score (0-100, -1 to unset)")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 0, "Quiz max attempts (-1 to unset)")
	cmd.Flags().BoolVar(&f.correct, "correct", false, "Mark a quiz option as correct (--correct=false to unmark)")
}

func (f *attrFlags) attrs(cmd *cobra.Command) (model.Attrs, error) {
	var a model.Attrs
	changed := cmd.Flags().Changed
	if changed("title") {
		t := f.title
		a.Title = &t
	}
	if changed("status") {
		st, err := model.ParseStatus(f.status)
		if err != nil {
			return a, errs.InvalidOperation("cli.attrs", err.Error())
		}
		a.Status = &st
	}
	if changed("description") {
		d := f.description
		a.Description = &d
	}
	if changed("content") {
		c := f.content
		a.Content = &c
	}
	if changed("difficulty") {
		d := model.Difficulty("")
		if strings.TrimSpace(f.difficulty) != "" {
			parsed, err := model.ParseDifficulty(f.difficulty)
			if err != nil {
				return a, errs.InvalidOperation("cli.attrs", err.Error())
			}
			d = parsed
		}
		a.Difficulty = &d
	}
	if changed("estimated-time") {
		v := f.estimatedTime
		a.EstimatedTime = &v
	}
	if changed("points") {
		v := f.points
		a.Points = &v
	}
	if changed("tags") {
		tags := append([]string(nil), f.tags...)
		a.Tags = &tags
	}
	if changed("passing-score") {
		if f.passingScore == -1 {
			a.ClearPassingScore = true
		} else {
			v := f.passingScore
			a.PassingScore = &v
		}
	}
	if changed("max-attempts") {
		if f.maxAttempts == -1 {
			a.ClearMaxAttempts = true
		} else {
			v := f.maxAttempts
			a.MaxAttempts = &v
		}
	}
	if changed("correct") {
		v := f.correct
		a.IsCorrect = &v
	}
	return a, nil
}
