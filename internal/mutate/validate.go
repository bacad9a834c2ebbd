package mutate

import (
	"fmt"
	"strings"

	"syllabus-cli/internal/errs"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/siblings"
)

// Validate checks every structural invariant of a course tree:
// a single Course root, globally unique ids, legal nesting, dense sibling orders and
// kind-specific attributes only where they belong.
func Validate(root model.Node) error {
	const op = "mutate.validate"
	if root.Kind != model.KindCourse {
		return errs.Validation(op, fmt.Sprintf("root must be a %s, got %q", model.KindCourse, root.Kind))
	}
	if root.Order != 0 {
		return errs.Validation(op, "root order must be 0")
	}

	seen := map[string]bool{}
	var problem string
	Walk(root, func(n model.Node, _ int) bool {
		if problem != "" {
			return false
		}
		switch {
		case strings.TrimSpace(n.ID) == "":
			problem = fmt.Sprintf("%s %q has an empty id", n.Kind, n.Title)
		case strings.ContainsAny(n.ID, `/\`) || n.ID == "." || n.ID == "..":
			problem = fmt.Sprintf("id %q must not contain path separators", n.ID)
		case seen[n.ID]:
			problem = "duplicate id: " + n.ID
		case !n.Kind.Valid():
			problem = fmt.Sprintf("node %s has unknown kind %q", n.ID, n.Kind)
		case !siblings.IsDense(n.Children):
			problem = fmt.Sprintf("children of %s are not densely ordered", describe(n))
		}
		if problem != "" {
			return false
		}
		seen[n.ID] = true
		if err := model.CheckNode(n); err != nil {
			problem = err.Error()
			return false
		}
		for _, ch := range n.Children {
			if !model.IsAllowedChild(n.Kind, ch.Kind) {
				problem = fmt.Sprintf("%s cannot contain %s", describe(n), describe(ch))
				return false
			}
		}
		return true
	})
	if problem != "" {
		return errs.Validation(op, problem)
	}
	return nil
}
