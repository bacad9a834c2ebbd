package model

import (
	"errors"
	"fmt"
	"strings"
)

// Attrs is a partial attribute set. Nil fields are left untouched.
//
// There is deliberately no ID, Kind, Order or Children field: those are owned by the
// structural operations.
type Attrs struct {
	Title         *string
	Status        *Status
	Description   *string
	Content       *string
	Difficulty    *Difficulty
	EstimatedTime *int
	Points        *int
	Tags          *[]string
	PassingScore  *int
	MaxAttempts   *int
	IsCorrect     *bool

	// ClearPassingScore and ClearMaxAttempts reset the quiz limits to unset.
	ClearPassingScore bool
	ClearMaxAttempts  bool
}

// IsZero reports whether no attribute is set.
func (a Attrs) IsZero() bool {
	return a == Attrs{}
}

// Check validates the attribute set against the node kind it will be applied to.
func (a Attrs) Check(kind NodeKind) error {
	if a.Title != nil && strings.TrimSpace(*a.Title) == "" {
		return errors.New("title must not be empty")
	}
	if a.Status != nil {
		if !HasStatus(kind) {
			return fmt.Errorf("%s has no status", kind)
		}
		if _, err := ParseStatus(string(*a.Status)); err != nil {
			return err
		}
	}
	if a.Difficulty != nil && *a.Difficulty != "" {
		if _, err := ParseDifficulty(string(*a.Difficulty)); err != nil {
			return err
		}
	}
	if a.EstimatedTime != nil && *a.EstimatedTime < 0 {
		return errors.New("estimatedTime must be >= 0")
	}
	if a.Points != nil && *a.Points < 0 {
		return errors.New("points must be >= 0")
	}
	if a.PassingScore != nil {
		if kind != KindQuiz {
			return fmt.Errorf("passingScore is only valid on %s", KindQuiz)
		}
		if *a.PassingScore < 0 || *a.PassingScore > 100 {
			return errors.New("passingScore must be between 0 and 100")
		}
	}
	if a.MaxAttempts != nil {
		if kind != KindQuiz {
			return fmt.Errorf("maxAttempts is only valid on %s", KindQuiz)
		}
		if *a.MaxAttempts < 0 {
			return errors.New("maxAttempts must be >= 0")
		}
	}
	if a.ClearPassingScore || a.ClearMaxAttempts {
		if kind != KindQuiz {
			return fmt.Errorf("passingScore and maxAttempts are only valid on %s", KindQuiz)
		}
		if (a.ClearPassingScore && a.PassingScore != nil) || (a.ClearMaxAttempts && a.MaxAttempts != nil) {
			return errors.New("cannot set and clear the same attribute")
		}
	}
	if a.IsCorrect != nil && kind != KindQuizOption {
		return fmt.Errorf("isCorrect is only valid on %s", KindQuizOption)
	}
	return nil
}

// Apply returns n with every set attribute copied over. It does not validate; call Check first.
func (a Attrs) Apply(n Node) Node {
	if a.Title != nil {
		n.Title = strings.TrimSpace(*a.Title)
	}
	if a.Status != nil {
		n.Status = Status(strings.ToLower(strings.TrimSpace(string(*a.Status))))
	}
	if a.Description != nil {
		n.Description = *a.Description
	}
	if a.Content != nil {
		n.Content = *a.Content
	}
	if a.Difficulty != nil {
		n.Difficulty = Difficulty(strings.ToLower(strings.TrimSpace(string(*a.Difficulty))))
	}
	if a.EstimatedTime != nil {
		n.EstimatedTime = *a.EstimatedTime
	}
	if a.Points != nil {
		n.Points = *a.Points
	}
	if a.Tags != nil {
		n.Tags = normalizeTags(*a.Tags)
	}
	if a.PassingScore != nil {
		n.PassingScore = cloneInt(a.PassingScore)
	}
	if a.ClearPassingScore {
		n.PassingScore = nil
	}
	if a.MaxAttempts != nil {
		n.MaxAttempts = cloneInt(a.MaxAttempts)
	}
	if a.ClearMaxAttempts {
		n.MaxAttempts = nil
	}
	if a.IsCorrect != nil {
		n.IsCorrect = *a.IsCorrect
	}
	return n
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// CheckNode reports attributes on n that do not belong to its kind or hold illegal values.
func CheckNode(n Node) error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%s %s has an empty title", n.Kind, n.ID)
	}
	if n.Status != "" {
		if !HasStatus(n.Kind) {
			return fmt.Errorf("%s %s has a status", n.Kind, n.ID)
		}
		if st, err := ParseStatus(string(n.Status)); err != nil || st != n.Status {
			return fmt.Errorf("%s %s has invalid status %q", n.Kind, n.ID, n.Status)
		}
	}
	if n.Difficulty != "" {
		if d, err := ParseDifficulty(string(n.Difficulty)); err != nil || d != n.Difficulty {
			return fmt.Errorf("%s %s has invalid difficulty %q", n.Kind, n.ID, n.Difficulty)
		}
	}
	if n.EstimatedTime < 0 || n.Points < 0 {
		return fmt.Errorf("%s %s has a negative estimatedTime or points", n.Kind, n.ID)
	}
	if n.PassingScore != nil {
		if n.Kind != KindQuiz {
			return fmt.Errorf("%s %s has a passingScore", n.Kind, n.ID)
		}
		if *n.PassingScore < 0 || *n.PassingScore > 100 {
			return fmt.Errorf("%s %s has passingScore %d outside 0..100", n.Kind, n.ID, *n.PassingScore)
		}
	}
	if n.MaxAttempts != nil {
		if n.Kind != KindQuiz {
			return fmt.Errorf("%s %s has maxAttempts", n.Kind, n.ID)
		}
		if *n.MaxAttempts < 0 {
			return fmt.Errorf("%s %s has negative maxAttempts", n.Kind, n.ID)
		}
	}
	if n.IsCorrect && n.Kind != KindQuizOption {
		return fmt.Errorf("%s %s is marked correct", n.Kind, n.ID)
	}
	return nil
}
