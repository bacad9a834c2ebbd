// Package tui is the interactive outline editor for one course.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"syllabus-cli/internal/session"
	"syllabus-cli/internal/viewstate"
)

// Run edits s in a full-screen program. Expansion and selection are restored from dir on
// start and written back on exit; course data is only saved on request.
func Run(ctx context.Context, s *session.Session, dir string) error {
	applyThemePreference()
	applyColorProfilePreference()

	s.View = restoreView(dir, s)

	_, err := tea.NewProgram(New(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if saveErr := viewstate.Save(dir, s.CourseID(), s.View); err == nil {
		err = saveErr
	}
	return err
}

func restoreView(dir string, s *session.Session) *viewstate.State {
	tree := s.Tree()
	st := viewstate.Load(dir, s.CourseID())
	if len(st.Expanded) == 0 && st.Selected == "" {
		st.Expand(tree.ID)
	}
	st.Prune(tree)
	return st
}
