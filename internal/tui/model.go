package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"syllabus-cli/internal/model"
	"syllabus-cli/internal/mutate"
	"syllabus-cli/internal/session"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeRename
	modeConfirmDelete
	modeConfirmQuit
)

// Model is the outline editor for one open session.
type Model struct {
	ctx  context.Context
	sess *session.Session

	keys  keyMap
	help  help.Model
	input textinput.Model
	mode  mode

	// Add prompt: the kinds allowed under the selection and the one currently picked.
	addKinds []model.NodeKind
	addKind  int

	width  int
	height int

	status    string
	statusErr bool
	quitting  bool
}

func New(ctx context.Context, s *session.Session) Model {
	in := textinput.New()
	in.Placeholder = "Title"
	in.CharLimit = 200
	in.Width = 40
	return Model{
		ctx:    ctx,
		sess:   s,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  in,
		width:  80,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeRename:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeConfirmQuit:
			return m.updateConfirmQuit(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) selected() model.Node {
	tree := m.sess.Tree()
	if n, ok := mutate.FindNode(tree, m.sess.View.Selected); ok {
		return n
	}
	return tree
}

func (m *Model) setStatus(msg string) {
	m.status, m.statusErr = msg, false
}

// report shows err on the status line; it reports whether err was nil.
func (m *Model) report(err error) bool {
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return false
	}
	m.status, m.statusErr = "", false
	return true
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sess
	tree := s.Tree()
	sel := m.selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		if s.Dirty() {
			m.mode = modeConfirmQuit
			m.setStatus("Unsaved changes. Save before quitting? (y/n, esc to stay)")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		s.View.MoveSelection(tree, -1)
	case key.Matches(msg, m.keys.Down):
		s.View.MoveSelection(tree, 1)
	case key.Matches(msg, m.keys.Toggle):
		if len(sel.Children) > 0 {
			s.View.Toggle(sel.ID)
		}
	case key.Matches(msg, m.keys.Expand):
		if len(sel.Children) > 0 {
			s.View.Expand(sel.ID)
		}
	case key.Matches(msg, m.keys.Collapse):
		if len(sel.Children) > 0 && s.View.IsExpanded(sel.ID) {
			s.View.Collapse(sel.ID)
		} else if parent, ok := mutate.FindParent(tree, sel.ID); ok {
			s.View.Select(tree, parent.ID)
		}
	case key.Matches(msg, m.keys.ExpandAll):
		s.View.ExpandAll(tree)
	case key.Matches(msg, m.keys.CollapseAll):
		s.View.CollapseAll()
		s.View.Select(tree, tree.ID)
	case key.Matches(msg, m.keys.Add):
		kinds := model.AllowedChildren(sel.Kind)
		if len(kinds) == 0 {
			m.report(fmt.Errorf("%s cannot have children", strings.ToLower(sel.Kind.Label())))
			return m, nil
		}
		m.mode = modeAdd
		m.addKinds, m.addKind = kinds, 0
		m.input.SetValue("")
		m.input.Placeholder = "New " + kinds[0].Label()
		m.setStatus("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Rename):
		m.mode = modeRename
		m.input.SetValue(sel.Title)
		m.input.CursorEnd()
		m.input.Placeholder = "Title"
		m.setStatus("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Duplicate):
		id, err := s.Duplicate(sel.ID)
		if m.report(err) {
			s.View.Select(s.Tree(), id)
			m.setStatus("Duplicated " + sel.Title)
		}
	case key.Matches(msg, m.keys.Delete):
		if sel.ID == tree.ID {
			m.report(fmt.Errorf("the course root cannot be deleted"))
			return m, nil
		}
		m.mode = modeConfirmDelete
		ids, _ := mutate.SubtreeIDs(tree, sel.ID)
		prompt := fmt.Sprintf("Delete %q? (y/n)", sel.Title)
		if len(ids) > 1 {
			prompt = fmt.Sprintf("Delete %q and %d nested items? (y/n)", sel.Title, len(ids)-1)
		}
		m.setStatus(prompt)
	case key.Matches(msg, m.keys.ShiftUp):
		m.report(s.Shift(sel.ID, -1))
	case key.Matches(msg, m.keys.ShiftDown):
		m.report(s.Shift(sel.ID, 1))
	case key.Matches(msg, m.keys.Undo):
		m.report(s.Undo())
	case key.Matches(msg, m.keys.Redo):
		m.report(s.Redo())
	case key.Matches(msg, m.keys.Save):
		if m.report(s.Save(m.ctx)) {
			m.setStatus("Saved")
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.setStatus("")
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		if m.mode == modeAdd && len(m.addKinds) > 0 {
			step := 1
			if msg.Type == tea.KeyShiftTab {
				step = len(m.addKinds) - 1
			}
			m.addKind = (m.addKind + step) % len(m.addKinds)
			m.input.Placeholder = "New " + m.addKinds[m.addKind].Label()
		}
		return m, nil
	case tea.KeyEnter:
		return m.commitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitInput() (tea.Model, tea.Cmd) {
	s := m.sess
	sel := m.selected()
	title := strings.TrimSpace(m.input.Value())

	switch m.mode {
	case modeAdd:
		var attrs model.Attrs
		if title != "" {
			attrs.Title = &title
		}
		id, err := s.AddChild(sel.ID, m.addKinds[m.addKind], attrs)
		if !m.report(err) {
			return m, nil
		}
		s.View.Select(s.Tree(), id)
	case modeRename:
		if title == sel.Title {
			break
		}
		if !m.report(s.Update(sel.ID, model.Attrs{Title: &title})) {
			return m, nil
		}
	}
	m.mode = modeBrowse
	m.input.Blur()
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	switch strings.ToLower(msg.String()) {
	case "y":
		sel := m.selected()
		if m.report(m.sess.Delete(sel.ID)) {
			m.setStatus("Deleted " + sel.Title)
		}
	default:
		m.setStatus("")
	}
	return m, nil
}

func (m Model) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		if !m.report(m.sess.Save(m.ctx)) {
			m.mode = modeBrowse
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "n":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowse
		m.setStatus("")
	}
	return m, nil
}
