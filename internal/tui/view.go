package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"syllabus-cli/internal/format"
	"syllabus-cli/internal/model"
	"syllabus-cli/internal/viewstate"
)

// Below this width the preview pane is hidden.
const minPreviewWidth = 80

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	tree := m.sess.Tree()

	header := styleHeader.Render(tree.Title) + " " + styleMuted.Render("["+tree.ID+"]")
	if m.sess.Dirty() {
		header += " " + styleDirty.Render("● modified")
	}

	footer := m.footerView()
	bodyHeight := m.height - 1 - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	listWidth := m.width
	showPreview := m.width >= minPreviewWidth
	if showPreview {
		listWidth = m.width * 55 / 100
	}
	body := m.outlineView(listWidth, bodyHeight)
	if showPreview {
		preview := m.previewView(m.width-listWidth-3, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(listWidth).Render(body),
			" ",
			stylePreview.Render(preview),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) outlineView(width, height int) string {
	rows := m.sess.View.Rows(m.sess.Tree())
	sel := viewstate.SelectedIndex(rows, m.sess.View.Selected)
	offset := 0
	if sel >= height {
		offset = sel - height + 1
	}
	end := offset + height
	if end > len(rows) {
		end = len(rows)
	}

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, renderRow(rows[i], i == sel, width))
	}
	return strings.Join(lines, "\n")
}

func renderRow(r viewstate.Row, selected bool, width int) string {
	marker := "  "
	if r.HasChildren {
		marker = "▸ "
		if r.Expanded {
			marker = "▾ "
		}
	}
	n := r.Node
	label := n.Kind.Label()
	if n.Status != "" {
		label += " · " + string(n.Status)
	}
	if n.Kind == model.KindQuizOption && n.IsCorrect {
		label += " · correct"
	}
	indent := strings.Repeat("  ", r.Depth)
	plain := indent + marker + n.Title + "  " + label
	if selected {
		return styleSelected.Render(padRight(xansi.Truncate(plain, width, "…"), width))
	}
	line := indent + marker + styleKind(n.Kind).Render(n.Title) + "  " + styleMuted.Render(label)
	return xansi.Truncate(line, width, "…")
}

func padRight(s string, width int) string {
	if w := xansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func (m Model) previewView(width, height int) string {
	if width < 10 {
		width = 10
	}
	n := m.selected()
	var b strings.Builder
	b.WriteString(styleHeader.Render(xansi.Truncate(n.Title, width, "…")))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render(xansi.Wordwrap(format.OutlineLine(n), width, " ")))
	b.WriteString("\n")
	if len(n.Children) > 0 {
		b.WriteString(styleMuted.Render(fmt.Sprintf("%d children", len(n.Children))))
		b.WriteString("\n")
	}
	if d := strings.TrimSpace(n.Description); d != "" {
		b.WriteString("\n")
		b.WriteString(xansi.Wordwrap(d, width, " "))
		b.WriteString("\n")
	}
	if c := renderMarkdown(n.Content, width); c != "" {
		b.WriteString("\n")
		b.WriteString(c)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i := range lines {
		lines[i] = xansi.Truncate(lines[i], width, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	var lines []string
	switch m.mode {
	case modeAdd:
		kind := m.addKinds[m.addKind]
		prompt := "Add " + kind.Label()
		if len(m.addKinds) > 1 {
			prompt += styleMuted.Render(" (tab: kind)")
		}
		lines = append(lines, prompt+": "+m.input.View())
	case modeRename:
		lines = append(lines, "Rename: "+m.input.View())
	}
	if m.status != "" {
		st := styleOK
		if m.statusErr {
			st = styleError
		}
		lines = append(lines, st.Render(xansi.Truncate(m.status, m.width, "…")))
	}
	keys := m.keys
	keys.Undo.SetEnabled(m.sess.CanUndo())
	keys.Redo.SetEnabled(m.sess.CanRedo())
	lines = append(lines, m.help.View(keys))
	return strings.Join(lines, "\n")
}
