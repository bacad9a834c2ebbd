package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"syllabus-cli/internal/model"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    = ac("240", "245")
	colorAccent   = ac("27", "62")
	colorAccentFg = ac("255", "235")
	colorError    = ac("160", "203")
	colorOK       = ac("28", "114")
	colorDirty    = ac("166", "214")
	colorHeader   = ac("235", "252")
)

var kindColors = map[model.NodeKind]lipgloss.AdaptiveColor{
	model.KindCourse:           ac("54", "183"),
	model.KindModule:           ac("24", "117"),
	model.KindLesson:           ac("22", "150"),
	model.KindPage:             ac("238", "250"),
	model.KindQuiz:             ac("130", "215"),
	model.KindQuizQuestion:     ac("94", "223"),
	model.KindQuizOption:       ac("241", "246"),
	model.KindCodingExercise:   ac("88", "210"),
	model.KindCodingPlayground: ac("30", "80"),
}

var (
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(colorHeader)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleSelected = lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg)
	styleError    = lipgloss.NewStyle().Foreground(colorError)
	styleOK       = lipgloss.NewStyle().Foreground(colorOK)
	styleDirty    = lipgloss.NewStyle().Foreground(colorDirty).Bold(true)
	stylePreview  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(colorMuted).PaddingLeft(1)
)

func styleKind(k model.NodeKind) lipgloss.Style {
	c, ok := kindColors[k]
	if !ok {
		return styleMuted
	}
	return lipgloss.NewStyle().Foreground(c)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile honors CLICOLOR, which can disable colors in a TUI. Here only
// NO_COLOR is honored; otherwise the terminal's capabilities win.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) SYLLABUS_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg", last segment is the background)
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SYLLABUS_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// 0-6 are dark palette entries, 7-15 light ones.
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
