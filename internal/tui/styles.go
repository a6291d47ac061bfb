package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tosifAN/sunrise-2024/internal/models"
)

// Theme is a board color palette.
type Theme struct {
	Name string

	BgHighlight lipgloss.Color

	FgPrimary   lipgloss.Color
	FgSecondary lipgloss.Color
	FgMuted     lipgloss.Color

	Red     lipgloss.Color
	Green   lipgloss.Color
	Yellow  lipgloss.Color
	Blue    lipgloss.Color
	Magenta lipgloss.Color
	Cyan    lipgloss.Color

	Border lipgloss.Color
}

// One Dark Pro color palette
var DarkTheme = Theme{
	Name:        "dark",
	BgHighlight: lipgloss.Color("#2C313C"),
	FgPrimary:   lipgloss.Color("#ABB2BF"),
	FgSecondary: lipgloss.Color("#828997"),
	FgMuted:     lipgloss.Color("#636B78"),
	Red:         lipgloss.Color("#E06C75"),
	Green:       lipgloss.Color("#98C379"),
	Yellow:      lipgloss.Color("#E5C07B"),
	Blue:        lipgloss.Color("#61AFEF"),
	Magenta:     lipgloss.Color("#C678DD"),
	Cyan:        lipgloss.Color("#56B6C2"),
	Border:      lipgloss.Color("#3F4451"),
}

// One Light color palette
var LightTheme = Theme{
	Name:        "light",
	BgHighlight: lipgloss.Color("#E5E5E6"),
	FgPrimary:   lipgloss.Color("#383A42"),
	FgSecondary: lipgloss.Color("#696C77"),
	FgMuted:     lipgloss.Color("#A0A1A7"),
	Red:         lipgloss.Color("#E45649"),
	Green:       lipgloss.Color("#50A14F"),
	Yellow:      lipgloss.Color("#C18401"),
	Blue:        lipgloss.Color("#4078F2"),
	Magenta:     lipgloss.Color("#A626A4"),
	Cyan:        lipgloss.Color("#0184BC"),
	Border:      lipgloss.Color("#D4D4D4"),
}

// Styles holds every component style for one theme.
type Styles struct {
	// Header
	Header   lipgloss.Style
	Subtitle lipgloss.Style

	// Columns
	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	GroupTitle    lipgloss.Style
	GroupBlocked  lipgloss.Style

	// Task cards
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	CardMeta     lipgloss.Style
	DoneEnabled  lipgloss.Style
	DoneDisabled lipgloss.Style

	// Stage titles
	StageToDo       lipgloss.Style
	StageInProgress lipgloss.Style
	StageCompleted  lipgloss.Style

	// Dialog and help overlay
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	Label       lipgloss.Style
	InputPrompt lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Dim       lipgloss.Style
}

// NewStyles builds the component styles for t.
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Red).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(t.FgMuted),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		ColumnFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Blue).
			Padding(0, 1),
		GroupTitle: lipgloss.NewStyle().
			Foreground(t.Magenta).
			Bold(true),
		GroupBlocked: lipgloss.NewStyle().
			Foreground(t.Red),

		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			PaddingLeft(1),
		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Blue).
			Background(t.BgHighlight).
			PaddingLeft(1),
		CardTitle: lipgloss.NewStyle().
			Foreground(t.FgPrimary).
			Bold(true),
		CardMeta: lipgloss.NewStyle().
			Foreground(t.FgSecondary),
		DoneEnabled: lipgloss.NewStyle().
			Foreground(t.Green).
			Bold(true),
		DoneDisabled: lipgloss.NewStyle().
			Foreground(t.FgMuted).
			Strikethrough(true),

		StageToDo: lipgloss.NewStyle().
			Foreground(t.FgSecondary).
			Bold(true),
		StageInProgress: lipgloss.NewStyle().
			Foreground(t.Yellow).
			Bold(true),
		StageCompleted: lipgloss.NewStyle().
			Foreground(t.Green).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),
		DialogTitle: lipgloss.NewStyle().
			Foreground(t.Blue).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(t.FgSecondary),
		InputPrompt: lipgloss.NewStyle().
			Foreground(t.Green),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.FgMuted).
			PaddingLeft(1).
			PaddingRight(1),
		Error: lipgloss.NewStyle().
			Foreground(t.Red),
		Success: lipgloss.NewStyle().
			Foreground(t.Green),
		Warning: lipgloss.NewStyle().
			Foreground(t.Yellow),
		Dim: lipgloss.NewStyle().
			Foreground(t.FgMuted),
	}
}

// StageTitle returns the column heading style for stage.
func (s Styles) StageTitle(stage models.Stage) lipgloss.Style {
	switch stage {
	case models.StageInProgress:
		return s.StageInProgress
	case models.StageCompleted:
		return s.StageCompleted
	default:
		return s.StageToDo
	}
}
