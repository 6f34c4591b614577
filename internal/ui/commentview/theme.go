package commentview

import "github.com/charmbracelet/lipgloss"

var accent = lipgloss.Color("#FF4500")

var (
	// depthColors cycles through these for nested comment bars.
	depthColors = []lipgloss.Color{
		"#FF4500", "#828282", "#00BFFF", "#32CD32", "#FFD700", "#FF69B4", "#9370DB", "#20B2AA",
	}

	authorStyle    = lipgloss.NewStyle().Foreground(accent).Bold(true)
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	opStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#000")).Background(accent).Bold(true)
	modStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#000")).Background(lipgloss.Color("#32CD32")).Bold(true)
	likedStyle     = lipgloss.NewStyle().Foreground(accent)
	dislikedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9494FF"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	deletedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Italic(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	subheaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Padding(0, 1)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)
