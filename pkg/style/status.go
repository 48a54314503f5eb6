package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status is the outcome of a single check or step
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusInfo Status = "info"
)

// Indicator returns the styled marker for a status
func Indicator(status Status) string {
	switch status {
	case StatusOK:
		return SuccessIndicator
	case StatusFail:
		return ErrorIndicator
	case StatusWarn:
		return WarningIndicator
	default:
		return InfoIndicator
	}
}

// PlainIndicator returns the unstyled marker for a status
func PlainIndicator(status Status) string {
	switch status {
	case StatusOK:
		return "✓"
	case StatusFail:
		return "✗"
	case StatusWarn:
		return "⚠"
	default:
		return "•"
	}
}

// StatusStyle returns the badge style used for a summary status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusOK:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgWhite, pterm.Bold)
	case StatusFail:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case StatusWarn:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	default:
		return pterm.NewStyle(pterm.FgCyan)
	}
}

// Badge renders a padded, styled status label such as " OK "
func Badge(status Status, label string) string {
	return StatusStyle(status).Sprint(" " + label + " ")
}

// Heading renders a section heading
func Heading(title string) string {
	return pterm.Bold.Sprint(title)
}

// RenderError renders an error line
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", ErrorIndicator, ErrorStyle.Render(err.Error()))
}
