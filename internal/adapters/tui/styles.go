package tui

import (
	"reflect"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/desk-pet/internal/config"
	"github.com/xvierd/desk-pet/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// stateColor returns the colour the pet is drawn in for a pose.
func stateColor(theme config.ThemeConfig, state domain.VisualState) lipgloss.Color {
	switch state {
	case domain.StateSleep:
		return lipgloss.Color(theme.ColorSleep)
	case domain.StateWork:
		return lipgloss.Color(theme.ColorWork)
	case domain.StateBreak, domain.StateLongBreak:
		return lipgloss.Color(theme.ColorBreak)
	default:
		return lipgloss.Color(theme.ColorNormal)
	}
}

func titleStyle(theme config.ThemeConfig) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
}

func helpStyle(theme config.ThemeConfig) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))
}

func bubbleStyle(theme config.ThemeConfig) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColorBubble)).
		Padding(0, 1)
}

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53E3E"))
