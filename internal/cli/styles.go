// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for one-shot CLI output.

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Title style for command headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // Cyan
			MarginBottom(1)

	// Label style for field names
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(14)

	// Value styles
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	valueGreenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")) // Green

	valueYellowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")) // Yellow

	valueRedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red

	valueDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim
)

// scoreStyle picks a value style for a summary score.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return valueGreenStyle
	case score >= 60:
		return valueYellowStyle
	case score >= 40:
		return valueStyle
	default:
		return valueRedStyle
	}
}

// printField prints an aligned "Label  value" row.
func printField(label, value string) {
	fmt.Println(labelStyle.Render(label) + " " + valueStyle.Render(value))
}
