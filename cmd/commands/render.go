package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guttosm/truckload/internal/domain/dto"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99")).
			MarginBottom(1)

	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(10)

	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFCC00"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1)
)

func renderHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("TRUCKLOAD %s", Version)))
	if cmd.Long != "" {
		fmt.Fprintln(out, cmd.Long)
	} else {
		fmt.Fprintln(out, cmd.Short)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-14s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	visit := func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-14s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, flagStyle.Render(line))
	}
	cmd.LocalFlags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	fmt.Fprintln(out)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case dto.StatusOK:
		return okStyle
	case dto.StatusInfeasible:
		return warnStyle
	}
	return errorStyle
}

// renderSummary prints a boxed run summary to w.
func renderSummary(w io.Writer, s dto.RunSummary) {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Run", s.RunID)
	row("Command", s.Command)
	row("Item set", s.ItemSet)
	if s.Metric != "" {
		row("Metric", s.Metric)
	}
	row("Status", statusStyle(s.Status).Render(strings.ToUpper(s.Status)))
	row("Results", fmt.Sprintf("%d", s.Emitted))
	if s.Expanded > 0 {
		row("Expanded", fmt.Sprintf("%d (pruned %d)", s.Expanded, s.Pruned))
	}
	row("Duration", s.Duration.Round(time.Millisecond).String())
	for i, path := range s.Outputs {
		label := ""
		if i == 0 {
			label = "Outputs"
		}
		row(label, path)
	}
	if s.Error != "" {
		row("Error", errorStyle.Render(s.Error))
	}

	fmt.Fprintln(w, boxStyle.Render(strings.TrimSuffix(b.String(), "\n")))
}
