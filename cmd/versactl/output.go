package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"versa/internal/domain"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderTable prints rows as a styled table on a terminal and as
// tab-separated lines otherwise.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	if !isTerminal(w) {
		lines := make([]string, 0, len(rows)+1)
		lines = append(lines, strings.Join(headers, "\t"))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderHeader(true).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func toolRows(tools []domain.ToolDefinition, locale string) [][]string {
	rows := make([][]string, 0, len(tools))
	for _, tool := range tools {
		rows = append(rows, []string{tool.ID, string(tool.Category), tool.Name(locale), requirementFlags(tool)})
	}
	return rows
}

func requirementFlags(tool domain.ToolDefinition) string {
	var flags []string
	if tool.RequiresMask {
		flags = append(flags, "mask")
	}
	if tool.RequiresPrompt {
		flags = append(flags, "prompt")
	}
	if tool.RequiresSecondImage {
		flags = append(flags, "image2")
	}
	if tool.IsSensitive {
		flags = append(flags, "sensitive")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func printTools(w io.Writer, tools []domain.ToolDefinition, locale string, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, tools)
	}
	if len(tools) == 0 {
		_, err := fmt.Fprintln(w, "no tools found")
		return err
	}
	return renderTable(w, []string{"ID", "CATEGORY", "NAME", "REQUIRES"}, toolRows(tools, locale))
}

func printResult(w io.Writer, result domain.ProcessResult, events []domain.ProgressEvent, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, map[string]any{
			"result": result,
			"events": events,
		})
	}
	status := successStyle.Render("success")
	if !result.Success {
		status = failureStyle.Render("failed")
	}
	if !isTerminal(w) {
		status = "success"
		if !result.Success {
			status = "failed"
		}
	}
	if _, err := fmt.Fprintf(w, "status=%s message=%q\n", status, result.Message); err != nil {
		return err
	}
	if result.EditedImage != "" {
		_, err := fmt.Fprintf(w, "editedImage=%s\n", result.EditedImage)
		return err
	}
	return nil
}

func progressPrinter(w io.Writer) domain.ProgressFunc {
	return func(percent int, message string) {
		fmt.Fprintf(w, "[%3d%%] %s\n", percent, message)
	}
}
