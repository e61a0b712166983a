package eval

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true)
	headerStyle      = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle        = lipgloss.NewStyle().Padding(0, 1)
)

// Render formats the report as a bordered table.
func (r *Report) Render() string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Metric", "Score").
		Row("Answer correctness", fmt.Sprintf("%.3f", r.Correctness)).
		Row("Citation recall", fmt.Sprintf("%.3f", r.Recall)).
		Row("Citation precision", fmt.Sprintf("%.3f", r.Precision)).
		Row("Citation faithfulness", fmt.Sprintf("%.3f", r.Faithfulness))

	title := reportTitleStyle.Render(fmt.Sprintf("Evaluation %s: %d/%d examples (%d failed)",
		r.RunID, r.Evaluated, r.Total, r.Failed))

	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

// Print writes the rendered report to w.
func (r *Report) Print(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Render())
	return err
}
