// Package render draws timetables as lipgloss tables for the CLI.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/replan/internal/models"
	"github.com/julianstephens/replan/internal/scoring"
	"github.com/julianstephens/replan/internal/utils"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	lockedStyle = cellStyle.Foreground(lipgloss.Color("240"))
	changeStyle = cellStyle.Foreground(lipgloss.Color("214"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)

	headers = []string{"#", "Time", "Activity", "Duration", "Range", "Pri", "Flags", "Change"}
)

// Table renders tt. When baseline is non-nil, rows that moved relative to it
// are highlighted and annotated.
func Table(tt, baseline models.Timetable) string {
	if len(tt) == 0 {
		return emptyStyle.Render("No activities.")
	}

	changed := map[int]scoring.Change{}
	if baseline != nil {
		for _, c := range scoring.ComputeChanges(baseline, tt) {
			changed[c.Index] = c
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case row >= 0 && row < len(tt) && tt[row].Locked:
				return lockedStyle
			case row >= 0:
				if _, ok := changed[row]; ok {
					return changeStyle
				}
			}
			return cellStyle
		})

	for i, a := range tt {
		change := ""
		if c, ok := changed[i]; ok {
			change = describeChange(c)
		}
		t.Row(
			strconv.Itoa(i+1),
			fmt.Sprintf("%s-%s", utils.FormatMinutes(a.Start), utils.FormatMinutes(a.End())),
			a.Name,
			utils.FormatDuration(a.Duration),
			fmt.Sprintf("%s-%s", utils.FormatDuration(a.MinDuration), utils.FormatDuration(a.MaxDuration)),
			strconv.Itoa(a.Priority),
			flags(a),
			change,
		)
	}
	return t.Render()
}

func flags(a models.Activity) string {
	var f []string
	if a.Flexible {
		f = append(f, "flexible")
	}
	if a.Locked {
		f = append(f, "locked")
	}
	return strings.Join(f, ",")
}

func describeChange(c scoring.Change) string {
	var parts []string
	if c.StartDelta != 0 {
		parts = append(parts, "moved "+utils.FormatDuration(c.StartDelta))
	}
	if c.DurationDelta != 0 {
		parts = append(parts, "resized "+utils.FormatDuration(c.DurationDelta))
	}
	return strings.Join(parts, ", ")
}

// Writer prints every committed timetable to an io.Writer. It satisfies the
// solver's presentation interface.
type Writer struct {
	w        io.Writer
	baseline models.Timetable
}

// NewWriter creates a Writer. If baseline is non-nil, changes against it are
// highlighted.
func NewWriter(w io.Writer, baseline models.Timetable) *Writer {
	if baseline != nil {
		baseline = baseline.Clone()
	}
	return &Writer{w: w, baseline: baseline}
}

func (r *Writer) RenderSchedule(tt models.Timetable) {
	fmt.Fprintln(r.w, Table(tt, r.baseline))
}
