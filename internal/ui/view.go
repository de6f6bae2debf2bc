package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"keep/internal/task"
)

const (
	defaultWidth   = 100
	sidebarWidth   = 35
	previewWidth   = 25
	headerDateFmt  = "Monday, January 02, 2006"
	overdueDateFmt = "Jan 02"
)

var (
	accent      = lipgloss.Color("6")
	notesAccent = lipgloss.Color("#9664C8")
	muted       = lipgloss.Color("8")
	danger      = lipgloss.Color("1")
	success     = lipgloss.Color("2")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#646478")).
			Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#28283C")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(muted)
	startStyle    = lipgloss.NewStyle().Foreground(accent)
	endStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	overdueStyle  = lipgloss.NewStyle().Foreground(danger)
	caretStyle    = lipgloss.NewStyle().Reverse(true)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	mainWidth := max(40, width-sidebarWidth-4)

	var main string
	if m.view == viewNotes {
		main = m.renderNotes(mainWidth)
	} else {
		main = m.renderTasks(mainWidth)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderOverdue())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width-2),
		body,
		m.renderFooter(width-2),
	)
}

func (m Model) renderHeader(width int) string {
	var line string
	if m.view == viewNotes {
		row, col := m.notes.Position()
		line = titleStyle.Foreground(notesAccent).Render("📝 Free-form Notes & Ideas") +
			mutedStyle.Render(fmt.Sprintf("  Ln %d, Col %d", row+1, col+1))
	} else {
		date := formatDate(m.date, headerDateFmt)
		if m.date == m.today() {
			date += " (Today)"
		}
		st := task.Count(m.entries())
		line = titleStyle.Foreground(accent).Render("📅 "+date) +
			mutedStyle.Render(fmt.Sprintf("   %d Total  •  %d Pending  •  %d Done", st.Total, st.Pending, st.Done))
	}
	title := titleStyle.Render("Keep") + mutedStyle.Render(" ▸ Task Manager")
	return boxStyle.BorderForeground(accent).Width(width).Render(title + "\n" + line)
}

func (m Model) renderTasks(width int) string {
	entries := m.entries()
	var b strings.Builder
	b.WriteString(titleStyle.Foreground(accent).Render("Scheduled Tasks"))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(taskRow("", "Start", "End", "Task")))
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No tasks for this day. Press '%s' to add one.", keyLabel(m.cfg.Keys.Add))))
	}
	for i, e := range entries {
		check := "○"
		if e.Task.Completed {
			check = "●"
		}
		row := taskRow(check, clockCell(e.Task.StartTime, startStyle), clockCell(e.Task.EndTime, endStyle), e.Task.Content)
		switch {
		case i == m.cursor && m.mode == modeList:
			row = selectedStyle.Render(row)
		case e.Task.Completed:
			row = doneStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return boxStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func taskRow(check, start, end, content string) string {
	cell := func(s string, w int) string {
		return s + strings.Repeat(" ", max(0, w-lipgloss.Width(s)))
	}
	return cell(check, 3) + cell(start, 10) + cell(end, 10) + content
}

func clockCell(t *civil.Time, style lipgloss.Style) string {
	if t == nil {
		return mutedStyle.Render("--:--")
	}
	return style.Render(task.FormatClock(t))
}

func (m Model) renderNotes(width int) string {
	before, after := m.notes.Split()
	caret := " "
	if r, size := utf8.DecodeRuneInString(after); size > 0 && r != '\n' {
		caret = string(r)
		after = after[size:]
	}
	text := before + caretStyle.Render(caret) + after
	head := titleStyle.Foreground(notesAccent).Render("Notes")
	return boxStyle.BorderForeground(notesAccent).Width(width).Render(head + "\n\n" + text)
}

func (m Model) renderOverdue() string {
	entries := m.store.Overdue(m.today())
	border := success
	title := "✓ Overdue"
	if len(entries) > 0 {
		border = danger
		title = fmt.Sprintf("⚠ Overdue (%d)", len(entries))
	}
	lines := overdueLines(entries, m.cfg.OverdueLimit)
	content := titleStyle.Foreground(border).Render(title) + "\n\n" + strings.Join(lines, "\n")
	return boxStyle.BorderForeground(border).Width(sidebarWidth).Render(content)
}

// overdueLines renders at most limit entries; the rest are summarised.
func overdueLines(entries []task.Entry, limit int) []string {
	if len(entries) == 0 {
		return []string{lipgloss.NewStyle().Foreground(success).Render("🎉 All caught up!")}
	}
	shown := entries
	if limit > 0 && len(entries) > limit {
		shown = entries[:limit]
	}
	lines := make([]string, 0, len(shown)+1)
	for _, e := range shown {
		date := "---"
		if e.Task.Date != nil {
			date = formatDate(*e.Task.Date, overdueDateFmt)
		}
		lines = append(lines, overdueStyle.Render("⚠ "+date)+" "+runewidth.Truncate(e.Task.Content, previewWidth, "..."))
	}
	if rest := len(entries) - len(shown); rest > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  +%d more", rest)))
	}
	return lines
}

func (m Model) renderFooter(width int) string {
	var b strings.Builder
	if m.mode == modeInput {
		b.WriteString(m.renderInput())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys.inputHelp()))
	} else if m.view == viewNotes {
		b.WriteString(m.help.View(m.keys.notesHelp()))
	} else {
		b.WriteString(m.help.View(m.keys.listHelp()))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.status))
	return boxStyle.Width(width).Render(b.String())
}

func (m Model) renderInput() string {
	label := lipgloss.NewStyle().Foreground(success).Bold(true).Render("➕ ADD")
	if m.editing != task.NoIndex {
		label = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Render("✏ EDIT")
	}
	names := [fieldCount]string{"Task: ", "Start: ", "End: "}
	parts := make([]string, 0, fieldCount)
	for i := range m.fields {
		name := mutedStyle.Render(names[i])
		if i == m.field {
			name = titleStyle.Render(names[i])
		}
		parts = append(parts, name+m.fields[i].View())
	}
	return label + "  " + strings.Join(parts, mutedStyle.Render("  │  "))
}

func formatDate(d civil.Date, layout string) string {
	return d.In(time.Local).Format(layout)
}
