package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Number int
	Title  string
	Clock  string
	Kind   string
	Repeat string
	Done   bool
}

type TodayPanelData struct {
	Date     string
	Rows     []TaskRowData
	Cursor   int
	Done     int
	Total    int
	ListView string
}

type WeekDayData struct {
	Label   string
	IsToday bool
	Rows    []TaskRowData
}

type WeekPanelData struct {
	Offset int
	Range  string
	Days   []WeekDayData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
	Markdown    string
}

type ReminderPreviewData struct {
	Title string
	Kind  string
	Next  []string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("today %s  (%d/%d done)\n", data.Date, data.Done, data.Total))
	b.WriteString("actions: [j/k]move [space]complete [/]command [s]sync\n\n")
	if len(data.Rows) == 0 {
		b.WriteString("no quests for today")
		return b.String()
	}
	for i, row := range data.Rows {
		cursor := "  "
		if i == data.Cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + renderRow(row) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderWeekPanel(data WeekPanelData) string {
	var b strings.Builder
	label := "this week"
	switch {
	case data.Offset > 0:
		label = fmt.Sprintf("+%d week(s)", data.Offset)
	case data.Offset < 0:
		label = fmt.Sprintf("%d week(s)", data.Offset)
	}
	b.WriteString(fmt.Sprintf("week: %s | %s\n", label, data.Range))
	b.WriteString("actions: [h/l]previous/next week [0]this week\n")
	for _, day := range data.Days {
		title := day.Label
		if day.IsToday {
			title += " (today)"
		}
		b.WriteString("\n" + dayStyle.Render(title) + "\n")
		if len(day.Rows) == 0 {
			b.WriteString("  -\n")
			continue
		}
		for _, row := range day.Rows {
			b.WriteString("  " + renderRow(row) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderRow(row TaskRowData) string {
	box := "[ ]"
	if row.Done {
		box = "[x]"
	}
	clock := row.Clock
	if clock == "" {
		clock = "     "
	}
	text := fmt.Sprintf("%s %s %s", box, clock, row.Title)
	if row.Number > 0 {
		text = fmt.Sprintf("%2d. %s", row.Number, text)
	}
	if row.Kind != "" && row.Kind != "custom" {
		text += " {" + row.Kind + "}"
	}
	if row.Repeat != "" {
		text += " (" + row.Repeat + ")"
	}
	if row.Done {
		return doneStyle.Render(text)
	}
	return text
}

func RenderReminderPreview(data ReminderPreviewData) string {
	if data.Title == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("reminders: %s", data.Title))
	if data.Kind != "" {
		b.WriteString(" {" + data.Kind + "}")
	}
	b.WriteString("\n")
	if len(data.Next) == 0 {
		b.WriteString("  no upcoming reminder")
		return b.String()
	}
	for _, item := range data.Next {
		b.WriteString("- " + item + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", inputView)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderXP(xp, max int, bar string) string {
	return fmt.Sprintf("XP %s %d/%d", bar, xp, max)
}

func RenderHelpPanel(data HelpPanelData) string {
	parts := []string{
		fmt.Sprintf("help (%s):", strings.ToLower(data.CurrentView)),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	}
	if md := RenderMarkdown(data.Markdown); md != "" {
		parts = append(parts, md)
	}
	return strings.Join(parts, "\n")
}
