package tui

import (
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"morph/internal/metadata"
	"morph/internal/renamer"
)

// RenderPreview lays out planned renames in execution order.
func RenderPreview(items []renamer.Item) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Color.Row = text.Colors{text.Reset}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})
	t.AppendHeader(table.Row{text.Bold.Sprint("#"), text.Bold.Sprint("Current"), text.Bold.Sprint("New"), text.Bold.Sprint("Status")})

	for _, item := range items {
		var status string
		switch {
		case item.Unchanged():
			status = text.FgHiBlack.Sprint("unchanged")
		case renamer.ValidName(item.NewName) != nil:
			status = text.FgRed.Sprint("invalid name")
		default:
			status = text.FgGreen.Sprint("rename")
		}
		t.AppendRow(table.Row{item.Index + 1, filepath.Base(item.Old), item.NewName, status})
	}
	return t.Render()
}

// RenderTags lays out one row per tag, grouped by file.
func RenderTags(reports []metadata.Report) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Color.Row = text.Colors{text.Reset}
	t.AppendHeader(table.Row{text.Bold.Sprint("File"), text.Bold.Sprint("Tag"), text.Bold.Sprint("Value")})

	for i, report := range reports {
		if i > 0 {
			t.AppendSeparator()
		}
		if report.Err != nil {
			t.AppendRow(table.Row{report.Path, text.FgYellow.Sprint("skipped"), report.Err.Error()})
			continue
		}
		if len(report.Tags) == 0 {
			t.AppendRow(table.Row{report.Path, "", text.FgHiBlack.Sprint("none")})
			continue
		}
		for j, name := range report.Tags.Names() {
			file := ""
			if j == 0 {
				file = report.Path
			}
			t.AppendRow(table.Row{file, name, strings.TrimSpace(report.Tags[name])})
		}
	}
	return t.Render()
}
