package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MKhiriev/go-stock-keeper/models"
)

const timeLayout = "2006-01-02 15:04"

// styles are bound to the renderer of the output writer so that colors are
// dropped when the output is not a terminal.
type styles struct {
	title   lipgloss.Style
	help    lipgloss.Style
	err     lipgloss.Style
	box     lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	low     lipgloss.Style
	out     lipgloss.Style
	border  lipgloss.Style
	success lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true),
		help:    r.NewStyle().Faint(true),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		low:     r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("11")),
		out:     r.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("9")),
		border:  r.NewStyle().Faint(true),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

type printer struct {
	w      io.Writer
	styles styles
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styles: newStyles(lipgloss.NewRenderer(w))}
}

func (p *printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *printer) success(format string, args ...any) {
	p.line(p.styles.success.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) errorf(format string, args ...any) {
	p.line(p.styles.err.Render(fmt.Sprintf(format, args...)))
}

func (p *printer) help(s string) {
	p.line(p.styles.help.Render(s))
}

// items prints the inventory as a table. threshold is the effective global
// low-stock threshold used to highlight rows.
func (p *printer) items(title string, items []models.InventoryItem, threshold int64) {
	p.line(p.styles.title.Render(fmt.Sprintf("%s (%d)", title, len(items))))
	if len(items) == 0 {
		p.help("no items")
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID.String(),
			item.Name,
			item.CategoryOrDefault(),
			item.Quantity.String(),
			thresholdCell(item),
			photoCell(item),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.border).
		Headers("ID", "NAME", "CATEGORY", "QTY", "THRESHOLD", "PHOTO").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.styles.header
			case row < 0 || row >= len(items):
				return p.styles.cell
			case items[row].IsOutOfStock():
				return p.styles.out
			case items[row].IsLowStock(threshold):
				return p.styles.low
			default:
				return p.styles.cell
			}
		})
	p.line(t.String())
}

func (p *printer) item(item models.InventoryItem) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.styles.title.Render(item.Name))
	fmt.Fprintf(&b, "id:          %s\n", item.ID)
	fmt.Fprintf(&b, "category:    %s\n", item.CategoryOrDefault())
	fmt.Fprintf(&b, "quantity:    %s\n", item.Quantity)
	fmt.Fprintf(&b, "threshold:   %s\n", thresholdCell(item))
	fmt.Fprintf(&b, "photo:       %s\n", photoCell(item))
	if item.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", item.Description)
	}
	if !item.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "updated:     %s", item.UpdatedAt.Local().Format(timeLayout))
	}
	p.line(p.styles.box.Render(strings.TrimRight(b.String(), "\n")))
}

func (p *printer) history(entries []models.HistoryEntry) {
	p.line(p.styles.title.Render(fmt.Sprintf("History (%d)", len(entries))))
	if len(entries) == 0 {
		p.help("no history")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			formatTime(e.Timestamp),
			string(e.Action),
			e.Name,
			e.Category,
			e.Quantity.String(),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.border).
		Headers("WHEN", "ACTION", "NAME", "CATEGORY", "QTY").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			return p.styles.cell
		})
	p.line(t.String())
}

func (p *printer) stats(stats models.InventoryStats) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.styles.title.Render("Inventory"))
	fmt.Fprintf(&b, "total quantity:   %d\n", stats.TotalItems)
	fmt.Fprintf(&b, "categories:       %d\n", stats.TotalCategories)
	fmt.Fprintf(&b, "low stock:        %d\n", stats.LowStockCount)
	fmt.Fprintf(&b, "out of stock:     %d\n", stats.OutOfStockCount)
	fmt.Fprintf(&b, "global threshold: %s", thresholdLabel(stats.GlobalThreshold))
	p.line(p.styles.box.Render(b.String()))

	if len(stats.OutOfStockItems) > 0 {
		p.items("Out of stock", stats.OutOfStockItems, stats.GlobalThreshold)
	}
	if len(stats.LowStockItems) > 0 {
		p.items("Low stock", stats.LowStockItems, stats.GlobalThreshold)
	}
	if len(stats.RecentItems) > 0 {
		p.items("Recently added", stats.RecentItems, stats.GlobalThreshold)
	}
}

func (p *printer) settings(settings *models.UserSettings) {
	threshold := models.EffectiveGlobalThreshold(settings)
	source := "default"
	if settings != nil {
		source = "saved"
	}
	p.line(p.styles.box.Render(fmt.Sprintf("%s\nglobal low-stock threshold: %s (%s)",
		p.styles.title.Render("Settings"), thresholdLabel(threshold), source)))
}

func (p *printer) build(build models.AppBuildInfo) {
	p.line(fmt.Sprintf("Build version: %s", build.BuildVersion()))
	p.line(fmt.Sprintf("Build date: %s", build.BuildDate()))
	p.line(fmt.Sprintf("Build commit: %s", build.BuildCommit()))
}

func thresholdCell(item models.InventoryItem) string {
	if n, ok := item.CustomThreshold(); ok {
		return strconv.FormatInt(n, 10)
	}
	return "-"
}

func thresholdLabel(n int64) string {
	if n <= 0 {
		return "off"
	}
	return strconv.FormatInt(n, 10)
}

func photoCell(item models.InventoryItem) string {
	switch {
	case item.PhotoURL != "":
		return item.PhotoURL
	case item.Photo != "":
		return "pending upload"
	default:
		return "-"
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
