package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-stock-keeper/models"
)

const (
	watchTableHeight = 15
	maxColumnWidth   = 40
)

type watchKeyMap struct {
	up   key.Binding
	down key.Binding
	sync key.Binding
	quit key.Binding
}

var watchKeys = watchKeyMap{
	up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	sync: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now")),
	quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type snapshotMsg struct {
	items []models.InventoryItem
}

type syncDoneMsg struct {
	err error
}

// watchModel is the live inventory view: a table refreshed from the
// subscription snapshots.
type watchModel struct {
	ctx       context.Context
	snapshots <-chan []models.InventoryItem
	syncData  func(ctx context.Context) error
	threshold int64
	styles    styles

	table   table.Model
	spinner spinner.Model
	items   []models.InventoryItem
	loading bool
	syncing bool
	status  string
	lastErr error
}

func newWatchModel(ctx context.Context, snapshots <-chan []models.InventoryItem, syncData func(context.Context) error, threshold int64, st styles) watchModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	ts := table.DefaultStyles()
	ts.Header = st.header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	ts.Cell = st.cell
	ts.Selected = st.title

	t := table.New(
		table.WithColumns(watchColumns(nil)),
		table.WithFocused(true),
		table.WithHeight(watchTableHeight),
		table.WithStyles(ts),
	)

	return watchModel{
		ctx:       ctx,
		snapshots: snapshots,
		syncData:  syncData,
		threshold: threshold,
		styles:    st,
		table:     t,
		spinner:   s,
		loading:   true,
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.waitForSnapshot()
}

// waitForSnapshot delivers the next subscription snapshot as a message. It
// yields nothing once ctx is done.
func (m watchModel) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case items := <-m.snapshots:
			return snapshotMsg{items: items}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m watchModel) cmdSync() tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{err: m.syncData(m.ctx)}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.loading = false
		m.items = msg.items
		rows := watchRows(msg.items, m.threshold)
		m.table.SetColumns(watchColumns(rows))
		m.table.SetRows(rows)
		if m.table.Cursor() >= len(rows) {
			m.table.SetCursor(max(len(rows)-1, 0))
		}
		return m, m.waitForSnapshot()

	case syncDoneMsg:
		m.syncing = false
		m.lastErr = msg.err
		m.status = ""
		if msg.err == nil {
			m.status = "sync finished"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.sync):
			if m.syncing {
				return m, nil
			}
			m.syncing = true
			m.status = ""
			m.lastErr = nil
			return m, tea.Batch(m.spinner.Tick, m.cmdSync())
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	header := m.styles.title.Render(fmt.Sprintf("Inventory (%d)", len(m.items)))
	if m.syncing {
		header += "  " + m.spinner.View()
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.help.Render("loading...") + "\n")
	case len(m.items) == 0:
		b.WriteString(m.styles.help.Render("no items") + "\n")
	default:
		b.WriteString(m.table.View() + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.styles.success.Render(m.status) + "\n")
	}
	if m.lastErr != nil {
		b.WriteString("\n" + m.styles.err.Render("error: "+m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n" + m.styles.help.Render(watchHelp(watchKeys.up, watchKeys.down, watchKeys.sync, watchKeys.quit)))
	return b.String()
}

func watchHelp(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, "  ")
}

var watchTitles = []string{"ID", "NAME", "CATEGORY", "QTY", "THRESHOLD", "STOCK", "PHOTO"}

func watchRows(items []models.InventoryItem, threshold int64) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, table.Row{
			item.ID.String(),
			item.Name,
			item.CategoryOrDefault(),
			item.Quantity.String(),
			thresholdCell(item),
			stockCell(item, threshold),
			photoCell(item),
		})
	}
	return rows
}

// watchColumns sizes every column to its widest cell, capped at
// maxColumnWidth.
func watchColumns(rows []table.Row) []table.Column {
	columns := make([]table.Column, len(watchTitles))
	for i, title := range watchTitles {
		width := lipgloss.Width(title)
		for _, row := range rows {
			width = max(width, lipgloss.Width(row[i]))
		}
		columns[i] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
	}
	return columns
}

func stockCell(item models.InventoryItem, threshold int64) string {
	switch {
	case item.IsOutOfStock():
		return "out"
	case item.IsLowStock(threshold):
		return "low"
	default:
		return "ok"
	}
}
