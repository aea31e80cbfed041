// Package tui renders the live rates dashboard served over SSH.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"coinrates/internal/domain"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RateQuerier is the slice of the rate service the dashboard needs.
type RateQuerier interface {
	GetSnapshot(ctx context.Context) (*domain.RateSnapshot, error)
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	resultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(1, 1)
	tableStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

type snapshotMsg struct {
	snapshot *domain.RateSnapshot
	err      error
}

type convertMsg struct {
	text string
	err  error
}

// AppModel is the root bubbletea model: two rate tables and a converter
// prompt that accepts "AMOUNT FROM TO".
type AppModel struct {
	rates RateQuerier

	cryptoTable table.Model
	fiatTable   table.Model
	input       textinput.Model

	lastUpdated string
	result      string
	resultErr   bool
	loadErr     string
	loading     bool
	width       int
	height      int
}

func NewAppModel(rates RateQuerier) *AppModel {
	cryptoTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Symbol", Width: 8},
			{Title: "Price (USD)", Width: 16},
			{Title: "24h %", Width: 10},
		}),
		table.WithHeight(7),
	)
	fiatTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Code", Width: 8},
			{Title: "Per USD", Width: 16},
		}),
		table.WithHeight(7),
	)

	input := textinput.New()
	input.Placeholder = "100 USD TWD"
	input.CharLimit = 40
	input.Focus()

	return &AppModel{
		rates:       rates,
		cryptoTable: cryptoTable,
		fiatTable:   fiatTable,
		input:       input,
		loading:     true,
	}
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	return m.fetchSnapshot
}

func (m *AppModel) fetchSnapshot() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snapshot, err := m.rates.GetSnapshot(ctx)
	return snapshotMsg{snapshot: snapshot, err: err}
}

func (m *AppModel) convertCmd(amount float64, from, to string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := m.rates.Convert(ctx, amount, from, to)
		if err != nil {
			return convertMsg{err: err}
		}
		return convertMsg{text: fmt.Sprintf("%s %s = %s %s",
			strconv.FormatFloat(amount, 'f', -1, 64), from,
			strconv.FormatFloat(result, 'f', -1, 64), to)}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.applySnapshot(msg.snapshot)
		return m, nil

	case convertMsg:
		if msg.err != nil {
			m.result = msg.err.Error()
			m.resultErr = true
		} else {
			m.result = msg.text
			m.resultErr = false
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.loading = true
			return m, m.fetchSnapshot
		case "enter":
			amount, from, to, err := parseConvertInput(m.input.Value())
			if err != nil {
				m.result = err.Error()
				m.resultErr = true
				return m, nil
			}
			return m, m.convertCmd(amount, from, to)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *AppModel) applySnapshot(snapshot *domain.RateSnapshot) {
	m.lastUpdated = snapshot.LastUpdated

	cryptoRows := make([]table.Row, 0, len(snapshot.Crypto))
	for _, c := range snapshot.Crypto {
		cryptoRows = append(cryptoRows, table.Row{c.Symbol, c.PriceUSD, c.Change24h + "%"})
	}
	m.cryptoTable.SetRows(cryptoRows)

	fiatRows := make([]table.Row, 0, len(snapshot.Fiat))
	for _, f := range snapshot.Fiat {
		fiatRows = append(fiatRows, table.Row{f.Code, f.RateToUSD})
	}
	m.fiatTable.SetRows(fiatRows)
}

func (m *AppModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("coinrates"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString("\nLoading rates...\n")
		return b.String()
	}
	if m.loadErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("rates unavailable: " + m.loadErr))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("ctrl+r retry · esc quit"))
		return b.String()
	}

	b.WriteString(headerStyle.Render("updated " + m.lastUpdated))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		tableStyle.Render(m.cryptoTable.View()),
		"  ",
		tableStyle.Render(m.fiatTable.View()),
	))
	b.WriteString("\n\n")
	b.WriteString("convert> " + m.input.View())
	b.WriteString("\n")
	if m.result != "" {
		if m.resultErr {
			b.WriteString(errorStyle.Render(m.result))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter convert · ctrl+r refresh · esc quit"))
	return b.String()
}

func parseConvertInput(value string) (float64, string, string, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return 0, "", "", fmt.Errorf("usage: AMOUNT FROM TO")
	}
	amount, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || amount <= 0 {
		return 0, "", "", fmt.Errorf("invalid amount %q", fields[0])
	}
	return amount, strings.ToUpper(fields[1]), strings.ToUpper(fields[2]), nil
}
