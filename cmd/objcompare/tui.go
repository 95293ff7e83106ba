package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/craigbuckler/objcompare"
	"github.com/spf13/cobra"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Paste two documents and see their differences live",
		Long: `Opens two text inputs side by side. Every edit re-parses the edited
input and re-compares it against the other. Text is kept between sessions.
Tab switches input, Ctrl+C or Esc quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			st, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			view := newResultView()
			opts := append(controllerOptions(cfg, logger), objcompare.OptionStore(st))
			c := objcompare.NewController(view, opts...)
			if _, err := c.Restore(); err != nil {
				return err
			}

			m := newModel(c, view, logger)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("39"))
	errorPaneStyle = paneStyle.
			BorderForeground(lipgloss.Color("196"))
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	categoryStyles = map[string]lipgloss.Style{
		"remove":                 lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"change":                 lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		"create":                 lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		objcompare.CategoryError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
	noDiffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// resultView is the Renderer behind the TUI. every Render replaces the
// table wholesale; the model reads it back with View
type resultView struct {
	out   objcompare.Output
	width int
}

func newResultView() *resultView {
	return &resultView{width: 80}
}

// Render implements objcompare.Renderer
func (v *resultView) Render(out objcompare.Output) error {
	v.out = out
	return nil
}

// NoDifferences reports whether the "no differences" indicator is showing
func (v *resultView) NoDifferences() bool {
	return v.out.NoChanges
}

// View draws the current output
func (v *resultView) View() string {
	if v.out.NoChanges {
		return noDiffStyle.Render(objcompare.NoDifferences)
	}
	if len(v.out.Rows) == 0 {
		return ""
	}

	rows := v.out.Rows
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Width(v.width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row >= 0 && row < len(rows) {
				if style, ok := categoryStyles[rows[row].Category]; ok {
					return style.Padding(0, 1)
				}
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range rows {
		t.Row(r.Cells...)
	}
	return t.Render()
}

// model is the bubbletea model: two text inputs over a results table
type model struct {
	c       *objcompare.Controller
	view    *resultView
	inputs  [2]textarea.Model
	focused objcompare.Side
	log     *slog.Logger
}

func newModel(c *objcompare.Controller, view *resultView, logger *slog.Logger) *model {
	m := &model{c: c, view: view, log: logger}
	for _, side := range []objcompare.Side{objcompare.Old, objcompare.New} {
		ta := textarea.New()
		ta.Placeholder = fmt.Sprintf("paste %s JSON or YAML", side)
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.MaxHeight = 0
		ta.SetValue(c.Text(side))
		m.inputs[side] = ta
	}
	m.inputs[objcompare.Old].Focus()
	return m
}

func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.inputs[m.focused].Blur()
			m.focused = m.focused.Other()
			return m, m.inputs[m.focused].Focus()
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	side := m.focused
	before := m.inputs[side].Value()
	var cmd tea.Cmd
	m.inputs[side], cmd = m.inputs[side].Update(msg)
	if after := m.inputs[side].Value(); after != before {
		m.log.Debug("input changed", "side", side)
		m.c.Update(side, after)
	}
	return m, cmd
}

func (m *model) resize(width, height int) {
	paneWidth := width/2 - 2
	if paneWidth < 20 {
		paneWidth = 20
	}
	paneHeight := height/2 - 4
	if paneHeight < 3 {
		paneHeight = 3
	}
	for i := range m.inputs {
		m.inputs[i].SetWidth(paneWidth)
		m.inputs[i].SetHeight(paneHeight)
	}
	m.view.width = width
}

// paneStyle marks an input holding text that does not parse. an input that
// is merely empty is not marked
func (m *model) paneStyle(side objcompare.Side) lipgloss.Style {
	if err := m.c.Err(side); err != nil && !err.Empty() {
		return errorPaneStyle
	}
	if side == m.focused {
		return focusedPaneStyle
	}
	return paneStyle
}

func (m *model) View() string {
	panes := make([]string, 2)
	for _, side := range []objcompare.Side{objcompare.Old, objcompare.New} {
		style := m.paneStyle(side)
		title := titleStyle.Render(side.String())
		panes[side] = lipgloss.JoinVertical(lipgloss.Left, title, style.Render(m.inputs[side].View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
		m.view.View(),
		helpStyle.Render("tab: switch input • esc: quit"),
	)
}
