package plugin

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/cli"
	"github.com/andrei-cloud/plugload/internal/registry"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("240"))
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type pluginItem struct {
	name    string
	enabled bool
	config  registry.Config
}

type browseModel struct {
	items    []pluginItem
	cursor   int
	expanded bool
	quitting bool
}

// newBrowseModel creates a TUI model listing plugins by name.
func newBrowseModel(plugins map[string]registry.Config) browseModel {
	items := make([]pluginItem, 0, len(plugins))
	for name, cfg := range plugins {
		items = append(items, pluginItem{name: name, enabled: cfg.Enabled(), config: cfg})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].name < items[j].name })

	return browseModel{items: items}
}

// Init initializes the model.
func (m browseModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true

		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.items) > 0 {
			m.cursor = len(m.items) - 1
		}
	case "enter", " ":
		m.expanded = !m.expanded
	}

	return m, nil
}

// View renders the current state of the model.
func (m browseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Plugins (%d)", len(m.items))))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString("No plugins found.\n")
	}

	for i, item := range m.items {
		status := disabledStyle.Render("disabled")
		if item.enabled {
			status = enabledStyle.Render("enabled")
		}

		line := fmt.Sprintf("%-24s %s", item.name, status)
		if i == m.cursor {
			line = selectedStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")

		if i == m.cursor && m.expanded {
			for _, k := range cli.Keys(item.config) {
				fmt.Fprintf(&b, "      %s: %s\n", k, cli.FormatValue(item.config[k]))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ or j/k: move • Enter: details • q: quit"))
	b.WriteString("\n")

	return b.String()
}

// NewBrowseCommand creates the interactive browse command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse plugins interactively",
		Args:  cobra.NoArgs,
		RunE:  runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, state, err := cli.Load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = svc.Close(ctx)
	}()

	p := tea.NewProgram(
		newBrowseModel(state.Plugins),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()

	return err
}
