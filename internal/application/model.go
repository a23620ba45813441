package application

import (
	"strings"

	"github.com/JonMunkholm/PauperCube/internal/core"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model for the Sheet Scripts menu.
type Model struct {
	menu     *Menu
	cursor   int
	running  string // label of the action in flight
	status   string
	err      error
	quitting bool
}

// NewModel builds the menu around svc.
func NewModel(svc *core.Service) Model {
	return Model{menu: buildMenuTree(&CubeActions{Service: svc})}
}

// Run starts the menu on the terminal and blocks until the user quits.
func Run(svc *core.Service) error {
	_, err := tea.NewProgram(NewModel(svc)).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.menu.Items)-1 {
				m.cursor++
			}
		case "esc", "backspace":
			if m.menu.Parent != nil {
				m.menu = m.menu.Parent
				m.cursor = 0
			}
		case "enter", " ":
			return m.selectItem()
		}

	case DoneMsg:
		m.running = ""
		m.status = string(msg)
		m.err = nil

	case InfoMsg:
		m.running = ""
		m.status = string(msg)
		m.err = nil

	case ErrMsg:
		m.running = ""
		m.status = ""
		m.err = msg.Err
	}

	return m, nil
}

func (m Model) selectItem() (tea.Model, tea.Cmd) {
	item := m.menu.Items[m.cursor]

	if item.Submenu != nil {
		m.menu = item.Submenu
		m.cursor = 0
		return m, nil
	}
	if item.Action == nil {
		return m, nil
	}
	if item.Label == labelQuit {
		m.quitting = true
		return m, item.Action()
	}
	if m.running != "" {
		m.status = m.running + " is still running"
		return m, nil
	}

	m.running = item.Label
	m.status = ""
	m.err = nil
	return m, item.Action()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.menu.Title + "\n\n")

	for i, item := range m.menu.Items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(cursor + item.Label + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.running != "":
		b.WriteString("Running " + m.running + "...\n")
	case m.err != nil:
		b.WriteString("Error: " + core.FormatUserError(m.err) + "\n")
		b.WriteString("  " + m.err.Error() + "\n")
	case m.status != "":
		b.WriteString(m.status + "\n")
	}
	if m.running != "" && m.status != "" {
		b.WriteString(m.status + "\n")
	}

	b.WriteString("\nup/down: move  enter: select  esc: back  q: quit\n")
	return b.String()
}
