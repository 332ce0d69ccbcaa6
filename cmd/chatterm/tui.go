package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/session"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// stateChangedMsg is injected whenever the coordinator reports a change.
type stateChangedMsg struct{}

type model struct {
	coord *session.Coordinator

	input    textinput.Model
	focus    focusArea
	cursor   int // sidebar cursor
	width    int
	height   int
	status   string
	quitting bool
}

func newModel(coord *session.Coordinator) model {
	ti := textinput.New()
	ti.Placeholder = "Napisz swoją wiadomość..."
	ti.CharLimit = 2000
	ti.Focus()

	return model{
		coord:  coord,
		input:  ti,
		focus:  focusInput,
		width:  120,
		height: 30,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateChangedMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			if m.focus == focusInput {
				m.focus = focusSidebar
				m.input.Blur()
			} else {
				m.focus = focusInput
				m.input.Focus()
			}
			return m, nil

		case "ctrl+n":
			if err := m.coord.NewChat(); err != nil {
				m.status = statusText(err)
			} else {
				m.status = ""
			}
			return m, nil

		case "ctrl+t":
			m.coord.SetTTSEnabled(!m.coord.TTSEnabled())
			return m, nil
		}

		if m.focus == focusSidebar {
			return m.updateSidebar(msg)
		}
		return m.updateInput(msg)
	}
	return m, nil
}

func (m model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	listing := m.coord.Directory()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(listing)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(listing) {
			if err := m.coord.Select(context.Background(), listing[m.cursor].ID); err != nil {
				m.status = statusText(err)
			} else {
				m.status = ""
			}
		}
	case "ctrl+x", "delete":
		if m.cursor < len(listing) {
			if err := m.coord.Delete(context.Background(), listing[m.cursor].ID); err != nil {
				m.status = statusText(err)
			}
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		text := m.input.Value()
		if err := m.coord.Submit(context.Background(), text); err != nil {
			m.status = statusText(err)
		} else {
			m.status = ""
			m.input.SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	sidebarWidth := 28
	chatWidth := m.width - sidebarWidth - 3
	if chatWidth < 20 {
		chatWidth = 20
	}

	sidebar := m.renderSidebar(sidebarWidth)
	chat := m.renderChat(chatWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " │ ", chat)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Chatbot") + dimStyle.Render("  "+m.phaseLabel()) + "\n")
	b.WriteString(body + "\n")
	b.WriteString(m.input.View() + "\n")
	if m.status != "" {
		b.WriteString(statusBarStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("enter: wyślij · tab: panel · ctrl+n: nowy czat · ctrl+x: usuń · ctrl+t: głos · ctrl+c: wyjście"))
	return b.String()
}

func (m model) phaseLabel() string {
	switch m.coord.Phase() {
	case session.PhaseSending:
		return "asystent pisze..."
	case session.PhaseRecording:
		return "nagrywanie..."
	default:
		if m.coord.TTSEnabled() {
			return "głos: wł"
		}
		return ""
	}
}

func (m model) renderSidebar(width int) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("HISTORIA KONWERSACJI") + "\n")

	listing := m.coord.Directory()
	if len(listing) == 0 {
		b.WriteString(dimStyle.Render("Brak zapisanych rozmów.") + "\n")
	}
	for i, conv := range listing {
		title := conv.Title
		if title == "" {
			title = conv.ID
		}
		title = truncate(title, width-2)
		style := normalStyle
		if m.focus == focusSidebar && i == m.cursor {
			style = selectedStyle
		} else if conv.ID == m.coord.ActiveConversationID() {
			style = selectedStyle.Copy().Background(lipgloss.Color("236"))
		}
		b.WriteString(style.Render(title) + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m model) renderChat(width int) string {
	var b strings.Builder
	msgs := m.coord.Transcript().Messages()

	maxRows := m.height - 6
	if maxRows < 4 {
		maxRows = 4
	}
	lines := make([]string, 0, len(msgs)*2)
	for _, msg := range msgs {
		var tag string
		if msg.Role == core.MessageRoleUser {
			tag = userRoleStyle.Render(" Ty ")
		} else {
			tag = assistantRoleStyle.Render(" AI ")
		}
		lines = append(lines, tag+" "+wrap(msg.Content, width-6))
	}
	if len(lines) > maxRows {
		lines = lines[len(lines)-maxRows:]
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func statusText(err error) string {
	switch {
	case errors.Is(err, session.ErrBusy):
		return "Poczekaj na zakończenie bieżącej operacji."
	case errors.Is(err, core.ErrNotFound):
		return "Nie znaleziono rozmowy."
	default:
		return fmt.Sprintf("Błąd: %v", err)
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		if i > 0 {
			if lineLen+1+len([]rune(w)) > width {
				b.WriteString("\n     ")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += len([]rune(w))
	}
	return b.String()
}
