// Package tui provides the interactive chat terminal interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
)

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// answerMsg carries one completed pipeline response back to the model.
type answerMsg struct {
	resp *domain.ChatResponse
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	rag      driving.RAGService
	input    textinput.Model
	viewport viewport.Model
	messages []domain.ChatMessage
	sources  []domain.Source
	status   string
	waiting  bool
	ready    bool
}

// New creates a chat model.
func New(rag driving.RAGService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about financial literacy and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		rag:      rag,
		input:    ti,
		viewport: vp,
		status:   "Connected. Ask me anything about personal finance.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderConversation())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				break
			}
			m.messages = append(m.messages, domain.ChatMessage{
				Role:    domain.RoleUser,
				Content: question,
			})
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.viewport.SetContent(m.renderConversation())
			m.viewport.GotoBottom()
			return m, m.ask(m.messages)
		}

	case answerMsg:
		m.waiting = false
		m.messages = append(m.messages, domain.ChatMessage{
			Role:    domain.RoleAssistant,
			Content: msg.resp.Answer,
		})
		m.sources = msg.resp.Sources
		if msg.resp.Err != "" {
			m.status = "Something went wrong. See the answer above."
		} else if msg.resp.ContextUsed {
			m.status = fmt.Sprintf("Answered from %d document sources.", msg.resp.NumSources)
		} else {
			m.status = "Answered without document context."
		}
		m.viewport.SetContent(m.renderConversation())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("FinBot Chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

// ask runs the pipeline off the UI goroutine.
func (m Model) ask(messages []domain.ChatMessage) tea.Cmd {
	history := make([]domain.ChatMessage, len(messages))
	copy(history, messages)
	return func() tea.Msg {
		resp := m.rag.Chat(context.Background(), history, driving.QueryOptions{
			ScoreThreshold: -1,
			IncludeContext: true,
		})
		return answerMsg{resp: resp}
	}
}

func (m Model) renderConversation() string {
	if len(m.messages) == 0 {
		return "No messages yet. Ask your first question below."
	}

	var b strings.Builder
	for _, msg := range m.messages {
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(userStyle.Render("You: "))
		case domain.RoleAssistant:
			b.WriteString(assistantStyle.Render("FinBot: "))
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}

	if len(m.sources) > 0 {
		b.WriteString(sourceStyle.Render(renderSources(m.sources)))
	}
	return b.String()
}

func renderSources(sources []domain.Source) string {
	var b strings.Builder
	b.WriteString("Sources:\n")
	for i, s := range sources {
		name := "Unknown source"
		if v, ok := s.Metadata["filename"].(string); ok && v != "" {
			name = v
		}
		fmt.Fprintf(&b, "  %d. %s (score %.2f)\n", i+1, name, s.Score)
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
