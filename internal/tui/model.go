package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"

	"filechat/internal/domain"
	"filechat/internal/service"
)

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	Ask(st *service.SessionState, query string) string
	UploadPaths(st *service.SessionState, paths []string) ([]domain.Preview, error)
	Previews(st *service.SessionState) []domain.Preview
	Summarize(st *service.SessionState, name string) (string, error)
	Capabilities() domain.Capabilities
}

// CorpusReloadedMsg tells the model that the corpus was replaced outside
// the UI, e.g. by the directory watcher.
type CorpusReloadedMsg struct {
	Previews []domain.Preview
	Err      error
}

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryNote
)

type entry struct {
	kind entryKind
	text string
}

const helpText = `Type a question and press Enter. Commands:
  /upload <files...>  index files (globs and directories work); replaces the current files.
                      Quote paths that contain spaces: /upload "my notes.txt"
  /files              show the indexed files with previews
  /summary [file]     summarize one file, or all of them
  /help               show this help
  /quit               exit`

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   RAGPort
	session   *service.SessionState
	input     textinput.Model
	viewport  viewport.Model
	entries   []entry
	status    string
	ready     bool
	highlight *regexp.Regexp
}

// New creates a new TUI model instance. marker is the string the composer
// wraps highlighted words in.
func New(svc RAGPort, st *service.SessionState, marker string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the uploaded files, or /help"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{
		service:   svc,
		session:   st,
		input:     ti,
		viewport:  vp,
		highlight: regexp.MustCompile(regexp.QuoteMeta(marker) + `([\p{L}\p{N}_]+)` + regexp.QuoteMeta(marker)),
	}
	if st.Status() == service.StatusNoFiles {
		m.note("No files uploaded yet. Upload files with /upload so the assistant can answer using their contents.")
	} else {
		m.notePreviews(svc.Previews(st))
	}
	m.refreshStatus()
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input line
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refreshViewport()
		return m, nil
	case CorpusReloadedMsg:
		if msg.Err != nil {
			m.note("Reload failed: " + msg.Err.Error())
		} else {
			m.note("Files changed on disk; re-indexed.")
			m.notePreviews(msg.Previews)
		}
		m.refreshStatus()
		m.refreshViewport()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.Reset()
			cmd := m.submit(line)
			m.refreshStatus()
			m.refreshViewport()
			return m, cmd
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs one line of user input.
func (m *Model) submit(line string) tea.Cmd {
	if !strings.HasPrefix(line, "/") {
		m.entries = append(m.entries, entry{entryUser, line})
		m.entries = append(m.entries, entry{entryAssistant, m.service.Ask(m.session, line)})
		return nil
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return tea.Quit
	case "/help":
		m.note(helpText)
	case "/upload":
		args, err := shlex.Split(strings.TrimPrefix(line, "/upload"))
		if err != nil {
			m.note("Cannot parse paths: " + err.Error())
			return nil
		}
		if len(args) == 0 {
			m.note("Usage: /upload <files...>")
			return nil
		}
		previews, err := m.service.UploadPaths(m.session, args)
		if err != nil {
			m.note("Upload failed: " + err.Error())
			return nil
		}
		m.notePreviews(previews)
	case "/files":
		previews := m.service.Previews(m.session)
		if len(previews) == 0 {
			m.note("No files uploaded yet.")
			return nil
		}
		for _, p := range previews {
			m.note(fmt.Sprintf("%s (%d chunks)\n%s", p.Name, p.ChunkCount, p.Text))
		}
	case "/summary":
		name := strings.TrimSpace(strings.TrimPrefix(line, "/summary"))
		summary, err := m.service.Summarize(m.session, name)
		if err != nil {
			m.note("Cannot summarize: " + err.Error())
			return nil
		}
		m.entries = append(m.entries, entry{entryAssistant, summary})
	default:
		m.note(fmt.Sprintf("Unknown command %s. Type /help for the list.", fields[0]))
	}
	return nil
}

func (m *Model) note(text string) {
	m.entries = append(m.entries, entry{entryNote, text})
}

func (m *Model) notePreviews(previews []domain.Preview) {
	var b strings.Builder
	fmt.Fprintf(&b, "Indexed %d file(s):", len(previews))
	for _, p := range previews {
		fmt.Fprintf(&b, "\n  %s (%d chunks)", p.Name, p.ChunkCount)
		if !p.Available {
			fmt.Fprintf(&b, " - could not extract a preview: %s", p.Reason)
		}
	}
	m.note(b.String())
}

func (m *Model) refreshStatus() {
	caps := m.service.Capabilities()
	files := "no files"
	if n := len(m.service.Previews(m.session)); n > 0 {
		files = fmt.Sprintf("%d file(s) indexed", n)
	}
	m.status = fmt.Sprintf("%s | pdf: %s | docx: %s", files, onOff(caps.PDF), onOff(caps.DOCX))
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("File Chat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		switch e.kind {
		case entryUser:
			parts = append(parts, userStyle.Render("You: ")+e.text)
		case entryAssistant:
			parts = append(parts, assistantStyle.Render("Assistant: ")+m.renderHighlights(e.text))
		default:
			parts = append(parts, noteStyle.Render(e.text))
		}
	}
	return strings.Join(parts, "\n\n")
}

// renderHighlights replaces marker-wrapped words with styled words.
func (m Model) renderHighlights(text string) string {
	return m.highlight.ReplaceAllStringFunc(text, func(s string) string {
		return highlightStyle.Render(m.highlight.FindStringSubmatch(s)[1])
	})
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noteStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
