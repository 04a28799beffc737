package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"

	"docchat/internal/api"
	"docchat/internal/app"
	"docchat/internal/workflow"
)

type view int

const (
	viewUpload view = iota
	viewChat
	viewHistory
)

type keymap struct {
	Quit    key.Binding
	History key.Binding
	Upload  key.Binding
	Retry   key.Binding
	Back    key.Binding
	Select  key.Binding
}

func newKeymap() keymap {
	return keymap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		History: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		Upload:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new upload")),
		Retry:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry session")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	}
}

// Model is the root bubbletea model. The orchestrator owns all workflow
// state; the model only mirrors snapshots of it and routes key presses into
// orchestrator calls.
type Model struct {
	app    *app.Application
	theme  Theme
	keys   keymap
	md     *MarkdownRenderer
	view   view
	width  int
	height int

	// upload + progress
	pathInput textinput.Model
	bar       progress.Model
	spin      spinner.Model
	uploading bool

	// chat
	input      textarea.Model
	transcript viewport.Model
	sending    bool

	// history
	docList   list.Model
	entry     *workflow.HistoryEntry
	historyVP viewport.Model

	status    string
	statusBad bool
}

func New(application *app.Application, initialFile string) *Model {
	theme := NewTheme()

	pi := textinput.New()
	pi.Placeholder = "path to a PDF, e.g. ~/papers/report.pdf"
	pi.Focus()
	pi.CharLimit = 512
	pi.SetValue(initialFile)

	ta := textarea.New()
	ta.Placeholder = "Ask about the document... (/sources <query>, /save)"
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.Prompt = "▍ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.StatusWarn

	dl := list.New(nil, list.NewDefaultDelegate(), 40, 20)
	dl.Title = "Uploaded documents"
	dl.SetShowStatusBar(false)
	dl.SetFilteringEnabled(false)

	return &Model{
		app:        application,
		theme:      theme,
		keys:       newKeymap(),
		md:         NewMarkdownRenderer(theme),
		view:       viewUpload,
		pathInput:  pi,
		input:      ta,
		bar:        progress.New(progress.WithDefaultGradient()),
		spin:       sp,
		docList:    dl,
		transcript: viewport.New(80, 20),
		historyVP:  viewport.New(80, 20),
		status:     "Select a PDF to upload",
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.listenCmd())
}

// --- messages ---

type flowEventMsg workflow.Event

type uploadResultMsg struct {
	id  string
	err error
}

type sendResultMsg struct {
	err error
}

type historyLoadedMsg struct {
	err error
}

type docsLoadedMsg struct {
	docs []api.DocumentInfo
	err  error
}

type transcriptsLoadedMsg struct {
	entry *workflow.HistoryEntry
	err   error
}

type sessionRetryMsg struct {
	err error
}

type evidenceMsg struct {
	passages []api.Passage
	err      error
}

type transcriptSavedMsg struct {
	path string
	err  error
}

// --- commands ---

func (m *Model) listenCmd() tea.Cmd {
	return func() tea.Msg {
		return flowEventMsg(<-m.app.Flow.Events())
	}
}

func (m *Model) submitCmd(path string) tea.Cmd {
	return func() tea.Msg {
		id, err := m.app.Flow.Submit(context.Background(), path)
		return uploadResultMsg{id: id, err: err}
	}
}

func (m *Model) sendCmd(sessionID, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Flow.Send(context.Background(), sessionID, text)
		return sendResultMsg{err: err}
	}
}

func (m *Model) loadHistoryCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Flow.LoadHistory(context.Background(), sessionID)
		return historyLoadedMsg{err: err}
	}
}

func (m *Model) listDocsCmd() tea.Cmd {
	return func() tea.Msg {
		docs, err := m.app.Flow.ListDocuments(context.Background())
		return docsLoadedMsg{docs: docs, err: err}
	}
}

func (m *Model) loadTranscriptsCmd(documentID string) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.app.Flow.LoadTranscripts(context.Background(), documentID)
		return transcriptsLoadedMsg{entry: entry, err: err}
	}
}

func (m *Model) retrySessionCmd(documentID string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Flow.StartSession(context.Background(), documentID)
		return sessionRetryMsg{err: err}
	}
}

func (m *Model) evidenceCmd(documentID, query string) tea.Cmd {
	return func() tea.Msg {
		passages, err := m.app.Flow.Evidence(context.Background(), documentID, query)
		return evidenceMsg{passages: passages, err: err}
	}
}

func (m *Model) saveTranscriptCmd() tea.Cmd {
	return func() tea.Msg {
		st := m.app.Flow.Snapshot()
		if st.Session == nil {
			return transcriptSavedMsg{err: &workflow.ValidationError{Reason: "no active session"}}
		}
		name := ""
		if st.Document != nil {
			name = st.Document.Name
		}
		path, err := m.app.Transcripts.Save(name, st.Session)
		return transcriptSavedMsg{path: path, err: err}
	}
}

// --- update ---

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case flowEventMsg:
		return m.onFlowEvent(workflow.Event(msg))

	case uploadResultMsg:
		m.uploading = false
		if errors.Is(msg.err, workflow.ErrSuperseded) {
			// A newer upload owns the workflow now; its result speaks.
			return m, nil
		}
		if msg.err != nil {
			m.setStatus("Upload failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus("Processing document...", false)
		return m, nil

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			// Input stays intact so the user can retry without retyping.
			m.setStatus("Send failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.input.Reset()
		m.setStatus("", false)
		m.refreshTranscript()
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.setStatus("Could not load history: "+msg.err.Error(), true)
			return m, nil
		}
		m.refreshTranscript()
		return m, nil

	case docsLoadedMsg:
		if msg.err != nil {
			m.setStatus("Could not list documents: "+msg.err.Error(), true)
			return m, nil
		}
		m.docList.SetItems(docItems(msg.docs, m.app.Flow.SelectedDocument()))
		return m, nil

	case transcriptsLoadedMsg:
		if msg.err != nil {
			m.setStatus("Could not load transcripts: "+msg.err.Error(), true)
			return m, nil
		}
		m.entry = msg.entry
		m.historyVP.SetContent(m.renderHistoryEntry())
		m.historyVP.GotoTop()
		m.docList.SetItems(docItems(m.app.Flow.CachedDocuments(), m.app.Flow.SelectedDocument()))
		return m, nil

	case sessionRetryMsg:
		if msg.err != nil {
			m.setStatus("Session retry failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.view = viewChat
		m.setStatus("Session ready", false)
		return m, m.input.Focus()

	case evidenceMsg:
		if msg.err != nil {
			m.setStatus("Retrieval failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.appendEvidence(msg.passages)
		return m, nil

	case transcriptSavedMsg:
		if msg.err != nil {
			m.setStatus("Save failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus("Transcript saved to "+msg.path, false)
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) onFlowEvent(ev workflow.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listenCmd()}
	switch ev.Kind {
	case workflow.EventProgress:
		m.setStatus("Processing document...", false)
	case workflow.EventDocumentReady:
		m.setStatus("Processing complete, opening session...", false)
	case workflow.EventSessionStarted:
		m.setStatus("Session ready", false)
		cmds = append(cmds, m.loadHistoryCmd(ev.SessionID))
		// Don't yank the user out of the history browser mid-browse; the
		// chat is one keypress away once they are done.
		if m.view == viewUpload {
			m.view = viewChat
			cmds = append(cmds, m.input.Focus())
		}
	case workflow.EventSessionFailed:
		m.setStatus("Could not start session: "+ev.Err.Error()+" (ctrl+r to retry)", true)
	case workflow.EventPollFailed:
		m.setStatus("Processing failed: "+ev.Err.Error()+" — upload again to retry", true)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.app.Flow.CancelPolling()
		return m, tea.Quit
	}

	switch m.view {
	case viewUpload:
		switch {
		case key.Matches(msg, m.keys.History):
			m.view = viewHistory
			return m, m.listDocsCmd()
		case key.Matches(msg, m.keys.Select):
			if m.uploading {
				return m, nil
			}
			path := strings.TrimSpace(m.pathInput.Value())
			m.uploading = true
			m.setStatus("Uploading...", false)
			return m, m.submitCmd(path)
		}

	case viewChat:
		switch {
		case key.Matches(msg, m.keys.History):
			m.view = viewHistory
			return m, m.listDocsCmd()
		case key.Matches(msg, m.keys.Upload):
			m.view = viewUpload
			return m, m.pathInput.Focus()
		case key.Matches(msg, m.keys.Retry):
			if st := m.app.Flow.Snapshot(); st.Document != nil && st.Session == nil {
				return m, m.retrySessionCmd(st.Document.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			return m.submitChatInput()
		}

	case viewHistory:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.History):
			if m.app.Flow.Snapshot().Session != nil {
				m.view = viewChat
				return m, m.input.Focus()
			}
			m.view = viewUpload
			return m, m.pathInput.Focus()
		case key.Matches(msg, m.keys.Upload):
			m.view = viewUpload
			return m, m.pathInput.Focus()
		case key.Matches(msg, m.keys.Select):
			if it, ok := m.docList.SelectedItem().(docItem); ok {
				return m, m.loadTranscriptsCmd(it.info.ID)
			}
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

// submitChatInput routes plain text to Send and slash commands to their
// handlers. The send action is disabled while a send is outstanding so two
// paired appends can never interleave.
func (m *Model) submitChatInput() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	st := m.app.Flow.Snapshot()
	if st.Session == nil {
		m.setStatus("No active session", true)
		return m, nil
	}
	text := m.input.Value()
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "/sources") {
		query := strings.TrimSpace(strings.TrimPrefix(trimmed, "/sources"))
		m.input.Reset()
		return m, m.evidenceCmd(st.Session.DocumentID, query)
	}
	if trimmed == "/save" {
		m.input.Reset()
		return m, m.saveTranscriptCmd()
	}
	if trimmed == "" {
		m.setStatus("Type a message first", true)
		return m, nil
	}

	m.sending = true
	m.setStatus("Waiting for reply...", false)
	return m, m.sendCmd(st.Session.ID, text)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewUpload:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case viewChat:
		m.input, cmd = m.input.Update(msg)
	case viewHistory:
		var cmds []tea.Cmd
		m.docList, cmd = m.docList.Update(msg)
		cmds = append(cmds, cmd)
		m.historyVP, cmd = m.historyVP.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
	return m, cmd
}

func (m *Model) setStatus(text string, bad bool) {
	m.status = text
	m.statusBad = bad
}

func (m *Model) resize(w, h int) {
	m.width = w
	m.height = h
	m.pathInput.Width = min(w-8, 100)
	m.input.SetWidth(w - 6)
	m.bar.Width = min(w-12, 60)
	m.transcript.Width = w - 4
	m.transcript.Height = max(h-10, 5)
	m.historyVP.Width = w/2 - 2
	m.historyVP.Height = max(h-8, 5)
	m.docList.SetSize(w/2-2, max(h-8, 5))
}

// refreshTranscript re-renders the chat viewport from the orchestrator
// snapshot, which is the single source of truth for the message sequence.
func (m *Model) refreshTranscript() {
	st := m.app.Flow.Snapshot()
	if st.Session == nil {
		m.transcript.SetContent("")
		return
	}
	m.transcript.SetContent(m.renderMessages(st.Session.Messages))
	m.transcript.GotoBottom()
}

func (m *Model) appendEvidence(passages []api.Passage) {
	var b strings.Builder
	st := m.app.Flow.Snapshot()
	if st.Session != nil {
		b.WriteString(m.renderMessages(st.Session.Messages))
	}
	b.WriteString("\n" + m.theme.Faint.Render("Sources:") + "\n")
	for _, p := range passages {
		b.WriteString(m.theme.Faint.Render("  p."+strconv.Itoa(p.Page)+" ") + p.Text + "\n")
	}
	m.transcript.SetContent(b.String())
	m.transcript.GotoBottom()
}
