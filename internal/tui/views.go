package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/api"
	"docchat/internal/workflow"
)

func (m *Model) View() string {
	var body string
	switch m.view {
	case viewUpload:
		body = m.viewUpload()
	case viewChat:
		body = m.viewChat()
	case viewHistory:
		body = m.viewHistory()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerLine(), body, m.footerLine())
}

func (m *Model) headerLine() string {
	title := m.theme.Title.Render("docchat")
	st := m.app.Flow.Snapshot()
	meta := ""
	if st.Document != nil {
		meta = fmt.Sprintf("%s · %s", st.Document.Name, st.Document.Status)
	}
	return m.theme.Header.Render(title + "  " + m.theme.Faint.Render(meta))
}

func (m *Model) footerLine() string {
	var parts []string
	switch m.view {
	case viewUpload:
		parts = []string{"enter upload", "tab history", "ctrl+c quit"}
	case viewChat:
		parts = []string{"enter send", "/sources <q>", "/save", "tab history", "ctrl+n new upload", "ctrl+c quit"}
	case viewHistory:
		parts = []string{"enter select/deselect", "esc back", "ctrl+n new upload", "ctrl+c quit"}
	}
	line := strings.Join(parts, " · ")
	if m.status != "" {
		style := m.theme.StatusOK
		if m.statusBad {
			style = m.theme.StatusErr
		}
		line = style.Render(m.status) + "  " + m.theme.Faint.Render(line)
	}
	return m.theme.Footer.Render(line)
}

func (m *Model) viewUpload() string {
	st := m.app.Flow.Snapshot()

	var b strings.Builder
	b.WriteString("\n")
	if st.Document == nil {
		b.WriteString(m.theme.Title.Render("Upload a PDF") + "\n\n")
		b.WriteString(m.theme.InputBox.Render(m.pathInput.View()) + "\n")
		return b.String()
	}

	switch st.Document.Status {
	case workflow.StatusUploading:
		b.WriteString(m.spin.View() + " Uploading " + st.Document.Name + "...\n")
	case workflow.StatusProcessing:
		b.WriteString("Processing " + st.Document.Name + "\n\n")
		b.WriteString("  " + m.bar.ViewAs(float64(st.Document.Progress)/100) + "\n")
		b.WriteString(m.theme.Faint.Render(fmt.Sprintf("  %d%%", st.Document.Progress)) + "\n")
	case workflow.StatusReady:
		b.WriteString(m.theme.StatusOK.Render("✓ "+st.Document.Name+" is ready") + "\n")
	case workflow.StatusFailed:
		b.WriteString(m.theme.StatusErr.Render("✗ "+st.Document.Name+" failed") + "\n\n")
		b.WriteString(m.theme.Title.Render("Upload another PDF") + "\n\n")
		b.WriteString(m.theme.InputBox.Render(m.pathInput.View()) + "\n")
	}
	return b.String()
}

func (m *Model) viewChat() string {
	var b strings.Builder
	b.WriteString(m.theme.Pane.Width(max(m.width-2, 20)).Render(m.transcript.View()) + "\n")
	b.WriteString(m.theme.InputBox.Width(max(m.width-2, 20)).Render(m.input.View()))
	return b.String()
}

func (m *Model) viewHistory() string {
	left := m.docList.View()
	right := m.theme.Pane.Render(m.historyVP.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) renderMessages(msgs []workflow.Message) string {
	if len(msgs) == 0 {
		return m.theme.Faint.Render("No messages yet. Ask something about the document.")
	}
	var b strings.Builder
	for _, msg := range msgs {
		if msg.Sender == workflow.SenderUser {
			b.WriteString(m.theme.SenderUser.Render("You") + "\n")
			b.WriteString(msg.Content + "\n\n")
			continue
		}
		b.WriteString(m.theme.SenderSystem.Render("System") + "\n")
		b.WriteString(m.md.Render(msg.Content) + "\n\n")
	}
	return b.String()
}

func (m *Model) renderHistoryEntry() string {
	if m.entry == nil {
		return m.theme.Faint.Render("Select a document to view its transcripts.")
	}
	var b strings.Builder
	name := m.entry.Document.Name
	if name == "" {
		name = m.entry.Document.ID
	}
	b.WriteString(m.theme.Title.Render(name) + "\n")
	if !m.entry.Document.Processed {
		b.WriteString(m.theme.StatusWarn.Render("processing never completed") + "\n")
	}
	if len(m.entry.Transcripts) == 0 {
		b.WriteString(m.theme.Faint.Render("No chat sessions recorded.") + "\n")
		return b.String()
	}
	for i, tr := range m.entry.Transcripts {
		b.WriteString("\n" + m.theme.Faint.Render(fmt.Sprintf("— session %d, %s —", i+1, tr.Session.StartedAt.Format("2006-01-02 15:04"))) + "\n")
		b.WriteString(m.renderMessages(tr.Messages))
	}
	return b.String()
}

// docItem adapts a listing row to the bubbles list.
type docItem struct {
	info     api.DocumentInfo
	selected bool
}

func (d docItem) Title() string {
	if d.selected {
		return "▸ " + d.info.Name
	}
	return d.info.Name
}

func (d docItem) Description() string {
	state := "unprocessed"
	if d.info.Processed {
		state = "processed"
	}
	if d.info.UploadedAt.IsZero() {
		return state
	}
	return state + " · " + d.info.UploadedAt.Format("2006-01-02")
}

func (d docItem) FilterValue() string { return d.info.Name }

func docItems(docs []api.DocumentInfo, selectedID string) []list.Item {
	items := make([]list.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, docItem{info: d, selected: d.ID == selectedID})
	}
	return items
}
