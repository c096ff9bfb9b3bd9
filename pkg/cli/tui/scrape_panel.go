package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scrape-panel-go/pkg/panel"
	"scrape-panel-go/pkg/utils"
)

const (
	defaultWidth         = 80
	defaultPreviewHeight = 12
)

// scrapePanelModel is the Bubble Tea page: a URL form, a status line, a
// preview of the latest scraped data and the chatbot placeholder.
// Update runs on Bubble Tea's single event loop, so the model owns its
// state without locks.
type scrapePanelModel struct {
	client   panel.Client
	interval time.Duration
	log      *zap.Logger

	urlInput textinput.Model
	preview  viewport.Model
	width    int

	status      string
	previewText string
	pollErr     error
	inputErr    error
	inflight    int

	showHelp bool
	closed   bool
}

// NewScrapePanel creates the page model. Polling starts with Init.
func NewScrapePanel(client panel.Client, interval time.Duration, log *zap.Logger) tea.Model {
	if interval <= 0 {
		interval = panel.DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "Enter website URL"
	urlInput.Focus()
	urlInput.CharLimit = 0 // submitted verbatim, never truncated
	urlInput.Width = 56

	m := &scrapePanelModel{
		client:   client,
		interval: interval,
		log:      log,
		urlInput: urlInput,
		preview:  viewport.New(defaultWidth-4, defaultPreviewHeight),
		width:    defaultWidth,
	}
	return m
}

func (m *scrapePanelModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.scheduleTick())
}

func (m *scrapePanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pollTickMsg:
		if m.closed {
			return m, nil
		}
		// The next tick is armed now, not after the fetch returns.
		return m, tea.Batch(m.fetchPreview(), m.scheduleTick())

	case previewLoadedMsg:
		if m.closed {
			return m, nil
		}
		if msg.err != nil {
			m.pollErr = msg.err
			return m, nil
		}
		m.pollErr = nil
		if msg.text != "" {
			m.previewText = msg.text
			m.refreshPreview()
		}
		return m, nil

	case scrapeDoneMsg:
		if m.closed {
			return m, nil
		}
		m.inflight--
		m.status = msg.status
		m.log.Debug("status updated", zap.String("submission_id", msg.id.String()), zap.Int("inflight", m.inflight))
		return m, nil
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m *scrapePanelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "f1", "esc", "q":
			m.showHelp = false
		case "ctrl+c":
			return m.teardown()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m.teardown()
	case "f1":
		m.showHelp = true
		return m, nil
	case "enter":
		return m, m.submit()
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	if m.inputErr != nil && strings.TrimSpace(m.urlInput.Value()) != "" {
		m.inputErr = nil
	}
	return m, cmd
}

// teardown stops the poll chain; responses still in flight are dropped
func (m *scrapePanelModel) teardown() (tea.Model, tea.Cmd) {
	m.closed = true
	m.log.Info("panel closed", zap.Int("inflight_submissions", m.inflight))
	return m, tea.Quit
}

// submit validates the input and fires one scrape request. Earlier
// submissions are not cancelled; whichever response arrives last sets
// the status line.
func (m *scrapePanelModel) submit() tea.Cmd {
	url, err := utils.ValidateURL(m.urlInput.Value())
	if err != nil {
		m.inputErr = err
		return nil
	}
	m.inputErr = nil
	m.status = panel.StatusScraping
	m.inflight++

	id := uuid.New()
	client := m.client
	log := m.log.With(zap.String("submission_id", id.String()), zap.String("url", url))
	log.Info("submitting scrape")

	return func() tea.Msg {
		resp, err := client.Scrape(context.Background(), url)
		if err != nil {
			log.Warn("scrape request failed", zap.Error(err))
		} else {
			log.Info("scrape finished", zap.String("backend_status", resp.Status))
		}
		return scrapeDoneMsg{id: id, status: panel.StatusFor(resp, err)}
	}
}

func (m *scrapePanelModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func (m *scrapePanelModel) fetchPreview() tea.Cmd {
	client := m.client
	log := m.log
	return func() tea.Msg {
		data, err := client.ScrapedData(context.Background())
		if err != nil {
			log.Warn("poll failed", zap.Error(err))
			return previewLoadedMsg{err: err}
		}
		return previewLoadedMsg{text: data.Text()}
	}
}

func (m *scrapePanelModel) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	m.width = width

	m.urlInput.Width = max(width-24, 10)

	// title, form, status, borders, chatbot box and footer take ~16 rows
	previewHeight := defaultPreviewHeight
	if height > 0 {
		previewHeight = max(height-16, 3)
	}
	m.preview.Width = max(width-4, 10)
	m.preview.Height = previewHeight
	m.refreshPreview()
}

func (m *scrapePanelModel) refreshPreview() {
	wrapped := lipgloss.NewStyle().Width(m.preview.Width).Render(m.previewText)
	m.preview.SetContent(wrapped)
}

func (m *scrapePanelModel) View() string {
	if m.showHelp {
		return renderHelpOverlay(m.width)
	}

	var b strings.Builder

	b.WriteString(renderTitle("Website Scraper + Chatbot"))
	b.WriteString(renderDivider(min(m.width, 60)))
	b.WriteString("\n\n")

	b.WriteString(fieldLabelStyle.Render("URL:"))
	b.WriteString(m.urlInput.View())
	b.WriteString("  " + buttonStyle.Render("Scrape") + "\n")
	if m.inputErr != nil {
		b.WriteString(renderWarning("Enter URL!") + "\n")
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(renderStatus(m.status) + "\n\n")
	}

	if m.previewText == "" {
		b.WriteString(previewBoxStyle.Render(mutedStyle.Render("No scraped data yet.")))
	} else {
		b.WriteString(previewBoxStyle.Render(m.preview.View()))
	}
	b.WriteString("\n")

	if m.pollErr != nil {
		b.WriteString(renderWarning("Last poll failed: "+m.pollErr.Error()) + "\n")
	}

	if m.previewText != "" {
		b.WriteString(chatbotBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			boldStyle.Render("Chatbot ready with scraped data!"),
			mutedStyle.Render("Chat is not wired up yet; the preview above will be its context."),
		)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter scrape • ↑/↓ scroll preview • F1 help • Esc quit"))
	b.WriteString("\n")

	return b.String()
}

// renderStatus colors the status line by outcome
func renderStatus(status string) string {
	switch {
	case panel.IsComplete(status):
		return renderSuccess(status)
	case status == panel.StatusScraping:
		return infoStyle.Render("⏳ " + status)
	case strings.HasPrefix(status, "Error: "), strings.HasPrefix(status, "Fetch error: "):
		return renderError(status)
	default:
		return status
	}
}
