package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/neha-pm/npc-learn/internal/client"
	"github.com/neha-pm/npc-learn/internal/config"
	"github.com/neha-pm/npc-learn/pkg/wire"
	"github.com/neha-pm/npc-learn/pkg/world"
	"github.com/neha-pm/npc-learn/pkg/zone"
)

const feedPanelWidth = 34

// ConsoleUI is the BubbleTea model that runs the party view.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *config.ConsoleConfig
	api      *client.API
	stream   *client.Stream
	recaller *client.Recaller
	store    *world.Store
	feed     *world.Feed
	logger   *slog.Logger

	feedViewport viewport.Model
	ready        bool
	width        int
	height       int
	err          error

	// Drag state. dragID is -1 when no drag is active; dragMoved
	// distinguishes a drag from a plain click on release.
	dragID    int
	dragMoved bool

	// hoverID is the record under the cursor, -1 when none. Hovering
	// prefetches memories through the recaller cache.
	hoverID int

	// Detail modal state
	showDetailModal bool
	detailID        int
	detailName      string
	detailMemories  []string
	loadingRecall   bool
	copied          bool

	// Quit confirmation state
	showQuitModal bool
}

type frameMsg struct {
	frame wire.Frame
	ok    bool
}

type snapshotMsg struct {
	rows []wire.SnapshotRow
}

type recallMsg struct {
	id       int
	name     string
	memories []string
	err      error
}

type resetMsg struct {
	err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	feedPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(1).
			PaddingRight(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240"))

	feedEntryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	statusClosedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")). // red
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *config.ConsoleConfig, api *client.API, stream *client.Stream, logger *slog.Logger) ConsoleUI {
	store := world.NewStore(80, 24)

	fv := viewport.New(feedPanelWidth-3, 20)
	fv.MouseWheelEnabled = true

	return ConsoleUI{
		config:       cfg,
		api:          api,
		stream:       stream,
		recaller:     client.NewRecaller(api, store, logger),
		store:        store,
		feed:         world.NewFeed(cfg.FeedCapacity),
		logger:       logger,
		feedViewport: fv,
		dragID:       -1,
		hoverID:      -1,
		detailID:     -1,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.loadSnapshot(), m.waitForFrame())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showDetailModal {
		return m.updateDetailModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.store.Resize(float64(m.canvasWidth()), float64(m.canvasHeight()))
		m.feedViewport.Width = feedPanelWidth - 3
		m.feedViewport.Height = m.height - 4
		m.writeFeedContent()
		m.ready = true

	case frameMsg:
		if !msg.ok {
			// Stream ended; the canvas freezes at last-known state.
			return m, nil
		}
		if msg.frame.Reset {
			m.store.ApplyReset()
			return m, tea.Batch(m.loadSnapshot(), m.waitForFrame())
		}
		m.applyUpdate(msg.frame.Update)
		return m, m.waitForFrame()

	case snapshotMsg:
		m.store.ApplySnapshot(msg.rows)

	case recallMsg:
		m.loadingRecall = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if _, ok := m.store.Get(msg.id); !ok {
			// A reset removed the record while the query was in
			// flight; there is nothing left to show.
			return m, nil
		}
		m.showDetailModal = true
		m.detailID = msg.id
		m.detailName = msg.name
		m.detailMemories = msg.memories
		m.copied = false

	case resetMsg:
		if msg.err != nil {
			m.err = msg.err
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		default:
			switch msg.String() {
			case "q":
				m.showQuitModal = true
				return m, nil
			case "r":
				m.err = nil
				return m, m.resetWorld()
			}
		}
	}

	var fvCmd tea.Cmd
	m.feedViewport, fvCmd = m.feedViewport.Update(msg)
	return m, fvCmd
}

// applyUpdate feeds one stream update into the store and, when the NPC
// entered a recognized zone, records it in the activity feed.
func (m *ConsoleUI) applyUpdate(u wire.Update) {
	m.store.ApplyUpdate(u)
	if z, known := zone.Parse(u.Zone); known {
		if n, ok := m.store.Get(u.ID); ok {
			m.feed.Add(world.FeedEntry(z, n.DisplayName()))
			m.writeFeedContent()
		}
	}
}

func (m *ConsoleUI) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := msg.X, msg.Y

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			break
		}
		if id, ok := m.npcAt(x, y); ok {
			m.dragID = id
			m.dragMoved = false
		}

	case tea.MouseActionMotion:
		if m.dragID >= 0 {
			m.dragMoved = true
			m.store.SetPosition(m.dragID, float64(x), float64(y))
			break
		}
		// Hovering a new record prefetches its memories so the detail
		// view opens instantly on click.
		if id, ok := m.npcAt(x, y); ok {
			if id != m.hoverID {
				m.hoverID = id
				return m, m.prefetch(id)
			}
		} else {
			m.hoverID = -1
		}

	case tea.MouseActionRelease:
		if m.dragID < 0 {
			break
		}
		id := m.dragID
		m.dragID = -1
		if m.dragMoved {
			m.store.SetPosition(id, float64(x), float64(y))
			return m, m.savePosition(id, float64(x), float64(y))
		}
		// A press-release without motion is a click: open the detail
		// view, querying memories on first interaction only.
		m.loadingRecall = true
		m.err = nil
		return m, m.recall(id)
	}

	var fvCmd tea.Cmd
	m.feedViewport, fvCmd = m.feedViewport.Update(msg)
	return m, fvCmd
}

// npcAt hit-tests the canvas. A record is hit on its marker cell or on
// the name text rendered to its right.
func (m *ConsoleUI) npcAt(x, y int) (int, bool) {
	for _, n := range m.store.Read() {
		nx := int(math.Round(n.X))
		ny := int(math.Round(n.Y))
		if y != ny {
			continue
		}
		if x >= nx && x <= nx+len(n.DisplayName())+2 {
			return n.ID, true
		}
	}
	return -1, false
}

func (m *ConsoleUI) writeFeedContent() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ACTIVITY") + "\n\n")

	entries := m.feed.Entries()
	if len(entries) == 0 {
		content.WriteString(promptStyle.Render("Nothing yet.") + "\n")
	}
	for _, entry := range entries {
		content.WriteString(feedEntryStyle.Render(entry) + "\n")
	}
	m.feedViewport.SetContent(content.String())
}

func (m ConsoleUI) canvasWidth() int {
	w := m.width - feedPanelWidth
	if w < 20 {
		w = 20
	}
	return w
}

func (m ConsoleUI) canvasHeight() int {
	h := m.height - 2
	if h < 10 {
		h = 10
	}
	return h
}

func (m ConsoleUI) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
		defer cancel()
		return snapshotMsg{rows: m.api.Snapshot(ctx)}
	}
}

func (m ConsoleUI) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-m.stream.Frames()
		return frameMsg{frame: frame, ok: ok}
	}
}

func (m ConsoleUI) savePosition(id int, x, y float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
		defer cancel()
		m.api.SavePosition(ctx, id, x, y)
		return nil
	}
}

func (m ConsoleUI) recall(id int) tea.Cmd {
	name := ""
	if n, ok := m.store.Get(id); ok {
		name = n.DisplayName()
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
		defer cancel()
		memories, err := m.recaller.Recall(ctx, id)
		return recallMsg{id: id, name: name, memories: memories, err: err}
	}
}

// prefetch warms the memory cache for a hovered record. Errors are
// swallowed; the click path reports them if the user follows through.
func (m ConsoleUI) prefetch(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
		defer cancel()
		if _, err := m.recaller.Recall(ctx, id); err != nil {
			m.logger.Debug("hover prefetch failed", "id", id, "error", err)
		}
		return nil
	}
}

func (m ConsoleUI) resetWorld() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
		defer cancel()
		// On success the RESET frame arrives on the stream and clears
		// the local state; nothing to do here.
		return resetMsg{err: m.api.Reset(ctx)}
	}
}

func (m ConsoleUI) updateDetailModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		// The stream keeps flowing behind the modal.
		if !msg.ok {
			return m, nil
		}
		if msg.frame.Reset {
			m.store.ApplyReset()
			m.showDetailModal = false
			return m, tea.Batch(m.loadSnapshot(), m.waitForFrame())
		}
		m.applyUpdate(msg.frame.Update)
		return m, m.waitForFrame()

	case snapshotMsg:
		m.store.ApplySnapshot(msg.rows)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEsc, tea.KeyEnter:
			m.showDetailModal = false
			return m, nil
		default:
			if msg.String() == "c" {
				if err := clipboard.WriteAll(strings.Join(m.detailMemories, "\n")); err != nil {
					m.err = err
				} else {
					m.copied = true
				}
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		// The stream keeps flowing while the user decides.
		if !msg.ok {
			return m, nil
		}
		if msg.frame.Reset {
			m.store.ApplyReset()
			return m, tea.Batch(m.loadSnapshot(), m.waitForFrame())
		}
		m.applyUpdate(msg.frame.Update)
		return m, m.waitForFrame()

	case snapshotMsg:
		m.store.ApplySnapshot(msg.rows)

	case recallMsg:
		// The result is already cached on the record; just stop the
		// spinner.
		m.loadingRecall = false

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Party?"))
	content.WriteString("\n\n")
	content.WriteString("The guests will carry on without you.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to stay, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderDetailModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	wrapWidth := 52
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(m.detailName))
	content.WriteString("\n\n")

	if len(m.detailMemories) == 0 {
		content.WriteString(promptStyle.Render("No memories yet."))
	} else {
		for _, memory := range m.detailMemories {
			content.WriteString("• " + wordwrap.String(memory, wrapWidth-2) + "\n")
		}
	}

	content.WriteString("\n")
	if m.copied {
		content.WriteString(loadingStyle.Render("Copied to clipboard.") + "\n")
	}
	content.WriteString(promptStyle.Render("Press C to copy, Esc to close"))

	modal := modalStyle.Width(wrapWidth + 4).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) statusLine() string {
	state := m.stream.State()
	stateText := statusStyle.Render("stream: " + state.String())
	if state == client.StreamClosed {
		stateText = statusClosedStyle.Render("stream: closed (frozen)")
	}

	parts := []string{
		stateText,
		statusStyle.Render(fmt.Sprintf("guests: %d", m.store.Len())),
		statusStyle.Render("drag to move • click for memories • R reset • Q quit"),
	}
	if n, ok := m.store.Get(m.hoverID); ok && m.hoverID >= 0 {
		parts = append(parts, statusStyle.Render("hovering: "+n.DisplayName()))
	}
	if m.loadingRecall {
		parts = append(parts, loadingStyle.Render("recalling..."))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render("error: "+m.err.Error()))
	}
	return strings.Join(parts, statusStyle.Render("  │  "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showDetailModal {
		return m.renderDetailModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	canvas := renderCanvas(m.store, m.canvasWidth(), m.canvasHeight(), m.dragID)

	feedPanel := feedPanelStyle.Width(feedPanelWidth - 1).Height(m.height - 2).Render(
		m.feedViewport.View(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, feedPanel)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}
