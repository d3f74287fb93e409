// Package tui provides the Bubble Tea memory-game interface.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/hanmaum/pairo/internal/round"
	"github.com/hanmaum/pairo/internal/session"
)

const gridColumns = 4

const hiddenFace = "■"

type tickMsg struct {
	generation int
}

type resolveMsg struct {
	generation int
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	NewRound key.Binding
	Easier   key.Binding
	Harder   key.Binding
	Voice    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "flip tile")),
		NewRound: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new round")),
		Easier:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "easier")),
		Harder:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "harder")),
		Voice:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "voice on/off")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.NewRound, k.Easier, k.Harder, k.Voice, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.NewRound},
		{k.Easier, k.Harder, k.Voice, k.Quit},
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	hiddenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	revealedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	matchedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4F9D69"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	announceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB4CA")).Italic(true)
)

// Model implements the Bubble Tea game UI.
type Model struct {
	sess   *session.Session
	keys   keyMap
	help   help.Model
	width  int
	height int
	cursor int
}

// NewModel constructs the game TUI model.
func NewModel(sess *session.Session) *Model {
	return &Model{
		sess: sess,
		keys: defaultKeyMap(),
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd(m.sess.Generation())
}

func tickCmd(generation int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{generation: generation}
	})
}

func resolveCmd(pending session.Pending) tea.Cmd {
	return tea.Tick(pending.Delay, func(time.Time) tea.Msg {
		return resolveMsg{generation: pending.Generation}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.sess.Tick(msg.generation)
		m.clampCursor()
		return m, tickCmd(m.sess.Generation())
	case resolveMsg:
		m.sess.Resolve(msg.generation)
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.sess.Snapshot()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-gridColumns, len(snap.Deck))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(gridColumns, len(snap.Deck))
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, len(snap.Deck))
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, len(snap.Deck))
	case key.Matches(msg, m.keys.Select):
		pending := m.sess.SelectTile(m.cursor)
		if pending.Kind == session.PendingResolve {
			return m, resolveCmd(pending)
		}
	case key.Matches(msg, m.keys.NewRound):
		if !snap.InputLocked {
			if err := m.sess.StartNewRound(); err != nil {
				logErrf("failed to start round: %v\n", err)
			}
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Easier):
		if snap.LevelIndex > 0 {
			if err := m.sess.SetDifficulty(snap.LevelIndex - 1); err != nil {
				logErrf("failed to set difficulty: %v\n", err)
			}
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Harder):
		if snap.LevelIndex < snap.LevelCount-1 {
			if err := m.sess.SetDifficulty(snap.LevelIndex + 1); err != nil {
				logErrf("failed to set difficulty: %v\n", err)
			}
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Voice):
		m.sess.SetVoiceEnabled(!m.sess.VoiceEnabled())
	}
	return m, nil
}

func (m *Model) moveCursor(delta, deckSize int) {
	next := m.cursor + delta
	if next < 0 || next >= deckSize {
		return
	}
	m.cursor = next
}

// clampCursor keeps the cursor inside the deck after a round restart
// changed the grid size.
func (m *Model) clampCursor() {
	size := len(m.sess.Snapshot().Deck)
	if size == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= size {
		m.cursor = size - 1
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.sess.Snapshot()
	sections := []string{
		titleStyle.Render("pairo · 짝 맞추기"),
		"",
		renderGrid(snap, m.cursor),
		"",
		statusStyle.Render(renderStatus(snap)),
		announceStyle.Render(snap.LastAnnouncement),
		m.help.View(m.keys),
	}
	content := strings.Join(sections, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderGrid lays the deck out in fixed-width cells, gridColumns per
// row. Faces are double-width symbols, so cells pad by display width.
func renderGrid(snap session.Snapshot, cursor int) string {
	revealed := map[int]bool{}
	for _, i := range snap.Revealed {
		revealed[i] = true
	}
	var rows []string
	for start := 0; start < len(snap.Deck); start += gridColumns {
		var cells []string
		for i := start; i < start+gridColumns && i < len(snap.Deck); i++ {
			tile := snap.Deck[i]
			var face string
			var style lipgloss.Style
			switch {
			case tile.Matched:
				face, style = tile.Symbol, matchedStyle
			case revealed[i]:
				face, style = tile.Symbol, revealedStyle
			default:
				face, style = hiddenFace, hiddenStyle
			}
			cell := style.Render(padFace(face))
			if i == cursor {
				cell = cursorStyle.Render("[") + cell + cursorStyle.Render("]")
			} else {
				cell = " " + cell + " "
			}
			cells = append(cells, cell)
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

func padFace(face string) string {
	width := runewidth.StringWidth(face)
	if width >= 2 {
		return face
	}
	return face + strings.Repeat(" ", 2-width)
}

// renderStatus builds the one-line game status.
func renderStatus(snap session.Snapshot) string {
	voice := "voice off"
	if snap.VoiceEnabled {
		voice = "voice on"
	}
	segments := []string{
		fmt.Sprintf("Level %s (%d/%d)", snap.Level.ID, snap.LevelIndex+1, snap.LevelCount),
		fmt.Sprintf("Pairs %d/%d", snap.MatchedPairs, snap.Level.PairCount),
		fmt.Sprintf("Moves %d (target %d)", snap.Moves, snap.Level.TargetMoves),
		fmt.Sprintf("Time %ds/%ds", snap.Elapsed, snap.DeadlineSeconds),
		voice,
	}
	if strip := historyStrip(snap); strip != "" {
		segments = append(segments, strip)
	}
	if hint := phaseHint(snap.Phase); hint != "" {
		segments = append(segments, hint)
	}
	return strings.Join(segments, " · ")
}

func historyStrip(snap session.Snapshot) string {
	if len(snap.History) == 0 {
		return ""
	}
	var b strings.Builder
	for _, rec := range snap.History {
		if rec.Success {
			b.WriteRune('●')
		} else {
			b.WriteRune('○')
		}
	}
	return b.String()
}

func phaseHint(phase round.Phase) string {
	switch phase {
	case round.PhaseComplete:
		return "round complete, press n for a new round"
	case round.PhaseTimedOut:
		return "time over, press n to retry"
	}
	return ""
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
